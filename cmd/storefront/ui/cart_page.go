package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/types"
)

// CartPageModel shows the cart with per-line quantity controls.
type CartPageModel struct {
	width  int
	height int
	cursor int

	styles Styles
}

// NewCartPageModel creates the cart page.
func NewCartPageModel(styles Styles) CartPageModel {
	return CartPageModel{styles: styles}
}

// Update handles messages. Mutations go straight to the cart store, which
// persists synchronously, so the view always re-reads live state.
func (m CartPageModel) Update(msg tea.Msg, deps Deps) (CartPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		items := deps.Cart.Items()
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(items)-1 {
				m.cursor++
			}
		case "+", "=":
			if item, ok := m.selected(items); ok {
				deps.Cart.SetQuantity(item.ProductID, item.Quantity+1)
			}
		case "-", "_":
			// Quantity below one is not a removal; it is a no-op.
			if item, ok := m.selected(items); ok {
				deps.Cart.SetQuantity(item.ProductID, item.Quantity-1)
			}
		case "x", "delete", "backspace":
			if item, ok := m.selected(items); ok {
				deps.Cart.Remove(item.ProductID)
				if m.cursor >= len(items)-1 && m.cursor > 0 {
					m.cursor--
				}
			}
		case "X":
			deps.Cart.Clear()
			m.cursor = 0
		}
	}
	return m, nil
}

func (m CartPageModel) selected(items []types.CartItem) (types.CartItem, bool) {
	if m.cursor >= 0 && m.cursor < len(items) {
		return items[m.cursor], true
	}
	return types.CartItem{}, false
}

// View renders the page.
func (m CartPageModel) View(deps Deps) string {
	items := deps.Cart.Items()
	if len(items) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Title.Render("Your Cart"),
			"",
			m.styles.Muted.Render("Your cart is empty. Browse products and press + to add one."),
		)
	}

	sections := []string{m.styles.Title.Render("Your Cart"), ""}
	for i, item := range items {
		line := fmt.Sprintf("%-30s  ₹%.2f × %d = %s",
			item.Name, item.UnitPrice(), item.Quantity,
			m.styles.Price.Render(fmt.Sprintf("₹%.2f", item.LineTotal())))
		if i == m.cursor {
			line = m.styles.Title.Render("> ") + line
		} else {
			line = "  " + line
		}
		sections = append(sections, line)
	}

	sections = append(sections, "",
		fmt.Sprintf("%s %s (%d items)",
			m.styles.Label.Render("Total:"),
			m.styles.Price.Render(fmt.Sprintf("₹%.2f", deps.Cart.TotalPrice())),
			deps.Cart.TotalItems()),
		"",
		m.styles.Muted.Render(" • c: checkout • +/-: quantity • x: remove • X: empty cart"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the size.
func (m *CartPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}
