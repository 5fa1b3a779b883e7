package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/api"
	"storefront/internal/types"
)

// OrdersPageModel lists the signed-in user's order history, newest first.
type OrdersPageModel struct {
	width    int
	height   int
	viewport viewport.Model

	orders  []types.Order
	loading bool
	loadErr error

	styles Styles
}

// NewOrdersPageModel creates the order history page.
func NewOrdersPageModel(styles Styles) OrdersPageModel {
	return OrdersPageModel{
		viewport: viewport.New(0, 0),
		styles:   styles,
	}
}

// Load resets the page and returns the fetch command.
func (m *OrdersPageModel) Load(deps Deps) tea.Cmd {
	m.loading = true
	m.loadErr = nil
	return deps.loadOrders()
}

// Update handles messages.
func (m OrdersPageModel) Update(msg tea.Msg) (OrdersPageModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case ordersLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.orders = msg.orders
			m.viewport.SetContent(m.renderOrders())
			m.viewport.GotoTop()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m OrdersPageModel) renderOrders() string {
	table := NewSimpleTable("Order History", []string{"Order", "Date", "Status", "Items", "Total"})
	for _, o := range m.orders {
		table.AddRow(
			o.ID,
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.Status,
			fmt.Sprintf("%d", len(o.Items)),
			fmt.Sprintf("₹%.2f", o.TotalAmount),
		)
	}

	sections := []string{table.View(m.styles)}
	for _, o := range m.orders {
		lines := []string{m.styles.Title.Render(o.ID)}
		for _, item := range o.Items {
			lines = append(lines, fmt.Sprintf("  %s × %d  ₹%.2f", item.Name, item.Quantity, item.Price*float64(item.Quantity)))
		}
		if o.Address != nil {
			lines = append(lines, m.styles.Muted.Render(
				fmt.Sprintf("  Ship to: %s, %s, %s %s", o.Address.FullName, o.Address.City, o.Address.State, o.Address.Pincode)))
		}
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// View renders the page.
func (m OrdersPageModel) View() string {
	if m.loading {
		return m.styles.Muted.Render("Loading orders…")
	}
	if m.loadErr != nil {
		return m.styles.Error.Render("Could not load orders: " + api.Message(m.loadErr, "backend unreachable"))
	}
	// Status text never goes through the viewport; it must render even
	// before the first resize.
	if len(m.orders) == 0 {
		return m.styles.Muted.Render("No orders yet.")
	}

	help := m.styles.Muted.Render(" • ↑/↓: scroll • esc: back")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), help)
}

// SetSize updates the size.
func (m *OrdersPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 2
}
