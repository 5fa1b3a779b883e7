package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/api"
	"storefront/internal/types"
)

// DetailPageModel shows one product with its similar-products strip.
type DetailPageModel struct {
	width    int
	height   int
	viewport viewport.Model

	product types.Product
	similar []types.Product
	loading bool
	loadErr error

	styles Styles
}

// NewDetailPageModel creates the product detail page.
func NewDetailPageModel(styles Styles) DetailPageModel {
	vp := viewport.New(0, 0)
	return DetailPageModel{
		viewport: vp,
		styles:   styles,
	}
}

// Load resets the page for a new product and returns the fetch command.
func (m *DetailPageModel) Load(deps Deps, id int64) tea.Cmd {
	m.loading = true
	m.loadErr = nil
	m.similar = nil
	return deps.loadProduct(id)
}

// Update handles messages.
func (m DetailPageModel) Update(msg tea.Msg) (DetailPageModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case productLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.product = msg.product
			m.similar = msg.similar
			m.viewport.SetContent(m.renderProduct())
			m.viewport.GotoTop()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Product returns the loaded product.
func (m DetailPageModel) Product() (types.Product, bool) {
	return m.product, !m.loading && m.loadErr == nil && m.product.ID != 0
}

func (m DetailPageModel) renderProduct() string {
	p := m.product

	price := m.styles.Price.Render(fmt.Sprintf("₹%.2f", p.EffectivePrice()))
	if p.DiscountPercent > 0 && p.OriginalPrice != nil && p.SuggestedPrice != nil {
		price += "  " + m.styles.Muted.Strikethrough(true).Render(fmt.Sprintf("₹%.2f", *p.OriginalPrice)) +
			"  " + m.styles.Badge.Render(fmt.Sprintf("%.0f%% off", p.DiscountPercent))
	}

	stock := m.styles.Muted.Render("In stock")
	if p.Stock == 0 {
		stock = m.styles.Error.Render("Out of stock")
	} else if p.Stock > 0 && p.Stock <= 5 {
		stock = m.styles.Warn.Render(fmt.Sprintf("Only %d left", p.Stock))
	}

	sections := []string{
		m.styles.Title.Render(p.Name),
		m.styles.Muted.Render(p.Category),
		"",
		price,
		stock,
	}
	if p.Description != "" {
		sections = append(sections, "", m.styles.Body.Render(p.Description))
	}

	if len(m.similar) > 0 {
		sections = append(sections, "", m.styles.Muted.Render("Similar products"))
		for _, s := range m.similar {
			sections = append(sections, fmt.Sprintf("  %s %s",
				m.styles.Body.Render(s.Name),
				m.styles.Price.Render(fmt.Sprintf("₹%.2f", s.EffectivePrice()))))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// View renders the page.
func (m DetailPageModel) View() string {
	if m.loading {
		return m.styles.Muted.Render("Loading product…")
	}
	if m.loadErr != nil {
		return m.styles.Error.Render("Could not load product: " + api.Message(m.loadErr, "backend unreachable"))
	}

	help := m.styles.Muted.Render(" • +: add to cart • esc: back")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), help)
}

// SetSize updates the size.
func (m *DetailPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - 2
}
