package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"storefront/internal/checkout"
)

// SuccessPageModel is the order confirmation screen.
type SuccessPageModel struct {
	width  int
	height int
	result checkout.Result

	styles Styles
}

// NewSuccessPageModel creates the confirmation page.
func NewSuccessPageModel(styles Styles) SuccessPageModel {
	return SuccessPageModel{styles: styles}
}

// Show records the completed checkout result.
func (m *SuccessPageModel) Show(result checkout.Result) {
	m.result = result
}

// View renders the page.
func (m SuccessPageModel) View() string {
	lines := []string{
		m.styles.Success.Render("✓ Order placed"),
		"",
		fmt.Sprintf("%s %s", m.styles.Label.Render("Order ID:"), m.styles.Body.Render(m.result.OrderID)),
		fmt.Sprintf("%s %s", m.styles.Label.Render("Amount paid:"), m.styles.Price.Render(fmt.Sprintf("₹%.2f", m.result.Amount))),
	}
	if m.result.PointsKnown {
		lines = append(lines, fmt.Sprintf("%s %s",
			m.styles.Label.Render("Loyalty points:"),
			m.styles.Badge.Render(fmt.Sprintf("%d total", m.result.AwardedPoints))))
	}
	lines = append(lines, "", m.styles.Muted.Render(" • o: view orders • enter: keep shopping"))

	return m.styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the size.
func (m *SuccessPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}
