package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/checkout"
	"storefront/internal/types"
)

// AddressPageModel captures the delivery address during checkout. Validation
// errors render inline under the offending field.
type AddressPageModel struct {
	width  int
	height int
	form   form
	amount float64

	styles Styles
}

// NewAddressPageModel creates the address capture page.
func NewAddressPageModel(styles Styles) AddressPageModel {
	f := newForm([]fieldSpec{
		{key: "fullName", label: "Full name", placeholder: "Jane Doe"},
		{key: "mobile", label: "Mobile", placeholder: "10 digits", charLimit: 10},
		{key: "pincode", label: "Pincode", placeholder: "6 digits", charLimit: 6},
		{key: "flat", label: "Flat / house", placeholder: "Flat 4B"},
		{key: "area", label: "Area", placeholder: "MG Road"},
		{key: "landmark", label: "Landmark", placeholder: "optional"},
		{key: "city", label: "City", placeholder: "Bengaluru"},
		{key: "state", label: "State", placeholder: "Karnataka"},
	})
	return AddressPageModel{form: f, styles: styles}
}

// Begin primes the page for a checkout attempt, prefilling the last pending
// address when one survives from an interrupted run.
func (m *AddressPageModel) Begin(amount float64, stateDir string) {
	m.amount = amount
	m.form.Reset()
	if addr, ok := checkout.PendingAddress(stateDir); ok {
		m.form.SetValue("fullName", addr.FullName)
		m.form.SetValue("mobile", addr.Mobile)
		m.form.SetValue("pincode", addr.Pincode)
		m.form.SetValue("flat", addr.Flat)
		m.form.SetValue("area", addr.Area)
		m.form.SetValue("landmark", addr.Landmark)
		m.form.SetValue("city", addr.City)
		m.form.SetValue("state", addr.State)
	}
}

// Address assembles the typed address.
func (m AddressPageModel) Address() types.Address {
	return types.Address{
		FullName: m.form.Value("fullName"),
		Mobile:   m.form.Value("mobile"),
		Pincode:  m.form.Value("pincode"),
		Flat:     m.form.Value("flat"),
		Area:     m.form.Value("area"),
		Landmark: m.form.Value("landmark"),
		City:     m.form.Value("city"),
		State:    m.form.Value("state"),
	}
}

// Submit validates through the checkout session. On field errors the page
// annotates itself and reports false.
func (m *AddressPageModel) Submit(s *checkout.Session) bool {
	err := s.SubmitAddress(m.Address())
	if err == nil {
		m.form.SetErrors(nil)
		return true
	}
	var fieldErrs checkout.FieldErrors
	if errors.As(err, &fieldErrs) {
		m.form.SetErrors(fieldErrs)
	} else {
		m.form.SetErrors(map[string]string{"fullName": err.Error()})
	}
	return false
}

// Update handles messages.
func (m AddressPageModel) Update(msg tea.Msg) (AddressPageModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(size.Width, size.Height)
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// View renders the page.
func (m AddressPageModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Delivery Address"),
		m.styles.Muted.Render(fmt.Sprintf("Order total: ₹%.2f", m.amount)),
		"",
		m.form.View(m.styles),
		"",
		m.styles.Muted.Render(" • enter: continue to payment • tab: next field • esc: back to cart"),
	)
}

// SetSize updates the size.
func (m *AddressPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	inputW := w - 24
	if inputW > 48 {
		inputW = 48
	}
	if inputW > 0 {
		m.form.SetWidth(inputW)
	}
}
