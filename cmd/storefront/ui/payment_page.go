package ui

import (
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/api"
	"storefront/internal/checkout"
	"storefront/internal/payment"
)

// PaymentPageModel collects card details and drives the charge. Card input is
// never persisted; a failed attempt keeps the page (and the cart) intact so
// the user can retry.
type PaymentPageModel struct {
	width  int
	height int
	form   form
	amount float64

	processing bool
	payErr     error

	styles Styles
}

// NewPaymentPageModel creates the payment page.
func NewPaymentPageModel(styles Styles) PaymentPageModel {
	f := newForm([]fieldSpec{
		{key: "number", label: "Card number", placeholder: "4242 4242 4242 4242", charLimit: 19},
		{key: "expiry", label: "Expiry", placeholder: "MM/YY", charLimit: 5},
		{key: "cvc", label: "CVC", placeholder: "123", secret: true, charLimit: 4},
		{key: "name", label: "Name on card", placeholder: "optional"},
	})
	return PaymentPageModel{form: f, styles: styles}
}

// Begin primes the page for a payment attempt.
func (m *PaymentPageModel) Begin(amount float64) {
	m.amount = amount
	m.form.Reset()
	m.processing = false
	m.payErr = nil
}

// Card assembles the typed card. Expiry parsing is lenient; the processor
// rejects whatever remains invalid.
func (m PaymentPageModel) Card() payment.Card {
	card := payment.Card{
		Number: stripSpaces(m.form.Value("number")),
		CVC:    m.form.Value("cvc"),
		Name:   m.form.Value("name"),
	}
	expiry := m.form.Value("expiry")
	if len(expiry) == 5 && expiry[2] == '/' {
		if mm, err := strconv.Atoi(expiry[:2]); err == nil {
			card.ExpMonth = mm
		}
		if yy, err := strconv.Atoi(expiry[3:]); err == nil {
			card.ExpYear = 2000 + yy
		}
	}
	return card
}

func stripSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// Submit kicks off the charge unless one is already running.
func (m *PaymentPageModel) Submit(s *checkout.Session) tea.Cmd {
	if m.processing {
		return nil
	}
	m.processing = true
	m.payErr = nil
	return doPay(s, m.Card())
}

// Update handles messages.
func (m PaymentPageModel) Update(msg tea.Msg) (PaymentPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case paymentDoneMsg:
		m.processing = false
		m.payErr = msg.err
		return m, nil
	}

	if m.processing {
		// Ignore typing while the charge is in flight.
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m PaymentPageModel) renderError() string {
	err := m.payErr
	if err == nil {
		return ""
	}
	if errors.Is(err, checkout.ErrOrderAfterCharge) {
		return m.styles.Warn.Render(
			"Payment went through, but saving the order failed. Your cart is unchanged;\n" +
				"do not pay again, contact support with your payment reference.")
	}
	var procErr *payment.ProcessorError
	if errors.As(err, &procErr) {
		return m.styles.Error.Render(procErr.Message)
	}
	return m.styles.Error.Render(api.Message(err, "payment failed, please try again"))
}

// View renders the page.
func (m PaymentPageModel) View() string {
	status := ""
	switch {
	case m.processing:
		status = m.styles.Muted.Render("Processing payment…")
	case m.payErr != nil:
		status = m.renderError()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Payment"),
		m.styles.Muted.Render(fmt.Sprintf("Amount due: ₹%.2f", m.amount)),
		"",
		m.form.View(m.styles),
		"",
		status,
		"",
		m.styles.Muted.Render(" • enter: pay • tab: next field • esc: back to cart"),
	)
}

// SetSize updates the size.
func (m *PaymentPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	inputW := w - 24
	if inputW > 32 {
		inputW = 32
	}
	if inputW > 0 {
		m.form.SetWidth(inputW)
	}
}
