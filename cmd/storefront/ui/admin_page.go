package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/api"
	"storefront/internal/types"
)

// AdminPageModel is the add-product form. The admin flag on the cached
// identity only gates visibility; the backend enforces the role on submit.
type AdminPageModel struct {
	width  int
	height int
	form   form

	busy   bool
	err    error
	notice string

	styles Styles
}

// NewAdminPageModel creates the admin page.
func NewAdminPageModel(styles Styles) AdminPageModel {
	f := newForm([]fieldSpec{
		{key: "name", label: "Name"},
		{key: "basePrice", label: "Base price", placeholder: "999.00"},
		{key: "category", label: "Category", placeholder: "Electronics"},
		{key: "stock", label: "Stock", placeholder: "10"},
		{key: "description", label: "Description", placeholder: "optional"},
		{key: "image", label: "Image URL", placeholder: "optional"},
	})
	return AdminPageModel{form: f, styles: styles}
}

// Submit validates locally and dispatches the add-product request.
func (m *AdminPageModel) Submit(deps Deps) tea.Cmd {
	if m.busy {
		return nil
	}

	errs := map[string]string{}
	name := strings.TrimSpace(m.form.Value("name"))
	if name == "" {
		errs["name"] = "name is required"
	}
	price, perr := strconv.ParseFloat(m.form.Value("basePrice"), 64)
	if perr != nil || price <= 0 {
		errs["basePrice"] = "enter a price greater than zero"
	}
	stock := 0
	if v := m.form.Value("stock"); v != "" {
		var serr error
		stock, serr = strconv.Atoi(v)
		if serr != nil || stock < 0 {
			errs["stock"] = "enter a whole number"
		}
	}
	if len(errs) > 0 {
		m.form.SetErrors(errs)
		return nil
	}
	m.form.SetErrors(nil)

	m.busy = true
	m.err = nil
	m.notice = ""
	return deps.doAddProduct(types.AdminProduct{
		Name:        name,
		BasePrice:   price,
		Category:    strings.TrimSpace(m.form.Value("category")),
		Stock:       stock,
		Description: strings.TrimSpace(m.form.Value("description")),
		Image:       strings.TrimSpace(m.form.Value("image")),
	})
}

// Update handles messages.
func (m AdminPageModel) Update(msg tea.Msg) (AdminPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case productAddedMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.notice = "Added " + msg.name
			m.form.Reset()
		}
		return m, nil
	}

	if m.busy {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// View renders the page.
func (m AdminPageModel) View() string {
	status := ""
	switch {
	case m.busy:
		status = m.styles.Muted.Render("Saving…")
	case m.err != nil:
		status = m.styles.Error.Render(api.Message(m.err, "could not add product"))
	case m.notice != "":
		status = m.styles.Success.Render(m.notice)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Add Product"),
		"",
		m.form.View(m.styles),
		"",
		status,
		"",
		m.styles.Muted.Render(" • enter: save • tab: next field • esc: back"),
	)
}

// SetSize updates the size.
func (m *AdminPageModel) SetSize(w, h int) {
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
