package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formField is one labeled input in a form.
type formField struct {
	key   string
	label string
	input textinput.Model
}

// form is a vertical stack of text inputs with focus cycling and per-field
// error annotations keyed by field name.
type form struct {
	fields []formField
	focus  int
	errors map[string]string
}

type fieldSpec struct {
	key         string
	label       string
	placeholder string
	secret      bool
	charLimit   int
}

func newForm(specs []fieldSpec) form {
	fields := make([]formField, 0, len(specs))
	for i, spec := range specs {
		ti := textinput.New()
		ti.Placeholder = spec.placeholder
		ti.Prompt = ""
		if spec.charLimit > 0 {
			ti.CharLimit = spec.charLimit
		}
		if spec.secret {
			ti.EchoMode = textinput.EchoPassword
		}
		if i == 0 {
			ti.Focus()
		}
		fields = append(fields, formField{key: spec.key, label: spec.label, input: ti})
	}
	return form{fields: fields}
}

// Update routes key events, cycling focus on tab/shift+tab and up/down.
func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus((f.focus + 1) % len(f.fields))
			return f, nil
		case "shift+tab", "up":
			f.setFocus((f.focus - 1 + len(f.fields)) % len(f.fields))
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

func (f *form) setFocus(i int) {
	f.fields[f.focus].input.Blur()
	f.focus = i
	f.fields[f.focus].input.Focus()
}

// Value returns the trimmed-as-typed value of the named field.
func (f form) Value(key string) string {
	for _, field := range f.fields {
		if field.key == key {
			return field.input.Value()
		}
	}
	return ""
}

// SetValue replaces the named field's content.
func (f *form) SetValue(key, value string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(value)
			return
		}
	}
}

// SetErrors replaces the per-field error annotations.
func (f *form) SetErrors(errors map[string]string) {
	f.errors = errors
}

// Reset clears all values and errors and focuses the first field.
func (f *form) Reset() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
	f.errors = nil
	f.setFocus(0)
}

// View renders the labeled fields with any error annotations.
func (f form) View(styles Styles) string {
	rows := make([]string, 0, len(f.fields)*2)
	for i, field := range f.fields {
		label := styles.Label.Width(14).Render(field.label)
		box := styles.Field
		if i == f.focus {
			box = box.BorderForeground(styles.Theme.Primary)
		}
		row := lipgloss.JoinHorizontal(lipgloss.Center, label, box.Render(field.input.View()))
		rows = append(rows, row)
		if msg, ok := f.errors[field.key]; ok {
			rows = append(rows, styles.Error.PaddingLeft(14).Render(msg))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// SetWidth adjusts all input widths.
func (f *form) SetWidth(w int) {
	for i := range f.fields {
		f.fields[i].input.Width = w
	}
}
