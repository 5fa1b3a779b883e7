package ui

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/api"
	"storefront/internal/types"
)

// SearchPageModel is the search-as-you-type overlay. Keystrokes feed the
// debouncer; dispatched queries come back through the root model as
// searchRequestMsg, and responses carry the sequence they were issued for so
// superseded ones can be dropped.
type SearchPageModel struct {
	width  int
	height int
	input  textinput.Model

	debounce *SearchDebouncer
	results  []types.Product
	cursor   int
	searched string
	inFlight bool
	err      error

	styles Styles
}

// NewSearchPageModel creates the search overlay.
func NewSearchPageModel(styles Styles, debounce *SearchDebouncer) SearchPageModel {
	ti := textinput.New()
	ti.Placeholder = "Search products…"
	ti.Prompt = "/ "
	ti.CharLimit = 80
	ti.Focus()

	return SearchPageModel{
		input:    ti,
		debounce: debounce,
		styles:   styles,
	}
}

// Reset clears the overlay for a fresh search.
func (m *SearchPageModel) Reset() {
	m.input.SetValue("")
	m.input.Focus()
	m.results = nil
	m.cursor = 0
	m.searched = ""
	m.inFlight = false
	m.err = nil
	m.debounce.Cancel()
}

// Update handles messages.
func (m SearchPageModel) Update(msg tea.Msg, deps Deps) (SearchPageModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case searchResultMsg:
		// Stale responses must not overwrite newer results.
		if !m.debounce.Fresh(msg.seq) {
			return m, nil
		}
		m.inFlight = false
		m.err = msg.err
		if msg.err == nil {
			m.results = msg.products
			m.searched = msg.query
			if m.cursor >= len(m.results) {
				m.cursor = 0
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	after := m.input.Value()

	if after != before {
		query := after
		if utf8.RuneCountInString(query) < deps.Config.Search.MinQueryRunes {
			m.results = nil
			m.cursor = 0
			m.searched = ""
			m.inFlight = false
		} else {
			m.inFlight = true
		}
		m.debounce.Type(query, func(q string, seq uint64) {
			deps.Send(searchRequestMsg{query: q, seq: seq})
		})
	}

	return m, cmd
}

// Selected returns the highlighted result, if any.
func (m SearchPageModel) Selected() (types.Product, bool) {
	if m.cursor >= 0 && m.cursor < len(m.results) {
		return m.results[m.cursor], true
	}
	return types.Product{}, false
}

// View renders the overlay.
func (m SearchPageModel) View() string {
	sections := []string{m.styles.Field.Render(m.input.View()), ""}

	switch {
	case m.err != nil:
		sections = append(sections, m.styles.Error.Render("Search failed: "+api.Message(m.err, "backend unreachable")))
	case m.inFlight:
		sections = append(sections, m.styles.Muted.Render("Searching…"))
	case m.searched != "" && len(m.results) == 0:
		sections = append(sections, m.styles.Muted.Render(fmt.Sprintf("No products match %q", m.searched)))
	default:
		for i, p := range m.results {
			line := fmt.Sprintf("%s  %s", p.Name, m.styles.Price.Render(fmt.Sprintf("₹%.2f", p.EffectivePrice())))
			if i == m.cursor {
				line = m.styles.Title.Render("> ") + line
			} else {
				line = "  " + line
			}
			sections = append(sections, line)
		}
	}

	sections = append(sections, "", m.styles.Muted.Render(" • enter: view • ↑/↓: select • esc: close"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the size.
func (m *SearchPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = w - 8
}
