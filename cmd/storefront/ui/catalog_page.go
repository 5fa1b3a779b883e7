package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/api"
	"storefront/internal/types"
)

// CatalogPageModel is the product browsing page: a paged catalog list with a
// recommendations strip above it.
type CatalogPageModel struct {
	width  int
	height int
	list   list.Model

	page     int
	info     api.PageInfo
	loading  bool
	loadErr  error
	recs     []types.Product
	recsErr  error

	styles Styles
}

// productItem adapts types.Product to list.Item.
type productItem struct {
	product types.Product
}

func (i productItem) Title() string { return i.product.Name }
func (i productItem) Description() string {
	desc := fmt.Sprintf("₹%.2f", i.product.EffectivePrice())
	if i.product.Category != "" {
		desc += "  " + i.product.Category
	}
	if i.product.DiscountPercent > 0 {
		desc += fmt.Sprintf("  %.0f%% off", i.product.DiscountPercent)
	}
	return desc
}
func (i productItem) FilterValue() string { return i.product.Name + " " + i.product.Category }

// NewCatalogPageModel creates the browsing page.
func NewCatalogPageModel(styles Styles) CatalogPageModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Products"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = styles.Header

	return CatalogPageModel{
		list:    l,
		page:    1,
		loading: true,
		styles:  styles,
	}
}

// Init triggers nothing; the root model issues the initial load.
func (m CatalogPageModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m CatalogPageModel) Update(msg tea.Msg, deps Deps) (CatalogPageModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case catalogLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.page = msg.page
			m.info = msg.info
			items := make([]list.Item, 0, len(msg.products))
			for _, p := range msg.products {
				items = append(items, productItem{product: p})
			}
			m.list.SetItems(items)
			m.list.Title = m.catalogTitle()
		}
		return m, nil

	case recommendationsMsg:
		m.recsErr = msg.err
		if msg.err == nil {
			m.recs = msg.products
		}
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "n", "right":
			if m.info.TotalPages == 0 || m.page < m.info.TotalPages {
				m.loading = true
				return m, deps.loadCatalog(m.page + 1)
			}
			return m, nil
		case "p", "left":
			if m.page > 1 {
				m.loading = true
				return m, deps.loadCatalog(m.page - 1)
			}
			return m, nil
		case "r":
			m.loading = true
			return m, tea.Batch(deps.loadCatalog(m.page), deps.loadRecommendations())
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Selected returns the highlighted product, if any.
func (m CatalogPageModel) Selected() (types.Product, bool) {
	if sel := m.list.SelectedItem(); sel != nil {
		return sel.(productItem).product, true
	}
	return types.Product{}, false
}

func (m CatalogPageModel) catalogTitle() string {
	if m.info.TotalPages > 0 {
		return fmt.Sprintf("Products (page %d/%d, %d total)", m.page, m.info.TotalPages, m.info.TotalCount)
	}
	return "Products"
}

// truncateName shortens a product name to at most max cells, cutting on
// rune boundaries so multibyte names stay intact.
func truncateName(name string, max int) string {
	if lipgloss.Width(name) <= max {
		return name
	}
	runes := []rune(name)
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		if lipgloss.Width(string(append(out, r)))+1 > max {
			break
		}
		out = append(out, r)
	}
	return string(out) + "…"
}

func (m CatalogPageModel) renderRecommendations() string {
	if len(m.recs) == 0 {
		return ""
	}
	cards := make([]string, 0, len(m.recs))
	for _, p := range m.recs {
		name := truncateName(p.Name, 18)
		card := lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Body.Render(name),
			m.styles.Price.Render(fmt.Sprintf("₹%.2f", p.EffectivePrice())),
		)
		cards = append(cards, m.styles.Card.Padding(0, 1).Render(card))
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Muted.Render(" Recommended for you"),
		strip,
	)
}

// View renders the page.
func (m CatalogPageModel) View() string {
	if m.loading {
		return m.styles.Muted.Render("Loading products…")
	}
	if m.loadErr != nil {
		return m.styles.Error.Render("Could not load products: " + api.Message(m.loadErr, "backend unreachable"))
	}

	sections := []string{}
	if recs := m.renderRecommendations(); recs != "" {
		sections = append(sections, recs)
	}
	sections = append(sections, m.list.View())
	help := m.styles.Muted.Render(" • enter: view • +: add to cart • n/p: page • /: filter • r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the size.
func (m *CatalogPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h

	recsHeight := 0
	if len(m.recs) > 0 {
		recsHeight = 4
	}
	m.list.SetSize(w, h-recsHeight-2)
}
