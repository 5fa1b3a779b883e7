package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/checkout"
	"storefront/internal/logging"
)

// Page identifies the active screen.
type Page int

const (
	PageCatalog Page = iota
	PageDetail
	PageSearch
	PageCart
	PageAddress
	PagePayment
	PageSuccess
	PageOrders
	PageAuth
	PageAdmin
)

// App is the root model. It owns navigation, the checkout session lifecycle,
// and routes messages to the active page.
type App struct {
	deps   Deps
	styles Styles
	page   Page
	width  int
	height int

	// The active checkout attempt; nil outside the address/payment/success
	// sequence. Abandoning the flow discards it.
	checkout *checkout.Session

	// afterAuth is where a successful login returns to.
	afterAuth Page

	catalog CatalogPageModel
	detail  DetailPageModel
	search  SearchPageModel
	cart    CartPageModel
	address AddressPageModel
	payment PaymentPageModel
	success SuccessPageModel
	orders  OrdersPageModel
	auth    AuthPageModel
	admin   AdminPageModel

	status string
	log    *logging.Logger
}

// NewApp builds the root model.
func NewApp(deps Deps) App {
	styles := DefaultStyles()
	debounce := NewSearchDebouncer(deps.Config.SearchDebounce(), deps.Config.Search.MinQueryRunes)

	return App{
		deps:      deps,
		styles:    styles,
		page:      PageCatalog,
		afterAuth: PageCatalog,
		catalog:   NewCatalogPageModel(styles),
		detail:    NewDetailPageModel(styles),
		search:    NewSearchPageModel(styles, debounce),
		cart:      NewCartPageModel(styles),
		address:   NewAddressPageModel(styles),
		payment:   NewPaymentPageModel(styles),
		success:   NewSuccessPageModel(styles),
		orders:    NewOrdersPageModel(styles),
		auth:      NewAuthPageModel(styles),
		admin:     NewAdminPageModel(styles),
		log:       logging.Get(logging.CategoryUI),
	}
}

// Init loads the catalog and recommendations.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.deps.loadCatalog(1), a.deps.loadRecommendations())
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.setPageSizes(msg.Width, msg.Height-2)
		return a, nil

	case searchRequestMsg:
		// A debounced query fired; run it against the backend.
		return a, a.deps.runSearch(msg.query, msg.seq)

	case searchResultMsg:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg, a.deps)
		return a, cmd

	case catalogLoadedMsg, recommendationsMsg:
		var cmd tea.Cmd
		a.catalog, cmd = a.catalog.Update(msg, a.deps)
		return a, cmd

	case productLoadedMsg:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd

	case ordersLoadedMsg:
		var cmd tea.Cmd
		a.orders, cmd = a.orders.Update(msg)
		return a, cmd

	case loginDoneMsg:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		if msg.err == nil {
			a.status = "Signed in as " + msg.identity.Username
			a.page = a.afterAuth
			// Identity changed; personalized data must be refetched.
			return a, tea.Batch(cmd, a.deps.loadCatalog(1), a.deps.loadRecommendations())
		}
		return a, cmd

	case signupDoneMsg:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		return a, cmd

	case paymentDoneMsg:
		var cmd tea.Cmd
		a.payment, cmd = a.payment.Update(msg)
		if msg.err == nil && a.checkout != nil {
			a.success.Show(msg.result)
			a.page = PageSuccess
			a.status = ""
		}
		return a, cmd

	case productAddedMsg:
		var cmd tea.Cmd
		a.admin, cmd = a.admin.Update(msg)
		if msg.err == nil {
			// The catalog gained a product; refresh on next visit.
			return a, tea.Batch(cmd, a.deps.loadCatalog(1))
		}
		return a, cmd

	case tea.KeyMsg:
		if model, cmd, handled := a.handleKey(msg); handled {
			return model, cmd
		}
	}

	return a.updateActivePage(msg)
}

// handleKey processes global and page-transition keys. Unhandled keys fall
// through to the active page.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	key := msg.String()

	// Quit always works.
	if key == "ctrl+c" {
		return a, tea.Quit, true
	}

	typing := a.pageCapturesText()

	if !typing {
		// Leaving the confirmation screen ends the checkout attempt.
		leaveSuccess := func() {
			if a.page == PageSuccess {
				a.checkout = nil
			}
		}
		switch key {
		case "q":
			return a, tea.Quit, true
		case "1", "h":
			leaveSuccess()
			a.page = PageCatalog
			return a, nil, true
		case "2", "b":
			leaveSuccess()
			a.page = PageCart
			return a, nil, true
		case "3", "o":
			leaveSuccess()
			return a.gotoOrders()
		case "/":
			leaveSuccess()
			a.search.Reset()
			a.page = PageSearch
			return a, nil, true
		case "L":
			return a.toggleAuth()
		case "A":
			leaveSuccess()
			return a.gotoAdmin()
		}
	}

	switch a.page {
	case PageCatalog:
		if typing {
			break
		}
		switch key {
		case "enter":
			if p, ok := a.catalog.Selected(); ok {
				a.page = PageDetail
				return a, a.detail.Load(a.deps, p.ID), true
			}
		case "+":
			if p, ok := a.catalog.Selected(); ok {
				a.deps.Cart.Add(p)
				a.status = fmt.Sprintf("Added %s to cart (%d items)", p.Name, a.deps.Cart.TotalItems())
				return a, nil, true
			}
		}

	case PageDetail:
		switch key {
		case "esc":
			a.page = PageCatalog
			return a, nil, true
		case "+":
			if p, ok := a.detail.Product(); ok {
				a.deps.Cart.Add(p)
				a.status = fmt.Sprintf("Added %s to cart (%d items)", p.Name, a.deps.Cart.TotalItems())
				return a, nil, true
			}
		}

	case PageSearch:
		switch key {
		case "esc":
			a.page = PageCatalog
			return a, nil, true
		case "enter":
			if p, ok := a.search.Selected(); ok {
				a.page = PageDetail
				return a, a.detail.Load(a.deps, p.ID), true
			}
		}

	case PageCart:
		switch key {
		case "esc":
			a.page = PageCatalog
			return a, nil, true
		case "c":
			return a.beginCheckout()
		}

	case PageAddress:
		switch key {
		case "esc":
			return a.abandonCheckout()
		case "enter":
			if a.checkout != nil && a.address.Submit(a.checkout) {
				a.payment.Begin(a.checkout.Amount())
				a.page = PagePayment
			}
			return a, nil, true
		}

	case PagePayment:
		switch key {
		case "esc":
			return a.abandonCheckout()
		case "enter":
			if a.checkout != nil {
				return a, a.payment.Submit(a.checkout), true
			}
			return a, nil, true
		}

	case PageSuccess:
		switch key {
		case "enter", "esc":
			a.checkout = nil
			a.page = PageCatalog
			return a, nil, true
		}

	case PageOrders:
		if key == "esc" {
			a.page = PageCatalog
			return a, nil, true
		}

	case PageAuth:
		switch key {
		case "esc":
			a.page = PageCatalog
			return a, nil, true
		case "enter":
			return a, a.auth.Submit(a.deps), true
		}

	case PageAdmin:
		switch key {
		case "esc":
			a.page = PageCatalog
			return a, nil, true
		case "enter":
			return a, a.admin.Submit(a.deps), true
		}
	}

	return a, nil, false
}

// pageCapturesText reports whether the active page owns plain keystrokes.
func (a App) pageCapturesText() bool {
	switch a.page {
	case PageSearch, PageAddress, PagePayment, PageAuth, PageAdmin:
		return true
	case PageCatalog:
		return a.catalog.list.FilterState() == list.Filtering
	}
	return false
}

// beginCheckout starts the address/payment sequence from the cart.
func (a App) beginCheckout() (tea.Model, tea.Cmd, bool) {
	if !a.deps.Session.SignedIn() {
		a.afterAuth = PageCart
		a.auth.Reset()
		a.page = PageAuth
		a.status = "Sign in to check out"
		return a, nil, true
	}

	s := checkout.New(a.deps.Config.State.Dir, a.deps.Backend, a.deps.Processor, a.deps.Cart, a.deps.Session)
	if err := s.Begin(); err != nil {
		a.status = err.Error()
		return a, nil, true
	}
	a.log.Info("checkout entered from cart, %d items", a.deps.Cart.TotalItems())
	a.checkout = s
	a.address.Begin(s.Amount(), a.deps.Config.State.Dir)
	a.page = PageAddress
	a.status = ""
	return a, nil, true
}

// abandonCheckout discards the active attempt and returns to the cart. The
// pending address file survives for prefill on the next attempt.
func (a App) abandonCheckout() (tea.Model, tea.Cmd, bool) {
	a.checkout = nil
	a.page = PageCart
	return a, nil, true
}

func (a App) gotoOrders() (tea.Model, tea.Cmd, bool) {
	if !a.deps.Session.SignedIn() {
		a.afterAuth = PageOrders
		a.auth.Reset()
		a.page = PageAuth
		a.status = "Sign in to see your orders"
		return a, nil, true
	}
	a.page = PageOrders
	return a, a.orders.Load(a.deps), true
}

func (a App) gotoAdmin() (tea.Model, tea.Cmd, bool) {
	identity, ok := a.deps.Session.Current()
	if !ok || !identity.Admin {
		a.status = "Admin access required"
		return a, nil, true
	}
	a.page = PageAdmin
	return a, nil, true
}

func (a App) toggleAuth() (tea.Model, tea.Cmd, bool) {
	if a.deps.Session.SignedIn() {
		identity, _ := a.deps.Session.Current()
		a.deps.Session.Logout()
		a.checkout = nil
		a.status = "Signed out " + identity.Username
		a.page = PageCatalog
		return a, tea.Batch(a.deps.loadCatalog(1), a.deps.loadRecommendations()), true
	}
	a.afterAuth = PageCatalog
	a.auth.Reset()
	a.page = PageAuth
	return a, nil, true
}

// updateActivePage routes remaining messages to the active page.
func (a App) updateActivePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.page {
	case PageCatalog:
		a.catalog, cmd = a.catalog.Update(msg, a.deps)
	case PageDetail:
		a.detail, cmd = a.detail.Update(msg)
	case PageSearch:
		a.search, cmd = a.search.Update(msg, a.deps)
	case PageCart:
		a.cart, cmd = a.cart.Update(msg, a.deps)
	case PageAddress:
		a.address, cmd = a.address.Update(msg)
	case PagePayment:
		a.payment, cmd = a.payment.Update(msg)
	case PageOrders:
		a.orders, cmd = a.orders.Update(msg)
	case PageAuth:
		a.auth, cmd = a.auth.Update(msg)
	case PageAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return a, cmd
}

func (a App) headerView() string {
	who := "guest"
	points := ""
	if identity, ok := a.deps.Session.Current(); ok {
		who = identity.Username
		points = fmt.Sprintf(" • %d pts", identity.LoyaltyPoints)
	}
	left := a.styles.Header.Render("Storefront")
	right := a.styles.Muted.Render(fmt.Sprintf("%s%s • cart: %d", who, points, a.deps.Cart.TotalItems()))

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

func (a App) footerView() string {
	if a.status != "" {
		return a.styles.Footer.Render(a.status)
	}
	return a.styles.Footer.Render("1: products • 2: cart • 3: orders • /: search • L: account • q: quit")
}

// View renders the active page between a header and footer.
func (a App) View() string {
	var body string
	switch a.page {
	case PageCatalog:
		body = a.catalog.View()
	case PageDetail:
		body = a.detail.View()
	case PageSearch:
		body = a.search.View()
	case PageCart:
		body = a.cart.View(a.deps)
	case PageAddress:
		body = a.address.View()
	case PagePayment:
		body = a.payment.View()
	case PageSuccess:
		body = a.success.View()
	case PageOrders:
		body = a.orders.View()
	case PageAuth:
		body = a.auth.View()
	case PageAdmin:
		body = a.admin.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.headerView(), body, a.footerView())
}

func (a *App) setPageSizes(w, h int) {
	a.catalog.SetSize(w, h)
	a.detail.SetSize(w, h)
	a.search.SetSize(w, h)
	a.cart.SetSize(w, h)
	a.address.SetSize(w, h)
	a.payment.SetSize(w, h)
	a.success.SetSize(w, h)
	a.orders.SetSize(w, h)
	a.auth.SetSize(w, h)
	a.admin.SetSize(w, h)
}
