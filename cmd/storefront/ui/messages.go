package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/api"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/payment"
	"storefront/internal/session"
	"storefront/internal/types"
)

// Deps carries the wiring every page needs. Send is hooked to the running
// program so timer callbacks (the search debouncer) can inject messages.
type Deps struct {
	Config    *config.Config
	Backend   *api.Client
	Processor *payment.Client
	Session   *session.Store
	Cart      *cart.Store
	Send      func(tea.Msg)
}

func (d Deps) userID() int64 {
	if id, ok := d.Session.Current(); ok {
		return id.ID
	}
	return 0
}

// Messages

type catalogLoadedMsg struct {
	products []types.Product
	page     int
	info     api.PageInfo
	err      error
}

type recommendationsMsg struct {
	products []types.Product
	err      error
}

type productLoadedMsg struct {
	product types.Product
	similar []types.Product
	err     error
}

type searchRequestMsg struct {
	query string
	seq   uint64
}

type searchResultMsg struct {
	query    string
	seq      uint64
	products []types.Product
	err      error
}

type loginDoneMsg struct {
	identity types.Identity
	err      error
}

type signupDoneMsg struct {
	username string
	err      error
}

type ordersLoadedMsg struct {
	orders []types.Order
	err    error
}

type paymentDoneMsg struct {
	result checkout.Result
	err    error
}

type productAddedMsg struct {
	name string
	err  error
}

// Commands

func (d Deps) loadCatalog(page int) tea.Cmd {
	return func() tea.Msg {
		products, info, err := d.Backend.Products(context.Background(), api.ProductQuery{
			UserID:   d.userID(),
			Page:     page,
			PageSize: catalogPageSize,
		})
		return catalogLoadedMsg{products: products, page: page, info: info, err: err}
	}
}

func (d Deps) loadRecommendations() tea.Cmd {
	return func() tea.Msg {
		products, err := d.Backend.Recommendations(context.Background(), d.userID(), recommendationCount)
		return recommendationsMsg{products: products, err: err}
	}
}

func (d Deps) loadProduct(id int64) tea.Cmd {
	return func() tea.Msg {
		product, err := d.Backend.Product(context.Background(), id, d.userID())
		if err != nil {
			return productLoadedMsg{err: err}
		}
		// Similar products are decoration; a miss leaves the strip empty.
		similar, _ := d.Backend.SimilarProducts(context.Background(), id, d.userID(), similarCount)
		return productLoadedMsg{product: product, similar: similar}
	}
}

func (d Deps) runSearch(query string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		products, err := d.Backend.Search(context.Background(), query, d.Config.Search.Limit, d.userID())
		return searchResultMsg{query: query, seq: seq, products: products, err: err}
	}
}

func (d Deps) doLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		identity, token, err := d.Backend.Login(context.Background(), username, password)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		if err := d.Session.Login(identity, token); err != nil {
			return loginDoneMsg{err: err}
		}
		d.Cart.SwitchUser(identity.ID)
		return loginDoneMsg{identity: identity}
	}
}

func (d Deps) doSignup(username, password, email string) tea.Cmd {
	return func() tea.Msg {
		err := d.Backend.Signup(context.Background(), username, password, email)
		return signupDoneMsg{username: username, err: err}
	}
}

func (d Deps) loadOrders() tea.Cmd {
	return func() tea.Msg {
		orders, err := d.Backend.UserOrders(context.Background(), d.userID())
		return ordersLoadedMsg{orders: orders, err: err}
	}
}

func doPay(s *checkout.Session, card payment.Card) tea.Cmd {
	return func() tea.Msg {
		result, err := s.Pay(context.Background(), card)
		return paymentDoneMsg{result: result, err: err}
	}
}

func (d Deps) doAddProduct(p types.AdminProduct) tea.Cmd {
	return func() tea.Msg {
		err := d.Backend.AddProduct(context.Background(), p)
		return productAddedMsg{name: p.Name, err: err}
	}
}

const (
	catalogPageSize     = 12
	recommendationCount = 6
	similarCount        = 4
)
