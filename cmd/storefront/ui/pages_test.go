package ui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/api"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/payment"
	"storefront/internal/session"
	"storefront/internal/types"
)

func price(v float64) *float64 { return &v }

func testDeps(t *testing.T) Deps {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.State.Dir = dir

	auth, err := session.Open(dir)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	basket, err := cart.Open(dir, 0)
	if err != nil {
		t.Fatalf("cart.Open: %v", err)
	}

	return Deps{
		Config:    cfg,
		Backend:   api.New("http://127.0.0.1:1", time.Second, auth),
		Processor: payment.New("http://127.0.0.1:1", time.Second),
		Session:   auth,
		Cart:      basket,
		Send:      func(tea.Msg) {},
	}
}

func TestCatalogPageModelRendersLoadedProducts(t *testing.T) {
	deps := testDeps(t)
	model := NewCatalogPageModel(DefaultStyles())
	model.SetSize(100, 30)

	model, _ = model.Update(catalogLoadedMsg{
		products: []types.Product{
			{ID: 1, Name: "Wireless Headphones", SuggestedPrice: price(1499)},
			{ID: 2, Name: "Smart Watch", OriginalPrice: price(2999)},
		},
		page: 1,
		info: api.PageInfo{TotalCount: 2, TotalPages: 1},
	}, deps)

	view := model.View()
	if !strings.Contains(view, "Wireless Headphones") {
		t.Fatalf("expected product name in view, got:\n%s", view)
	}
	if !strings.Contains(view, "1499") {
		t.Fatalf("expected suggested price in view")
	}
	if !strings.Contains(view, "2999") {
		t.Fatalf("expected original-price fallback in view")
	}

	selected, ok := model.Selected()
	if !ok || selected.ID != 1 {
		t.Fatalf("expected first product selected, got %+v ok=%v", selected, ok)
	}
}

func TestCatalogPageModelRecommendationsStrip(t *testing.T) {
	deps := testDeps(t)
	model := NewCatalogPageModel(DefaultStyles())
	model.SetSize(100, 30)

	model, _ = model.Update(catalogLoadedMsg{products: nil, page: 1}, deps)
	model, _ = model.Update(recommendationsMsg{
		products: []types.Product{{ID: 7, Name: "Desk Lamp", OriginalPrice: price(549)}},
	}, deps)

	if !strings.Contains(model.View(), "Recommended for you") {
		t.Fatalf("expected recommendations strip")
	}
	if !strings.Contains(model.View(), "Desk Lamp") {
		t.Fatalf("expected recommended product name")
	}
}

func TestTruncateNameKeepsRunesIntact(t *testing.T) {
	long := "Кружка керамическая синяя" // 25 runes, wider than the card
	got := truncateName(long, 18)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated name is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if !strings.HasPrefix(long, strings.TrimSuffix(got, "…")) {
		t.Fatalf("truncation altered the name: %q", got)
	}
	if short := truncateName("Desk Lamp", 18); short != "Desk Lamp" {
		t.Fatalf("short name should pass through, got %q", short)
	}
}

func TestCatalogPageModelLoadErrorShown(t *testing.T) {
	deps := testDeps(t)
	model := NewCatalogPageModel(DefaultStyles())

	model, _ = model.Update(catalogLoadedMsg{err: &api.APIError{StatusCode: 500, Endpoint: "/api/products"}}, deps)

	if !strings.Contains(model.View(), "Could not load products") {
		t.Fatalf("expected load error message, got:\n%s", model.View())
	}
}

func TestDetailPageModelRendersProduct(t *testing.T) {
	model := NewDetailPageModel(DefaultStyles())
	model.SetSize(80, 24)

	model, _ = model.Update(productLoadedMsg{
		product: types.Product{
			ID:             3,
			Name:           "Mechanical Keyboard",
			Category:       "Electronics",
			Description:    "Tactile switches.",
			SuggestedPrice: price(4999),
			Stock:          3,
		},
		similar: []types.Product{{ID: 4, Name: "Keycap Set", OriginalPrice: price(899)}},
	})

	view := model.View()
	for _, want := range []string{"Mechanical Keyboard", "4999", "Only 3 left", "Similar products", "Keycap Set"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in detail view, got:\n%s", want, view)
		}
	}
}

func TestCartPageModelQuantityKeys(t *testing.T) {
	deps := testDeps(t)
	deps.Cart.Add(types.Product{ID: 1, Name: "Mug", OriginalPrice: price(100)})

	model := NewCartPageModel(DefaultStyles())

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}}, deps)
	if got := deps.Cart.TotalItems(); got != 2 {
		t.Fatalf("expected quantity 2 after +, got %d", got)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}}, deps)
	if got := deps.Cart.TotalItems(); got != 1 {
		t.Fatalf("expected quantity 1 after -, got %d", got)
	}

	// Decrement below one must leave the line untouched.
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}}, deps)
	if got := deps.Cart.TotalItems(); got != 1 {
		t.Fatalf("expected quantity to stay 1 at floor, got %d", got)
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, deps)
	if got := deps.Cart.TotalItems(); got != 0 {
		t.Fatalf("expected empty cart after remove, got %d", got)
	}

	if !strings.Contains(model.View(deps), "cart is empty") {
		t.Fatalf("expected empty-cart message")
	}
}

func TestAddressPageModelInlineFieldErrors(t *testing.T) {
	deps := testDeps(t)
	deps.Cart.Add(types.Product{ID: 1, Name: "Mug", OriginalPrice: price(100)})

	s := checkout.New(deps.Config.State.Dir, deps.Backend, deps.Processor, deps.Cart, deps.Session)
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	model := NewAddressPageModel(DefaultStyles())
	model.Begin(s.Amount(), deps.Config.State.Dir)
	model.SetSize(100, 30)

	// Empty form: submission stays on the page with field errors.
	if model.Submit(s) {
		t.Fatal("expected empty address to be rejected")
	}
	view := model.View()
	if !strings.Contains(view, "required") {
		t.Fatalf("expected inline required-field error, got:\n%s", view)
	}
	if s.State() != checkout.StateAddress {
		t.Fatalf("expected session to stay in address state, got %s", s.State())
	}

	model.form.SetValue("fullName", "Jane Doe")
	model.form.SetValue("mobile", "9876543210")
	model.form.SetValue("pincode", "560001")
	model.form.SetValue("flat", "4B")
	model.form.SetValue("area", "MG Road")
	model.form.SetValue("city", "Bengaluru")
	model.form.SetValue("state", "Karnataka")

	if !model.Submit(s) {
		t.Fatal("expected valid address to be accepted")
	}
	if s.State() != checkout.StatePayment {
		t.Fatalf("expected payment state after address, got %s", s.State())
	}
}

func TestAddressPageModelPrefillsPendingAddress(t *testing.T) {
	deps := testDeps(t)
	deps.Cart.Add(types.Product{ID: 1, Name: "Mug", OriginalPrice: price(100)})

	s := checkout.New(deps.Config.State.Dir, deps.Backend, deps.Processor, deps.Cart, deps.Session)
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := s.SubmitAddress(types.Address{
		FullName: "Jane Doe", Mobile: "9876543210", Pincode: "560001",
		Flat: "4B", Area: "MG Road", City: "Bengaluru", State: "Karnataka",
	}); err != nil {
		t.Fatalf("SubmitAddress: %v", err)
	}

	// A fresh page for a new attempt picks up the persisted address.
	model := NewAddressPageModel(DefaultStyles())
	model.Begin(100, deps.Config.State.Dir)

	if got := model.Address().City; got != "Bengaluru" {
		t.Fatalf("expected prefilled city, got %q", got)
	}
}

func TestPaymentPageModelCardAssembly(t *testing.T) {
	model := NewPaymentPageModel(DefaultStyles())
	model.Begin(525)

	model.form.SetValue("number", "4242 4242 4242 4242")
	model.form.SetValue("expiry", "12/30")
	model.form.SetValue("cvc", "123")
	model.form.SetValue("name", "Jane Doe")

	card := model.Card()
	if card.Number != "4242424242424242" {
		t.Fatalf("expected spaces stripped from card number, got %q", card.Number)
	}
	if card.ExpMonth != 12 || card.ExpYear != 2030 {
		t.Fatalf("expected expiry 12/2030, got %d/%d", card.ExpMonth, card.ExpYear)
	}
}

func TestPaymentPageModelDeclineMessage(t *testing.T) {
	model := NewPaymentPageModel(DefaultStyles())
	model.Begin(525)

	model, _ = model.Update(paymentDoneMsg{err: &payment.ProcessorError{
		Type: "card_error", Code: "card_declined", Message: "Your card was declined.",
	}})

	if !strings.Contains(model.View(), "Your card was declined.") {
		t.Fatalf("expected decline message, got:\n%s", model.View())
	}
	if model.processing {
		t.Fatal("expected processing flag cleared after failure")
	}
}

func TestPaymentPageModelOrderAfterChargeWarning(t *testing.T) {
	model := NewPaymentPageModel(DefaultStyles())
	model.Begin(525)

	model, _ = model.Update(paymentDoneMsg{err: checkout.ErrOrderAfterCharge})

	view := model.View()
	if !strings.Contains(view, "do not pay again") {
		t.Fatalf("expected order-after-charge warning, got:\n%s", view)
	}
}

func TestSuccessPageModelShowsResult(t *testing.T) {
	model := NewSuccessPageModel(DefaultStyles())
	model.Show(checkout.Result{OrderID: "ORD-12ab34cd", Amount: 3547, AwardedPoints: 854, PointsKnown: true})

	view := model.View()
	for _, want := range []string{"ORD-12ab34cd", "3547", "854"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in success view, got:\n%s", want, view)
		}
	}
}

func TestOrdersPageModelTable(t *testing.T) {
	model := NewOrdersPageModel(DefaultStyles())
	model.SetSize(100, 30)

	model, _ = model.Update(ordersLoadedMsg{orders: []types.Order{
		{
			ID:          "ORD-aa11bb22",
			CreatedAt:   time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
			TotalAmount: 3547,
			Status:      "CONFIRMED",
			Items:       []types.OrderItem{{ProductID: 1, Name: "Headphones", Price: 1499, Quantity: 2}},
		},
	}})

	view := model.View()
	for _, want := range []string{"ORD-aa11bb22", "CONFIRMED", "Headphones"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in orders view, got:\n%s", want, view)
		}
	}
}

func TestOrdersPageModelEmpty(t *testing.T) {
	model := NewOrdersPageModel(DefaultStyles())
	model, _ = model.Update(ordersLoadedMsg{})

	if !strings.Contains(model.View(), "No orders yet") {
		t.Fatalf("expected empty order history message")
	}
}

func TestAuthPageModelSignupSwitchesBackToLogin(t *testing.T) {
	model := NewAuthPageModel(DefaultStyles())
	model.Reset()

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if model.mode != modeSignup {
		t.Fatal("expected ctrl+s to switch to signup")
	}

	model, _ = model.Update(signupDoneMsg{username: "newuser"})
	if model.mode != modeLogin {
		t.Fatal("expected successful signup to return to login")
	}
	if got := model.login.Value("username"); got != "newuser" {
		t.Fatalf("expected username carried to login form, got %q", got)
	}
	if !strings.Contains(model.View(), "Account created") {
		t.Fatalf("expected signup notice")
	}
}

func TestAdminPageModelLocalValidation(t *testing.T) {
	deps := testDeps(t)
	model := NewAdminPageModel(DefaultStyles())

	if cmd := model.Submit(deps); cmd != nil {
		t.Fatal("expected empty form submission to be rejected locally")
	}
	if !strings.Contains(model.View(), "name is required") {
		t.Fatalf("expected name error, got:\n%s", model.View())
	}

	model.form.SetValue("name", "Gadget")
	model.form.SetValue("basePrice", "free")
	if cmd := model.Submit(deps); cmd != nil {
		t.Fatal("expected bad price to be rejected locally")
	}
	if !strings.Contains(model.View(), "greater than zero") {
		t.Fatalf("expected price error")
	}

	model.form.SetValue("basePrice", "999")
	model.form.SetValue("stock", "10")
	if cmd := model.Submit(deps); cmd == nil {
		t.Fatal("expected valid form to dispatch")
	}
}

func TestSearchPageModelDropsStaleResults(t *testing.T) {
	deps := testDeps(t)
	debounce := NewSearchDebouncer(time.Millisecond, 2)
	model := NewSearchPageModel(DefaultStyles(), debounce)
	model.SetSize(80, 24)

	seqCh := make(chan uint64, 2)
	debounce.Type("watch", func(q string, seq uint64) { seqCh <- seq })
	staleSeq := <-seqCh
	debounce.Type("watches", func(q string, seq uint64) { seqCh <- seq })
	freshSeq := <-seqCh

	// The stale response lands first and must be ignored.
	model, _ = model.Update(searchResultMsg{
		query: "watch", seq: staleSeq,
		products: []types.Product{{ID: 1, Name: "Old Watch"}},
	}, deps)
	if len(model.results) != 0 {
		t.Fatal("expected stale result to be dropped")
	}

	model, _ = model.Update(searchResultMsg{
		query: "watches", seq: freshSeq,
		products: []types.Product{{ID: 2, Name: "New Watch", OriginalPrice: price(2500)}},
	}, deps)
	if len(model.results) != 1 || model.results[0].ID != 2 {
		t.Fatalf("expected fresh result kept, got %+v", model.results)
	}
	if !strings.Contains(model.View(), "New Watch") {
		t.Fatalf("expected fresh result rendered")
	}
}

func TestSimpleTableRendersHeadersAndRows(t *testing.T) {
	table := NewSimpleTable("Orders", []string{"ID", "Total"})
	table.AddRow("ORD-1", "₹100.00")

	view := table.View(DefaultStyles())
	for _, want := range []string{"Orders", "ID", "Total", "ORD-1"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in table view, got:\n%s", want, view)
		}
	}
}

func TestSimpleTableEmptyRendersNothing(t *testing.T) {
	table := NewSimpleTable("Orders", []string{"ID"})
	if table.View(DefaultStyles()) != "" {
		t.Fatal("expected empty table to render nothing")
	}
}
