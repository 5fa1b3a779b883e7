package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"storefront/internal/checkout"
	"storefront/internal/types"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func updateApp(t *testing.T, app App, msg tea.Msg) App {
	t.Helper()
	model, _ := app.Update(msg)
	next, ok := model.(App)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return next
}

func TestAppCheckoutRequiresSignIn(t *testing.T) {
	deps := testDeps(t)
	deps.Cart.Add(types.Product{ID: 1, Name: "Mug", OriginalPrice: price(100)})

	app := NewApp(deps)
	app = updateApp(t, app, tea.WindowSizeMsg{Width: 100, Height: 30})
	app = updateApp(t, app, keyRune('2'))
	if app.page != PageCart {
		t.Fatalf("expected cart page, got %d", app.page)
	}

	app = updateApp(t, app, keyRune('c'))
	if app.page != PageAuth {
		t.Fatalf("expected auth page when checking out signed out, got %d", app.page)
	}
	if app.afterAuth != PageCart {
		t.Fatal("expected return-to-cart after sign in")
	}
}

func TestAppCheckoutRejectsEmptyCart(t *testing.T) {
	deps := testDeps(t)
	if err := deps.Session.Login(types.Identity{ID: 1, Username: "demo"}, "token"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	app := NewApp(deps)
	app = updateApp(t, app, keyRune('2'))
	app = updateApp(t, app, keyRune('c'))

	if app.page != PageCart {
		t.Fatalf("expected to stay on cart page, got %d", app.page)
	}
	if app.checkout != nil {
		t.Fatal("expected no checkout session for an empty cart")
	}
	if !strings.Contains(app.status, "empty") {
		t.Fatalf("expected empty-cart status, got %q", app.status)
	}
}

func TestAppCheckoutSequence(t *testing.T) {
	deps := testDeps(t)
	if err := deps.Session.Login(types.Identity{ID: 1, Username: "demo"}, "token"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	deps.Cart.SwitchUser(1)
	deps.Cart.Add(types.Product{ID: 1, Name: "Mug", OriginalPrice: price(100)})

	app := NewApp(deps)
	app = updateApp(t, app, tea.WindowSizeMsg{Width: 100, Height: 40})
	app = updateApp(t, app, keyRune('2'))
	app = updateApp(t, app, keyRune('c'))

	if app.page != PageAddress {
		t.Fatalf("expected address page after checkout begins, got %d", app.page)
	}
	if app.checkout == nil || app.checkout.State() != checkout.StateAddress {
		t.Fatal("expected active session in address state")
	}

	// Enter with an empty form stays on the address page.
	app = updateApp(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.page != PageAddress {
		t.Fatalf("expected to stay on address page with field errors, got %d", app.page)
	}

	app.address.form.SetValue("fullName", "Jane Doe")
	app.address.form.SetValue("mobile", "9876543210")
	app.address.form.SetValue("pincode", "560001")
	app.address.form.SetValue("flat", "4B")
	app.address.form.SetValue("area", "MG Road")
	app.address.form.SetValue("city", "Bengaluru")
	app.address.form.SetValue("state", "Karnataka")

	app = updateApp(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	if app.page != PagePayment {
		t.Fatalf("expected payment page after valid address, got %d", app.page)
	}

	// Esc abandons the attempt and returns to the cart, keeping its contents.
	app = updateApp(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.page != PageCart {
		t.Fatalf("expected cart page after abandoning checkout, got %d", app.page)
	}
	if app.checkout != nil {
		t.Fatal("expected checkout session discarded")
	}
	if deps.Cart.TotalItems() != 1 {
		t.Fatal("expected cart untouched by abandoned checkout")
	}
}

func TestAppPaymentSuccessShowsConfirmation(t *testing.T) {
	deps := testDeps(t)
	app := NewApp(deps)
	app.checkout = checkout.New(deps.Config.State.Dir, deps.Backend, deps.Processor, deps.Cart, deps.Session)
	app.page = PagePayment

	app = updateApp(t, app, paymentDoneMsg{result: checkout.Result{OrderID: "ORD-ok", Amount: 100}})

	if app.page != PageSuccess {
		t.Fatalf("expected success page, got %d", app.page)
	}
	if !strings.Contains(app.success.View(), "ORD-ok") {
		t.Fatal("expected order id on confirmation")
	}
}

func TestAppPaymentFailureStaysOnPaymentPage(t *testing.T) {
	deps := testDeps(t)
	app := NewApp(deps)
	app.checkout = checkout.New(deps.Config.State.Dir, deps.Backend, deps.Processor, deps.Cart, deps.Session)
	app.page = PagePayment

	app = updateApp(t, app, paymentDoneMsg{err: checkout.ErrOrderAfterCharge})

	if app.page != PagePayment {
		t.Fatalf("expected to stay on payment page after failure, got %d", app.page)
	}
}

func TestAppAccountKeyShowsSignInForGuests(t *testing.T) {
	deps := testDeps(t)
	app := NewApp(deps)

	app = updateApp(t, app, keyRune('L'))
	if app.page != PageAuth {
		t.Fatalf("expected sign-in page for guest, got %d", app.page)
	}
	if strings.Contains(app.status, "Signed out") {
		t.Fatalf("guest must not hit the sign-out branch, status %q", app.status)
	}
}

func TestAppAccountKeySignsOutActiveSession(t *testing.T) {
	deps := testDeps(t)
	if err := deps.Session.Login(types.Identity{ID: 1, Username: "demo"}, "token"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	app := NewApp(deps)
	app = updateApp(t, app, keyRune('L'))

	if app.page != PageCatalog {
		t.Fatalf("expected catalog after sign-out, got %d", app.page)
	}
	if deps.Session.SignedIn() {
		t.Fatal("expected session cleared")
	}
	if !strings.Contains(app.status, "Signed out demo") {
		t.Fatalf("expected sign-out status, got %q", app.status)
	}
}

func TestAppOrdersRequireSignIn(t *testing.T) {
	deps := testDeps(t)
	app := NewApp(deps)

	app = updateApp(t, app, keyRune('3'))
	if app.page != PageAuth {
		t.Fatalf("expected auth page for signed-out orders, got %d", app.page)
	}
	if app.afterAuth != PageOrders {
		t.Fatal("expected return-to-orders after sign in")
	}
}

func TestAppAdminGatedByRole(t *testing.T) {
	deps := testDeps(t)
	app := NewApp(deps)

	app = updateApp(t, app, keyRune('A'))
	if app.page == PageAdmin {
		t.Fatal("expected admin page blocked for guests")
	}

	if err := deps.Session.Login(types.Identity{ID: 2, Username: "admin", Admin: true}, "token"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	app = updateApp(t, app, keyRune('A'))
	if app.page != PageAdmin {
		t.Fatalf("expected admin page for admin identity, got %d", app.page)
	}
}

func TestAppSearchOverlayOpensAndCloses(t *testing.T) {
	deps := testDeps(t)
	app := NewApp(deps)

	app = updateApp(t, app, keyRune('/'))
	if app.page != PageSearch {
		t.Fatalf("expected search overlay, got %d", app.page)
	}

	app = updateApp(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.page != PageCatalog {
		t.Fatalf("expected catalog after closing search, got %d", app.page)
	}
}

func TestAppHeaderShowsIdentityAndCartCount(t *testing.T) {
	deps := testDeps(t)
	if err := deps.Session.Login(types.Identity{ID: 1, Username: "demo", LoyaltyPoints: 500}, "token"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	deps.Cart.SwitchUser(1)
	deps.Cart.Add(types.Product{ID: 1, Name: "Mug", OriginalPrice: price(100)})

	app := NewApp(deps)
	app.width = 100

	header := app.headerView()
	for _, want := range []string{"demo", "500 pts", "cart: 1"} {
		if !strings.Contains(header, want) {
			t.Fatalf("expected %q in header, got %q", want, header)
		}
	}
}
