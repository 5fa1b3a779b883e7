package checkout_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/payment"
	"storefront/internal/session"
	"storefront/internal/twin"
	"storefront/internal/types"
)

type fixture struct {
	stateDir string
	backend  *api.Client
	proc     *payment.Client
	cart     *cart.Store
	auth     *session.Store
	twin     *twin.Store
}

// newFixture logs in as demo against a twin and fills a cart.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := twin.NewStore()
	srv := httptest.NewServer(twin.NewHandler(store).Router())
	t.Cleanup(srv.Close)

	stateDir := t.TempDir()
	auth, err := session.Open(stateDir)
	require.NoError(t, err)

	backend := api.New(srv.URL, 5*time.Second, auth)

	identity, token, err := backend.Login(context.Background(), "demo", "demo")
	require.NoError(t, err)
	require.NoError(t, auth.Login(identity, token))

	c, err := cart.Open(stateDir, identity.ID)
	require.NoError(t, err)

	products, _, err := backend.Products(context.Background(), api.ProductQuery{})
	require.NoError(t, err)
	c.Add(products[0]) // 1499
	c.Add(products[0])
	c.Add(products[2]) // 549

	return &fixture{
		stateDir: stateDir,
		backend:  backend,
		proc:     payment.New(srv.URL, 5*time.Second),
		cart:     c,
		auth:     auth,
		twin:     store,
	}
}

func (f *fixture) newSession() *checkout.Session {
	return checkout.New(f.stateDir, f.backend, f.proc, f.cart, f.auth)
}

func goodCard() payment.Card {
	return payment.Card{Number: "4242424242424242", ExpMonth: 11, ExpYear: 2029, CVC: "321"}
}

func declinedCard() payment.Card {
	return payment.Card{Number: "4000000000000002", ExpMonth: 11, ExpYear: 2029, CVC: "321"}
}

func validAddress() types.Address {
	return types.Address{
		FullName: "Asha Rao",
		Mobile:   "9876543210",
		Pincode:  "560001",
		Flat:     "12B",
		Area:     "MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
	}
}

func TestHappyPathCheckout(t *testing.T) {
	f := newFixture(t)
	s := f.newSession()

	require.NoError(t, s.Begin())
	assert.Equal(t, checkout.StateAddress, s.State())
	assert.Equal(t, 3547.0, s.Amount(), "2x1499 + 549, frozen at Begin")

	require.NoError(t, s.SubmitAddress(validAddress()))
	assert.Equal(t, checkout.StatePayment, s.State())

	res, err := s.Pay(context.Background(), goodCard())
	require.NoError(t, err)
	assert.Equal(t, checkout.StateSucceeded, s.State())
	assert.NotEmpty(t, res.OrderID)
	assert.True(t, res.PointsKnown)
	assert.Greater(t, res.AwardedPoints, 500, "award lands on top of the seeded balance")

	// Cart cleared, address blob gone, points cached on the identity.
	assert.Equal(t, 0, f.cart.TotalItems())
	_, ok := checkout.PendingAddress(f.stateDir)
	assert.False(t, ok)
	id, _ := f.auth.Current()
	assert.Equal(t, res.AwardedPoints, id.LoyaltyPoints)

	// The order shows up in history.
	orders, err := f.backend.UserOrders(context.Background(), id.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, res.OrderID, orders[0].ID)
	assert.Equal(t, 3547.0, orders[0].TotalAmount)
}

func TestBeginRequiresNonEmptyCart(t *testing.T) {
	f := newFixture(t)
	f.cart.Clear()

	s := f.newSession()
	require.Error(t, s.Begin())
	assert.Equal(t, checkout.StateCart, s.State())
}

func TestInvalidAddressBlocksTransition(t *testing.T) {
	f := newFixture(t)
	s := f.newSession()
	require.NoError(t, s.Begin())

	bad := validAddress()
	bad.Mobile = "12345"

	err := s.SubmitAddress(bad)
	require.Error(t, err)

	var fieldErrs checkout.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "mobile")
	assert.Equal(t, checkout.StateAddress, s.State(), "no navigation on validation failure")
}

func TestDeclinedCardKeepsCartAndState(t *testing.T) {
	f := newFixture(t)
	s := f.newSession()
	require.NoError(t, s.Begin())
	require.NoError(t, s.SubmitAddress(validAddress()))

	_, err := s.Pay(context.Background(), declinedCard())
	require.Error(t, err)
	assert.True(t, payment.IsDecline(err))

	assert.Equal(t, checkout.StatePayment, s.State())
	assert.Equal(t, 3, f.cart.TotalItems(), "cart intact after decline")

	// The user can resubmit with a good card.
	res, err := s.Pay(context.Background(), goodCard())
	require.NoError(t, err)
	assert.NotEmpty(t, res.OrderID)
}

func TestOrderFailureAfterChargeIsReportedNotCompensated(t *testing.T) {
	f := newFixture(t)
	f.twin.SetFailOrders(true)

	s := f.newSession()
	require.NoError(t, s.Begin())
	require.NoError(t, s.SubmitAddress(validAddress()))

	res, err := s.Pay(context.Background(), goodCard())
	require.Error(t, err)
	require.ErrorIs(t, err, checkout.ErrOrderAfterCharge)

	// Success is not reached and the cart is not cleared, but the charge
	// stands and the points were already awarded.
	assert.Equal(t, checkout.StatePayment, s.State())
	assert.Equal(t, 3, f.cart.TotalItems())
	assert.True(t, res.PointsKnown)
}

func TestPayWithoutLoginFails(t *testing.T) {
	f := newFixture(t)
	s := f.newSession()
	require.NoError(t, s.Begin())
	require.NoError(t, s.SubmitAddress(validAddress()))

	f.auth.Logout()

	_, err := s.Pay(context.Background(), goodCard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestPendingAddressSurvivesForPrefill(t *testing.T) {
	f := newFixture(t)
	s := f.newSession()
	require.NoError(t, s.Begin())
	require.NoError(t, s.SubmitAddress(validAddress()))

	got, ok := checkout.PendingAddress(f.stateDir)
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", got.FullName)

	// Malformed blobs are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(f.stateDir, "pending_address.json"), []byte("{"), 0600))
	_, ok = checkout.PendingAddress(f.stateDir)
	assert.False(t, ok)
}
