package payment_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/payment"
	"storefront/internal/twin"
)

func newProcessor(t *testing.T) (*payment.Client, *twin.Store) {
	t.Helper()
	store := twin.NewStore()
	srv := httptest.NewServer(twin.NewHandler(store).Router())
	t.Cleanup(srv.Close)
	return payment.New(srv.URL, 5*time.Second), store
}

func goodCard() payment.Card {
	return payment.Card{Number: "4242 4242 4242 4242", ExpMonth: 12, ExpYear: 2030, CVC: "123", Name: "Demo"}
}

func TestIntentIDFromSecret(t *testing.T) {
	id, err := payment.IntentIDFromSecret("pi_abc123_secret_xyz")
	require.NoError(t, err)
	assert.Equal(t, "pi_abc123", id)

	_, err = payment.IntentIDFromSecret("nonsense")
	assert.Error(t, err)

	_, err = payment.IntentIDFromSecret("sk_wrong_secret_kind")
	assert.Error(t, err)
}

func TestConfirmSucceeds(t *testing.T) {
	client, store := newProcessor(t)
	secret := store.IssueIntentSecret(525.0, 1)

	intent, err := client.ConfirmCardPayment(context.Background(), secret, goodCard())
	require.NoError(t, err)
	assert.Equal(t, "succeeded", intent.Status)
	assert.Equal(t, int64(52500), intent.Amount)
}

func TestDeclinedCardSurfacesProcessorError(t *testing.T) {
	client, store := newProcessor(t)
	secret := store.IssueIntentSecret(100.0, 1)

	card := goodCard()
	card.Number = "4000 0000 0000 0002"

	_, err := client.ConfirmCardPayment(context.Background(), secret, card)
	require.Error(t, err)
	require.True(t, payment.IsDecline(err))
	assert.Equal(t, "Your card was declined.", err.Error())
}

func TestUnknownIntentRejected(t *testing.T) {
	client, _ := newProcessor(t)

	_, err := client.ConfirmCardPayment(context.Background(), "pi_missing_secret_nope", goodCard())
	require.Error(t, err)
	require.True(t, payment.IsDecline(err))
}
