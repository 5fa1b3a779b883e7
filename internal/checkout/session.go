// Package checkout drives one purchase attempt as an explicit state machine:
// cart review, address capture, card payment, success. The session object
// carries the amount, address, and payment reference forward, replacing the
// loss-prone page-to-page message passing this flow used to rely on.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"storefront/internal/api"
	"storefront/internal/cart"
	"storefront/internal/logging"
	"storefront/internal/payment"
	"storefront/internal/session"
	"storefront/internal/types"
)

// State is the checkout session state.
type State int

const (
	StateCart State = iota
	StateAddress
	StatePayment
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateCart:
		return "cart"
	case StateAddress:
		return "address"
	case StatePayment:
		return "payment"
	case StateSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// ErrOrderAfterCharge marks the accepted inconsistency: the processor
// confirmed the charge but order submission failed. The charge stands; no
// compensation is attempted.
var ErrOrderAfterCharge = errors.New("order submission failed after payment was charged")

const addressFile = "pending_address.json"

// Result summarizes a completed payment step.
type Result struct {
	OrderID       string
	Amount        float64
	AwardedPoints int
	PointsKnown   bool
}

// Session is one checkout attempt. Not safe for concurrent use; it belongs to
// a single interactive flow.
type Session struct {
	state   State
	amount  float64
	address types.Address

	stateDir string
	orderKey string

	backend   *api.Client
	processor *payment.Client
	cart      *cart.Store
	auth      *session.Store

	log *logging.Logger
}

// New builds a checkout session ready to begin at the cart state.
func New(stateDir string, backend *api.Client, processor *payment.Client, c *cart.Store, auth *session.Store) *Session {
	return &Session{
		stateDir:  stateDir,
		backend:   backend,
		processor: processor,
		cart:      c,
		auth:      auth,
		log:       logging.Get(logging.CategoryCheckout),
	}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Amount returns the charge amount captured at Begin.
func (s *Session) Amount() float64 { return s.amount }

// Address returns the captured delivery address.
func (s *Session) Address() types.Address { return s.address }

// Begin freezes the cart total and moves to address capture. An empty cart
// cannot enter checkout.
func (s *Session) Begin() error {
	if s.state != StateCart {
		return fmt.Errorf("checkout already in state %s", s.state)
	}
	if s.cart.TotalItems() == 0 {
		return fmt.Errorf("cart is empty")
	}

	s.amount = s.cart.TotalPrice()
	// One idempotency key per attempt; a retried order submit reuses it.
	s.orderKey = uuid.NewString()
	s.state = StateAddress
	s.log.Info("checkout started, amount %.2f", s.amount)
	return nil
}

// SubmitAddress validates and captures the delivery address, persisting it
// for the duration of this attempt, then moves to payment. On validation
// failure the state does not advance and the FieldErrors are returned.
func (s *Session) SubmitAddress(a types.Address) error {
	if s.state != StateAddress {
		return fmt.Errorf("cannot submit address in state %s", s.state)
	}

	if errs := ValidateAddress(a); errs != nil {
		return errs
	}

	s.address = a
	s.persistAddress()
	s.state = StatePayment
	return nil
}

// Pay runs the payment sequence: obtain the authorization, confirm the card
// with the processor, report the settled charge for loyalty points, submit
// the order, and clear the cart. Any failure keeps the session in the payment
// state so the user can resubmit; there is no automatic retry. When order
// submission fails after the charge succeeded, the error wraps
// ErrOrderAfterCharge and the cart is deliberately left intact.
func (s *Session) Pay(ctx context.Context, card payment.Card) (Result, error) {
	if s.state != StatePayment {
		return Result{}, fmt.Errorf("cannot pay in state %s", s.state)
	}

	identity, ok := s.auth.Current()
	if !ok {
		return Result{}, fmt.Errorf("not logged in")
	}
	if s.amount <= 0 {
		return Result{}, fmt.Errorf("invalid amount")
	}

	clientSecret, err := s.backend.CreateIntent(ctx, s.amount, identity.ID)
	if err != nil {
		s.log.Error("create-intent failed: %v", err)
		return Result{}, err
	}

	if card.Name == "" {
		card.Name = identity.Username
	}
	if card.Email == "" {
		card.Email = identity.Email
	}

	if _, err := s.processor.ConfirmCardPayment(ctx, clientSecret, card); err != nil {
		s.log.Error("processor confirm failed: %v", err)
		return Result{}, err
	}

	res := Result{Amount: s.amount}

	// Loyalty award is best-effort: the charge already stands and the order
	// must still be recorded even if the points call fails.
	if points, err := s.backend.CompletePayment(ctx, identity.ID, s.amount); err != nil {
		s.log.Warn("complete-payment failed, points not awarded: %v", err)
	} else {
		res.AwardedPoints = points
		res.PointsKnown = true
		if err := s.auth.SetLoyaltyPoints(points); err != nil {
			s.log.Warn("could not cache new point balance: %v", err)
		}
	}

	order, err := s.backend.CreateOrder(ctx, api.OrderRequest{
		UserID:      identity.ID,
		TotalAmount: s.amount,
		Items:       s.cart.OrderItems(),
		Address:     s.address,
	}, s.orderKey)
	if err != nil {
		s.log.Error("order submission failed after charge: %v", err)
		return res, fmt.Errorf("%w: %v", ErrOrderAfterCharge, err)
	}

	res.OrderID = order.ID
	s.cart.Clear()
	s.clearAddress()
	s.state = StateSucceeded
	s.log.Info("checkout succeeded, order %s", order.ID)
	return res, nil
}

func (s *Session) addressPath() string {
	return filepath.Join(s.stateDir, addressFile)
}

func (s *Session) persistAddress() {
	data, err := json.MarshalIndent(s.address, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(s.addressPath(), data, 0600); err != nil {
		s.log.Warn("could not persist pending address: %v", err)
	}
}

func (s *Session) clearAddress() {
	_ = os.Remove(s.addressPath())
}

// PendingAddress loads a previously captured address so an interrupted
// attempt can prefill the form.
func PendingAddress(stateDir string) (types.Address, bool) {
	data, err := os.ReadFile(filepath.Join(stateDir, addressFile))
	if err != nil {
		return types.Address{}, false
	}
	var a types.Address
	if err := json.Unmarshal(data, &a); err != nil {
		return types.Address{}, false
	}
	return a, true
}
