// Package cart is the persisted shopping cart. One cart per identity, stored
// under an identity-qualified file that only this store writes. Prices are
// frozen at add time and never revalidated against the live catalog.
package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"storefront/internal/logging"
	"storefront/internal/types"
)

// Store holds one identity's cart. Safe for concurrent use. A zero userID
// means an anonymous cart that lives in memory only.
type Store struct {
	mu     sync.RWMutex
	dir    string
	userID int64
	items  []types.CartItem

	log *logging.Logger
}

// Open hydrates the cart for the given identity. A missing or malformed file
// yields an empty cart.
func Open(stateDir string, userID int64) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Store{
		dir:    stateDir,
		userID: userID,
		log:    logging.Get(logging.CategoryCart),
	}
	s.hydrate()
	return s, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, fmt.Sprintf("cart_%d.json", s.userID))
}

func (s *Store) hydrate() {
	s.items = nil
	if s.userID == 0 {
		return
	}

	data, err := os.ReadFile(s.path())
	if err != nil {
		return
	}
	var items []types.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn("discarding malformed cart file for user %d: %v", s.userID, err)
		_ = os.Remove(s.path())
		return
	}
	s.items = items
}

// SwitchUser re-hydrates for a different identity, dropping the in-memory
// cart of the previous one.
func (s *Store) SwitchUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.hydrate()
}

// Add inserts a line item with quantity 1, or increments the quantity when
// the product is already present. No upper bound is enforced.
func (s *Store) Add(p types.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == p.ID {
			s.items[i].Quantity++
			s.persistLocked()
			return
		}
	}
	s.items = append(s.items, types.LineItemFromProduct(p))
	s.persistLocked()
}

// Remove deletes the line item. Absent ids are a silent no-op.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// SetQuantity replaces the item's quantity. Values below 1 are a no-op, so a
// decrement on a quantity-1 line leaves it at 1.
func (s *Store) SetQuantity(productID int64, n int) {
	if n < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = n
			s.persistLocked()
			return
		}
	}
}

// Clear empties the cart and removes its persisted copy.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if s.userID != 0 {
		_ = os.Remove(s.path())
	}
	s.log.Info("cart cleared for user %d", s.userID)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []types.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]types.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// TotalItems is the sum of quantities, for the cart badge.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price times quantity with the suggested-then-original price
// fallback. An empty cart totals 0.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, item := range s.items {
		total += item.LineTotal()
	}
	return total
}

// OrderItems freezes the cart into order-submission lines.
func (s *Store) OrderItems() []types.OrderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]types.OrderItem, 0, len(s.items))
	for _, item := range s.items {
		name := item.Name
		if name == "" {
			name = "Unnamed Product"
		}
		items = append(items, types.OrderItem{
			ProductID: item.ProductID,
			Name:      name,
			Price:     item.UnitPrice(),
			Quantity:  item.Quantity,
		})
	}
	return items
}

// persistLocked writes the cart file. Callers hold s.mu. Anonymous carts are
// not persisted.
func (s *Store) persistLocked() {
	if s.userID == 0 {
		return
	}
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		s.log.Error("encode cart: %v", err)
		return
	}
	if err := os.WriteFile(s.path(), data, 0644); err != nil {
		s.log.Error("write cart: %v", err)
	}
}
