// Package twin is an in-memory twin of the e-commerce backend and of the
// processor's payment-intent confirm endpoint. It exists so the client can be
// developed and tested offline; it holds no real business logic beyond what
// the client needs to observe.
package twin

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/types"
)

// user is a seeded account. Passwords are plaintext; this is a dev twin.
type user struct {
	ID       int64
	Username string
	Password string
	Email    string
	Points   int
	Admin    bool
}

// intent is a payment intent issued by create-intent.
type intent struct {
	ID        string
	Secret    string
	UserID    int64
	Amount    int64 // minor units
	Status    string
	CreatedAt time.Time
}

// Store holds all twin state behind one mutex.
type Store struct {
	mu sync.Mutex

	users    map[int64]*user
	tokens   map[string]int64 // bearer token -> user id
	products []types.Product
	orders   map[int64][]types.Order
	intents  map[string]*intent

	nextUserID    int64
	nextProductID int64

	// Fault and shape switches, settable over the admin routes.
	failOrders      bool
	wrappedCatalog  bool
	idOnlyRecs      bool
	pointsPerRupee  float64
}

func fp(v float64) *float64 { return &v }

// NewStore seeds the twin with a demo catalog and two accounts: demo/demo and
// admin/admin.
func NewStore() *Store {
	s := &Store{
		users:          make(map[int64]*user),
		tokens:         make(map[string]int64),
		orders:         make(map[int64][]types.Order),
		intents:        make(map[string]*intent),
		nextUserID:     3,
		nextProductID:  9,
		pointsPerRupee: 0.1,
	}

	s.users[1] = &user{ID: 1, Username: "demo", Password: "demo", Email: "demo@example.com", Points: 500}
	s.users[2] = &user{ID: 2, Username: "admin", Password: "admin", Email: "admin@example.com", Points: 0, Admin: true}

	s.products = []types.Product{
		{ID: 1, Name: "Trail Backpack 30L", Category: "outdoor", SuggestedPrice: fp(1499), OriginalPrice: fp(1799), DiscountPercent: 16, Stock: 24, Description: "Water-resistant day pack."},
		{ID: 2, Name: "Wireless Earbuds", Category: "audio", SuggestedPrice: fp(2299), OriginalPrice: fp(2999), DiscountPercent: 23, Stock: 50, Description: "ANC, 28h battery."},
		{ID: 3, Name: "Steel Water Bottle 1L", Category: "outdoor", OriginalPrice: fp(549), Stock: 120},
		{ID: 4, Name: "Mechanical Keyboard", Category: "electronics", SuggestedPrice: fp(4499), OriginalPrice: fp(5499), DiscountPercent: 18, Stock: 15},
		{ID: 5, Name: "Running Shoes", Category: "sports", SuggestedPrice: fp(3199), OriginalPrice: fp(3999), DiscountPercent: 20, Stock: 31},
		{ID: 6, Name: "Desk Lamp", Category: "home", OriginalPrice: fp(899), Stock: 60},
		{ID: 7, Name: "Yoga Mat", Category: "sports", SuggestedPrice: fp(749), OriginalPrice: fp(999), DiscountPercent: 25, Stock: 80},
		{ID: 8, Name: "Phone Stand", Category: "electronics", OriginalPrice: fp(299), Stock: 200},
	}
	return s
}

// Authenticate checks credentials and mints a bearer token.
func (s *Store) Authenticate(username, password string) (*user, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			token := "tok_" + uuid.NewString()
			s.tokens[token] = u.ID
			return u, token, true
		}
	}
	return nil, "", false
}

// CreateUser registers an account. Duplicate usernames are rejected.
func (s *Store) CreateUser(username, password, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return fmt.Errorf("username already taken")
		}
	}
	id := s.nextUserID
	s.nextUserID++
	s.users[id] = &user{ID: id, Username: username, Password: password, Email: email}
	return nil
}

// UserForToken resolves a bearer token.
func (s *Store) UserForToken(token string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	u, ok := s.users[id]
	return u, ok
}

// Products returns a copy of the catalog.
func (s *Store) Products() []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product looks up one catalog entry.
func (s *Store) Product(id int64) (types.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return types.Product{}, false
}

// Similar returns other products in the same category.
func (s *Store) Similar(id int64, limit int) []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	var category string
	for _, p := range s.products {
		if p.ID == id {
			category = p.Category
			break
		}
	}

	var out []types.Product
	for _, p := range s.products {
		if p.ID != id && p.Category == category {
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Search does a case-insensitive substring match on name and category.
func (s *Store) Search(query string, limit int) []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var out []types.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

// AddProduct appends an admin-created product to the catalog.
func (s *Store) AddProduct(p types.AdminProduct) types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextProductID
	s.nextProductID++
	prod := types.Product{
		ID:            id,
		Name:          p.Name,
		Category:      p.Category,
		OriginalPrice: fp(p.BasePrice),
		Stock:         p.Stock,
		Description:   p.Description,
		Image:         p.Image,
	}
	s.products = append(s.products, prod)
	return prod
}

// CreateIntent issues a payment intent for the amount in rupees.
func (s *Store) CreateIntent(amount float64, userID int64) *intent {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := "pi_" + uuid.NewString()[:8]
	in := &intent{
		ID:        id,
		Secret:    id + "_secret_" + uuid.NewString()[:8],
		UserID:    userID,
		Amount:    int64(math.Round(amount * 100)),
		Status:    "requires_confirmation",
		CreatedAt: time.Now(),
	}
	s.intents[id] = in
	return in
}

// IssueIntentSecret creates an intent and returns its client secret. Used by
// tests that drive the processor confirm flow directly.
func (s *Store) IssueIntentSecret(amount float64, userID int64) string {
	return s.CreateIntent(amount, userID).Secret
}

// Intent returns a snapshot of an issued intent.
func (s *Store) Intent(id string) (intent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.intents[id]
	if !ok {
		return intent{}, false
	}
	return *in, true
}

// MarkIntent transitions an intent's status.
func (s *Store) MarkIntent(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in, ok := s.intents[id]; ok {
		in.Status = status
	}
}

// AwardPoints credits loyalty points for a settled charge and returns the new
// balance.
func (s *Store) AwardPoints(userID int64, amount float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return 0, false
	}
	u.Points += int(math.Floor(amount * s.pointsPerRupee))
	return u.Points, true
}

// SaveOrder records an order for a user.
func (s *Store) SaveOrder(userID int64, totalAmount float64, items []types.OrderItem, addr types.Address) types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := types.Order{
		ID:          "ORD-" + uuid.NewString()[:8],
		CreatedAt:   time.Now(),
		TotalAmount: totalAmount,
		Status:      "CONFIRMED",
		Items:       items,
		Address:     &addr,
	}
	s.orders[userID] = append(s.orders[userID], order)
	return order
}

// OrdersFor returns a user's order history, newest first.
func (s *Store) OrdersFor(userID int64) []types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.orders[userID]
	out := make([]types.Order, len(orders))
	for i := range orders {
		out[len(orders)-1-i] = orders[i]
	}
	return out
}

// SetFailOrders toggles the forced order-creation failure.
func (s *Store) SetFailOrders(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOrders = v
}

// FailOrders reports the fault switch.
func (s *Store) FailOrders() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failOrders
}

// SetWrappedCatalog switches /api/products to the wrapped response shape.
func (s *Store) SetWrappedCatalog(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wrappedCatalog = v
}

// WrappedCatalog reports the shape switch.
func (s *Store) WrappedCatalog() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wrappedCatalog
}

// SetIDOnlyRecommendations switches /api/recommendations to the id-array shape.
func (s *Store) SetIDOnlyRecommendations(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idOnlyRecs = v
}

// IDOnlyRecommendations reports the shape switch.
func (s *Store) IDOnlyRecommendations() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idOnlyRecs
}
