package twin

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/internal/logging"
	"storefront/internal/types"
)

// Handler serves the twin API.
type Handler struct {
	store *Store
	log   *logging.Logger
}

// NewHandler creates a twin API handler over the given store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store, log: logging.Get(logging.CategoryTwin)}
}

// Router mounts every backend endpoint the client consumes, the processor
// confirm endpoint, and the twin's own fault/shape switches.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.login)
		r.Post("/auth/signup", h.signup)

		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/products/{id}/similar", h.similarProducts)
		r.Get("/search", h.search)
		r.Get("/recommendations", h.recommendations)

		r.Post("/payment/create-intent", h.createIntent)

		// Bearer-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/payment/complete", h.completePayment)
			r.Post("/orders", h.createOrder)
			r.Get("/orders/user/{id}", h.userOrders)
			r.Post("/admin/products", h.addProduct)
		})
	})

	// Processor twin
	r.Post("/v1/payment_intents/{id}/confirm", h.confirmIntent)

	// Twin control switches (dev/test only, no auth)
	r.Post("/twin/faults/orders", h.setOrderFault)
	r.Post("/twin/shapes/catalog", h.setCatalogShape)
	r.Post("/twin/shapes/recommendations", h.setRecommendationShape)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// requireAuth validates the bearer token and stashes nothing: handlers that
// need the caller re-resolve it, keeping the middleware trivial.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, ok := h.store.UserForToken(token); !ok {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}

// ---------------------------------------------------------------------------
// Auth

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, ok := h.store.Authenticate(req.Username, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	h.log.Info("login: %s", u.Username)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":         token,
		"userId":        u.ID,
		"username":      u.Username,
		"email":         u.Email,
		"loyaltyPoints": u.Points,
		"admin":         u.Admin,
	})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := h.store.CreateUser(req.Username, req.Password, req.Email); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// ---------------------------------------------------------------------------
// Catalog

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products := h.store.Products()

	if limit := intQuery(r, "limit"); limit > 0 && limit < len(products) {
		products = products[:limit]
	}

	if h.store.WrappedCatalog() {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"products":   products,
			"totalCount": len(products),
			"totalPages": 1,
		})
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, ok := h.store.Product(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) similarProducts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	similar := h.store.Similar(id, intQuery(r, "limit"))
	if similar == nil {
		similar = []types.Product{}
	}
	writeJSON(w, http.StatusOK, similar)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	results := h.store.Search(query, intQuery(r, "limit"))
	if results == nil {
		results = []types.Product{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	products := h.store.Products()
	limit := intQuery(r, "limit")
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}

	if h.store.IDOnlyRecommendations() {
		ids := make([]int64, len(products))
		for i, p := range products {
			ids[i] = p.ID
		}
		writeJSON(w, http.StatusOK, ids)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// ---------------------------------------------------------------------------
// Payment

func (h *Handler) createIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
		UserID int64   `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	in := h.store.CreateIntent(req.Amount, req.UserID)
	h.log.Info("intent %s for %.2f (user %d)", in.ID, req.Amount, req.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": in.Secret})
}

// confirmIntent is the processor twin. Card numbers ending in 0002 are
// declined; everything else succeeds.
func (h *Handler) confirmIntent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		ClientSecret  string `json:"client_secret"`
		PaymentMethod struct {
			Card struct {
				Number string `json:"number"`
			} `json:"card"`
		} `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, ok := h.store.Intent(id)
	if !ok || in.Secret != req.ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error": map[string]string{
				"type":    "invalid_request_error",
				"code":    "payment_intent_unknown",
				"message": "No such payment intent.",
			},
		})
		return
	}

	if strings.HasSuffix(strings.ReplaceAll(req.PaymentMethod.Card.Number, " ", ""), "0002") {
		h.store.MarkIntent(id, "requires_payment_method")
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error": map[string]string{
				"type":    "card_error",
				"code":    "card_declined",
				"message": "Your card was declined.",
			},
		})
		return
	}

	h.store.MarkIntent(id, "succeeded")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":     in.ID,
		"status": "succeeded",
		"amount": in.Amount,
	})
}

func (h *Handler) completePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int64   `json:"userId"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	points, ok := h.store.AwardPoints(req.UserID, req.Amount)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"newTotalPoints": points})
}

// ---------------------------------------------------------------------------
// Orders

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	if h.store.FailOrders() {
		writeError(w, http.StatusInternalServerError, "order service unavailable")
		return
	}

	var req struct {
		UserID      int64             `json:"userId"`
		TotalAmount float64           `json:"totalAmount"`
		Items       []types.OrderItem `json:"items"`
		Address     types.Address     `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order has no items")
		return
	}

	order := h.store.SaveOrder(req.UserID, req.TotalAmount, req.Items, req.Address)
	h.log.Info("order %s saved for user %d", order.ID, req.UserID)
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) userOrders(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	orders := h.store.OrdersFor(id)
	if orders == nil {
		orders = []types.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// ---------------------------------------------------------------------------
// Admin

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	u, _ := h.store.UserForToken(bearerToken(r))
	if u == nil || !u.Admin {
		// The client-side admin flag is cosmetic; this is the real check.
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	var req types.AdminProduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.BasePrice <= 0 {
		writeError(w, http.StatusBadRequest, "name and basePrice are required")
		return
	}

	p := h.store.AddProduct(req)
	writeJSON(w, http.StatusCreated, p)
}

// ---------------------------------------------------------------------------
// Twin switches

type switchRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) setOrderFault(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.store.SetFailOrders(req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"failOrders": req.Enabled})
}

func (h *Handler) setCatalogShape(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Wrapped bool `json:"wrapped"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.store.SetWrappedCatalog(req.Wrapped)
	writeJSON(w, http.StatusOK, map[string]bool{"wrapped": req.Wrapped})
}

func (h *Handler) setRecommendationShape(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDsOnly bool `json:"idsOnly"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.store.SetIDOnlyRecommendations(req.IDsOnly)
	writeJSON(w, http.StatusOK, map[string]bool{"idsOnly": req.IDsOnly})
}

func intQuery(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}
