// Package api is the typed client for the e-commerce backend. It owns all
// response-shape normalization: callers always get clean domain types no
// matter which of the backend's historical payload shapes arrives.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront/internal/logging"
	"storefront/internal/types"
)

// TokenSource supplies the bearer credential for authenticated requests. The
// session store implements it; an empty token means "send unauthenticated".
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, handy for tests and scripts.
type StaticToken string

// Token returns the fixed token.
func (s StaticToken) Token() string { return string(s) }

// Client talks to the backend. All methods take a context and are safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logging.Logger
}

// New creates a backend client. A zero timeout keeps requests from hanging a
// view forever, so one is always applied.
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     logging.Get(logging.CategoryAPI),
	}
}

// do issues the request, attaches the bearer token when present, and decodes
// a non-2xx body into an APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}, extraHeaders map[string]string) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("%s %s failed: %v", method, path, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	c.log.Debug("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(path, resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, nil)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, payload, nil)
}

// ---------------------------------------------------------------------------
// Auth

type loginResponse struct {
	Token         string `json:"token"`
	UserID        int64  `json:"userId"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
	Admin         bool   `json:"admin"`
}

// Login authenticates and returns the identity plus the bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (types.Identity, string, error) {
	data, err := c.post(ctx, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return types.Identity{}, "", err
	}

	var lr loginResponse
	if err := json.Unmarshal(data, &lr); err != nil {
		return types.Identity{}, "", fmt.Errorf("decode login response: %w", err)
	}
	id := types.Identity{
		ID:            lr.UserID,
		Username:      lr.Username,
		Email:         lr.Email,
		LoyaltyPoints: lr.LoyaltyPoints,
		Admin:         lr.Admin,
	}
	return id, lr.Token, nil
}

// Signup registers a new account. The backend does not log the user in.
func (c *Client) Signup(ctx context.Context, username, password, email string) error {
	_, err := c.post(ctx, "/api/auth/signup", map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	})
	return err
}

// ---------------------------------------------------------------------------
// Catalog

// ProductQuery selects a catalog page.
type ProductQuery struct {
	UserID   int64
	Limit    int
	Page     int
	PageSize int
}

// PageInfo is pagination metadata; zero values mean the backend answered with
// the bare-array shape that carries none.
type PageInfo struct {
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// productPage is the wrapped response shape.
type productPage struct {
	Products   []types.Product `json:"products"`
	TotalCount int             `json:"totalCount"`
	TotalPages int             `json:"totalPages"`
}

// Products lists the catalog. The backend answers with either a bare product
// array or a {products,totalCount,totalPages} wrapper; both are normalized
// here and nowhere else.
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]types.Product, PageInfo, error) {
	query := url.Values{}
	if q.UserID > 0 {
		query.Set("userId", strconv.FormatInt(q.UserID, 10))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	data, err := c.get(ctx, "/api/products", query)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return normalizeProductList(data)
}

// Product fetches one catalog entry with per-user pricing.
func (c *Client) Product(ctx context.Context, id, userID int64) (types.Product, error) {
	query := url.Values{}
	if userID > 0 {
		query.Set("userId", strconv.FormatInt(userID, 10))
	}

	data, err := c.get(ctx, "/api/products/"+strconv.FormatInt(id, 10), query)
	if err != nil {
		return types.Product{}, err
	}

	var p types.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return types.Product{}, fmt.Errorf("decode product %d: %w", id, err)
	}
	return p, nil
}

// SimilarProducts fetches the similar-items strip for a product detail page.
func (c *Client) SimilarProducts(ctx context.Context, id, userID int64, limit int) ([]types.Product, error) {
	query := url.Values{}
	if userID > 0 {
		query.Set("userId", strconv.FormatInt(userID, 10))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	data, err := c.get(ctx, "/api/products/"+strconv.FormatInt(id, 10)+"/similar", query)
	if err != nil {
		return nil, err
	}

	var products []types.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode similar products: %w", err)
	}
	return products, nil
}

// Search runs a catalog search.
func (c *Client) Search(ctx context.Context, queryText string, limit int, userID int64) ([]types.Product, error) {
	query := url.Values{}
	query.Set("query", queryText)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if userID > 0 {
		query.Set("userId", strconv.FormatInt(userID, 10))
	}

	data, err := c.get(ctx, "/api/search", query)
	if err != nil {
		return nil, err
	}

	var products []types.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return products, nil
}

// ---------------------------------------------------------------------------
// Payment

type createIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreateIntent asks the backend for a payment authorization covering amount.
func (c *Client) CreateIntent(ctx context.Context, amount float64, userID int64) (string, error) {
	data, err := c.post(ctx, "/api/payment/create-intent", map[string]interface{}{
		"amount": amount,
		"userId": userID,
	})
	if err != nil {
		return "", err
	}

	var res createIntentResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return "", fmt.Errorf("decode create-intent response: %w", err)
	}
	if res.ClientSecret == "" {
		return "", fmt.Errorf("create-intent: no client secret received")
	}
	return res.ClientSecret, nil
}

type completePaymentResponse struct {
	NewTotalPoints int `json:"newTotalPoints"`
}

// CompletePayment reports a settled charge and returns the updated loyalty
// point balance.
func (c *Client) CompletePayment(ctx context.Context, userID int64, amount float64) (int, error) {
	data, err := c.post(ctx, "/api/payment/complete", map[string]interface{}{
		"userId": userID,
		"amount": amount,
	})
	if err != nil {
		return 0, err
	}

	var res completePaymentResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return 0, fmt.Errorf("decode complete-payment response: %w", err)
	}
	return res.NewTotalPoints, nil
}

// ---------------------------------------------------------------------------
// Orders

// OrderRequest is the order-submission payload.
type OrderRequest struct {
	UserID      int64             `json:"userId"`
	TotalAmount float64           `json:"totalAmount"`
	Items       []types.OrderItem `json:"items"`
	Address     types.Address     `json:"address"`
}

// CreateOrder persists an order after a successful charge. The idempotency
// key guards against a double submit of the same checkout attempt.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest, idempotencyKey string) (types.Order, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	data, err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, headers)
	if err != nil {
		return types.Order{}, err
	}

	var order types.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return types.Order{}, fmt.Errorf("decode order response: %w", err)
	}
	return order, nil
}

// UserOrders fetches the order history for a user.
func (c *Client) UserOrders(ctx context.Context, userID int64) ([]types.Order, error) {
	data, err := c.get(ctx, "/api/orders/user/"+strconv.FormatInt(userID, 10), nil)
	if err != nil {
		return nil, err
	}

	var orders []types.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("decode order history: %w", err)
	}
	return orders, nil
}

// ---------------------------------------------------------------------------
// Admin

// AddProduct submits the admin add-product form. Authorization happens
// server-side; the client-side admin flag only gates the UI.
func (c *Client) AddProduct(ctx context.Context, p types.AdminProduct) error {
	_, err := c.post(ctx, "/api/admin/products", p)
	return err
}
