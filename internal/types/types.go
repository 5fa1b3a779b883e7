// Package types holds the domain objects shared between the API client, the
// local stores, the checkout flow, and the UI. All catalog and order data is
// owned by the backend; these are the client-side views of it.
package types

import "time"

// Product is a catalog entry as returned by the backend. Depending on the
// endpoint, price can arrive in SuggestedPrice (personalized) or OriginalPrice
// (base), so consumers must go through EffectivePrice.
type Product struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Category        string   `json:"category,omitempty"`
	Image           string   `json:"image,omitempty"`
	SuggestedPrice  *float64 `json:"suggestedPrice,omitempty"`
	OriginalPrice   *float64 `json:"originalPrice,omitempty"`
	DiscountPercent float64  `json:"discountPercent,omitempty"`
	Stock           int      `json:"stock,omitempty"`
}

// EffectivePrice resolves the unit price with the suggested-then-original
// fallback, defaulting to 0 when neither field is present.
func (p Product) EffectivePrice() float64 {
	if p.SuggestedPrice != nil {
		return *p.SuggestedPrice
	}
	if p.OriginalPrice != nil {
		return *p.OriginalPrice
	}
	return 0
}

// CartItem is one line item in the cart. Price fields are frozen at add time;
// they are not revalidated against the live catalog.
type CartItem struct {
	ProductID       int64    `json:"productId"`
	Name            string   `json:"name"`
	SuggestedPrice  *float64 `json:"suggestedPrice,omitempty"`
	OriginalPrice   *float64 `json:"originalPrice,omitempty"`
	DiscountPercent float64  `json:"discountPercent,omitempty"`
	Quantity        int      `json:"quantity"`
}

// UnitPrice applies the same fallback rule as Product.EffectivePrice.
func (i CartItem) UnitPrice() float64 {
	if i.SuggestedPrice != nil {
		return *i.SuggestedPrice
	}
	if i.OriginalPrice != nil {
		return *i.OriginalPrice
	}
	return 0
}

// LineTotal is unit price times quantity.
func (i CartItem) LineTotal() float64 {
	return i.UnitPrice() * float64(i.Quantity)
}

// Identity is the authenticated user's profile as cached client-side. The
// backend is the source of truth; this copy can drift until the next login or
// explicit Update.
type Identity struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
	Admin         bool   `json:"admin,omitempty"`
}

// Address is the delivery address captured once per checkout attempt. It is
// never associated with the identity server-side by this client.
type Address struct {
	FullName string `json:"fullName"`
	Mobile   string `json:"mobile"`
	Pincode  string `json:"pincode"`
	Flat     string `json:"flat"`
	Area     string `json:"area"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Type     string `json:"addressType,omitempty"`
}

// OrderItem is one purchased line as recorded by the backend.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is read-only, server-owned order history data.
type Order struct {
	ID          string      `json:"id"`
	CreatedAt   time.Time   `json:"createdAt"`
	TotalAmount float64     `json:"totalAmount"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	Address     *Address    `json:"address,omitempty"`
}

// AdminProduct is the add-product form payload.
type AdminProduct struct {
	Name        string  `json:"name"`
	BasePrice   float64 `json:"basePrice"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// LineItemFromProduct freezes a product into a cart line with quantity 1.
func LineItemFromProduct(p Product) CartItem {
	return CartItem{
		ProductID:       p.ID,
		Name:            p.Name,
		SuggestedPrice:  p.SuggestedPrice,
		OriginalPrice:   p.OriginalPrice,
		DiscountPercent: p.DiscountPercent,
		Quantity:        1,
	}
}
