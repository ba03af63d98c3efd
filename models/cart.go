package models

import "time"

// CartItem represents a single line in a cart. CartID is the authenticated
// user id, or an anonymous token minted for guest sessions. UnitPrice is a
// snapshot taken at add/update time and is never re-derived at checkout.
type CartItem struct {
	ItemID        string     `json:"itemId" bson:"itemId"`
	CartID        string     `json:"cartId" bson:"cartId"`
	ProductID     string     `json:"productId" bson:"productId"`
	ProductName   string     `json:"productName" bson:"productName"`
	SupplierID    string     `json:"supplierId" bson:"supplierId"`
	Quantity      int        `json:"quantity" bson:"quantity"`
	UnitPrice     float64    `json:"unitPrice" bson:"unitPrice"`
	Unit          string     `json:"unit,omitempty" bson:"unit,omitempty"`
	Notes         string     `json:"notes,omitempty" bson:"notes,omitempty"`
	SavedForLater bool       `json:"savedForLater" bson:"savedForLater"`
	AddedAt       time.Time  `json:"addedAt" bson:"addedAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// TotalPrice is the line extension at the snapshot price.
func (c *CartItem) TotalPrice() float64 {
	return c.UnitPrice * float64(c.Quantity)
}
