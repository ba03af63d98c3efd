package models

import "time"

// Address is a billing or shipping address block.
type Address struct {
	Line1      string `json:"line1" bson:"line1"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	Country    string `json:"country" bson:"country"`
}

// OrderItem is a frozen snapshot of a cart line. Later product edits never
// change it.
type OrderItem struct {
	ProductID       string  `json:"productId" bson:"productId"`
	ProductName     string  `json:"productName" bson:"productName"`
	Description     string  `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL        string  `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	SupplierID      string  `json:"supplierId" bson:"supplierId"`
	SupplierName    string  `json:"supplierName,omitempty" bson:"supplierName,omitempty"`
	SKU             string  `json:"sku,omitempty" bson:"sku,omitempty"`
	QualityGrade    string  `json:"qualityGrade,omitempty" bson:"qualityGrade,omitempty"`
	CountryOfOrigin string  `json:"countryOfOrigin,omitempty" bson:"countryOfOrigin,omitempty"`
	Quantity        int     `json:"quantity" bson:"quantity"`
	UnitPrice       float64 `json:"unitPrice" bson:"unitPrice"`
	TotalPrice      float64 `json:"totalPrice" bson:"totalPrice"`
	Currency        string  `json:"currency" bson:"currency"`
}

// Order is the immutable-once-placed checkout snapshot. Status and
// PaymentStatus progress on independent axes.
type Order struct {
	OrderID     string `json:"orderId" bson:"orderId"`
	OrderNumber string `json:"orderNumber" bson:"orderNumber"`

	BuyerID      string `json:"buyerId" bson:"buyerId"`
	CustomerName string `json:"customerName,omitempty" bson:"customerName,omitempty"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty"`

	BillingAddress  Address `json:"billingAddress" bson:"billingAddress"`
	ShippingAddress Address `json:"shippingAddress" bson:"shippingAddress"`

	Subtotal       float64 `json:"subtotal" bson:"subtotal"`
	TaxAmount      float64 `json:"taxAmount" bson:"taxAmount"`
	ShippingCost   float64 `json:"shippingCost" bson:"shippingCost"`
	DiscountAmount float64 `json:"discountAmount" bson:"discountAmount"`
	TotalAmount    float64 `json:"totalAmount" bson:"totalAmount"`
	Currency       string  `json:"currency" bson:"currency"`
	ExchangeRate   float64 `json:"exchangeRate,omitempty" bson:"exchangeRate,omitempty"`

	PaymentMethod string        `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus" bson:"paymentStatus"`
	TransactionID string        `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	PaymentDate   *time.Time    `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`

	ShippingMethod string `json:"shippingMethod,omitempty" bson:"shippingMethod,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	Carrier        string `json:"carrier,omitempty" bson:"carrier,omitempty"`

	Status      OrderStatus `json:"status" bson:"status"`
	StatusNotes string      `json:"statusNotes,omitempty" bson:"statusNotes,omitempty"`

	TradeAssuranceID string `json:"tradeAssuranceId,omitempty" bson:"tradeAssuranceId,omitempty"`
	EscrowID         string `json:"escrowId,omitempty" bson:"escrowId,omitempty"`
	RFQID            string `json:"rfqId,omitempty" bson:"rfqId,omitempty"`

	Items     []OrderItem `json:"items" bson:"items"`
	ItemCount int         `json:"itemCount" bson:"itemCount"`

	OrderDate     time.Time  `json:"orderDate" bson:"orderDate"`
	ShippedDate   *time.Time `json:"shippedDate,omitempty" bson:"shippedDate,omitempty"`
	DeliveredDate *time.Time `json:"deliveredDate,omitempty" bson:"deliveredDate,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// HasSupplier reports whether any line item belongs to supplierID.
func (o *Order) HasSupplier(supplierID string) bool {
	for _, item := range o.Items {
		if item.SupplierID == supplierID {
			return true
		}
	}
	return false
}

// SupplierIDs lists the distinct suppliers on the order, in line order.
func (o *Order) SupplierIDs() []string {
	seen := make(map[string]bool, len(o.Items))
	var ids []string
	for _, item := range o.Items {
		if item.SupplierID == "" || seen[item.SupplierID] {
			continue
		}
		seen[item.SupplierID] = true
		ids = append(ids, item.SupplierID)
	}
	return ids
}
