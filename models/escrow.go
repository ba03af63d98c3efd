package models

import "time"

// EscrowTransaction is a payment hold linked 1:1 to an order, released to
// the supplier only after delivery conditions are met.
type EscrowTransaction struct {
	EscrowID   string       `json:"escrowId" bson:"escrowId"`
	OrderID    string       `json:"orderId" bson:"orderId"`
	BuyerID    string       `json:"buyerId" bson:"buyerId"`
	SupplierID string       `json:"supplierId" bson:"supplierId"`
	Amount     float64      `json:"amount" bson:"amount"`
	Currency   string       `json:"currency" bson:"currency"`
	Status     EscrowStatus `json:"status" bson:"status"`

	FundedDate   *time.Time `json:"fundedDate,omitempty" bson:"fundedDate,omitempty"`
	ReleasedDate *time.Time `json:"releasedDate,omitempty" bson:"releasedDate,omitempty"`
	RefundedDate *time.Time `json:"refundedDate,omitempty" bson:"refundedDate,omitempty"`
	Notes        string     `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TradeAssurance caps supplier liability to the buyer for one order.
type TradeAssurance struct {
	AssuranceID    string          `json:"assuranceId" bson:"assuranceId"`
	OrderID        string          `json:"orderId" bson:"orderId"`
	BuyerID        string          `json:"buyerId" bson:"buyerId"`
	SupplierID     string          `json:"supplierId" bson:"supplierId"`
	CoverageAmount float64         `json:"coverageAmount" bson:"coverageAmount"`
	Currency       string          `json:"currency" bson:"currency"`
	Status         AssuranceStatus `json:"status" bson:"status"`

	ExpiryDate   *time.Time `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	ClaimedDate  *time.Time `json:"claimedDate,omitempty" bson:"claimedDate,omitempty"`
	ResolvedDate *time.Time `json:"resolvedDate,omitempty" bson:"resolvedDate,omitempty"`
	ClaimReason  string     `json:"claimReason,omitempty" bson:"claimReason,omitempty"`
	Resolution   string     `json:"resolution,omitempty" bson:"resolution,omitempty"`
	PayoutAmount float64    `json:"payoutAmount,omitempty" bson:"payoutAmount,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PaymentTransaction records one simulated payment attempt against an order.
type PaymentTransaction struct {
	TransactionID  string    `json:"transactionId" bson:"transactionId"`
	OrderID        string    `json:"orderId" bson:"orderId"`
	BuyerID        string    `json:"buyerId" bson:"buyerId"`
	Method         string    `json:"method" bson:"method"`
	Amount         float64   `json:"amount" bson:"amount"`
	Currency       string    `json:"currency" bson:"currency"`
	Status         string    `json:"status" bson:"status"` // initiated, success, failed
	IdempotencyKey string    `json:"idempotencyKey,omitempty" bson:"idempotencyKey,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}
