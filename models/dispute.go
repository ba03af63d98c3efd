package models

import "time"

// Dispute ties an initiator/respondent pair to an optional order or product.
type Dispute struct {
	DisputeID    string      `json:"disputeId" bson:"disputeId"`
	InitiatorID  string      `json:"initiatorId" bson:"initiatorId"`
	RespondentID string      `json:"respondentId" bson:"respondentId"`
	Title        string      `json:"title" bson:"title"`
	Description  string      `json:"description,omitempty" bson:"description,omitempty"`
	Type         DisputeType `json:"type" bson:"type"`
	Status       DisputeStatus `json:"status" bson:"status"`

	OrderID   string `json:"orderId,omitempty" bson:"orderId,omitempty"`
	ProductID string `json:"productId,omitempty" bson:"productId,omitempty"`

	Resolution     string     `json:"resolution,omitempty" bson:"resolution,omitempty"`
	ResolvedBy     string     `json:"resolvedBy,omitempty" bson:"resolvedBy,omitempty"`
	ResolvedDate   *time.Time `json:"resolvedDate,omitempty" bson:"resolvedDate,omitempty"`
	RefundAmount   float64    `json:"refundAmount,omitempty" bson:"refundAmount,omitempty"`
	RefundCurrency string     `json:"refundCurrency,omitempty" bson:"refundCurrency,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Involves reports whether userID is one of the two dispute parties.
func (d *Dispute) Involves(userID string) bool {
	return d.InitiatorID == userID || d.RespondentID == userID
}
