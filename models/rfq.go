package models

import "time"

// RFQItem is one requested line owned by its RFQ.
type RFQItem struct {
	ItemName string `json:"itemName" bson:"itemName"`
	// Description and Specifications come from the buyer's form verbatim.
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	ProductID   string            `json:"productId,omitempty" bson:"productId,omitempty"`
	Quantity    int               `json:"quantity" bson:"quantity"`
	Unit        string            `json:"unit,omitempty" bson:"unit,omitempty"`
	Specs       map[string]string `json:"specs,omitempty" bson:"specs,omitempty"`
}

// RFQ is a buyer-authored sourcing request.
type RFQ struct {
	RFQID       string `json:"rfqId" bson:"rfqId"`
	BuyerID     string `json:"buyerId" bson:"buyerId"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Category    string `json:"category" bson:"category"`
	SubCategory string `json:"subCategory,omitempty" bson:"subCategory,omitempty"`

	Quantity int     `json:"quantity" bson:"quantity"`
	Unit     string  `json:"unit,omitempty" bson:"unit,omitempty"`
	Budget   float64 `json:"budget,omitempty" bson:"budget,omitempty"`
	Currency string  `json:"currency" bson:"currency"`

	QualityRequirements string     `json:"qualityRequirements,omitempty" bson:"qualityRequirements,omitempty"`
	DeliveryTerms       string     `json:"deliveryTerms,omitempty" bson:"deliveryTerms,omitempty"`
	Deadline            *time.Time `json:"deadline,omitempty" bson:"deadline,omitempty"`
	DeliveryDate        *time.Time `json:"deliveryDate,omitempty" bson:"deliveryDate,omitempty"`

	Status            RFQStatus `json:"status" bson:"status"`
	AwardedResponseID string    `json:"awardedResponseId,omitempty" bson:"awardedResponseId,omitempty"`

	Items []RFQItem `json:"items,omitempty" bson:"items,omitempty"`

	ViewCount     int `json:"viewCount" bson:"viewCount"`
	ResponseCount int `json:"responseCount" bson:"responseCount"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// RFQResponse is one supplier offer. Suppliers may submit several over time.
type RFQResponse struct {
	ResponseID   string  `json:"responseId" bson:"responseId"`
	RFQID        string  `json:"rfqId" bson:"rfqId"`
	SupplierID   string  `json:"supplierId" bson:"supplierId"`
	Price        float64 `json:"price" bson:"price"`
	Currency     string  `json:"currency" bson:"currency"`
	Quantity     int     `json:"quantity" bson:"quantity"`
	Unit         string  `json:"unit,omitempty" bson:"unit,omitempty"`
	LeadTimeDays int     `json:"leadTimeDays,omitempty" bson:"leadTimeDays,omitempty"`
	DeliveryTerms string `json:"deliveryTerms,omitempty" bson:"deliveryTerms,omitempty"`
	PaymentTerms  string `json:"paymentTerms,omitempty" bson:"paymentTerms,omitempty"`
	Message       string `json:"message,omitempty" bson:"message,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
