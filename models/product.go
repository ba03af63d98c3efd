package models

import "time"

// Product is a supplier-owned catalog entry. BulkPrice applies only when the
// ordered quantity reaches BulkQuantity.
type Product struct {
	ProductID   string  `json:"productId" bson:"productId"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Category    string  `json:"category" bson:"category"`
	SubCategory string  `json:"subCategory,omitempty" bson:"subCategory,omitempty"`
	SKU         string  `json:"sku,omitempty" bson:"sku,omitempty"`
	Unit        string  `json:"unit,omitempty" bson:"unit,omitempty"`
	Price       float64 `json:"price" bson:"price"`

	// B2B pricing
	BulkPrice    float64 `json:"bulkPrice,omitempty" bson:"bulkPrice,omitempty"`
	BulkQuantity int     `json:"bulkQuantity,omitempty" bson:"bulkQuantity,omitempty"`
	PricingTier  string  `json:"pricingTier,omitempty" bson:"pricingTier,omitempty"`

	// Supplier
	SupplierID       string `json:"supplierId" bson:"supplierId"`
	SupplierName     string `json:"supplierName,omitempty" bson:"supplierName,omitempty"`
	SupplierLocation string `json:"supplierLocation,omitempty" bson:"supplierLocation,omitempty"`

	// Media
	ImageURL     string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`

	// Inventory
	StockQuantity    int `json:"stockQuantity" bson:"stockQuantity"`
	MinOrderQuantity int `json:"minOrderQuantity,omitempty" bson:"minOrderQuantity,omitempty"`
	MaxOrderQuantity int `json:"maxOrderQuantity,omitempty" bson:"maxOrderQuantity,omitempty"`
	ReservedQuantity int `json:"reservedQuantity,omitempty" bson:"reservedQuantity,omitempty"`
	LeadTimeDays     int `json:"leadTimeDays,omitempty" bson:"leadTimeDays,omitempty"`

	Status ProductStatus `json:"status" bson:"status"`

	// Quality and assurance
	QualityGrade           string `json:"qualityGrade,omitempty" bson:"qualityGrade,omitempty"`
	TradeAssuranceEligible bool   `json:"tradeAssuranceEligible" bson:"tradeAssuranceEligible"`
	CountryOfOrigin        string `json:"countryOfOrigin,omitempty" bson:"countryOfOrigin,omitempty"`

	// Shipping dimensions
	Weight float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Length float64 `json:"length,omitempty" bson:"length,omitempty"`
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`

	// Analytics
	ViewCount  int     `json:"viewCount" bson:"viewCount"`
	OrderCount int     `json:"orderCount" bson:"orderCount"`
	Rating     float64 `json:"rating" bson:"rating"`

	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	RejectReason string     `json:"rejectReason,omitempty" bson:"rejectReason,omitempty"`
}

// HasBulkPricing reports whether the product defines a bulk tier at all.
func (p *Product) HasBulkPricing() bool {
	return p.BulkPrice > 0 && p.BulkQuantity > 0
}
