package models

import "time"

// User is both the identity record and the KYC subject. Role holds one or
// more of "buyer", "supplier", "admin".
type User struct {
	UserID       string    `json:"userId" bson:"userId"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         []string  `json:"role" bson:"role"`
	CompanyName  string    `json:"companyName,omitempty" bson:"companyName,omitempty"`
	Country      string    `json:"country,omitempty" bson:"country,omitempty"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address      string    `json:"address,omitempty" bson:"address,omitempty"`
	City         string    `json:"city,omitempty" bson:"city,omitempty"`
	State        string    `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode   string    `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	IsActive     bool      `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`

	// KYC
	KYCStatus       KYCStatus `json:"kycStatus" bson:"kycStatus"`
	KYCDocuments    []string  `json:"kycDocuments,omitempty" bson:"kycDocuments,omitempty"`
	KYCReviewedBy   string    `json:"kycReviewedBy,omitempty" bson:"kycReviewedBy,omitempty"`
	KYCReviewedAt   time.Time `json:"kycReviewedAt,omitempty" bson:"kycReviewedAt,omitempty"`
	KYCRejectReason string    `json:"kycRejectReason,omitempty" bson:"kycRejectReason,omitempty"`

	// Trade assurance
	TradeAssuranceEnabled bool    `json:"tradeAssuranceEnabled" bson:"tradeAssuranceEnabled"`
	TradeAssuranceLimit   float64 `json:"tradeAssuranceLimit" bson:"tradeAssuranceLimit"`
}

// SupplierProfile carries the supplier's business sheet shown to buyers.
type SupplierProfile struct {
	UserID              string    `json:"userId" bson:"userId"`
	CompanyName         string    `json:"companyName" bson:"companyName"`
	BusinessLicense     string    `json:"businessLicense,omitempty" bson:"businessLicense,omitempty"`
	QualityCert         string    `json:"qualityCert,omitempty" bson:"qualityCert,omitempty"`
	EmployeeCount       int       `json:"employeeCount,omitempty" bson:"employeeCount,omitempty"`
	ProductionLeadTime  string    `json:"productionLeadTime,omitempty" bson:"productionLeadTime,omitempty"`
	ExportMarkets       []string  `json:"exportMarkets,omitempty" bson:"exportMarkets,omitempty"`
	PaymentTerms        []string  `json:"paymentTerms,omitempty" bson:"paymentTerms,omitempty"`
	ShippingMethods     []string  `json:"shippingMethods,omitempty" bson:"shippingMethods,omitempty"`
	ContactPerson       string    `json:"contactPerson,omitempty" bson:"contactPerson,omitempty"`
	ContactEmail        string    `json:"contactEmail,omitempty" bson:"contactEmail,omitempty"`
	TotalProducts       int       `json:"totalProducts" bson:"totalProducts"`
	TotalOrders         int       `json:"totalOrders" bson:"totalOrders"`
	TotalRevenue        float64   `json:"totalRevenue" bson:"totalRevenue"`
	Rating              float64   `json:"rating" bson:"rating"`
	ReviewCount         int       `json:"reviewCount" bson:"reviewCount"`
	CreatedAt           time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BuyerProfile carries the buyer's purchasing preferences.
type BuyerProfile struct {
	UserID              string    `json:"userId" bson:"userId"`
	CompanyName         string    `json:"companyName" bson:"companyName"`
	Industry            string    `json:"industry,omitempty" bson:"industry,omitempty"`
	PreferredCategories []string  `json:"preferredCategories,omitempty" bson:"preferredCategories,omitempty"`
	PreferredCountries  []string  `json:"preferredCountries,omitempty" bson:"preferredCountries,omitempty"`
	TotalOrders         int       `json:"totalOrders" bson:"totalOrders"`
	TotalSpent          float64   `json:"totalSpent" bson:"totalSpent"`
	ActiveRFQs          int       `json:"activeRfqs" bson:"activeRfqs"`
	CreatedAt           time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" bson:"updatedAt"`
}
