package logistics

import (
	"math"
	"strings"
	"time"

	"agrimarket/utils"
)

// ShipMethod is a freight mode.
type ShipMethod string

const (
	MethodAir     ShipMethod = "air"
	MethodSea     ShipMethod = "sea"
	MethodLand    ShipMethod = "land"
	MethodExpress ShipMethod = "express"
)

// ParseMethod maps free-form input to a mode, defaulting to air.
func ParseMethod(s string) ShipMethod {
	switch strings.ToLower(s) {
	case "sea":
		return MethodSea
	case "land":
		return MethodLand
	case "express":
		return MethodExpress
	default:
		return MethodAir
	}
}

// Request describes one shipment to price.
type Request struct {
	OriginCountry      string  `json:"originCountry"`
	OriginCity         string  `json:"originCity"`
	DestinationCountry string  `json:"destinationCountry"`
	DestinationCity    string  `json:"destinationCity"`
	Weight             float64 `json:"weight"` // kg
	Length             float64 `json:"length"` // cm
	Width              float64 `json:"width"`
	Height             float64 `json:"height"`
	ShippingMethod     string  `json:"shippingMethod"`
	DeclaredValue      float64 `json:"declaredValue"`
}

// Quote is a priced shipping offer, valid for 24 hours.
type Quote struct {
	RequestID      string     `json:"requestId" bson:"requestId"`
	FromCountry    string     `json:"fromCountry" bson:"fromCountry"`
	FromCity       string     `json:"fromCity,omitempty" bson:"fromCity,omitempty"`
	ToCountry      string     `json:"toCountry" bson:"toCountry"`
	ToCity         string     `json:"toCity,omitempty" bson:"toCity,omitempty"`
	Weight         float64    `json:"weight" bson:"weight"`
	WeightUnit     string     `json:"weightUnit" bson:"weightUnit"`
	ShippingMethod ShipMethod `json:"shippingMethod" bson:"shippingMethod"`
	BaseCost       float64    `json:"baseCost" bson:"baseCost"`
	FuelSurcharge  float64    `json:"fuelSurcharge" bson:"fuelSurcharge"`
	CustomsFees    float64    `json:"customsFees" bson:"customsFees"`
	InsuranceCost  float64    `json:"insuranceCost" bson:"insuranceCost"`
	BulkDiscount   float64    `json:"bulkDiscount,omitempty" bson:"bulkDiscount,omitempty"`
	TotalCost      float64    `json:"totalCost" bson:"totalCost"`
	Currency       string     `json:"currency" bson:"currency"`
	EstimatedDays  int        `json:"estimatedDays" bson:"estimatedDays"`
	Carrier        string     `json:"carrier" bson:"carrier"`
	ServiceLevel   string     `json:"serviceLevel" bson:"serviceLevel"`
	CreatedDate    time.Time  `json:"createdDate" bson:"createdDate"`
	ExpiryDate     time.Time  `json:"expiryDate" bson:"expiryDate"`
}

// CustomsInfo is the duty and documentation sheet for one route.
type CustomsInfo struct {
	FromCountry           string   `json:"fromCountry"`
	ToCountry             string   `json:"toCountry"`
	HSCode                string   `json:"hsCode"`
	DutyRate              float64  `json:"dutyRate"`
	TaxRate               float64  `json:"taxRate"`
	RequiresLicense       bool     `json:"requiresLicense"`
	RestrictedItems       bool     `json:"restrictedItems"`
	DocumentationRequired []string `json:"documentationRequired"`
}

// MethodInfo describes one bookable shipping option on a route.
type MethodInfo struct {
	Type          ShipMethod `json:"type"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	EstimatedDays int        `json:"estimatedDays"`
	MaxWeight     float64    `json:"maxWeight"`
}

// CarrierInfo describes one carrier serving a route.
type CarrierInfo struct {
	Name     string       `json:"name"`
	Code     string       `json:"code"`
	Services []ShipMethod `json:"services"`
	Coverage string       `json:"coverage"`
	Rating   float64      `json:"rating"`
}

// DeliveryEstimate is the schedule-only answer, without pricing.
type DeliveryEstimate struct {
	FromCountry           string     `json:"fromCountry"`
	ToCountry             string     `json:"toCountry"`
	ShippingMethod        ShipMethod `json:"shippingMethod"`
	EstimatedDays         int        `json:"estimatedDays"`
	EstimatedDeliveryDate time.Time  `json:"estimatedDeliveryDate"`
	ServiceLevel          string     `json:"serviceLevel"`
	CreatedDate           time.Time  `json:"createdDate"`
}

// Tables holds the rate card. Injectable so tests can pin it and ops can
// swap it without touching the math.
type Tables struct {
	Distances       map[string]map[string]float64
	DefaultDistance float64
	Continents      map[string]string
	DutyRate        float64
	TaxRate         float64
}

// NewDefaultTables returns the built-in rate card.
func NewDefaultTables() *Tables {
	return &Tables{
		Distances: map[string]map[string]float64{
			"US": {"CA": 1000, "MX": 2000, "GB": 5000, "CN": 8000},
			"GB": {"DE": 500, "FR": 300, "US": 5000, "CN": 7000},
			"CN": {"JP": 1000, "KR": 800, "US": 8000, "GB": 7000},
		},
		DefaultDistance: 5000,
		Continents: map[string]string{
			"US": "North America", "CA": "North America", "MX": "North America",
			"GB": "Europe", "DE": "Europe", "FR": "Europe", "IT": "Europe",
			"CN": "Asia", "JP": "Asia", "IN": "Asia", "KR": "Asia",
			"AU": "Oceania", "NZ": "Oceania",
			"BR": "South America", "AR": "South America",
			"ZA": "Africa", "EG": "Africa", "NG": "Africa",
		},
		DutyRate: 0.05,
		TaxRate:  0.10,
	}
}

// Distance returns the route distance in km, defaulting when the pair is
// not on the card.
func (t *Tables) Distance(from, to string) float64 {
	if routes, ok := t.Distances[from]; ok {
		if d, ok := routes[to]; ok {
			return d
		}
	}
	return t.DefaultDistance
}

func (t *Tables) sameContinent(a, b string) bool {
	ca, ok1 := t.Continents[a]
	cb, ok2 := t.Continents[b]
	return ok1 && ok2 && ca == cb
}

func methodMultiplier(m ShipMethod) float64 {
	switch m {
	case MethodAir:
		return 3.0
	case MethodSea:
		return 0.8
	case MethodExpress:
		return 4.0
	default:
		return 1.5
	}
}

// DeliveryDays is the transit estimate per mode.
func DeliveryDays(m ShipMethod) int {
	switch m {
	case MethodAir:
		return 3
	case MethodSea:
		return 21
	case MethodLand:
		return 7
	case MethodExpress:
		return 1
	default:
		return 5
	}
}

// ServiceLevel names the tier a mode sells as.
func ServiceLevel(m ShipMethod) string {
	switch m {
	case MethodExpress:
		return "Premium"
	case MethodAir:
		return "Express"
	case MethodSea:
		return "Standard"
	case MethodLand:
		return "Ground"
	default:
		return "Standard"
	}
}

// baseCost prices weight and volume over the route distance, with the mode
// multiplier and a $50 floor.
func (t *Tables) baseCost(req Request, method ShipMethod) float64 {
	distance := t.Distance(req.OriginCountry, req.DestinationCountry)
	weightFactor := req.Weight / 1000
	volumeFactor := (req.Length * req.Width * req.Height) / 1000000 // cm3 to m3

	cost := distance*weightFactor*0.5 + distance*volumeFactor*0.3
	cost *= methodMultiplier(method)
	return math.Max(50, cost)
}

// Customs returns the duty sheet for a route.
func (t *Tables) Customs(from, to, hsCode string) CustomsInfo {
	return CustomsInfo{
		FromCountry: from,
		ToCountry:   to,
		HSCode:      hsCode,
		DutyRate:    t.DutyRate,
		TaxRate:     t.TaxRate,
		DocumentationRequired: []string{
			"Commercial Invoice",
			"Packing List",
			"Certificate of Origin",
		},
	}
}

// customsFees is zero domestically, else declared value times combined duty
// and tax.
func (t *Tables) customsFees(req Request) float64 {
	if req.OriginCountry == req.DestinationCountry {
		return 0
	}
	info := t.Customs(req.OriginCountry, req.DestinationCountry, "0701.90")
	return req.DeclaredValue * (info.DutyRate + info.TaxRate)
}

// Price builds a full quote: base cost, 15% fuel surcharge, customs on
// cross-border declared value, and 2% insurance.
func (t *Tables) Price(req Request, now time.Time) *Quote {
	method := ParseMethod(req.ShippingMethod)
	base := t.baseCost(req, method)

	q := &Quote{
		RequestID:      utils.GetUUID(),
		FromCountry:    req.OriginCountry,
		FromCity:       req.OriginCity,
		ToCountry:      req.DestinationCountry,
		ToCity:         req.DestinationCity,
		Weight:         req.Weight,
		WeightUnit:     "kg",
		ShippingMethod: method,
		BaseCost:       base,
		FuelSurcharge:  base * 0.15,
		CustomsFees:    t.customsFees(req),
		InsuranceCost:  base * 0.02,
		Currency:       "USD",
		EstimatedDays:  DeliveryDays(method),
		ServiceLevel:   ServiceLevel(method),
		CreatedDate:    now,
		ExpiryDate:     now.Add(24 * time.Hour),
	}
	q.TotalCost = q.BaseCost + q.FuelSurcharge + q.CustomsFees + q.InsuranceCost

	if carriers := t.Carriers(req.OriginCountry, req.DestinationCountry); len(carriers) > 0 {
		q.Carrier = carriers[0].Name
	} else {
		q.Carrier = "Standard Carrier"
	}
	return q
}

// Methods lists the bookable modes on a route: air always, sea when
// cross-border, land within a continent.
func (t *Tables) Methods(from, to string) []MethodInfo {
	methods := []MethodInfo{
		{Type: MethodAir, Name: "Express Air", Description: "Fastest delivery option", EstimatedDays: 3, MaxWeight: 1000},
		{Type: MethodAir, Name: "Standard Air", Description: "Standard air freight", EstimatedDays: 5, MaxWeight: 2000},
	}
	if from != to {
		methods = append(methods, MethodInfo{
			Type: MethodSea, Name: "Ocean Freight", Description: "Cost-effective sea shipping", EstimatedDays: 21, MaxWeight: 50000,
		})
	}
	if t.sameContinent(from, to) {
		methods = append(methods, MethodInfo{
			Type: MethodLand, Name: "Ground Shipping", Description: "Reliable ground transportation", EstimatedDays: 7, MaxWeight: 5000,
		})
	}
	return methods
}

// Carriers lists carriers serving a route, regional ones included within a
// continent.
func (t *Tables) Carriers(from, to string) []CarrierInfo {
	carriers := []CarrierInfo{
		{Name: "DHL", Code: "DHL", Services: []ShipMethod{MethodAir, MethodExpress}, Coverage: "Global", Rating: 4.5},
		{Name: "FedEx", Code: "FEDEX", Services: []ShipMethod{MethodAir, MethodExpress}, Coverage: "Global", Rating: 4.3},
		{Name: "UPS", Code: "UPS", Services: []ShipMethod{MethodAir, MethodLand}, Coverage: "Global", Rating: 4.2},
	}
	if t.sameContinent(from, to) {
		carriers = append(carriers, CarrierInfo{
			Name: "Regional Express", Code: "REGIONAL", Services: []ShipMethod{MethodLand, MethodAir}, Coverage: "Regional", Rating: 4.0,
		})
	}
	return carriers
}

// MultiQuote prices every available mode on the route, cheapest first.
func (t *Tables) MultiQuote(req Request, now time.Time) []*Quote {
	seen := map[ShipMethod]bool{}
	var quotes []*Quote
	for _, m := range t.Methods(req.OriginCountry, req.DestinationCountry) {
		if seen[m.Type] {
			continue
		}
		seen[m.Type] = true

		r := req
		r.ShippingMethod = string(m.Type)
		quotes = append(quotes, t.Price(r, now))
	}
	for i := 1; i < len(quotes); i++ {
		for j := i; j > 0 && quotes[j].TotalCost < quotes[j-1].TotalCost; j-- {
			quotes[j], quotes[j-1] = quotes[j-1], quotes[j]
		}
	}
	return quotes
}

// Estimate answers delivery schedule only.
func Estimate(req Request, now time.Time) DeliveryEstimate {
	method := ParseMethod(req.ShippingMethod)
	days := DeliveryDays(method)
	return DeliveryEstimate{
		FromCountry:           req.OriginCountry,
		ToCountry:             req.DestinationCountry,
		ShippingMethod:        method,
		EstimatedDays:         days,
		EstimatedDeliveryDate: now.AddDate(0, 0, days),
		ServiceLevel:          ServiceLevel(method),
		CreatedDate:           now,
	}
}

// BulkQuote consolidates shipments into one sea-freight quote with a 15%
// bulk discount. Returns nil on an empty batch.
func (t *Tables) BulkQuote(requests []Request, now time.Time) *Quote {
	if len(requests) == 0 {
		return nil
	}

	bulk := Request{
		OriginCountry:      requests[0].OriginCountry,
		OriginCity:         requests[0].OriginCity,
		DestinationCountry: requests[0].DestinationCountry,
		DestinationCity:    requests[0].DestinationCity,
		ShippingMethod:     string(MethodSea),
	}
	for _, r := range requests {
		bulk.Weight += r.Weight
		bulk.DeclaredValue += r.DeclaredValue
		bulk.Length = math.Max(bulk.Length, r.Length)
		bulk.Width = math.Max(bulk.Width, r.Width)
		bulk.Height += r.Height
	}

	q := t.Price(bulk, now)
	q.BulkDiscount = q.TotalCost * 0.15
	q.TotalCost -= q.BulkDiscount
	return q
}
