package logistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestDistanceTable(t *testing.T) {
	tb := NewDefaultTables()

	assert.Equal(t, 8000.0, tb.Distance("US", "CN"))
	assert.Equal(t, 300.0, tb.Distance("GB", "FR"))
	assert.Equal(t, 5000.0, tb.Distance("BR", "JP"), "unknown routes use the default")
}

func TestPriceComposition(t *testing.T) {
	tb := NewDefaultTables()
	req := Request{
		OriginCountry:      "US",
		DestinationCountry: "CN",
		Weight:             2000,
		ShippingMethod:     "sea",
		DeclaredValue:      10000,
	}

	q := tb.Price(req, now)
	require.NotNil(t, q)

	// 8000 km * (2000/1000) * 0.5 * 0.8 sea multiplier
	assert.InDelta(t, 6400.00, q.BaseCost, 1e-9)
	assert.InDelta(t, 960.00, q.FuelSurcharge, 1e-9)
	// cross-border: 10000 * (5% duty + 10% tax)
	assert.InDelta(t, 1500.00, q.CustomsFees, 1e-9)
	assert.InDelta(t, 128.00, q.InsuranceCost, 1e-9)
	assert.InDelta(t, 8988.00, q.TotalCost, 1e-9)

	assert.Equal(t, 21, q.EstimatedDays)
	assert.Equal(t, "Standard", q.ServiceLevel)
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, now.Add(24*time.Hour), q.ExpiryDate)
}

func TestPriceVolumeComponent(t *testing.T) {
	tb := NewDefaultTables()
	req := Request{
		OriginCountry:      "GB",
		DestinationCountry: "FR",
		Weight:             100,
		Length:             100, Width: 100, Height: 100, // 1 m3
		ShippingMethod: "land",
	}

	q := tb.Price(req, now)
	// (300*0.1*0.5 + 300*1*0.3) * 1.5 land multiplier
	assert.InDelta(t, 157.50, q.BaseCost, 1e-9)
	assert.Zero(t, q.CustomsFees, "no customs within one border")
}

func TestPriceMinimumFloor(t *testing.T) {
	tb := NewDefaultTables()
	req := Request{
		OriginCountry:      "US",
		DestinationCountry: "CA",
		Weight:             1,
		ShippingMethod:     "sea",
	}

	q := tb.Price(req, now)
	assert.Equal(t, 50.0, q.BaseCost, "tiny shipments hit the floor")
}

func TestPriceDomesticNoCustoms(t *testing.T) {
	tb := NewDefaultTables()
	q := tb.Price(Request{OriginCountry: "US", DestinationCountry: "US", Weight: 500, DeclaredValue: 9999}, now)
	assert.Zero(t, q.CustomsFees)
}

func TestMethodMultipliers(t *testing.T) {
	tb := NewDefaultTables()
	base := func(method string) float64 {
		return tb.Price(Request{OriginCountry: "US", DestinationCountry: "CN", Weight: 1000, ShippingMethod: method}, now).BaseCost
	}

	land := base("land")
	assert.InDelta(t, land*2, base("air"), 1e-9)         // 3.0 vs 1.5
	assert.InDelta(t, land*8.0/3.0, base("express"), 1e-6) // 4.0 vs 1.5
	assert.InDelta(t, land*0.8/1.5, base("sea"), 1e-6)
}

func TestDeliveryDays(t *testing.T) {
	assert.Equal(t, 3, DeliveryDays(MethodAir))
	assert.Equal(t, 21, DeliveryDays(MethodSea))
	assert.Equal(t, 7, DeliveryDays(MethodLand))
	assert.Equal(t, 1, DeliveryDays(MethodExpress))
	assert.Equal(t, 5, DeliveryDays(ShipMethod("pigeon")))
}

func TestMethodsPerRoute(t *testing.T) {
	tb := NewDefaultTables()

	domestic := tb.Methods("US", "US")
	for _, m := range domestic {
		assert.NotEqual(t, MethodSea, m.Type, "no ocean freight domestically")
	}

	crossContinent := tb.Methods("US", "CN")
	seaFound := false
	for _, m := range crossContinent {
		if m.Type == MethodSea {
			seaFound = true
		}
		assert.NotEqual(t, MethodLand, m.Type, "no ground across continents")
	}
	assert.True(t, seaFound)

	sameContinent := tb.Methods("GB", "DE")
	landFound := false
	for _, m := range sameContinent {
		if m.Type == MethodLand {
			landFound = true
		}
	}
	assert.True(t, landFound)
}

func TestCarriersRegional(t *testing.T) {
	tb := NewDefaultTables()

	assert.Len(t, tb.Carriers("US", "CN"), 3)
	carriers := tb.Carriers("GB", "DE")
	require.Len(t, carriers, 4)
	assert.Equal(t, "REGIONAL", carriers[3].Code)
}

func TestMultiQuoteSorted(t *testing.T) {
	tb := NewDefaultTables()
	quotes := tb.MultiQuote(Request{OriginCountry: "US", DestinationCountry: "CN", Weight: 3000, DeclaredValue: 500}, now)

	require.NotEmpty(t, quotes)
	for i := 1; i < len(quotes); i++ {
		assert.LessOrEqual(t, quotes[i-1].TotalCost, quotes[i].TotalCost)
	}
}

func TestBulkQuote(t *testing.T) {
	tb := NewDefaultTables()
	requests := []Request{
		{OriginCountry: "US", DestinationCountry: "CN", Weight: 1000, DeclaredValue: 2000},
		{OriginCountry: "US", DestinationCountry: "CN", Weight: 2000, DeclaredValue: 3000},
	}

	q := tb.BulkQuote(requests, now)
	require.NotNil(t, q)

	assert.Equal(t, MethodSea, q.ShippingMethod, "bulk consolidates onto sea freight")
	assert.Equal(t, 3000.0, q.Weight)

	// undiscounted: base 8000*3*0.5*0.8=9600, fuel 1440, customs 750, insurance 192
	undiscounted := 9600.0 + 1440.0 + 750.0 + 192.0
	assert.InDelta(t, undiscounted*0.15, q.BulkDiscount, 1e-9)
	assert.InDelta(t, undiscounted*0.85, q.TotalCost, 1e-9)

	assert.Nil(t, tb.BulkQuote(nil, now))
}

func TestEstimate(t *testing.T) {
	e := Estimate(Request{OriginCountry: "US", DestinationCountry: "GB", ShippingMethod: "express"}, now)
	assert.Equal(t, 1, e.EstimatedDays)
	assert.Equal(t, "Premium", e.ServiceLevel)
	assert.Equal(t, now.AddDate(0, 0, 1), e.EstimatedDeliveryDate)
}
