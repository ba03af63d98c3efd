package cart

import (
	"testing"

	"agrimarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulkProduct() *models.Product {
	return &models.Product{
		ProductID:        "prod1",
		Name:             "Organic Wheat",
		Price:            10.00,
		BulkPrice:        8.00,
		BulkQuantity:     50,
		StockQuantity:    500,
		MinOrderQuantity: 10,
		Status:           models.ProductActive,
	}
}

func TestUnitPriceFor(t *testing.T) {
	p := bulkProduct()

	assert.Equal(t, 8.00, UnitPriceFor(p, 60))
	assert.Equal(t, 8.00, UnitPriceFor(p, 50))
	assert.Equal(t, 10.00, UnitPriceFor(p, 40))

	p.BulkPrice = 0
	assert.Equal(t, 10.00, UnitPriceFor(p, 60), "no bulk pricing without a bulk price")
}

func TestQuantityChangeRepricesLine(t *testing.T) {
	p := bulkProduct()

	item := models.CartItem{ProductID: p.ProductID, Quantity: 60, UnitPrice: UnitPriceFor(p, 60)}
	assert.Equal(t, 480.00, item.TotalPrice())

	item.Quantity = 40
	item.UnitPrice = UnitPriceFor(p, 40)
	assert.Equal(t, 400.00, item.TotalPrice())
}

func TestBuildNotes(t *testing.T) {
	p := bulkProduct()
	p.TradeAssuranceEligible = true
	p.QualityGrade = "A"
	p.LeadTimeDays = 5

	notes := BuildNotes(p, 60)
	assert.Equal(t, "Bulk pricing applied (50+ units); Trade Assurance eligible; Quality: A; Lead time: 5 days", notes)

	notes = BuildNotes(p, 40)
	assert.Equal(t, "Trade Assurance eligible; Quality: A; Lead time: 5 days", notes)

	assert.Empty(t, BuildNotes(&models.Product{Price: 5}, 3))
}

func TestValidateAdd(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.Product)
		quantity int
		wantErr  string
	}{
		{"ok", func(p *models.Product) {}, 60, ""},
		{"zero quantity", func(p *models.Product) {}, 0, "Quantity must be greater than 0"},
		{"negative quantity", func(p *models.Product) {}, -5, "Quantity must be greater than 0"},
		{"over stock", func(p *models.Product) { p.StockQuantity = 30 }, 40, "Only 30 units available in stock"},
		{"under minimum", func(p *models.Product) {}, 5, "Minimum order quantity is 10 units"},
		{"inactive product", func(p *models.Product) { p.Status = models.ProductInactive }, 60, "This product is not available for purchase"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := bulkProduct()
			tt.mutate(p)
			err := ValidateAdd(p, tt.quantity)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, models.IsValidation(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestValidateAddMaximum(t *testing.T) {
	p := bulkProduct()
	p.StockQuantity = 1000
	p.MaxOrderQuantity = 100

	err := ValidateAdd(p, 150)
	require.Error(t, err)
	assert.Equal(t, "Maximum order quantity is 100 units", err.Error())
}

func TestValidateUpdateSkipsMaximum(t *testing.T) {
	p := bulkProduct()
	p.StockQuantity = 1000
	p.MaxOrderQuantity = 100

	assert.NoError(t, ValidateUpdate(p, 150))

	err := ValidateUpdate(p, 5)
	require.Error(t, err)
	assert.Equal(t, "Minimum order quantity is 10 units", err.Error())
}

func TestSuccessMessage(t *testing.T) {
	p := bulkProduct()
	p.TradeAssuranceEligible = true

	msg := SuccessMessage(p, 60)
	assert.Equal(t, "60 Organic Wheat added to cart Bulk pricing applied! Trade Assurance protection included", msg)

	p.TradeAssuranceEligible = false
	assert.Equal(t, "40 Organic Wheat added to cart", SuccessMessage(p, 40))
}

func TestSummarize(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 60, UnitPrice: 8.00},
		{Quantity: 10, UnitPrice: 12.50},
		{Quantity: 99, UnitPrice: 1.00, SavedForLater: true},
	}

	count, total := Summarize(items)
	assert.Equal(t, 70, count)
	assert.Equal(t, 605.00, total)

	count, total = Summarize(nil)
	assert.Zero(t, count)
	assert.Zero(t, total)
}
