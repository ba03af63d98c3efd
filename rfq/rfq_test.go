package rfq

import (
	"testing"

	"agrimarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle(t *testing.T) {
	assert.True(t, models.RFQDraft.CanTransition(models.RFQPublished))
	assert.True(t, models.RFQPublished.CanTransition(models.RFQResponding))
	assert.True(t, models.RFQPublished.CanTransition(models.RFQAwarded))
	assert.True(t, models.RFQResponding.CanTransition(models.RFQAwarded))
	assert.True(t, models.RFQResponding.CanTransition(models.RFQExpired))

	assert.False(t, models.RFQDraft.CanTransition(models.RFQAwarded), "drafts must publish first")
	assert.False(t, models.RFQAwarded.CanTransition(models.RFQCancelled))
	assert.False(t, models.RFQExpired.CanTransition(models.RFQPublished))

	assert.True(t, models.RFQPublished.AcceptsResponses())
	assert.True(t, models.RFQResponding.AcceptsResponses())
	assert.False(t, models.RFQDraft.AcceptsResponses())
	assert.False(t, models.RFQAwarded.AcceptsResponses())
}

func TestOrderFromResponse(t *testing.T) {
	rfq := &models.RFQ{
		RFQID:    "rfq1",
		BuyerID:  "buyer1",
		Title:    "Bulk Arabica Beans",
		Quantity: 1000,
		Currency: "USD",
	}
	resp := &models.RFQResponse{
		ResponseID: "resp1",
		RFQID:      "rfq1",
		SupplierID: "sup1",
		Price:      4.20,
		Currency:   "USD",
		Quantity:   800,
	}

	order := OrderFromResponse(rfq, resp, "Highland Coffee Co")
	require.NotNil(t, order)

	assert.Equal(t, "buyer1", order.BuyerID)
	assert.Equal(t, "rfq1", order.RFQID)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)

	require.Len(t, order.Items, 1)
	line := order.Items[0]
	assert.Equal(t, "Bulk Arabica Beans", line.ProductName)
	assert.Equal(t, "sup1", line.SupplierID)
	assert.Equal(t, "Highland Coffee Co", line.SupplierName)
	assert.Equal(t, 800, line.Quantity, "order carries the quoted quantity, not the requested one")
	assert.InDelta(t, 3360.00, line.TotalPrice, 1e-9)
	assert.InDelta(t, 3360.00, order.TotalAmount, 1e-9)
	assert.True(t, order.HasSupplier("sup1"))
}
