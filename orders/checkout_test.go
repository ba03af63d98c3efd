package orders

import (
	"strings"
	"testing"

	"agrimarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderFromCart(t *testing.T) {
	items := []models.CartItem{
		{ItemID: "i1", ProductID: "p1", ProductName: "Basmati Rice", SupplierID: "sup1", Quantity: 60, UnitPrice: 8.00},
		{ItemID: "i2", ProductID: "p2", ProductName: "Red Lentils", SupplierID: "sup2", Quantity: 20, UnitPrice: 3.50},
		{ItemID: "i3", ProductID: "p3", ProductName: "Later", SupplierID: "sup1", Quantity: 5, UnitPrice: 100, SavedForLater: true},
	}
	products := map[string]models.Product{
		"p1": {ProductID: "p1", SupplierName: "Green Farms", QualityGrade: "A", CountryOfOrigin: "IN"},
	}
	req := CheckoutRequest{
		CustomerName:  "Asha Traders",
		PaymentMethod: "bank_transfer",
		Currency:      "USD",
	}

	order, err := NewOrderFromCart("buyer1", req, items, products)
	require.NoError(t, err)

	assert.Len(t, order.Items, 2, "saved-for-later lines stay out of the order")
	assert.Equal(t, 80, order.ItemCount)
	assert.Equal(t, 550.00, order.Subtotal)
	assert.Equal(t, 550.00, order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)

	assert.Equal(t, "Green Farms", order.Items[0].SupplierName)
	assert.Equal(t, "A", order.Items[0].QualityGrade)
	assert.Equal(t, 480.00, order.Items[0].TotalPrice)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.True(t, order.HasSupplier("sup2"))
	assert.False(t, order.HasSupplier("sup9"))
}

func TestNewOrderFromCartDefaultsCurrency(t *testing.T) {
	items := []models.CartItem{{ProductID: "p1", Quantity: 1, UnitPrice: 2.00}}
	order, err := NewOrderFromCart("buyer1", CheckoutRequest{}, items, nil)
	require.NoError(t, err)
	assert.Equal(t, "USD", order.Currency)
	assert.Equal(t, "USD", order.Items[0].Currency)
}

func TestNewOrderFromCartEmpty(t *testing.T) {
	_, err := NewOrderFromCart("buyer1", CheckoutRequest{}, nil, nil)
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	onlySaved := []models.CartItem{{ProductID: "p1", Quantity: 2, UnitPrice: 1, SavedForLater: true}}
	_, err = NewOrderFromCart("buyer1", CheckoutRequest{}, onlySaved, nil)
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestReceiptPayloadSigned(t *testing.T) {
	p1 := ReceiptPayload("ord1", "ORD-20260101-AAAA")
	p2 := ReceiptPayload("ord1", "ORD-20260101-AAAA")
	p3 := ReceiptPayload("ord2", "ORD-20260101-BBBB")

	assert.Equal(t, p1, p2)
	assert.NotEqual(t, p1, p3)
	assert.True(t, strings.HasPrefix(p1, "ord1|ORD-20260101-AAAA|"))
}

func TestOrderVisibleTo(t *testing.T) {
	order := &models.Order{
		BuyerID: "buyer1",
		Items:   []models.OrderItem{{SupplierID: "sup1"}},
	}

	assert.True(t, OrderVisibleTo(order, "buyer1", false))
	assert.True(t, OrderVisibleTo(order, "sup1", false))
	assert.True(t, OrderVisibleTo(order, "someadmin", true))

	// a supplier with no line in the order sees nothing
	assert.False(t, OrderVisibleTo(order, "sup2", false))
	assert.False(t, OrderVisibleTo(order, "buyer2", false))
}

func TestStatusChangeAllowed(t *testing.T) {
	order := &models.Order{
		BuyerID: "buyer1",
		Items:   []models.OrderItem{{SupplierID: "sup1"}},
	}

	assert.NoError(t, StatusChangeAllowed(order, "admin1", true, models.OrderRefunded))
	assert.NoError(t, StatusChangeAllowed(order, "buyer1", false, models.OrderCancelled))
	assert.NoError(t, StatusChangeAllowed(order, "sup1", false, models.OrderShipped))

	// parties acting outside their role are refused
	assert.ErrorIs(t, StatusChangeAllowed(order, "buyer1", false, models.OrderShipped), models.ErrForbidden)
	assert.ErrorIs(t, StatusChangeAllowed(order, "sup1", false, models.OrderCancelled), models.ErrForbidden)

	// an unrelated supplier gets not-found, never a forbidden that
	// confirms the order exists
	assert.ErrorIs(t, StatusChangeAllowed(order, "sup2", false, models.OrderShipped), models.ErrNotFound)
	assert.ErrorIs(t, StatusChangeAllowed(order, "buyer2", false, models.OrderCancelled), models.ErrNotFound)
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, models.OrderPending.CanTransition(models.OrderConfirmed))
	assert.True(t, models.OrderConfirmed.CanTransition(models.OrderProcessing))
	assert.True(t, models.OrderProcessing.CanTransition(models.OrderShipped))
	assert.True(t, models.OrderShipped.CanTransition(models.OrderDelivered))
	assert.True(t, models.OrderPending.CanTransition(models.OrderCancelled))

	assert.False(t, models.OrderDelivered.CanTransition(models.OrderPending))
	assert.False(t, models.OrderCancelled.CanTransition(models.OrderShipped))

	// repeating the current status is allowed
	assert.True(t, models.OrderShipped.CanTransition(models.OrderShipped))
}
