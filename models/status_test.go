package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductStatusTransitions(t *testing.T) {
	assert.True(t, ProductPendingApproval.CanTransition(ProductActive))
	assert.True(t, ProductPendingApproval.CanTransition(ProductInactive))
	assert.True(t, ProductActive.CanTransition(ProductDiscontinued))
	assert.True(t, ProductInactive.CanTransition(ProductActive))

	assert.False(t, ProductActive.CanTransition(ProductPendingApproval))
	assert.False(t, ProductDiscontinued.CanTransition(ProductActive))

	// repeats are idempotent
	assert.True(t, ProductActive.CanTransition(ProductActive))
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderPending.CanTransition(OrderConfirmed))
	assert.True(t, OrderConfirmed.CanTransition(OrderProcessing))
	assert.True(t, OrderProcessing.CanTransition(OrderShipped))
	assert.True(t, OrderShipped.CanTransition(OrderDelivered))
	assert.True(t, OrderDelivered.CanTransition(OrderRefunded))
	assert.True(t, OrderDisputed.CanTransition(OrderDelivered))

	assert.False(t, OrderPending.CanTransition(OrderShipped))
	assert.False(t, OrderShipped.CanTransition(OrderCancelled))
	assert.False(t, OrderCancelled.CanTransition(OrderPending))
	assert.False(t, OrderRefunded.CanTransition(OrderDisputed))

	assert.True(t, OrderPending.CanTransition(OrderPending))
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderPending.Valid())
	assert.True(t, OrderDisputed.Valid())
	assert.False(t, OrderStatus("Unknown").Valid())
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, PaymentPending.CanTransition(PaymentPaid))
	assert.True(t, PaymentPaid.CanTransition(PaymentPartiallyRefunded))
	assert.True(t, PaymentPartiallyRefunded.CanTransition(PaymentRefunded))
	assert.True(t, PaymentFailed.CanTransition(PaymentPending))

	assert.False(t, PaymentRefunded.CanTransition(PaymentPaid))
	assert.False(t, PaymentPaid.CanTransition(PaymentPending))
}

func TestEscrowStatusTransitions(t *testing.T) {
	assert.True(t, EscrowPending.CanTransition(EscrowFunded))
	assert.True(t, EscrowFunded.CanTransition(EscrowReleased))
	assert.True(t, EscrowFunded.CanTransition(EscrowRefunded))

	assert.False(t, EscrowPending.CanTransition(EscrowReleased))
	assert.False(t, EscrowReleased.CanTransition(EscrowRefunded))
}

func TestAssuranceStatusTransitions(t *testing.T) {
	assert.True(t, AssuranceActive.CanTransition(AssuranceClaimed))
	assert.True(t, AssuranceClaimed.CanTransition(AssuranceResolved))
	assert.True(t, AssuranceActive.CanTransition(AssuranceExpired))

	assert.False(t, AssuranceExpired.CanTransition(AssuranceClaimed))
	assert.False(t, AssuranceResolved.CanTransition(AssuranceActive))
}

func TestSupplierIDsDeduped(t *testing.T) {
	order := &Order{Items: []OrderItem{
		{SupplierID: "s1"},
		{SupplierID: "s2"},
		{SupplierID: "s1"},
		{SupplierID: ""},
	}}
	assert.Equal(t, []string{"s1", "s2"}, order.SupplierIDs())
	assert.True(t, order.HasSupplier("s2"))
	assert.False(t, order.HasSupplier("s3"))
}
