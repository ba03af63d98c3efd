package payments

import (
	"testing"

	"agrimarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePayment(t *testing.T) {
	order := &models.Order{BuyerID: "buyer1", TotalAmount: 500}
	buyer := &models.User{UserID: "buyer1", TradeAssuranceEnabled: true}

	assert.NoError(t, ValidatePayment(order, buyer, MethodBankTransfer))
	assert.NoError(t, ValidatePayment(order, buyer, MethodEscrow))
	assert.NoError(t, ValidatePayment(order, buyer, MethodTradeAssurance))

	err := ValidatePayment(order, buyer, MethodCreditCard)
	require.Error(t, err)
	assert.Equal(t, "Credit card not supported for B2B orders", err.Error())

	err = ValidatePayment(&models.Order{BuyerID: "buyer1", TotalAmount: 0}, buyer, MethodBankTransfer)
	require.Error(t, err)
	assert.Equal(t, "Invalid order amount", err.Error())

	err = ValidatePayment(&models.Order{TotalAmount: 100}, buyer, MethodBankTransfer)
	require.Error(t, err)
	assert.Equal(t, "User not found", err.Error())

	noAssurance := &models.User{UserID: "buyer1"}
	err = ValidatePayment(order, noAssurance, MethodTradeAssurance)
	require.Error(t, err)
	assert.Equal(t, "Trade Assurance not enabled for this user", err.Error())
}

func TestCanCapture(t *testing.T) {
	assert.True(t, CanCapture(models.PaymentPending))
	assert.True(t, CanCapture(models.PaymentAuthorized))

	// a paid order replays through idempotency, never a second capture
	assert.False(t, CanCapture(models.PaymentPaid))
	// refunded orders stay closed to capture
	assert.False(t, CanCapture(models.PaymentRefunded))
	assert.False(t, CanCapture(models.PaymentPartiallyRefunded))
	// failed payments must be reset to Pending before a retry
	assert.False(t, CanCapture(models.PaymentFailed))
}

func TestCoverageFor(t *testing.T) {
	assert.Equal(t, 500.0, CoverageFor(500, 10000), "small orders covered in full")
	assert.Equal(t, 10000.0, CoverageFor(25000, 10000), "coverage capped at the limit")
	assert.Equal(t, 0.0, CoverageFor(500, 0))
}

func TestEscrowTransitions(t *testing.T) {
	assert.True(t, models.EscrowPending.CanTransition(models.EscrowFunded))
	assert.True(t, models.EscrowFunded.CanTransition(models.EscrowReleased))
	assert.True(t, models.EscrowFunded.CanTransition(models.EscrowRefunded))
	assert.False(t, models.EscrowPending.CanTransition(models.EscrowReleased), "cannot release unfunded escrow")
	assert.False(t, models.EscrowReleased.CanTransition(models.EscrowRefunded))
}

func TestAssuranceTransitions(t *testing.T) {
	assert.True(t, models.AssuranceActive.CanTransition(models.AssuranceClaimed))
	assert.True(t, models.AssuranceClaimed.CanTransition(models.AssuranceResolved))
	assert.False(t, models.AssuranceResolved.CanTransition(models.AssuranceClaimed))
	assert.False(t, models.AssuranceExpired.CanTransition(models.AssuranceClaimed))
}
