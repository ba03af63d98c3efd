package disputes

import (
	"testing"
	"time"

	"agrimarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDispute() *models.Dispute {
	return &models.Dispute{
		DisputeID:    "d1",
		InitiatorID:  "buyer1",
		RespondentID: "sup1",
		Title:        "Short shipment",
		Type:         models.DisputeDelivery,
		Status:       models.DisputeOpen,
	}
}

func TestResolve(t *testing.T) {
	d := openDispute()
	now := time.Now()

	err := Resolve(DefaultWorkflow, d, Resolution{
		Resolution:     "Partial refund agreed",
		RefundAmount:   120.00,
		RefundCurrency: "USD",
	}, "admin1", now)
	require.NoError(t, err)

	assert.Equal(t, models.DisputeResolved, d.Status)
	assert.Equal(t, "Partial refund agreed", d.Resolution)
	assert.Equal(t, "admin1", d.ResolvedBy)
	assert.Equal(t, 120.00, d.RefundAmount)
	require.NotNil(t, d.ResolvedDate)
	assert.Equal(t, now, *d.ResolvedDate)
}

func TestResolveValidation(t *testing.T) {
	d := openDispute()

	err := Resolve(DefaultWorkflow, d, Resolution{}, "admin1", time.Now())
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	err = Resolve(DefaultWorkflow, d, Resolution{Resolution: "ok", RefundAmount: -5}, "admin1", time.Now())
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	assert.Equal(t, models.DisputeOpen, d.Status, "failed resolve leaves the dispute untouched")
}

func TestResolveRevision(t *testing.T) {
	d := openDispute()
	first := time.Now()
	require.NoError(t, Resolve(DefaultWorkflow, d, Resolution{Resolution: "refund"}, "admin1", first))

	// default policy lets a second admin overwrite the verdict
	second := first.Add(time.Hour)
	err := Resolve(DefaultWorkflow, d, Resolution{Resolution: "no refund after appeal"}, "admin2", second)
	require.NoError(t, err)
	assert.Equal(t, "no refund after appeal", d.Resolution)
	assert.Equal(t, "admin2", d.ResolvedBy)

	// strict policy refuses
	strict := Workflow{AllowRevision: false}
	err = Resolve(strict, d, Resolution{Resolution: "third try"}, "admin3", second)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.Equal(t, "no refund after appeal", d.Resolution)
}

func TestResolveClosedDispute(t *testing.T) {
	d := openDispute()
	d.Status = models.DisputeClosed

	err := Resolve(DefaultWorkflow, d, Resolution{Resolution: "late verdict"}, "admin1", time.Now())
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestDisputeTransitions(t *testing.T) {
	assert.True(t, models.DisputeOpen.CanTransition(models.DisputeUnderReview))
	assert.True(t, models.DisputeOpen.CanTransition(models.DisputeResolved))
	assert.True(t, models.DisputeResolved.CanTransition(models.DisputeClosed))
	assert.False(t, models.DisputeClosed.CanTransition(models.DisputeOpen))
}
