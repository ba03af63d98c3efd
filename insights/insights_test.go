package insights

import (
	"testing"

	"agrimarket/models"

	"github.com/stretchr/testify/assert"
)

func TestDemandScore(t *testing.T) {
	// 100*0.4 + 200*0.3 + 4.5*0.3
	assert.InDelta(t, 101.35, DemandScore(100, 200, 4.5), 1e-9)
	assert.Zero(t, DemandScore(0, 0, 0))
	assert.Zero(t, DemandScore(0, 0, -3), "never negative")
}

func TestTopCategories(t *testing.T) {
	orders := []models.Order{
		{Items: []models.OrderItem{
			{ProductID: "p1", Quantity: 50},
			{ProductID: "p2", Quantity: 10},
		}},
		{Items: []models.OrderItem{
			{ProductID: "p3", Quantity: 30},
			{ProductID: "p4", Quantity: 5},
		}},
	}
	categoryOf := map[string]string{
		"p1": "Grains",
		"p2": "Herbs",
		"p3": "Grains",
		"p4": "Fruit",
	}

	top := TopCategories(orders, categoryOf, 3)
	assert.Equal(t, []string{"grains", "herbs", "fruit"}, top)

	top = TopCategories(orders, categoryOf, 1)
	assert.Equal(t, []string{"grains"}, top)

	assert.Empty(t, TopCategories(nil, nil, 3))
}

func TestSuggestKeywords(t *testing.T) {
	assert.Contains(t, SuggestKeywords("fresh"), "farm-fresh")
	assert.Contains(t, SuggestKeywords("Dried"), "wholesale")
	assert.Contains(t, SuggestKeywords("unknown-category"), "premium")
	assert.Len(t, SuggestKeywords("herbs"), 4)
}
