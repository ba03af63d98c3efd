package cart

import (
	"fmt"
	"strings"

	"agrimarket/models"
)

// UnitPriceFor applies the bulk-pricing rule: the bulk price kicks in once
// the quantity reaches the product's bulk threshold, otherwise the list
// price holds. Called on every quantity change so snapshots never go stale.
func UnitPriceFor(p *models.Product, quantity int) float64 {
	if p.HasBulkPricing() && quantity >= p.BulkQuantity {
		return p.BulkPrice
	}
	return p.Price
}

// BuildNotes annotates a cart line from product attributes and quantity.
func BuildNotes(p *models.Product, quantity int) string {
	var notes []string

	if p.HasBulkPricing() && quantity >= p.BulkQuantity {
		notes = append(notes, fmt.Sprintf("Bulk pricing applied (%d+ units)", p.BulkQuantity))
	}
	if p.TradeAssuranceEligible {
		notes = append(notes, "Trade Assurance eligible")
	}
	if p.QualityGrade != "" {
		notes = append(notes, "Quality: "+p.QualityGrade)
	}
	if p.LeadTimeDays > 0 {
		notes = append(notes, fmt.Sprintf("Lead time: %d days", p.LeadTimeDays))
	}

	return strings.Join(notes, "; ")
}

// ValidateAdd checks an add-to-cart request against product constraints.
func ValidateAdd(p *models.Product, quantity int) error {
	if quantity <= 0 {
		return models.Validation("Quantity must be greater than 0")
	}
	if p.StockQuantity < quantity {
		return models.Validation(fmt.Sprintf("Only %d units available in stock", p.StockQuantity))
	}
	if p.MinOrderQuantity > 0 && quantity < p.MinOrderQuantity {
		return models.Validation(fmt.Sprintf("Minimum order quantity is %d units", p.MinOrderQuantity))
	}
	if p.MaxOrderQuantity > 0 && quantity > p.MaxOrderQuantity {
		return models.Validation(fmt.Sprintf("Maximum order quantity is %d units", p.MaxOrderQuantity))
	}
	if p.Status != models.ProductActive {
		return models.Validation("This product is not available for purchase")
	}
	return nil
}

// ValidateUpdate is ValidateAdd without the maximum-quantity check, matching
// the looser rule for in-cart adjustments.
func ValidateUpdate(p *models.Product, quantity int) error {
	if quantity <= 0 {
		return models.Validation("Quantity must be greater than 0")
	}
	if p.StockQuantity < quantity {
		return models.Validation(fmt.Sprintf("Only %d units available in stock", p.StockQuantity))
	}
	if p.MinOrderQuantity > 0 && quantity < p.MinOrderQuantity {
		return models.Validation(fmt.Sprintf("Minimum order quantity is %d units", p.MinOrderQuantity))
	}
	return nil
}

// SuccessMessage mirrors the storefront confirmation line.
func SuccessMessage(p *models.Product, quantity int) string {
	parts := []string{fmt.Sprintf("%d %s added to cart", quantity, p.Name)}
	if p.HasBulkPricing() && quantity >= p.BulkQuantity {
		parts = append(parts, "Bulk pricing applied!")
	}
	if p.TradeAssuranceEligible {
		parts = append(parts, "Trade Assurance protection included")
	}
	return strings.Join(parts, " ")
}

// Summarize totals a set of cart lines using their stored snapshots.
func Summarize(items []models.CartItem) (count int, total float64) {
	for _, it := range items {
		if it.SavedForLater {
			continue
		}
		count += it.Quantity
		total += it.TotalPrice()
	}
	return count, total
}
