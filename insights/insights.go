package insights

import (
	"context"
	"log"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DemandScore weighs historical sales against interest signals. Never
// negative.
func DemandScore(historicalUnits int, viewCount int, rating float64) float64 {
	score := float64(historicalUnits)*0.4 + float64(viewCount)*0.3 + rating*0.3
	return math.Max(0, score)
}

// TopCategories ranks categories by units bought across a buyer's orders.
func TopCategories(orders []models.Order, categoryOf map[string]string, n int) []string {
	units := map[string]int{}
	for _, o := range orders {
		for _, item := range o.Items {
			category := strings.ToLower(categoryOf[item.ProductID])
			if category == "" {
				continue
			}
			units[category] += item.Quantity
		}
	}

	categories := make([]string, 0, len(units))
	for c := range units {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if units[categories[i]] != units[categories[j]] {
			return units[categories[i]] > units[categories[j]]
		}
		return categories[i] < categories[j]
	})

	if len(categories) > n {
		categories = categories[:n]
	}
	return categories
}

// SuggestKeywords proposes search refinements for a category.
func SuggestKeywords(category string) []string {
	switch strings.ToLower(category) {
	case "fresh":
		return []string{"organic", "local", "seasonal", "farm-fresh", "pesticide-free"}
	case "dried":
		return []string{"preserved", "dehydrated", "long-shelf-life", "bulk", "wholesale"}
	case "fruit":
		return []string{"fresh-fruit", "tropical", "seasonal-fruit", "organic-fruit"}
	case "herbs":
		return []string{"medicinal", "culinary", "organic-herbs", "fresh-herbs"}
	default:
		return []string{"quality", "premium", "organic", "natural", "certified"}
	}
}

// PredictDemand scores one product's expected demand.
func PredictDemand(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var product models.Product
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	// total units across all order lines for this product
	historicalUnits := 0
	cursor, err := db.OrdersCollection.Find(ctx, bson.M{"items.productId": productID})
	if err == nil {
		var orders []models.Order
		if err := cursor.All(ctx, &orders); err == nil {
			for _, o := range orders {
				for _, item := range o.Items {
					if item.ProductID == productID {
						historicalUnits += item.Quantity
					}
				}
			}
		}
	}

	score := DemandScore(historicalUnits, product.ViewCount, product.Rating)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"productId":       productID,
		"demandScore":     score,
		"historicalUnits": historicalUnits,
		"viewCount":       product.ViewCount,
		"rating":          product.Rating,
	})
}

// GetRecommendations returns products matching the buyer's top purchase
// categories, padded with popular products when history is thin.
func GetRecommendations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	limit, _ := utils.ParsePagination(r, 10)

	var orders []models.Order
	cursor, err := db.OrdersCollection.Find(ctx, bson.M{"buyerId": userID},
		options.Find().SetSort(bson.M{"orderDate": -1}).SetLimit(50))
	if err == nil {
		if err := cursor.All(ctx, &orders); err != nil {
			orders = nil
		}
	}

	categoryOf := map[string]string{}
	for _, o := range orders {
		for _, item := range o.Items {
			if _, ok := categoryOf[item.ProductID]; ok {
				continue
			}
			var p models.Product
			if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": item.ProductID}).Decode(&p); err == nil {
				categoryOf[item.ProductID] = p.Category
			}
		}
	}

	recommended := []models.Product{}
	seen := map[string]bool{}

	if top := TopCategories(orders, categoryOf, 3); len(top) > 0 {
		cursor, err := db.ProductsCollection.Find(ctx, bson.M{
			"status":        models.ProductActive,
			"stockQuantity": bson.M{"$gt": 0},
			"category":      bson.M{"$in": top},
		}, options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "viewCount", Value: -1}}).SetLimit(limit))
		if err == nil {
			if err := cursor.All(ctx, &recommended); err == nil {
				for _, p := range recommended {
					seen[p.ProductID] = true
				}
			}
		}
	}

	if int64(len(recommended)) < limit {
		cursor, err := db.ProductsCollection.Find(ctx, bson.M{
			"status":        models.ProductActive,
			"stockQuantity": bson.M{"$gt": 0},
		}, options.Find().SetSort(bson.D{{Key: "viewCount", Value: -1}, {Key: "rating", Value: -1}}).SetLimit(limit))
		if err == nil {
			var popular []models.Product
			if err := cursor.All(ctx, &popular); err == nil {
				for _, p := range popular {
					if int64(len(recommended)) >= limit {
						break
					}
					if !seen[p.ProductID] {
						recommended = append(recommended, p)
						seen[p.ProductID] = true
					}
				}
			}
		} else {
			log.Println("GetRecommendations error:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, recommended)
}

// SuggestSearchKeywords returns category-specific search refinements.
func SuggestSearchKeywords(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	category := r.URL.Query().Get("category")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"category": category,
		"keywords": SuggestKeywords(category),
	})
}
