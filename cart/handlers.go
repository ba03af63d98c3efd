package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/rdx"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const cartTokenTTL = 7 * 24 * time.Hour

// ResolveCartID picks the cart owner: the authenticated user when present,
// otherwise the anonymous token from X-Cart-Token.
func ResolveCartID(r *http.Request) string {
	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		return userID
	}
	token := r.Header.Get("X-Cart-Token")
	if token == "" {
		return ""
	}
	if _, err := rdx.RdxGet("carttoken:" + token); err != nil {
		return ""
	}
	return token
}

// GetCartToken mints an anonymous cart token for guests.
func GetCartToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token := utils.GetUUID()
	if err := rdx.RdxSetWithTTL("carttoken:"+token, "1", cartTokenTTL); err != nil {
		log.Println("GetCartToken redis error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create cart session")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "cartToken": token})
}

func loadCartItems(ctx context.Context, cartID string) ([]models.CartItem, error) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"cartId": cartID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func cartSummary(ctx context.Context, cartID string) (int, float64, error) {
	items, err := loadCartItems(ctx, cartID)
	if err != nil {
		return 0, 0, err
	}
	count, total := Summarize(items)
	return count, total, nil
}

// AddToCart increments quantity if the line exists, or inserts a new one.
// The unit price snapshot and notes are recomputed on every change.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("AddToCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	cartID := ResolveCartID(r)
	if cartID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing cart session")
		return
	}

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": payload.ProductID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Product not found"})
			return
		}
		log.Println("AddToCart FindOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	// Existing line? Validation runs against the combined quantity.
	var existing models.CartItem
	findErr := db.CartCollection.FindOne(ctx, bson.M{"cartId": cartID, "productId": payload.ProductID}).Decode(&existing)

	newQuantity := payload.Quantity
	if findErr == nil {
		newQuantity += existing.Quantity
	}

	if err := ValidateAdd(&product, payload.Quantity); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": err.Error()})
		return
	}
	if findErr == nil {
		if err := ValidateUpdate(&product, newQuantity); err != nil {
			utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": err.Error()})
			return
		}
	}

	unitPrice := UnitPriceFor(&product, newQuantity)
	notes := BuildNotes(&product, newQuantity)
	now := time.Now()

	if findErr == nil {
		update := bson.M{"$set": bson.M{
			"quantity":  newQuantity,
			"unitPrice": unitPrice,
			"notes":     notes,
			"updatedAt": now,
		}}
		if _, err := db.CartCollection.UpdateOne(ctx, bson.M{"itemId": existing.ItemID}, update); err != nil {
			log.Println("AddToCart UpdateOne error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
			return
		}
	} else {
		item := models.CartItem{
			ItemID:      utils.GetUUID(),
			CartID:      cartID,
			ProductID:   product.ProductID,
			ProductName: product.Name,
			SupplierID:  product.SupplierID,
			Quantity:    payload.Quantity,
			UnitPrice:   unitPrice,
			Unit:        product.Unit,
			Notes:       notes,
			AddedAt:     now,
		}
		if _, err := db.CartCollection.InsertOne(ctx, item); err != nil {
			log.Println("AddToCart InsertOne error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
			return
		}
	}

	count, total, err := cartSummary(ctx, cartID)
	if err != nil {
		log.Println("AddToCart summary error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"message":       SuccessMessage(&product, payload.Quantity),
		"cartItemCount": count,
		"cartTotal":     total,
		"productName":   product.Name,
		"unitPrice":     unitPrice,
		"totalPrice":    unitPrice * float64(newQuantity),
	})
}

// UpdateCartItem sets a line to an absolute quantity.
func UpdateCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	itemID := ps.ByName("itemid")

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	cartID := ResolveCartID(r)
	if cartID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing cart session")
		return
	}

	var item models.CartItem
	if err := db.CartCollection.FindOne(ctx, bson.M{"itemId": itemID, "cartId": cartID}).Decode(&item); err != nil {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Cart item not found"})
		return
	}

	var product models.Product
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": item.ProductID}).Decode(&product); err != nil {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Product not found"})
		return
	}

	if err := ValidateUpdate(&product, payload.Quantity); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"success": false, "message": err.Error()})
		return
	}

	unitPrice := UnitPriceFor(&product, payload.Quantity)
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"quantity":  payload.Quantity,
		"unitPrice": unitPrice,
		"notes":     BuildNotes(&product, payload.Quantity),
		"updatedAt": now,
	}}
	if _, err := db.CartCollection.UpdateOne(ctx, bson.M{"itemId": itemID}, update); err != nil {
		log.Println("UpdateCartItem UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	count, total, err := cartSummary(ctx, cartID)
	if err != nil {
		log.Println("UpdateCartItem summary error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"message":       "Cart updated successfully!",
		"cartItemCount": count,
		"cartTotal":     total,
		"unitPrice":     unitPrice,
		"totalPrice":    unitPrice * float64(payload.Quantity),
	})
}

// RemoveCartItem deletes a single line.
func RemoveCartItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cartID := ResolveCartID(r)
	if cartID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing cart session")
		return
	}

	if _, err := db.CartCollection.DeleteOne(ctx, bson.M{"itemId": ps.ByName("itemid"), "cartId": cartID}); err != nil {
		log.Println("RemoveCartItem DeleteOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	count, total, err := cartSummary(ctx, cartID)
	if err != nil {
		log.Println("RemoveCartItem summary error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove item")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"message":       "Item removed from cart successfully!",
		"cartItemCount": count,
		"cartTotal":     total,
	})
}

// ClearCart removes every line for the cart.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cartID := ResolveCartID(r)
	if cartID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing cart session")
		return
	}

	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"cartId": cartID}); err != nil {
		log.Println("ClearCart DeleteMany error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"message":       "Cart cleared successfully!",
		"cartItemCount": 0,
		"cartTotal":     0,
	})
}

// GetCart returns all lines for the cart.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cartID := ResolveCartID(r)
	if cartID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing cart session")
		return
	}

	items, err := loadCartItems(ctx, cartID)
	if err != nil {
		log.Println("GetCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}
	if len(items) == 0 {
		items = []models.CartItem{}
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// CartSummaryHandler returns count and total for badge rendering.
func CartSummaryHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cartID := ResolveCartID(r)
	if cartID == "" {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"cartItemCount": 0, "cartTotal": 0})
		return
	}

	count, total, err := cartSummary(ctx, cartID)
	if err != nil {
		log.Println("CartSummary error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"cartItemCount": count, "cartTotal": total})
}

// SaveForLater flags a line so it is excluded from checkout and totals.
func SaveForLater(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cartID := ResolveCartID(r)
	if cartID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing cart session")
		return
	}

	now := time.Now()
	res, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"itemId": ps.ByName("itemid"), "cartId": cartID},
		bson.M{"$set": bson.M{"savedForLater": true, "updatedAt": now}})
	if err != nil || res.MatchedCount == 0 {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"success": false, "message": "Cart item not found"})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Item saved for later!"})
}
