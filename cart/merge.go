package cart

import (
	"context"
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

// MergeCarts folds an anonymous session cart into the user's persistent
// cart after login. Quantities for a shared product are summed and the
// snapshot price recomputed; other lines change owner. Merging an
// already-merged (empty) session cart is a no-op.
func MergeCarts(ctx context.Context, sessionCartID, userID string) error {
	if userID == "" {
		return models.ErrInvalidState
	}
	if sessionCartID == "" || sessionCartID == userID {
		return nil
	}

	sessionItems, err := loadCartItems(ctx, sessionCartID)
	if err != nil {
		return err
	}
	if len(sessionItems) == 0 {
		return nil
	}

	for _, sessionItem := range sessionItems {
		var product models.Product
		productErr := db.ProductsCollection.FindOne(ctx, bson.M{"productId": sessionItem.ProductID}).Decode(&product)

		var existing models.CartItem
		err := db.CartCollection.FindOne(ctx, bson.M{"cartId": userID, "productId": sessionItem.ProductID}).Decode(&existing)
		now := time.Now()

		switch {
		case err == nil:
			merged := existing.Quantity + sessionItem.Quantity
			unitPrice := existing.UnitPrice
			notes := existing.Notes
			if productErr == nil {
				unitPrice = UnitPriceFor(&product, merged)
				notes = BuildNotes(&product, merged)
			}
			if _, err := db.CartCollection.UpdateOne(ctx,
				bson.M{"itemId": existing.ItemID},
				bson.M{"$set": bson.M{"quantity": merged, "unitPrice": unitPrice, "notes": notes, "updatedAt": now}}); err != nil {
				return err
			}
			if _, err := db.CartCollection.DeleteOne(ctx, bson.M{"itemId": sessionItem.ItemID}); err != nil {
				return err
			}
		case errors.Is(err, mongo.ErrNoDocuments):
			set := bson.M{"cartId": userID, "updatedAt": now}
			if productErr == nil {
				set["unitPrice"] = UnitPriceFor(&product, sessionItem.Quantity)
				set["notes"] = BuildNotes(&product, sessionItem.Quantity)
			}
			if _, err := db.CartCollection.UpdateOne(ctx,
				bson.M{"itemId": sessionItem.ItemID},
				bson.M{"$set": set}); err != nil {
				return err
			}
		default:
			return err
		}
	}

	// Session token is spent once merged.
	if _, err := rdx.RdxDel("carttoken:" + sessionCartID); err != nil {
		log.Println("MergeCarts token cleanup error:", err)
	}
	return nil
}

// MergeCartsHandler merges the X-Cart-Token cart into the caller's cart.
func MergeCartsHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sessionCartID := r.Header.Get("X-Cart-Token")
	if err := MergeCarts(ctx, sessionCartID, userID); err != nil {
		log.Println("MergeCarts error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to merge carts")
		return
	}

	count, total, err := cartSummary(ctx, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to merge carts")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"message":       "Carts merged",
		"cartItemCount": count,
		"cartTotal":     total,
	})
}
