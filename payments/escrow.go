package payments

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateEscrow opens a Pending hold against an order. One escrow per order.
func CreateEscrow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	buyerID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("orderid")

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.BuyerID != buyerID {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}

	var existing models.EscrowTransaction
	if err := db.EscrowCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&existing); err == nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "escrowId": existing.EscrowID, "status": existing.Status})
		return
	}

	supplierID := ""
	if len(order.Items) > 0 {
		supplierID = order.Items[0].SupplierID
	}

	now := time.Now()
	escrow := models.EscrowTransaction{
		EscrowID:   utils.GetUUID(),
		OrderID:    orderID,
		BuyerID:    buyerID,
		SupplierID: supplierID,
		Amount:     order.TotalAmount,
		Currency:   order.Currency,
		Status:     models.EscrowPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := db.EscrowCollection.InsertOne(ctx, escrow); err != nil {
		log.Println("CreateEscrow error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create escrow")
		return
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"escrowId": escrow.EscrowID, "updatedAt": now}}); err != nil {
		log.Println("CreateEscrow order link error:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "escrowId": escrow.EscrowID, "status": escrow.Status})
}

type escrowAction struct {
	Reason string `json:"reason"`
}

// moveEscrow applies one lifecycle step and stamps the matching date field.
func moveEscrow(w http.ResponseWriter, r *http.Request, escrowID string, next models.EscrowStatus, dateField string, authorize func(*models.EscrowTransaction, string, bool) bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	isAdmin := utils.HasRole(r, "admin")

	var action escrowAction
	_ = json.NewDecoder(r.Body).Decode(&action)

	var escrow models.EscrowTransaction
	err := db.EscrowCollection.FindOne(ctx, bson.M{"escrowId": escrowID}).Decode(&escrow)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Escrow not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update escrow")
		return
	}
	if !authorize(&escrow, userID, isAdmin) {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}
	if escrow.Status == next {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "escrowId": escrowID, "status": next})
		return
	}
	if !escrow.Status.CanTransition(next) {
		utils.RespondWithError(w, http.StatusConflict, "Cannot move escrow from "+string(escrow.Status)+" to "+string(next))
		return
	}

	now := time.Now()
	set := bson.M{"status": next, "updatedAt": now, dateField: now}
	if action.Reason != "" {
		set["notes"] = action.Reason
	}
	if _, err := db.EscrowCollection.UpdateOne(ctx, bson.M{"escrowId": escrowID}, bson.M{"$set": set}); err != nil {
		log.Println("moveEscrow error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update escrow")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "escrowId": escrowID, "status": next})
}

// FundEscrow marks the buyer's money as deposited.
func FundEscrow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	moveEscrow(w, r, ps.ByName("escrowid"), models.EscrowFunded, "fundedDate",
		func(e *models.EscrowTransaction, userID string, isAdmin bool) bool {
			return e.BuyerID == userID || isAdmin
		})
}

// ReleaseEscrow pays the supplier out. Buyer or admin.
func ReleaseEscrow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	moveEscrow(w, r, ps.ByName("escrowid"), models.EscrowReleased, "releasedDate",
		func(e *models.EscrowTransaction, userID string, isAdmin bool) bool {
			return e.BuyerID == userID || isAdmin
		})
}

// RefundEscrow returns the hold to the buyer. Admin only, typically after a
// dispute verdict.
func RefundEscrow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	moveEscrow(w, r, ps.ByName("escrowid"), models.EscrowRefunded, "refundedDate",
		func(e *models.EscrowTransaction, userID string, isAdmin bool) bool {
			return isAdmin
		})
}

// GetEscrow returns one escrow to its parties or an admin.
func GetEscrow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	escrowID := ps.ByName("escrowid")

	var escrow models.EscrowTransaction
	if err := db.EscrowCollection.FindOne(ctx, bson.M{"escrowId": escrowID}).Decode(&escrow); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Escrow not found")
		return
	}
	if escrow.BuyerID != userID && escrow.SupplierID != userID && !utils.HasRole(r, "admin") {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, escrow)
}
