package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/mq"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetMyOrders lists the caller's orders, newest first.
func GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := utils.ParsePagination(r, 20)
	filter := bson.M{"buyerId": buyerID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"orderDate": -1}).SetLimit(limit).SetSkip(offset)
	cursor, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetMyOrders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order. Visible to its buyer, any supplier with a line
// in it, and admins.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("orderid")

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Println("GetOrder error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	if !OrderVisibleTo(&order, userID, utils.HasRole(r, "admin")) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GetSupplierOrders lists orders containing at least one of the supplier's
// line items.
func GetSupplierOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	supplierID := utils.GetUserIDFromRequest(r)
	if supplierID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit, offset := utils.ParsePagination(r, 20)
	filter := bson.M{"items.supplierId": supplierID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"orderDate": -1}).SetLimit(limit).SetSkip(offset)
	cursor, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetSupplierOrders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// OrderVisibleTo reports whether userID may see the order. Uninvolved
// callers are answered exactly like a missing order, so order ids do not
// leak across accounts.
func OrderVisibleTo(o *models.Order, userID string, isAdmin bool) bool {
	return isAdmin || o.BuyerID == userID || o.HasSupplier(userID)
}

// StatusChangeAllowed applies the role matrix for status updates: admins
// move anything, buyers only cancel their own orders, suppliers move their
// orders anywhere but Cancelled. Callers with no relation to the order get
// ErrNotFound rather than ErrForbidden.
func StatusChangeAllowed(o *models.Order, userID string, isAdmin bool, next models.OrderStatus) error {
	if !OrderVisibleTo(o, userID, isAdmin) {
		return models.ErrNotFound
	}
	switch {
	case isAdmin:
		return nil
	case o.BuyerID == userID && next == models.OrderCancelled:
		return nil
	case o.HasSupplier(userID) && next != models.OrderCancelled:
		return nil
	}
	return models.ErrForbidden
}

type statusUpdateRequest struct {
	Status         models.OrderStatus `json:"status"`
	Notes          string             `json:"notes"`
	TrackingNumber string             `json:"trackingNumber"`
	Carrier        string             `json:"carrier"`
}

// UpdateOrderStatus moves an order along its lifecycle. Suppliers may only
// touch orders carrying their items; buyers may only cancel their own;
// admins may do either. Repeating the current status is accepted and
// changes nothing, so retried requests stay safe.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("orderid")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	switch err := StatusChangeAllowed(&order, userID, utils.HasRole(r, "admin"), req.Status); {
	case errors.Is(err, models.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	case errors.Is(err, models.ErrForbidden):
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}

	if !order.Status.CanTransition(req.Status) {
		utils.RespondWithError(w, http.StatusConflict,
			"Cannot move order from "+string(order.Status)+" to "+string(req.Status))
		return
	}

	if order.Status == req.Status {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Order status unchanged", "status": order.Status})
		return
	}

	now := time.Now()
	set := bson.M{"status": req.Status, "updatedAt": now}
	if req.Notes != "" {
		set["statusNotes"] = req.Notes
	}
	switch req.Status {
	case models.OrderShipped:
		set["shippedDate"] = now
		if req.TrackingNumber != "" {
			set["trackingNumber"] = req.TrackingNumber
		}
		if req.Carrier != "" {
			set["carrier"] = req.Carrier
		}
	case models.OrderDelivered:
		set["deliveredDate"] = now
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderId": orderID}, bson.M{"$set": set}); err != nil {
		log.Println("UpdateOrderStatus error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	switch req.Status {
	case models.OrderDelivered:
		mq.Emit(ctx, mq.Event{Name: mq.EventOrderDelivered, EntityID: orderID, BuyerID: order.BuyerID, SupplierIDs: order.SupplierIDs()})
	case models.OrderCancelled:
		mq.Emit(ctx, mq.Event{Name: mq.EventOrderCancelled, EntityID: orderID, BuyerID: order.BuyerID, SupplierIDs: order.SupplierIDs()})
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Order status updated", "status": req.Status})
}
