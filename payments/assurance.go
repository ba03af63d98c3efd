package payments

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"time"

	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// assuranceValidityDays is how long coverage lasts from creation.
const assuranceValidityDays = 90

// CoverageFor caps coverage at the buyer's assurance limit.
func CoverageFor(orderTotal, limit float64) float64 {
	return math.Min(orderTotal, limit)
}

// CreateTradeAssurance opens coverage on an order for an assurance-enabled
// buyer.
func CreateTradeAssurance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var buyer models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": buyerID}).Decode(&buyer); err != nil || !buyer.TradeAssuranceEnabled {
		utils.RespondWithError(w, http.StatusBadRequest, "Trade Assurance not available")
		return
	}

	var existing models.TradeAssurance
	if err := db.TradeAssuranceCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&existing); err == nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "assuranceId": existing.AssuranceID, "coverageAmount": existing.CoverageAmount})
		return
	}

	supplierID := ""
	if len(order.Items) > 0 {
		supplierID = order.Items[0].SupplierID
	}

	now := time.Now()
	expiry := now.AddDate(0, 0, assuranceValidityDays)
	assurance := models.TradeAssurance{
		AssuranceID:    utils.GetUUID(),
		OrderID:        orderID,
		BuyerID:        buyerID,
		SupplierID:     supplierID,
		CoverageAmount: CoverageFor(order.TotalAmount, buyer.TradeAssuranceLimit),
		Currency:       order.Currency,
		Status:         models.AssuranceActive,
		ExpiryDate:     &expiry,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := db.TradeAssuranceCollection.InsertOne(ctx, assurance); err != nil {
		log.Println("CreateTradeAssurance error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create trade assurance")
		return
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderId": orderID},
		bson.M{"$set": bson.M{"tradeAssuranceId": assurance.AssuranceID, "updatedAt": now}}); err != nil {
		log.Println("CreateTradeAssurance order link error:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":        true,
		"assuranceId":    assurance.AssuranceID,
		"coverageAmount": assurance.CoverageAmount,
		"currency":       assurance.Currency,
		"expiryDate":     assurance.ExpiryDate,
	})
}

type claimRequest struct {
	Reason string `json:"reason"`
}

// ClaimAssurance files a claim on active, unexpired coverage. Buyer only.
func ClaimAssurance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	buyerID := utils.GetUserIDFromRequest(r)
	assuranceID := ps.ByName("assuranceid")

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reason == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Claim reason is required")
		return
	}

	var assurance models.TradeAssurance
	if err := db.TradeAssuranceCollection.FindOne(ctx, bson.M{"assuranceId": assuranceID}).Decode(&assurance); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Trade assurance not found")
		return
	}
	if assurance.BuyerID != buyerID {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}
	if assurance.ExpiryDate != nil && assurance.ExpiryDate.Before(time.Now()) {
		utils.RespondWithError(w, http.StatusConflict, "Coverage has expired")
		return
	}
	if !assurance.Status.CanTransition(models.AssuranceClaimed) {
		utils.RespondWithError(w, http.StatusConflict, "Cannot claim a "+string(assurance.Status)+" assurance")
		return
	}

	now := time.Now()
	_, err := db.TradeAssuranceCollection.UpdateOne(ctx, bson.M{"assuranceId": assuranceID}, bson.M{"$set": bson.M{
		"status":      models.AssuranceClaimed,
		"claimedDate": now,
		"claimReason": req.Reason,
		"updatedAt":   now,
	}})
	if err != nil {
		log.Println("ClaimAssurance error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to claim assurance")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "assuranceId": assuranceID, "status": models.AssuranceClaimed})
}

type assuranceResolution struct {
	Resolution   string  `json:"resolution"`
	PayoutAmount float64 `json:"payoutAmount"`
}

// ResolveAssurance settles a claim. Admin only; payout never exceeds the
// coverage amount.
func ResolveAssurance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	assuranceID := ps.ByName("assuranceid")

	var req assuranceResolution
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Resolution == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Resolution is required")
		return
	}
	if req.PayoutAmount < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Payout cannot be negative")
		return
	}

	var assurance models.TradeAssurance
	if err := db.TradeAssuranceCollection.FindOne(ctx, bson.M{"assuranceId": assuranceID}).Decode(&assurance); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Trade assurance not found")
		return
	}
	if !assurance.Status.CanTransition(models.AssuranceResolved) {
		utils.RespondWithError(w, http.StatusConflict, "Cannot resolve a "+string(assurance.Status)+" assurance")
		return
	}

	payout := math.Min(req.PayoutAmount, assurance.CoverageAmount)
	now := time.Now()
	_, err := db.TradeAssuranceCollection.UpdateOne(ctx, bson.M{"assuranceId": assuranceID}, bson.M{"$set": bson.M{
		"status":       models.AssuranceResolved,
		"resolution":   req.Resolution,
		"payoutAmount": payout,
		"resolvedDate": now,
		"updatedAt":    now,
	}})
	if err != nil {
		log.Println("ResolveAssurance error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve assurance")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "assuranceId": assuranceID, "payoutAmount": payout})
}
