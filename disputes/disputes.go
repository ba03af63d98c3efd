package disputes

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

// Workflow holds the moderation policy. AllowRevision permits an admin to
// re-resolve an already resolved dispute, overwriting the prior outcome.
type Workflow struct {
	AllowRevision bool
}

// DefaultWorkflow keeps resolutions revisable.
var DefaultWorkflow = Workflow{AllowRevision: true}

type openRequest struct {
	RespondentID string             `json:"respondentId"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Type         models.DisputeType `json:"type"`
	OrderID      string             `json:"orderId"`
	ProductID    string             `json:"productId"`
}

// OpenDispute files a dispute. An order-linked dispute must come from one of
// the order's parties and flags the order as disputed.
func OpenDispute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	initiatorID := utils.GetUserIDFromRequest(r)
	if initiatorID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if req.Type == "" {
		req.Type = models.DisputeOther
	}

	if req.OrderID != "" {
		var order models.Order
		if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": req.OrderID}).Decode(&order); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		switch {
		case order.BuyerID == initiatorID:
			if req.RespondentID == "" && len(order.Items) > 0 {
				req.RespondentID = order.Items[0].SupplierID
			}
		case order.HasSupplier(initiatorID):
			if req.RespondentID == "" {
				req.RespondentID = order.BuyerID
			}
		default:
			utils.RespondWithError(w, http.StatusForbidden, "Access denied")
			return
		}

		if order.Status.CanTransition(models.OrderDisputed) {
			_, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderId": req.OrderID},
				bson.M{"$set": bson.M{"status": models.OrderDisputed, "updatedAt": time.Now()}})
			if err != nil {
				log.Println("OpenDispute order flag error:", err)
			}
		}
	}

	if req.RespondentID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Respondent is required")
		return
	}

	now := time.Now()
	dispute := models.Dispute{
		DisputeID:    utils.GetUUID(),
		InitiatorID:  initiatorID,
		RespondentID: req.RespondentID,
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Status:       models.DisputeOpen,
		OrderID:      req.OrderID,
		ProductID:    req.ProductID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := db.DisputesCollection.InsertOne(ctx, dispute); err != nil {
		log.Println("OpenDispute error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to open dispute")
		return
	}

	mq.Emit(ctx, mq.Event{Name: mq.EventDisputeOpened, EntityID: dispute.DisputeID, BuyerID: initiatorID})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "disputeId": dispute.DisputeID})
}

// MyDisputes lists disputes the caller is a party to.
func MyDisputes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	limit, offset := utils.ParsePagination(r, 20)

	filter := bson.M{"$or": []bson.M{{"initiatorId": userID}, {"respondentId": userID}}}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit).SetSkip(offset)
	cursor, err := db.DisputesCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("MyDisputes error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch disputes")
		return
	}

	disputes := []models.Dispute{}
	if err := cursor.All(ctx, &disputes); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch disputes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, disputes)
}

// ListDisputes is the admin queue, oldest open first.
func ListDisputes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, offset := utils.ParsePagination(r, 20)
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"createdAt": 1}).SetLimit(limit).SetSkip(offset)
	cursor, err := db.DisputesCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("ListDisputes error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch disputes")
		return
	}

	disputes := []models.Dispute{}
	if err := cursor.All(ctx, &disputes); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch disputes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, disputes)
}

// GetDispute returns one dispute to its parties or an admin.
func GetDispute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	disputeID := ps.ByName("disputeid")

	var dispute models.Dispute
	err := db.DisputesCollection.FindOne(ctx, bson.M{"disputeId": disputeID}).Decode(&dispute)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Dispute not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch dispute")
		return
	}
	if !dispute.Involves(userID) && !utils.HasRole(r, "admin") {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dispute)
}

// ReviewDispute moves an open dispute under admin review.
func ReviewDispute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	disputeID := ps.ByName("disputeid")

	var dispute models.Dispute
	if err := db.DisputesCollection.FindOne(ctx, bson.M{"disputeId": disputeID}).Decode(&dispute); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Dispute not found")
		return
	}
	if !dispute.Status.CanTransition(models.DisputeUnderReview) {
		utils.RespondWithError(w, http.StatusConflict, "Cannot review a "+string(dispute.Status)+" dispute")
		return
	}

	_, err := db.DisputesCollection.UpdateOne(ctx, bson.M{"disputeId": disputeID},
		bson.M{"$set": bson.M{"status": models.DisputeUnderReview, "updatedAt": time.Now()}})
	if err != nil {
		log.Println("ReviewDispute error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update dispute")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": models.DisputeUnderReview})
}

// Resolution is an admin verdict.
type Resolution struct {
	Resolution     string  `json:"resolution"`
	RefundAmount   float64 `json:"refundAmount"`
	RefundCurrency string  `json:"refundCurrency"`
}

// Resolve applies a verdict to an in-memory dispute under the given policy.
// Split out so its rules are testable without Mongo.
func Resolve(wf Workflow, d *models.Dispute, res Resolution, adminID string, now time.Time) error {
	if res.Resolution == "" {
		return models.Validation("Resolution text is required")
	}
	if res.RefundAmount < 0 {
		return models.Validation("Refund amount cannot be negative")
	}

	switch d.Status {
	case models.DisputeOpen, models.DisputeUnderReview:
	case models.DisputeResolved:
		if !wf.AllowRevision {
			return models.ErrInvalidState
		}
	default:
		return models.ErrInvalidState
	}

	d.Status = models.DisputeResolved
	d.Resolution = res.Resolution
	d.ResolvedBy = adminID
	d.ResolvedDate = &now
	d.RefundAmount = res.RefundAmount
	d.RefundCurrency = res.RefundCurrency
	d.UpdatedAt = now
	return nil
}

// ResolveDispute records an admin verdict, optionally with a refund figure.
func ResolveDispute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	adminID := utils.GetUserIDFromRequest(r)
	disputeID := ps.ByName("disputeid")

	var res Resolution
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var dispute models.Dispute
	if err := db.DisputesCollection.FindOne(ctx, bson.M{"disputeId": disputeID}).Decode(&dispute); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Dispute not found")
		return
	}

	if err := Resolve(DefaultWorkflow, &dispute, res, adminID, time.Now()); err != nil {
		if models.IsValidation(err) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusConflict, "Cannot resolve a "+string(dispute.Status)+" dispute")
		return
	}

	_, err := db.DisputesCollection.UpdateOne(ctx, bson.M{"disputeId": disputeID}, bson.M{"$set": bson.M{
		"status":         dispute.Status,
		"resolution":     dispute.Resolution,
		"resolvedBy":     dispute.ResolvedBy,
		"resolvedDate":   dispute.ResolvedDate,
		"refundAmount":   dispute.RefundAmount,
		"refundCurrency": dispute.RefundCurrency,
		"updatedAt":      dispute.UpdatedAt,
	}})
	if err != nil {
		log.Println("ResolveDispute error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve dispute")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": models.DisputeResolved})
}

// CloseDispute finalizes a dispute. Parties may close their own; admins any.
func CloseDispute(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	disputeID := ps.ByName("disputeid")

	var dispute models.Dispute
	if err := db.DisputesCollection.FindOne(ctx, bson.M{"disputeId": disputeID}).Decode(&dispute); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Dispute not found")
		return
	}
	if !dispute.Involves(userID) && !utils.HasRole(r, "admin") {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}
	if !dispute.Status.CanTransition(models.DisputeClosed) {
		utils.RespondWithError(w, http.StatusConflict, "Cannot close a "+string(dispute.Status)+" dispute")
		return
	}

	if dispute.Status != models.DisputeClosed {
		_, err := db.DisputesCollection.UpdateOne(ctx, bson.M{"disputeId": disputeID},
			bson.M{"$set": bson.M{"status": models.DisputeClosed, "updatedAt": time.Now()}})
		if err != nil {
			log.Println("CloseDispute error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to close dispute")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "status": models.DisputeClosed})
}
