package rfq

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

// CreateRFQ inserts a draft sourcing request for the caller.
func CreateRFQ(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var rfq models.RFQ
	if err := json.NewDecoder(r.Body).Decode(&rfq); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if rfq.Title == "" || rfq.Category == "" || rfq.Quantity <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Title, category and quantity are required")
		return
	}

	now := time.Now()
	rfq.RFQID = utils.GetUUID()
	rfq.BuyerID = buyerID
	rfq.Status = models.RFQDraft
	rfq.AwardedResponseID = ""
	rfq.ViewCount = 0
	rfq.ResponseCount = 0
	rfq.CreatedAt = now
	rfq.UpdatedAt = now
	if rfq.Currency == "" {
		rfq.Currency = "USD"
	}

	if _, err := db.RFQCollection.InsertOne(ctx, rfq); err != nil {
		log.Println("CreateRFQ error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create RFQ")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "rfqId": rfq.RFQID, "status": rfq.Status})
}

// GetMyRFQs lists the caller's RFQs, newest first.
func GetMyRFQs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	buyerID := utils.GetUserIDFromRequest(r)
	limit, offset := utils.ParsePagination(r, 20)

	filter := bson.M{"buyerId": buyerID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit).SetSkip(offset)
	cursor, err := db.RFQCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetMyRFQs error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch RFQs")
		return
	}

	rfqs := []models.RFQ{}
	if err := cursor.All(ctx, &rfqs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch RFQs")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rfqs)
}

// BrowseRFQs lists open requests for suppliers to quote against.
func BrowseRFQs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, offset := utils.ParsePagination(r, 20)
	filter := bson.M{"status": bson.M{"$in": []models.RFQStatus{models.RFQPublished, models.RFQResponding}}}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit).SetSkip(offset)
	cursor, err := db.RFQCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("BrowseRFQs error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch RFQs")
		return
	}

	rfqs := []models.RFQ{}
	if err := cursor.All(ctx, &rfqs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch RFQs")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rfqs)
}

// GetRFQ returns one RFQ and bumps its view counter for non-owners.
func GetRFQ(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rfqID := ps.ByName("rfqid")
	userID := utils.GetUserIDFromRequest(r)

	var rfq models.RFQ
	err := db.RFQCollection.FindOne(ctx, bson.M{"rfqId": rfqID}).Decode(&rfq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "RFQ not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch RFQ")
		return
	}

	// Drafts are visible to their owner only.
	if rfq.Status == models.RFQDraft && rfq.BuyerID != userID {
		utils.RespondWithError(w, http.StatusNotFound, "RFQ not found")
		return
	}

	if rfq.BuyerID != userID {
		if _, err := db.RFQCollection.UpdateOne(ctx, bson.M{"rfqId": rfqID}, bson.M{"$inc": bson.M{"viewCount": 1}}); err == nil {
			rfq.ViewCount++
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, rfq)
}

// transitionRFQ moves an owner's RFQ to next when the lifecycle allows it.
func transitionRFQ(w http.ResponseWriter, r *http.Request, rfqID string, next models.RFQStatus) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var rfq models.RFQ
	if err := db.RFQCollection.FindOne(ctx, bson.M{"rfqId": rfqID}).Decode(&rfq); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "RFQ not found")
		return
	}
	if rfq.BuyerID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}
	if !rfq.Status.CanTransition(next) {
		utils.RespondWithError(w, http.StatusConflict, "Cannot move RFQ from "+string(rfq.Status)+" to "+string(next))
		return
	}

	if rfq.Status != next {
		_, err := db.RFQCollection.UpdateOne(ctx, bson.M{"rfqId": rfqID},
			bson.M{"$set": bson.M{"status": next, "updatedAt": time.Now()}})
		if err != nil {
			log.Println("transitionRFQ error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update RFQ")
			return
		}
		if next == models.RFQPublished {
			mq.Emit(ctx, mq.Event{Name: mq.EventRFQPublished, EntityID: rfqID, BuyerID: rfq.BuyerID})
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "rfqId": rfqID, "status": next})
}

// PublishRFQ opens a draft for supplier responses.
func PublishRFQ(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	transitionRFQ(w, r, ps.ByName("rfqid"), models.RFQPublished)
}

// CancelRFQ withdraws an RFQ that has not been awarded.
func CancelRFQ(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	transitionRFQ(w, r, ps.ByName("rfqid"), models.RFQCancelled)
}

// ExpireStale marks past-deadline open RFQs as expired. Runs on an interval
// from main.
func ExpireStale(ctx context.Context) (int64, error) {
	res, err := db.RFQCollection.UpdateMany(ctx,
		bson.M{
			"status":   bson.M{"$in": []models.RFQStatus{models.RFQPublished, models.RFQResponding}},
			"deadline": bson.M{"$ne": nil, "$lt": time.Now()},
		},
		bson.M{"$set": bson.M{"status": models.RFQExpired, "updatedAt": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
