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

// RespondToRFQ files a supplier quote against an open RFQ. The first
// response moves a published RFQ into Responding.
func RespondToRFQ(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	supplierID := utils.GetUserIDFromRequest(r)
	rfqID := ps.ByName("rfqid")

	var resp models.RFQResponse
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if resp.Price <= 0 || resp.Quantity <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Price and quantity must be greater than 0")
		return
	}

	var rfq models.RFQ
	if err := db.RFQCollection.FindOne(ctx, bson.M{"rfqId": rfqID}).Decode(&rfq); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "RFQ not found")
		return
	}
	if rfq.BuyerID == supplierID {
		utils.RespondWithError(w, http.StatusForbidden, "Cannot respond to your own RFQ")
		return
	}
	if !rfq.Status.AcceptsResponses() {
		utils.RespondWithError(w, http.StatusConflict, "This RFQ is not accepting responses")
		return
	}
	if rfq.Deadline != nil && rfq.Deadline.Before(time.Now()) {
		utils.RespondWithError(w, http.StatusConflict, "This RFQ has passed its deadline")
		return
	}

	now := time.Now()
	resp.ResponseID = utils.GetUUID()
	resp.RFQID = rfqID
	resp.SupplierID = supplierID
	resp.CreatedAt = now
	resp.UpdatedAt = now
	if resp.Currency == "" {
		resp.Currency = rfq.Currency
	}

	if _, err := db.RFQResponsesCollection.InsertOne(ctx, resp); err != nil {
		log.Println("RespondToRFQ error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit response")
		return
	}

	update := bson.M{"$inc": bson.M{"responseCount": 1}, "$set": bson.M{"updatedAt": now}}
	if rfq.Status == models.RFQPublished {
		update["$set"].(bson.M)["status"] = models.RFQResponding
	}
	if _, err := db.RFQCollection.UpdateOne(ctx, bson.M{"rfqId": rfqID}, update); err != nil {
		log.Println("RespondToRFQ counter error:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "responseId": resp.ResponseID})
}

// GetRFQResponses lists all quotes on an RFQ. Owner only; suppliers see
// only their own via the mine filter.
func GetRFQResponses(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	rfqID := ps.ByName("rfqid")

	var rfq models.RFQ
	if err := db.RFQCollection.FindOne(ctx, bson.M{"rfqId": rfqID}).Decode(&rfq); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "RFQ not found")
		return
	}

	filter := bson.M{"rfqId": rfqID}
	if rfq.BuyerID != userID {
		filter["supplierId"] = userID
	}

	opts := options.Find().SetSort(bson.M{"price": 1})
	cursor, err := db.RFQResponsesCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetRFQResponses error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch responses")
		return
	}

	responses := []models.RFQResponse{}
	if err := cursor.All(ctx, &responses); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch responses")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, responses)
}

// OrderFromResponse builds the Pending order an award creates, priced from
// the winning quote.
func OrderFromResponse(rfq *models.RFQ, resp *models.RFQResponse, supplierName string) *models.Order {
	now := time.Now()
	order := &models.Order{
		OrderID:       utils.GetUUID(),
		BuyerID:       rfq.BuyerID,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
		Currency:      resp.Currency,
		RFQID:         rfq.RFQID,
		Items: []models.OrderItem{{
			ProductName:  rfq.Title,
			SupplierID:   resp.SupplierID,
			SupplierName: supplierName,
			Quantity:     resp.Quantity,
			UnitPrice:    resp.Price,
			TotalPrice:   resp.Price * float64(resp.Quantity),
			Currency:     resp.Currency,
		}},
		ItemCount: resp.Quantity,
		OrderDate: now,
		UpdatedAt: now,
	}
	order.Subtotal = order.Items[0].TotalPrice
	order.TotalAmount = order.Subtotal
	order.OrderNumber = "RFQ-" + now.Format("20060102") + "-" + order.OrderID[:8]
	return order
}

// AwardRFQ accepts one supplier response, closes the RFQ and opens a
// Pending order on the winning terms.
func AwardRFQ(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	rfqID := ps.ByName("rfqid")
	responseID := ps.ByName("responseid")

	var rfq models.RFQ
	if err := db.RFQCollection.FindOne(ctx, bson.M{"rfqId": rfqID}).Decode(&rfq); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "RFQ not found")
		return
	}
	if rfq.BuyerID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}
	if rfq.Status == models.RFQAwarded && rfq.AwardedResponseID == responseID {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "RFQ already awarded", "rfqId": rfqID})
		return
	}
	if !rfq.Status.CanTransition(models.RFQAwarded) {
		utils.RespondWithError(w, http.StatusConflict, "Cannot award RFQ in status "+string(rfq.Status))
		return
	}

	var resp models.RFQResponse
	err := db.RFQResponsesCollection.FindOne(ctx, bson.M{"responseId": responseID, "rfqId": rfqID}).Decode(&resp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Response not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to award RFQ")
		return
	}

	var supplier models.User
	supplierName := ""
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": resp.SupplierID}).Decode(&supplier); err == nil {
		supplierName = supplier.CompanyName
	}

	order := OrderFromResponse(&rfq, &resp, supplierName)

	session, err := db.Client.StartSession()
	if err != nil {
		log.Println("AwardRFQ session error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to award RFQ")
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.OrdersCollection.InsertOne(sc, order); err != nil {
			return nil, err
		}
		_, err := db.RFQCollection.UpdateOne(sc, bson.M{"rfqId": rfqID},
			bson.M{"$set": bson.M{"status": models.RFQAwarded, "awardedResponseId": responseID, "updatedAt": time.Now()}})
		return nil, err
	})
	if err != nil {
		log.Println("AwardRFQ transaction error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to award RFQ")
		return
	}

	mq.Emit(ctx, mq.Event{
		Name:        mq.EventRFQAwarded,
		EntityID:    rfqID,
		BuyerID:     rfq.BuyerID,
		SupplierIDs: []string{resp.SupplierID},
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"message":    "RFQ awarded",
		"rfqId":      rfqID,
		"responseId": responseID,
		"orderId":    order.OrderID,
	})
}
