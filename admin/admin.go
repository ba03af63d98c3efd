package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListKYCQueue returns users awaiting verification, oldest first.
func ListKYCQueue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, offset := utils.ParsePagination(r, 20)
	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(models.KYCPending)
	}

	cursor, err := db.UserCollection.Find(ctx, bson.M{"kycStatus": status},
		options.Find().SetSort(bson.M{"createdAt": 1}).SetLimit(limit).SetSkip(offset))
	if err != nil {
		log.Println("ListKYCQueue error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch KYC queue")
		return
	}

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch KYC queue")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

// ApproveKYC verifies a user. Idempotent.
func ApproveKYC(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	adminID := utils.GetUserIDFromRequest(r)
	userID := ps.ByName("userid")

	now := time.Now()
	res, err := db.UserCollection.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": bson.M{
		"kycStatus":       models.KYCApproved,
		"kycReviewedBy":   adminID,
		"kycReviewedAt":   now,
		"kycRejectReason": "",
		"updatedAt":       now,
	}})
	if err != nil {
		log.Println("ApproveKYC error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to approve KYC")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "userId": userID, "kycStatus": models.KYCApproved})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// RejectKYC declines a user's verification with a reason.
func RejectKYC(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	adminID := utils.GetUserIDFromRequest(r)
	userID := ps.ByName("userid")

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reason == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A rejection reason is required")
		return
	}

	now := time.Now()
	res, err := db.UserCollection.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": bson.M{
		"kycStatus":       models.KYCRejected,
		"kycReviewedBy":   adminID,
		"kycReviewedAt":   now,
		"kycRejectReason": req.Reason,
		"updatedAt":       now,
	}})
	if err != nil {
		log.Println("RejectKYC error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reject KYC")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "userId": userID, "kycStatus": models.KYCRejected})
}

// ListPendingProducts shows listings awaiting catalog approval.
func ListPendingProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit, offset := utils.ParsePagination(r, 20)
	cursor, err := db.ProductsCollection.Find(ctx, bson.M{"status": models.ProductPendingApproval},
		options.Find().SetSort(bson.M{"createdAt": 1}).SetLimit(limit).SetSkip(offset))
	if err != nil {
		log.Println("ListPendingProducts error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, products)
}

// ApproveProduct publishes a pending listing into the catalog.
func ApproveProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var product models.Product
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if !product.Status.CanTransition(models.ProductActive) {
		utils.RespondWithError(w, http.StatusConflict, "Cannot approve a "+string(product.Status)+" product")
		return
	}

	now := time.Now()
	_, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productId": productID}, bson.M{"$set": bson.M{
		"status":       models.ProductActive,
		"publishedAt":  now,
		"rejectReason": "",
		"updatedAt":    now,
	}})
	if err != nil {
		log.Println("ApproveProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to approve product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "productId": productID, "status": models.ProductActive})
}

// RejectProduct declines a pending listing with a reason.
func RejectProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reason == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A rejection reason is required")
		return
	}

	var product models.Product
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if !product.Status.CanTransition(models.ProductInactive) {
		utils.RespondWithError(w, http.StatusConflict, "Cannot reject a "+string(product.Status)+" product")
		return
	}

	_, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productId": productID}, bson.M{"$set": bson.M{
		"status":       models.ProductInactive,
		"rejectReason": req.Reason,
		"updatedAt":    time.Now(),
	}})
	if err != nil {
		log.Println("RejectProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reject product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "productId": productID, "status": models.ProductInactive})
}

type roleRequest struct {
	Role []string `json:"role"`
}

// UpdateUserRole replaces a user's role set.
func UpdateUserRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("userid")

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Role) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "At least one role is required")
		return
	}
	for _, role := range req.Role {
		if role != "buyer" && role != "supplier" && role != "admin" {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown role: "+role)
			return
		}
	}

	res, err := db.UserCollection.UpdateOne(ctx, bson.M{"userId": userID},
		bson.M{"$set": bson.M{"role": req.Role, "updatedAt": time.Now()}})
	if err != nil {
		log.Println("UpdateUserRole error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "userId": userID, "role": req.Role})
}

// DeactivateUser blocks a user from logging in.
func DeactivateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("userid")

	res, err := db.UserCollection.UpdateOne(ctx, bson.M{"userId": userID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		log.Println("DeactivateUser error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to deactivate user")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "userId": userID, "isActive": false})
}

// PlatformStats summarizes marketplace activity for the admin dashboard.
func PlatformStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	count := func(coll string, filter bson.M) int64 {
		switch coll {
		case "users":
			n, _ := db.UserCollection.CountDocuments(ctx, filter)
			return n
		case "products":
			n, _ := db.ProductsCollection.CountDocuments(ctx, filter)
			return n
		case "orders":
			n, _ := db.OrdersCollection.CountDocuments(ctx, filter)
			return n
		case "rfqs":
			n, _ := db.RFQCollection.CountDocuments(ctx, filter)
			return n
		case "disputes":
			n, _ := db.DisputesCollection.CountDocuments(ctx, filter)
			return n
		}
		return 0
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"users":           count("users", bson.M{}),
		"activeUsers":     count("users", bson.M{"isActive": true}),
		"pendingKyc":      count("users", bson.M{"kycStatus": models.KYCPending}),
		"products":        count("products", bson.M{}),
		"activeProducts":  count("products", bson.M{"status": models.ProductActive}),
		"pendingProducts": count("products", bson.M{"status": models.ProductPendingApproval}),
		"orders":          count("orders", bson.M{}),
		"openRfqs":        count("rfqs", bson.M{"status": bson.M{"$in": []models.RFQStatus{models.RFQPublished, models.RFQResponding}}}),
		"openDisputes":    count("disputes", bson.M{"status": models.DisputeOpen}),
	})
}
