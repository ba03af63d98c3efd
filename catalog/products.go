package catalog

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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// requireApprovedSupplier loads the caller and checks they may list
// products.
func requireApprovedSupplier(ctx context.Context, r *http.Request) (*models.User, error) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		return nil, models.ErrForbidden
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user); err != nil {
		return nil, models.ErrNotFound
	}
	if user.KYCStatus != models.KYCApproved {
		return nil, models.Validation("Supplier verification is pending approval")
	}
	return &user, nil
}

// CreateProduct lists a new product. It enters the catalog as
// PendingApproval and becomes visible once an admin approves it.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	supplier, err := requireApprovedSupplier(ctx, r)
	if err != nil {
		if models.IsValidation(err) {
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if product.Name == "" || product.Category == "" || product.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, category and a positive price are required")
		return
	}
	if product.BulkPrice > 0 && product.BulkPrice >= product.Price {
		utils.RespondWithError(w, http.StatusBadRequest, "Bulk price must be below the unit price")
		return
	}

	now := time.Now()
	product.ProductID = utils.GetUUID()
	product.SupplierID = supplier.UserID
	product.SupplierName = supplier.CompanyName
	product.SupplierLocation = supplier.Country
	product.Status = models.ProductPendingApproval
	product.ViewCount = 0
	product.OrderCount = 0
	product.PublishedAt = nil
	product.RejectReason = ""
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	if _, err := db.SupplierProfileCollection.UpdateOne(ctx,
		bson.M{"userId": supplier.UserID},
		bson.M{"$inc": bson.M{"totalProducts": 1}, "$set": bson.M{"updatedAt": now}}); err != nil {
		log.Println("CreateProduct profile counter error:", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "productId": product.ProductID, "status": product.Status})
}

// UpdateProduct edits a supplier's own listing. Pricing and inventory edits
// do not touch existing cart snapshots.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	productID := ps.ByName("productid")

	var existing models.Product
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if existing.SupplierID != userID && !utils.HasRole(r, "admin") {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}

	var updates struct {
		Name             *string  `json:"name"`
		Description      *string  `json:"description"`
		Category         *string  `json:"category"`
		Price            *float64 `json:"price"`
		BulkPrice        *float64 `json:"bulkPrice"`
		BulkQuantity     *int     `json:"bulkQuantity"`
		StockQuantity    *int     `json:"stockQuantity"`
		MinOrderQuantity *int     `json:"minOrderQuantity"`
		MaxOrderQuantity *int     `json:"maxOrderQuantity"`
		LeadTimeDays     *int     `json:"leadTimeDays"`
		QualityGrade     *string  `json:"qualityGrade"`
		Status           *string  `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if updates.Name != nil {
		set["name"] = *updates.Name
	}
	if updates.Description != nil {
		set["description"] = *updates.Description
	}
	if updates.Category != nil {
		set["category"] = *updates.Category
	}
	if updates.Price != nil {
		if *updates.Price <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Price must be greater than 0")
			return
		}
		set["price"] = *updates.Price
	}
	if updates.BulkPrice != nil {
		set["bulkPrice"] = *updates.BulkPrice
	}
	if updates.BulkQuantity != nil {
		set["bulkQuantity"] = *updates.BulkQuantity
	}
	if updates.StockQuantity != nil {
		if *updates.StockQuantity < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Stock cannot be negative")
			return
		}
		set["stockQuantity"] = *updates.StockQuantity
	}
	if updates.MinOrderQuantity != nil {
		set["minOrderQuantity"] = *updates.MinOrderQuantity
	}
	if updates.MaxOrderQuantity != nil {
		set["maxOrderQuantity"] = *updates.MaxOrderQuantity
	}
	if updates.LeadTimeDays != nil {
		set["leadTimeDays"] = *updates.LeadTimeDays
	}
	if updates.QualityGrade != nil {
		set["qualityGrade"] = *updates.QualityGrade
	}
	if updates.Status != nil {
		next := models.ProductStatus(*updates.Status)
		// suppliers toggle between Active/Inactive/OutOfStock/Discontinued;
		// approval stays with admins
		if next == models.ProductPendingApproval || !existing.Status.CanTransition(next) {
			utils.RespondWithError(w, http.StatusConflict, "Cannot move product from "+string(existing.Status)+" to "+string(next))
			return
		}
		set["status"] = next
	}

	if _, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productId": productID}, bson.M{"$set": set}); err != nil {
		log.Println("UpdateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "productId": productID})
}

// DeleteProduct discontinues a listing rather than erasing it, so order
// history keeps resolving.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	productID := ps.ByName("productid")

	var existing models.Product
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if existing.SupplierID != userID && !utils.HasRole(r, "admin") {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}

	_, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productId": productID},
		bson.M{"$set": bson.M{"status": models.ProductDiscontinued, "updatedAt": time.Now()}})
	if err != nil {
		log.Println("DeleteProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "productId": productID})
}

// BrowseProducts is the public catalog with search, category filter,
// sorting and pagination. Only Active products show.
func BrowseProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	search := r.URL.Query().Get("search")
	category := r.URL.Query().Get("category")
	supplierID := r.URL.Query().Get("supplier")
	sortParam := r.URL.Query().Get("sort")
	limit, offset := utils.ParsePagination(r, 20)

	filter := bson.M{"status": models.ProductActive}
	if category != "" {
		filter["category"] = category
	}
	if supplierID != "" {
		filter["supplierId"] = supplierID
	}
	if search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": primitive.Regex{Pattern: search, Options: "i"}}},
			{"description": bson.M{"$regex": primitive.Regex{Pattern: search, Options: "i"}}},
		}
	}

	sort := bson.D{{Key: "createdAt", Value: -1}}
	switch sortParam {
	case "price_asc":
		sort = bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		sort = bson.D{{Key: "price", Value: -1}}
	case "name_asc":
		sort = bson.D{{Key: "name", Value: 1}}
	case "name_desc":
		sort = bson.D{{Key: "name", Value: -1}}
	case "rating":
		sort = bson.D{{Key: "rating", Value: -1}}
	case "popular":
		sort = bson.D{{Key: "viewCount", Value: -1}}
	}

	findOptions := options.Find().SetLimit(limit).SetSkip(offset).SetSort(sort)
	cursor, err := db.ProductsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("BrowseProducts error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	count, err := db.ProductsCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count products")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"items": products, "total": count})
}

// GetProduct returns one listing and bumps its view counter. Suppliers see
// their own unpublished listings; everyone else only Active ones.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("productid")
	userID := utils.GetUserIDFromRequest(r)

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	if product.Status != models.ProductActive && product.SupplierID != userID && !utils.HasRole(r, "admin") {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if product.SupplierID != userID {
		if _, err := db.ProductsCollection.UpdateOne(ctx, bson.M{"productId": productID}, bson.M{"$inc": bson.M{"viewCount": 1}}); err == nil {
			product.ViewCount++
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// GetSupplierProducts lists the caller's own products, any status.
func GetSupplierProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	supplierID := utils.GetUserIDFromRequest(r)
	limit, offset := utils.ParsePagination(r, 20)

	filter := bson.M{"supplierId": supplierID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := db.ProductsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit).SetSkip(offset))
	if err != nil {
		log.Println("GetSupplierProducts error:", err)
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
