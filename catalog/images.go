package catalog

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const productImageDir = "./static/productpic"

func ensureDirExists(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// UploadProductImage accepts a multipart "image" file, stores the original
// and a 200px-wide thumbnail, and points the product at both.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	productID := ps.ByName("productid")

	var product models.Product
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": productID}).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if product.SupplierID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported image format")
		return
	}

	uniqueID := utils.GetUUID()
	fileName := uniqueID + ".jpg"
	originalPath := filepath.Join(productImageDir, fileName)
	thumbDir := filepath.Join(productImageDir, "thumb")
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := ensureDirExists(productImageDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}
	if err := ensureDirExists(thumbDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	if err := imaging.Save(img, originalPath); err != nil {
		log.Println("UploadProductImage save error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}
	thumbImg := imaging.Resize(img, 200, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		log.Println("UploadProductImage thumbnail error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	imageURL := "/productpic/" + fileName
	thumbnailURL := "/productpic/thumb/" + fileName
	_, err = db.ProductsCollection.UpdateOne(ctx, bson.M{"productId": productID}, bson.M{"$set": bson.M{
		"imageUrl":     imageURL,
		"thumbnailUrl": thumbnailURL,
		"updatedAt":    time.Now(),
	}})
	if err != nil {
		log.Println("UploadProductImage update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":      true,
		"imageUrl":     imageURL,
		"thumbnailUrl": thumbnailURL,
	})
}
