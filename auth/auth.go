package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"agrimarket/cart"
	"agrimarket/db"
	"agrimarket/globals"
	"agrimarket/middleware"
	"agrimarket/models"
	"agrimarket/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"` // "buyer" or "supplier"
	CompanyName string `json:"companyName"`
	Country     string `json:"country"`
	Phone       string `json:"phone"`
}

// Register creates an account with KYC pending and the matching trading
// profile.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "Username, email and a password of at least 8 characters are required")
		return
	}
	if req.Role != "buyer" && req.Role != "supplier" {
		utils.RespondWithError(w, http.StatusBadRequest, "Role must be buyer or supplier")
		return
	}

	var existing models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"$or": []bson.M{
		{"username": req.Username},
		{"email": req.Email},
	}}).Decode(&existing)
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "Username or email already in use")
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	now := time.Now()
	user := models.User{
		UserID:       utils.GetUUID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         []string{req.Role},
		CompanyName:  req.CompanyName,
		Country:      req.Country,
		Phone:        req.Phone,
		IsActive:     true,
		KYCStatus:    models.KYCPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		log.Println("Register error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	switch req.Role {
	case "supplier":
		profile := models.SupplierProfile{UserID: user.UserID, CompanyName: req.CompanyName, CreatedAt: now, UpdatedAt: now}
		if _, err := db.SupplierProfileCollection.InsertOne(ctx, profile); err != nil {
			log.Println("Register supplier profile error:", err)
		}
	case "buyer":
		profile := models.BuyerProfile{UserID: user.UserID, CompanyName: req.CompanyName, CreatedAt: now, UpdatedAt: now}
		if _, err := db.BuyerProfileCollection.InsertOne(ctx, profile); err != nil {
			log.Println("Register buyer profile error:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":   true,
		"userId":    user.UserID,
		"kycStatus": user.KYCStatus,
	})
}

func signToken(user *models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a 24h token. An X-Cart-Token
// header folds the guest cart into the account on the way in.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"username": req.Username}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !user.IsActive {
		utils.RespondWithError(w, http.StatusForbidden, "Account is deactivated")
		return
	}

	token, err := signToken(&user)
	if err != nil {
		log.Println("Login token error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if sessionCart := r.Header.Get("X-Cart-Token"); sessionCart != "" {
		if err := cart.MergeCarts(ctx, sessionCart, user.UserID); err != nil {
			log.Println("Login cart merge error:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"token":     token,
		"userId":    user.UserID,
		"username":  user.Username,
		"role":      user.Role,
		"kycStatus": user.KYCStatus,
	})
}

// GetProfile returns the caller's own account record.
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

type profileUpdate struct {
	CompanyName *string `json:"companyName"`
	Country     *string `json:"country"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	PostalCode  *string `json:"postalCode"`
}

// UpdateProfile edits the caller's contact and company details.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var req profileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.CompanyName != nil {
		set["companyName"] = *req.CompanyName
	}
	if req.Country != nil {
		set["country"] = *req.Country
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.City != nil {
		set["city"] = *req.City
	}
	if req.State != nil {
		set["state"] = *req.State
	}
	if req.PostalCode != nil {
		set["postalCode"] = *req.PostalCode
	}

	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": set}); err != nil {
		log.Println("UpdateProfile error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// SubmitKYCDocuments attaches verification documents to the caller and
// resets the review state.
func SubmitKYCDocuments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var req struct {
		Documents []string `json:"documents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Documents) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "At least one document is required")
		return
	}

	now := time.Now()
	_, err := db.UserCollection.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": bson.M{
		"kycDocuments":    req.Documents,
		"kycStatus":       models.KYCPending,
		"kycRejectReason": "",
		"updatedAt":       now,
	}})
	if err != nil {
		log.Println("SubmitKYCDocuments error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit documents")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "kycStatus": models.KYCPending})
}
