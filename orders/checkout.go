package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"agrimarket/cart"
	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/mq"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CheckoutRequest carries the buyer-supplied half of an order. Everything
// priced comes from cart snapshots, never from the request.
type CheckoutRequest struct {
	CustomerName    string         `json:"customerName"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	BillingAddress  models.Address `json:"billingAddress"`
	ShippingAddress models.Address `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	ShippingMethod  string         `json:"shippingMethod"`
	Currency        string         `json:"currency"`
	Notes           string         `json:"notes"`
}

// NewOrderFromCart assembles an order from cart line snapshots. Lines saved
// for later are left out. Pure so checkout math is testable without Mongo.
func NewOrderFromCart(buyerID string, req CheckoutRequest, items []models.CartItem, products map[string]models.Product) (*models.Order, error) {
	now := time.Now()
	order := &models.Order{
		OrderID:         utils.GetUUID(),
		BuyerID:         buyerID,
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		Phone:           req.Phone,
		BillingAddress:  req.BillingAddress,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		ShippingMethod:  req.ShippingMethod,
		Status:          models.OrderPending,
		StatusNotes:     req.Notes,
		Currency:        req.Currency,
		OrderDate:       now,
		UpdatedAt:       now,
	}
	if order.Currency == "" {
		order.Currency = "USD"
	}
	order.OrderNumber = fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(order.OrderID[:8]))

	for _, it := range items {
		if it.SavedForLater {
			continue
		}
		line := models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SupplierID:  it.SupplierID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice(),
			Currency:    order.Currency,
		}
		if p, ok := products[it.ProductID]; ok {
			line.Description = p.Description
			line.ImageURL = p.ImageURL
			line.SupplierName = p.SupplierName
			line.SKU = p.SKU
			line.QualityGrade = p.QualityGrade
			line.CountryOfOrigin = p.CountryOfOrigin
		}
		order.Items = append(order.Items, line)
		order.ItemCount += it.Quantity
		order.Subtotal += line.TotalPrice
	}
	if len(order.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	order.TotalAmount = order.Subtotal + order.TaxAmount + order.ShippingCost - order.DiscountAmount
	return order, nil
}

// CreateOrder turns the caller's cart into an order. The order insert, the
// stock decrements and the cart wipe commit or roll back together.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cursor, err := db.CartCollection.Find(ctx, bson.M{"cartId": buyerID, "savedForLater": false})
	if err != nil {
		log.Println("CreateOrder cart fetch error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	if len(items) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Your cart is empty")
		return
	}

	products := make(map[string]models.Product, len(items))
	for _, it := range items {
		var p models.Product
		if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": it.ProductID}).Decode(&p); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("%s is no longer available", it.ProductName))
			return
		}
		if err := cart.ValidateUpdate(&p, it.Quantity); err != nil {
			if models.IsValidation(err) {
				utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("%s: %s", p.Name, err.Error()))
				return
			}
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
			return
		}
		products[it.ProductID] = p
	}

	order, err := NewOrderFromCart(buyerID, req, items, products)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Your cart is empty")
		return
	}

	session, err := db.Client.StartSession()
	if err != nil {
		log.Println("CreateOrder session error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, line := range order.Items {
			res, err := db.ProductsCollection.UpdateOne(sc,
				bson.M{"productId": line.ProductID, "stockQuantity": bson.M{"$gte": line.Quantity}},
				bson.M{
					"$inc": bson.M{"stockQuantity": -line.Quantity, "orderCount": 1},
					"$set": bson.M{"updatedAt": time.Now()},
				})
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, models.Validation(fmt.Sprintf("%s is out of stock", line.ProductName))
			}
		}
		if _, err := db.OrdersCollection.InsertOne(sc, order); err != nil {
			return nil, err
		}
		if _, err := db.CartCollection.DeleteMany(sc, bson.M{"cartId": buyerID, "savedForLater": false}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if models.IsValidation(err) {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		log.Println("CreateOrder transaction error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	mq.Emit(ctx, mq.Event{
		Name:        mq.EventOrderPlaced,
		EntityID:    order.OrderID,
		BuyerID:     order.BuyerID,
		SupplierIDs: order.SupplierIDs(),
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
	})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":     true,
		"message":     "Order placed",
		"orderId":     order.OrderID,
		"orderNumber": order.OrderNumber,
		"totalAmount": order.TotalAmount,
		"currency":    order.Currency,
	})
}
