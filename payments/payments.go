package payments

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/mq"
	"agrimarket/rdx"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// lockTTL is how long the per-user Redis lock is held.
const lockTTL = 5 * time.Second

// Method names accepted by ProcessPayment. Credit cards are consumer-only
// and rejected for wholesale orders.
const (
	MethodBankTransfer   = "bank_transfer"
	MethodEscrow         = "escrow"
	MethodTradeAssurance = "trade_assurance"
	MethodLetterOfCredit = "letter_of_credit"
	MethodCreditCard     = "credit_card"
)

// ValidatePayment applies the order/method compatibility rules.
func ValidatePayment(order *models.Order, buyer *models.User, method string) error {
	if order.TotalAmount <= 0 {
		return models.Validation("Invalid order amount")
	}
	if order.BuyerID == "" {
		return models.Validation("User not found")
	}
	if method == MethodCreditCard {
		return models.Validation("Credit card not supported for B2B orders")
	}
	if method == MethodTradeAssurance && (buyer == nil || !buyer.TradeAssuranceEnabled) {
		return models.Validation("Trade Assurance not enabled for this user")
	}
	return nil
}

// CanCapture reports whether an order's payment lifecycle may still reach
// Paid. Refunded orders and failed payments that were not reset to Pending
// stay closed to capture.
func CanCapture(s models.PaymentStatus) bool {
	return s != models.PaymentPaid && s.CanTransition(models.PaymentPaid)
}

type paymentRequest struct {
	Method   string `json:"method"`
	Currency string `json:"currency"`
}

// ProcessPayment runs the simulated payment flow for an order. Safe to
// retry: an Idempotency-Key header replays the recorded outcome, and a
// per-user Redis lock serializes concurrent attempts.
func ProcessPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	buyerID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("orderid")

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Method == "" {
		req.Method = MethodBankTransfer
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey != "" {
		var existing models.PaymentTransaction
		if err := db.TransactionsCollection.FindOne(ctx, bson.M{"idempotencyKey": idempotencyKey, "orderId": orderID}).Decode(&existing); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, existing)
			return
		}
	}

	acquired, err := rdx.RdxSetNX("paylock:"+buyerID, "1", lockTTL)
	if err != nil || !acquired {
		utils.RespondWithError(w, http.StatusTooManyRequests, "Payment already in progress, please retry")
		return
	}
	defer rdx.RdxDel("paylock:" + buyerID)

	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.BuyerID != buyerID {
		utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		return
	}
	if order.PaymentStatus == models.PaymentPaid {
		utils.RespondWithError(w, http.StatusConflict, "Order is already paid")
		return
	}
	if !CanCapture(order.PaymentStatus) {
		utils.RespondWithError(w, http.StatusConflict,
			"Cannot take payment for an order in payment status "+string(order.PaymentStatus))
		return
	}

	var buyer models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userId": buyerID}).Decode(&buyer); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment failed")
		return
	}

	if err := ValidatePayment(&order, &buyer, req.Method); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = order.Currency
	}
	rate := ExchangeRate(order.Currency, currency)
	amount := order.TotalAmount * rate

	now := time.Now()
	txn := models.PaymentTransaction{
		TransactionID:  utils.GetUUID(),
		OrderID:        orderID,
		BuyerID:        buyerID,
		Method:         req.Method,
		Amount:         amount,
		Currency:       currency,
		Status:         "initiated",
		IdempotencyKey: idempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := db.TransactionsCollection.InsertOne(ctx, txn); err != nil {
		log.Println("ProcessPayment insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment failed")
		return
	}

	set := bson.M{
		"paymentStatus": models.PaymentPaid,
		"paymentMethod": req.Method,
		"transactionId": txn.TransactionID,
		"paymentDate":   now,
		"exchangeRate":  rate,
		"updatedAt":     now,
	}
	if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderId": orderID}, bson.M{"$set": set}); err != nil {
		txn.Status = "failed"
		txn.UpdatedAt = time.Now()
		_, _ = db.TransactionsCollection.UpdateOne(ctx, bson.M{"transactionId": txn.TransactionID}, bson.M{"$set": txn})
		log.Println("ProcessPayment order update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment failed")
		return
	}

	txn.Status = "success"
	txn.UpdatedAt = time.Now()
	_, _ = db.TransactionsCollection.UpdateOne(ctx, bson.M{"transactionId": txn.TransactionID}, bson.M{"$set": txn})

	mq.Emit(ctx, mq.Event{
		Name:        mq.EventPaymentCaptured,
		EntityID:    order.OrderID,
		BuyerID:     order.BuyerID,
		SupplierIDs: order.SupplierIDs(),
		Amount:      amount,
		Currency:    currency,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"transactionId": txn.TransactionID,
		"amount":        amount,
		"currency":      currency,
		"exchangeRate":  rate,
	})
}

// GetExchangeRateHandler quotes a single from→to rate.
func GetExchangeRateHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"from": from, "to": to, "rate": ExchangeRate(from, to)})
}

// GetSupportedCurrenciesHandler lists quotable currencies.
func GetSupportedCurrenciesHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"currencies": SupportedCurrencies()})
}
