package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"agrimarket/db"
	"agrimarket/models"
	"agrimarket/rdx"
	"agrimarket/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sendRequest struct {
	ReceiverID string             `json:"receiverId"`
	Subject    string             `json:"subject"`
	Content    string             `json:"content"`
	Type       models.MessageType `json:"type"`
	ProductID  string             `json:"productId"`
	OrderID    string             `json:"orderId"`
	RFQID      string             `json:"rfqId"`
	DisputeID  string             `json:"disputeId"`
}

// resolveReceiver fills in and checks the entity tags on an outgoing
// message. A product inquiry with no explicit receiver goes to the
// product's supplier; order and dispute threads are limited to their
// participants.
func resolveReceiver(ctx context.Context, senderID string, req *sendRequest) error {
	if req.ProductID != "" {
		var product models.Product
		if err := db.ProductsCollection.FindOne(ctx, bson.M{"productId": req.ProductID}).Decode(&product); err != nil {
			return models.ErrNotFound
		}
		if req.ReceiverID == "" {
			req.ReceiverID = product.SupplierID
		}
	}

	if req.OrderID != "" {
		var order models.Order
		if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderId": req.OrderID}).Decode(&order); err != nil {
			return models.ErrNotFound
		}
		if order.BuyerID != senderID && !order.HasSupplier(senderID) {
			return models.ErrForbidden
		}
	}

	if req.DisputeID != "" {
		var dispute models.Dispute
		if err := db.DisputesCollection.FindOne(ctx, bson.M{"disputeId": req.DisputeID}).Decode(&dispute); err != nil {
			return models.ErrNotFound
		}
		if !dispute.Involves(senderID) {
			return models.ErrForbidden
		}
	}

	if req.ReceiverID == "" {
		return models.Validation("Receiver is required")
	}
	if req.ReceiverID == senderID {
		return models.Validation("Cannot send a message to yourself")
	}
	return nil
}

// SendMessage stores an encrypted message and invalidates the receiver's
// unread counter.
func SendMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	senderID := utils.GetUserIDFromRequest(r)
	if senderID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Content == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Message content is required")
		return
	}
	if req.Type == "" {
		req.Type = models.MessageGeneral
	}

	if err := resolveReceiver(ctx, senderID, &req); err != nil {
		switch {
		case models.IsValidation(err):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrForbidden):
			utils.RespondWithError(w, http.StatusForbidden, "Access denied")
		case errors.Is(err, models.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Referenced entity not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}

	sealed, err := Encrypt(req.Content)
	if err != nil {
		log.Println("SendMessage encrypt error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	msg := models.Message{
		MessageID:   utils.GetUUID(),
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		Subject:     req.Subject,
		Content:     sealed,
		Type:        req.Type,
		ProductID:   req.ProductID,
		OrderID:     req.OrderID,
		RFQID:       req.RFQID,
		DisputeID:   req.DisputeID,
		IsEncrypted: true,
		CreatedAt:   time.Now(),
	}

	if _, err := db.MessagesCollection.InsertOne(ctx, msg); err != nil {
		log.Println("SendMessage error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	if _, err := rdx.RdxDel("unread:" + req.ReceiverID); err != nil {
		log.Println("SendMessage unread cache error:", err)
	}

	if LiveHub != nil {
		LiveHub.Notify(msg.ReceiverID, msg.MessageID, msg.SenderID, msg.Subject, string(msg.Type))
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "messageId": msg.MessageID})
}

// GetConversations returns the caller's inbox grouped by counterparty,
// latest first.
func GetConversations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.MessagesCollection.Find(ctx, bson.M{
		"$or": []bson.M{{"senderId": userID}, {"receiverId": userID}},
	}, opts)
	if err != nil {
		log.Println("GetConversations error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}

	byPeer := map[string]*models.Conversation{}
	order := []string{}
	for i := range messages {
		m := messages[i]
		peer := m.SenderID
		if peer == userID {
			peer = m.ReceiverID
		}
		conv, ok := byPeer[peer]
		if !ok {
			conv = &models.Conversation{UserID: peer, LatestMessage: &messages[i]}
			if m.IsEncrypted {
				if text, err := Decrypt(m.Content); err == nil {
					conv.LatestMessage.Content = text
				}
			}
			byPeer[peer] = conv
			order = append(order, peer)
		}
		if m.ReceiverID == userID && !m.IsRead {
			conv.UnreadCount++
		}
	}

	conversations := make([]models.Conversation, 0, len(order))
	for _, peer := range order {
		conv := byPeer[peer]
		var peerUser models.User
		if err := db.UserCollection.FindOne(ctx, bson.M{"userId": peer}).Decode(&peerUser); err == nil {
			conv.Username = peerUser.Username
		}
		conversations = append(conversations, *conv)
	}

	utils.RespondWithJSON(w, http.StatusOK, conversations)
}

// GetConversation returns the thread with one counterparty, decrypted, and
// marks the incoming half as read.
func GetConversation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	peerID := ps.ByName("userid")

	cursor, err := db.MessagesCollection.Find(ctx, bson.M{
		"$or": []bson.M{
			{"senderId": userID, "receiverId": peerID},
			{"senderId": peerID, "receiverId": userID},
		},
	}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		log.Println("GetConversation error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	for i := range messages {
		if messages[i].IsEncrypted {
			if text, err := Decrypt(messages[i].Content); err == nil {
				messages[i].Content = text
			} else {
				messages[i].Content = ""
			}
		}
	}

	now := time.Now()
	_, err = db.MessagesCollection.UpdateMany(ctx,
		bson.M{"senderId": peerID, "receiverId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readDate": now}})
	if err != nil {
		log.Println("GetConversation mark-read error:", err)
	} else if _, err := rdx.RdxDel("unread:" + userID); err != nil {
		log.Println("GetConversation unread cache error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

// GetUnreadCount returns the caller's unread total, cached for a minute.
func GetUnreadCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	if cached, err := rdx.RdxGet("unread:" + userID); err == nil && cached != "" {
		if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{"unreadCount": count})
			return
		}
	}

	count, err := db.MessagesCollection.CountDocuments(ctx, bson.M{"receiverId": userID, "isRead": false})
	if err != nil {
		log.Println("GetUnreadCount error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch unread count")
		return
	}

	if err := rdx.RdxSetWithTTL("unread:"+userID, strconv.FormatInt(count, 10), time.Minute); err != nil {
		log.Println("GetUnreadCount cache error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"unreadCount": count})
}
