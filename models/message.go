package models

import "time"

// Message is a directed unit of communication. Content is stored encrypted
// (AES-GCM, nonce-prefixed, base64) and decrypted on read.
type Message struct {
	MessageID  string      `json:"messageId" bson:"messageId"`
	SenderID   string      `json:"senderId" bson:"senderId"`
	ReceiverID string      `json:"receiverId" bson:"receiverId"`
	Subject    string      `json:"subject,omitempty" bson:"subject,omitempty"`
	Content    string      `json:"content" bson:"content"`
	Type       MessageType `json:"type" bson:"type"`

	// Optional entity tags
	ProductID string `json:"productId,omitempty" bson:"productId,omitempty"`
	OrderID   string `json:"orderId,omitempty" bson:"orderId,omitempty"`
	RFQID     string `json:"rfqId,omitempty" bson:"rfqId,omitempty"`
	DisputeID string `json:"disputeId,omitempty" bson:"disputeId,omitempty"`

	IsRead      bool       `json:"isRead" bson:"isRead"`
	ReadDate    *time.Time `json:"readDate,omitempty" bson:"readDate,omitempty"`
	IsEncrypted bool       `json:"isEncrypted" bson:"isEncrypted"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Conversation is the inbox summary row for one counterparty.
type Conversation struct {
	UserID        string   `json:"userId"`
	Username      string   `json:"username,omitempty"`
	LatestMessage *Message `json:"latestMessage,omitempty"`
	UnreadCount   int64    `json:"unreadCount"`
}
