package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"agrimarket/db"
	"agrimarket/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

const eventsChannel = "marketplace-events"

// Event names published by the feature handlers.
const (
	EventOrderPlaced     = "order.placed"
	EventOrderDelivered  = "order.delivered"
	EventOrderCancelled  = "order.cancelled"
	EventPaymentCaptured = "payment.captured"
	EventRFQPublished    = "rfq.published"
	EventRFQAwarded      = "rfq.awarded"
	EventDisputeOpened   = "dispute.opened"
)

// Event is the payload carried over the Redis channel. Amount is in the
// order's currency; SupplierIDs lists every supplier on a multi-supplier
// order.
type Event struct {
	Name        string    `json:"name"`
	EntityID    string    `json:"entityId"`
	BuyerID     string    `json:"buyerId,omitempty"`
	SupplierIDs []string  `json:"supplierIds,omitempty"`
	Amount      float64   `json:"amount,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Emit publishes a domain event to Redis. Failures are logged, never
// surfaced to the request path.
func Emit(ctx context.Context, ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] marshal %s: %v", ev.Name, err)
		return
	}
	if err := rdx.Conn.Publish(context.Background(), eventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] publish %s: %v", ev.Name, err)
	}
}

// StartProfileWorker consumes marketplace events and keeps the denormalized
// counters on supplier and buyer profiles current. Runs until the Redis
// subscription closes.
func StartProfileWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventsChannel)
	ch := sub.Channel()

	log.Println("[ProfileWorker] listening for marketplace events")

	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[ProfileWorker] parse event: %v", err)
			continue
		}
		if err := apply(ctx, ev); err != nil {
			log.Printf("[ProfileWorker] apply %s %s: %v", ev.Name, ev.EntityID, err)
		}
	}
}

func apply(ctx context.Context, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch ev.Name {
	case EventOrderPlaced:
		if _, err := db.BuyerProfileCollection.UpdateOne(ctx,
			bson.M{"userId": ev.BuyerID},
			bson.M{"$inc": bson.M{"totalOrders": 1}, "$set": bson.M{"updatedAt": ev.OccurredAt}},
		); err != nil {
			return err
		}
		for _, supplierID := range ev.SupplierIDs {
			if _, err := db.SupplierProfileCollection.UpdateOne(ctx,
				bson.M{"userId": supplierID},
				bson.M{"$inc": bson.M{"totalOrders": 1}, "$set": bson.M{"updatedAt": ev.OccurredAt}},
			); err != nil {
				return err
			}
		}
	case EventPaymentCaptured:
		if _, err := db.BuyerProfileCollection.UpdateOne(ctx,
			bson.M{"userId": ev.BuyerID},
			bson.M{"$inc": bson.M{"totalSpent": ev.Amount}, "$set": bson.M{"updatedAt": ev.OccurredAt}},
		); err != nil {
			return err
		}
		for _, supplierID := range ev.SupplierIDs {
			if _, err := db.SupplierProfileCollection.UpdateOne(ctx,
				bson.M{"userId": supplierID},
				bson.M{"$inc": bson.M{"totalRevenue": ev.Amount}, "$set": bson.M{"updatedAt": ev.OccurredAt}},
			); err != nil {
				return err
			}
		}
	case EventRFQPublished:
		_, err := db.BuyerProfileCollection.UpdateOne(ctx,
			bson.M{"userId": ev.BuyerID},
			bson.M{"$inc": bson.M{"activeRfqs": 1}, "$set": bson.M{"updatedAt": ev.OccurredAt}},
		)
		return err
	case EventRFQAwarded:
		_, err := db.BuyerProfileCollection.UpdateOne(ctx,
			bson.M{"userId": ev.BuyerID, "activeRfqs": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"activeRfqs": -1}, "$set": bson.M{"updatedAt": ev.OccurredAt}},
		)
		return err
	}
	return nil
}
