package messaging

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"agrimarket/middleware"
	"agrimarket/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Client is one live websocket subscriber. Room is the user's own id, so
// every device a user has open shares one room.
type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	Room   string
	UserID string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

// Hub fans live message events out to connected users.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			// membership check: the broadcast path may have already
			// closed and dropped a slow client
			if conns := h.rooms[c.Room]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					if h.rooms[m.Room][c] {
						close(c.Send)
						delete(h.rooms[m.Room], c)
					}
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// outboundEvent is what the hub pushes to listeners.
type outboundEvent struct {
	Action    string `json:"action"` // "message"
	MessageID string `json:"messageId,omitempty"`
	SenderID  string `json:"senderId,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Type      string `json:"type,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Notify pushes a new-message event to the receiver's room. Content stays
// out of the live channel; clients fetch the thread over the API.
func (h *Hub) Notify(receiverID, messageID, senderID, subject, msgType string) {
	out := outboundEvent{
		Action:    "message",
		MessageID: messageID,
		SenderID:  senderID,
		Subject:   subject,
		Type:      msgType,
		Timestamp: time.Now().Unix(),
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	h.broadcast <- broadcastMsg{Room: receiverID, Data: data}
}

// LiveHub is the process-wide hub, set from main before the server starts.
var LiveHub *Hub

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler subscribes the authenticated caller to their own room.
// Browsers cannot set Authorization headers on websocket connects, so a
// token query parameter is accepted as a fallback.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				if claims, err := middleware.ValidateJWT("Bearer " + token); err == nil {
					userID = claims.UserID
				}
			}
		}
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Room:   userID,
			UserID: userID,
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump drains the connection so pings and closes are handled. Inbound
// frames are ignored; sending goes through the REST API.
func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
