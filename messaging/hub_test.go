package messaging

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "user1",
	}

	hub.register <- client

	msg := outboundEvent{Action: "message", MessageID: "m1", SenderID: "user2"}
	data, _ := json.Marshal(msg)
	hub.broadcast <- broadcastMsg{Room: "user1", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

// A slow client gets closed and dropped by the broadcast path; its read
// pump still unregisters it afterwards. That second pass must not close
// the already-closed Send channel.
func TestHubUnregisterAfterSlowClientDrop(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run()
	}()

	client := &Client{
		Send: make(chan []byte), // unbuffered, so any broadcast overflows
		Room: "user1",
	}
	hub.register <- client

	hub.broadcast <- broadcastMsg{Room: "user1", Data: []byte("x")}
	hub.unregister <- client

	// a broadcast to an empty room still being served proves Run survived
	hub.broadcast <- broadcastMsg{Room: "user1", Data: []byte("y")}

	hub.Stop()
	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("hub did not stop cleanly")
	}
}

func TestHubNotifyOtherRoomIgnored(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "user1",
	}
	hub.register <- client

	hub.Notify("user2", "m1", "user3", "hello", "general")

	select {
	case got := <-client.Send:
		t.Fatalf("unexpected message: %s", got)
	case <-time.After(100 * time.Millisecond):
	}

	hub.unregister <- client
}
