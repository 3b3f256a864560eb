// services/feed.go - websocket standings feed
package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

const (
	// Send channel buffer size per connected client
	feedSendBufferSize = 8

	// How many entries each standings broadcast carries
	standingsFeedSize = 50
)

type feedMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// FeedHub fans leaderboard updates out to connected dashboard clients.
type FeedHub struct {
	clients map[*websocket.Conn]chan []byte
	mu      sync.RWMutex
}

var feedHub *FeedHub

// InitFeedHub initializes the singleton feed hub.
func InitFeedHub() {
	feedHub = &FeedHub{
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// GetFeedHub returns the initialized feed hub.
func GetFeedHub() *FeedHub {
	return feedHub
}

func (h *FeedHub) register(conn *websocket.Conn) chan []byte {
	send := make(chan []byte, feedSendBufferSize)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()
	return send
}

func (h *FeedHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if send, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *FeedHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every connected client. Slow clients are
// skipped rather than blocking the broadcaster.
func (h *FeedHub) Broadcast(msgType string, payload interface{}) {
	data, err := json.Marshal(feedMessage{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("Failed to encode feed message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, send := range h.clients {
		select {
		case send <- data:
		default:
		}
	}
}

// LeaderboardFeedHandler serves one websocket client: registers it with the
// hub and pumps broadcast frames until the connection drops.
func LeaderboardFeedHandler(conn *websocket.Conn) {
	hub := GetFeedHub()
	if hub == nil {
		_ = conn.Close()
		return
	}

	send := hub.register(conn)
	defer hub.unregister(conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case data, ok := <-send:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
