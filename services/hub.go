package services

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans session events out to connected WebSocket clients. A study
// session has at most a handful of clients (typically one — the learner's
// device), keyed by session token.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

type Client struct {
	hub          *Hub
	id           string
	socket       *websocket.Conn
	send         chan []byte
	sessionToken string
	userID       uint
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client registered: %s for session %s (user %d) - Total clients: %d",
				client.id, client.sessionToken, client.userID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client unregistered: %s for session %s (user %d) - Total clients: %d",
					client.id, client.sessionToken, client.userID, len(h.clients))
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastToSession pushes a typed event to every client attached to the
// given session token. A client with a full send buffer is dropped rather
// than allowed to stall the rest.
func (h *Hub) BroadcastToSession(token string, messageType string, payload interface{}) {
	message := Message{
		Type:    messageType,
		Payload: payload,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mutex.Lock()
	for client := range h.clients {
		if client.sessionToken != token {
			continue
		}
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
	h.mutex.Unlock()
}

// IsSessionConnected reports whether any client is attached to a session.
func (h *Hub) IsSessionConnected(token string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for client := range h.clients {
		if client.sessionToken == token {
			return true
		}
	}
	return false
}

func (h *Hub) RegisterClient(conn *websocket.Conn, sessionToken string, userID uint) *Client {
	client := &Client{
		hub:          h,
		id:           generateClientID(),
		socket:       conn,
		send:         make(chan []byte, 256),
		sessionToken: sessionToken,
		userID:       userID,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer func() {
		c.socket.Close()
	}()

	for message := range c.send {
		w, err := c.socket.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}

		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		response := Message{
			Type:    "pong",
			Payload: "pong",
		}
		data, _ := json.Marshal(response)
		c.send <- data

	default:
		log.Printf("Unknown message type: %s from user %d in session %s", msg.Type, c.userID, c.sessionToken)
	}
}

func generateClientID() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return "client_" + hex.EncodeToString(bytes)
}
