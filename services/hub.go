package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub fans chat messages out to every client connected to a class room.
type Hub struct {
	clients     map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	mutex       sync.RWMutex
	chatService *ChatService
}

type Client struct {
	hub      *Hub
	socket   *websocket.Conn
	send     chan []byte
	classID  uint
	userID   uint
	userName string
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type inboundChat struct {
	Body string `json:"body"`
}

func NewHub(chatService *ChatService) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		chatService: chatService,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Chat client registered for class %d (user %d: %s) - Total clients: %d", client.classID, client.userID, client.userName, h.clientCount())
			h.BroadcastToClass(client.classID, "user_joined", map[string]interface{}{
				"user_id":   client.userID,
				"user_name": client.userName,
			})

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			log.Printf("Chat client unregistered for class %d (user %d: %s) - Total clients: %d", client.classID, client.userID, client.userName, h.clientCount())
			h.BroadcastToClass(client.classID, "user_left", map[string]interface{}{
				"user_id":   client.userID,
				"user_name": client.userName,
			})
		}
	}
}

// BroadcastToClass sends a typed message to every client in a class room.
func (h *Hub) BroadcastToClass(classID uint, messageType string, payload interface{}) {
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
		if client.classID != classID {
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

// RegisterClient attaches a websocket connection to a class room and starts
// its read/write pumps. Access checks happen before the upgrade, in routes.
func (h *Hub) RegisterClient(conn *websocket.Conn, classID, userID uint, userName string) {
	client := &Client{
		hub:      h,
		socket:   conn,
		send:     make(chan []byte, 256),
		classID:  classID,
		userID:   userID,
		userName: userName,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Hub) clientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	for {
		_, raw, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Chat read error for class %d (user %d): %v", c.classID, c.userID, err)
			}
			return
		}

		var in inboundChat
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Printf("Ignoring malformed chat payload from user %d in class %d: %v", c.userID, c.classID, err)
			continue
		}

		message, err := c.hub.chatService.SaveMessage(c.userID, c.classID, in.Body)
		if err != nil {
			log.Printf("Failed to save chat message from user %d in class %d: %v", c.userID, c.classID, err)
			continue
		}

		c.hub.BroadcastToClass(c.classID, "chat_message", message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(50 * time.Second)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.socket.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
