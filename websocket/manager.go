package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"fitstake/middleware"

	"github.com/gorilla/websocket"
)

// Manager keeps one live connection set per user so handlers can push
// best-effort notifications to an online peer. Delivery is never retried and
// never fails the triggering request.
type Manager struct {
	clients    map[string]map[*Client]bool // keyed by userID
	register   chan *Client
	unregister chan *Client
	notify     chan notification
	mu         sync.RWMutex
}

type Client struct {
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

type notification struct {
	userID  string
	payload []byte
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan notification, 64),
	}
}

func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.userID] == nil {
				m.clients[client.userID] = make(map[*Client]bool)
			}
			m.clients[client.userID][client] = true
			m.mu.Unlock()
			log.Printf("WebSocket client registered for user %s", client.userID)

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(m.clients, client.userID)
					}
				}
			}
			m.mu.Unlock()
			log.Printf("WebSocket client unregistered for user %s", client.userID)

		case n := <-m.notify:
			m.mu.Lock()
			for client := range m.clients[n.userID] {
				select {
				case client.send <- n.payload:
				default:
					// Slow consumer, drop the connection rather than block.
					close(client.send)
					delete(m.clients[n.userID], client)
				}
			}
			m.mu.Unlock()
		}
	}
}

// IsConnected reports whether the user has at least one live connection.
func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}

// NotifyUser pushes an event to every live connection of one user.
// Fire-and-forget: if the user is offline the event is dropped.
func (m *Manager) NotifyUser(userID, event string, payload interface{}) {
	data := map[string]interface{}{
		"type":    event,
		"payload": payload,
	}

	msg, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling WebSocket notification: %v", err)
		return
	}

	select {
	case m.notify <- notification{userID: userID, payload: msg}:
	default:
		log.Printf("Notification queue full, dropping event %s for user %s", event, userID)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades an authenticated request to a notification channel. The
// bearer token rides in the query string because browsers cannot set headers
// on WebSocket handshakes.
func Handler(manager *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}

		claims, err := middleware.ParseToken(token)
		if err != nil {
			log.Printf("WebSocket connection rejected: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			userID:  claims.UserID,
			send:    make(chan []byte, 256),
			manager: manager,
		}

		manager.register <- client

		welcome := map[string]interface{}{
			"type": "connected",
			"payload": map[string]interface{}{
				"userId": claims.UserID,
				"time":   time.Now().Unix(),
			},
		}
		msg, _ := json.Marshal(welcome)
		client.send <- msg

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var data map[string]interface{}
		if err := json.Unmarshal(message, &data); err != nil {
			continue
		}

		// The channel is server-to-client; the only inbound frame handled is
		// a keepalive ping.
		if data["type"] == "ping" {
			c.sendPong()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendPong() {
	response := map[string]interface{}{
		"type": "pong",
		"payload": map[string]interface{}{
			"time": time.Now().Unix(),
		},
	}

	msg, err := json.Marshal(response)
	if err != nil {
		return
	}

	select {
	case c.send <- msg:
	default:
	}
}
