package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"studynotes-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Message is the envelope pushed to clients. Type is one of
// "tutor_fragment", "tutor_done", "notification".
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Hub struct {
	// UserID -> connected clients (multi-device). Ids are plain strings
	// so guest sessions push the same way as account sessions.
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// cross-instance fanout; nil disables it
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send pushes a message to every device of one user, locally and via
// redis for clients connected to other instances.
func (h *Hub) Send(userID string, msg Message) {
	data, _ := json.Marshal(msg)

	h.mu.RLock()
	clients, localFound := h.clients[userID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"target_user_id": userID,
			"message":        json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), "cluster_events", payload)
	}
}

// Broadcast pushes a message to every connected client.
func (h *Hub) Broadcast(msg Message) {
	data, _ := json.Marshal(msg)

	h.mu.RLock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
	h.mu.RUnlock()

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"target_user_id": "*",
			"message":        json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), "cluster_events", payload)
	}
}

// subscribeToRedis relays messages published by other instances to the
// clients connected here. The channel carries {target_user_id, message};
// "*" targets everyone.
func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Bad cluster event payload", map[string]interface{}{"error": err.Error()})
			continue
		}

		h.mu.RLock()
		var targets []*Client
		if payload.TargetUserID == "*" {
			for _, clients := range h.clients {
				targets = append(targets, clients...)
			}
		} else {
			targets = append(targets, h.clients[payload.TargetUserID]...)
		}
		h.mu.RUnlock()

		for _, client := range targets {
			select {
			case client.Send <- payload.Message:
			default:
				close(client.Send)
				h.unregister <- client
			}
		}
	}
}
