package websocket

import (
	"encoding/json"
	"sync"
)

// AlertUpdate is the payload pushed to a user's connected clients when a
// budget crosses its alert threshold.
type AlertUpdate struct {
	BudgetID       string  `json:"budget_id"`
	CategoryName   string  `json:"category_name"`
	Period         string  `json:"period"`
	PercentageUsed float64 `json:"percentage_used"`
	IsOverBudget   bool    `json:"is_over_budget"`
	Message        string  `json:"message"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// BroadcastAlert delivers best effort: a slow client's message is dropped
// rather than blocking the caller.
func (h *Hub) BroadcastAlert(userID string, alert AlertUpdate) {
	payload, _ := json.Marshal(alert)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
