package handlers

import (
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/websocket"
)

// WSAlerts upgrades the connection and subscribes the caller to budget alert
// pushes. Browsers cannot set an Authorization header on a websocket dial, so
// the token rides in the query string.
func (h *Handler) WSAlerts(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
