package api

import (
	"encoding/json"
	"net/http"
	"time"

	"yrhacks/hackbot/internal/auth"
	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// actor returns the Discord user a command runs as. It writes the error
// response itself and returns false when the caller is not identified.
func (h *Handlers) actor(w http.ResponseWriter, r *http.Request, initTime time.Time) (services.Actor, bool) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
		return services.Actor{}, false
	}
	if claims.DiscordUserID() == "" {
		common.RespondError(w, initTime, nil, "Missing "+auth.HeaderDiscordID+" header", http.StatusBadRequest)
		return services.Actor{}, false
	}
	return services.Actor{DiscordID: claims.DiscordUserID(), Username: claims.Username()}, true
}

// decode reads a JSON body into dst, writing a 400 on failure.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, initTime time.Time, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondMessage(w, initTime, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
