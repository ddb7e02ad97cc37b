package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/models/dtos"
)

// Autocomplete handles GET /api/v1/autocomplete/{kind}?q=
// kind is one of teams, invites or members. Failures yield an empty list.
func (h *Handlers) Autocomplete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		teams := h.deps.Services.Teams
		query := r.URL.Query().Get("q")

		var choices []dtos.Choice
		switch chi.URLParam(r, "kind") {
		case "teams":
			choices = teams.TeamChoices(r.Context(), query)
		case "invites":
			actor, ok := h.actor(w, r, initTime)
			if !ok {
				return
			}
			choices = teams.InviteChoices(r.Context(), actor, query)
		case "members":
			actor, ok := h.actor(w, r, initTime)
			if !ok {
				return
			}
			choices = teams.MemberChoices(r.Context(), actor, query)
		default:
			common.RespondError(w, initTime, nil, "Unknown autocomplete source", http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, "", choices)
	}
}
