package api

import (
	"net/http"
	"time"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/models/dtos"
	"yrhacks/hackbot/internal/services"
)

// MemberJoined handles POST /api/v1/members/join, forwarded by the front-end
// for every guild member-join event.
func (h *Handlers) MemberJoined() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.MemberJoinRequest
		if !h.decode(w, r, initTime, &req) {
			return
		}
		if req.UserID == "" || req.GuildID == "" {
			common.RespondError(w, initTime, nil, "guild_id and user_id are required", http.StatusBadRequest)
			return
		}

		res, err := h.deps.Services.Members.HandleJoin(r.Context(), req.GuildID, services.Actor{DiscordID: req.UserID, Username: req.Username})
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Member join processed", res)
	}
}
