package api

import (
	"net/http"
	"time"

	"yrhacks/hackbot/internal/auth"
	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/models/dtos"
)

// VerifyMember handles POST /api/v1/admin/verify
func (h *Handlers) VerifyMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.VerifyRequest
		if !h.decode(w, r, initTime, &req) {
			return
		}

		perms := auth.GetUserClaims(r.Context()).Permissions()
		if err := h.deps.Services.Admin.Verify(r.Context(), actor, perms, req); err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}

		embed := h.deps.Services.Embeds.Success("User Verified", common.Mention(req.UserID)+" has been verified.")
		common.RespondEmbed(w, initTime, embed, http.StatusOK)
	}
}
