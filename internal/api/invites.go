package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/models/dtos"
)

// RespondToInvite handles POST /api/v1/invites/{invite_id}/respond, the
// button press on an invite DM. The response carries the buttons in their
// new state so the front-end can edit the original message.
func (h *Handlers) RespondToInvite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		inviteID, ok := parseID(chi.URLParam(r, "invite_id"))
		if !ok {
			h.respondMessage(w, initTime, constants.MsgInviteNotFound, http.StatusNotFound)
			return
		}

		var req dtos.InviteResponseRequest
		if !h.decode(w, r, initTime, &req) {
			return
		}

		result, err := h.deps.Services.Prompts.Respond(r.Context(), actor, inviteID, req.Action)
		if err != nil {
			var buttons []dtos.Button
			if result != nil {
				buttons = result.Buttons
			}
			h.respondServiceError(w, r, initTime, err, buttons...)
			return
		}

		embed := h.deps.Services.Embeds.Success(
			fmt.Sprintf("You have %s the invitation to join the team `%s`!", result.Status, common.EscapeMarkdown(result.TeamName)), "")
		embed.Components = result.Buttons
		common.RespondEmbed(w, initTime, embed, http.StatusOK)
	}
}
