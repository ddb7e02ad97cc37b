package api

import (
	"fmt"
	"net/http"
	"time"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/models/dtos"
	"yrhacks/hackbot/internal/services"
)

// SetProfile handles PUT /api/v1/profile
func (h *Handlers) SetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.ProfileRequest
		if !h.decode(w, r, initTime, &req) {
			return
		}

		if err := h.deps.Services.Profiles.SetAbout(r.Context(), actor, req.About); err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}

		embed := h.deps.Services.Embeds.Success("Profile Updated", "Your profile description has been updated to: "+req.About)
		common.RespondEmbed(w, initTime, embed, http.StatusOK)
	}
}

// GetProfile handles GET /api/v1/profile?user_id=&username=
// Without user_id the caller's own profile is shown.
func (h *Handlers) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		target := actor
		if id := r.URL.Query().Get("user_id"); id != "" && id != actor.DiscordID {
			target = services.Actor{DiscordID: id, Username: r.URL.Query().Get("username")}
		}

		view, err := h.deps.Services.Profiles.View(r.Context(), target)
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}

		name := target.Username
		if name == "" {
			name = common.Mention(target.DiscordID)
		}
		embed := h.deps.Services.Embeds.Info(fmt.Sprintf("%s's Profile", name), view.About)
		embed.Fields = []dtos.EmbedField{
			{Name: "Full Name", Value: view.FullName},
			{Name: "School", Value: view.School},
			{Name: "Grade", Value: view.Grade},
			{Name: "SHSM Sector", Value: view.SHSMSector},
		}
		common.RespondEmbed(w, initTime, embed, http.StatusOK)
	}
}
