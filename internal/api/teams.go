package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/models/dtos"
	"yrhacks/hackbot/internal/services"
)

// CreateTeam handles POST /api/v1/teams
func (h *Handlers) CreateTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.TeamNameRequest
		if !h.decode(w, r, initTime, &req) {
			return
		}

		team, err := h.deps.Services.Teams.Create(r.Context(), actor, req.Name)
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}
		h.respondSuccess(w, initTime, fmt.Sprintf("Team `%s` has been created!", common.EscapeMarkdown(team.Name)), http.StatusCreated)
	}
}

// DeleteTeam handles DELETE /api/v1/teams/mine
func (h *Handlers) DeleteTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		team, _, err := h.deps.Services.Teams.Delete(r.Context(), actor)
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}
		h.respondSuccess(w, initTime, fmt.Sprintf("Team `%s` has been deleted!", common.EscapeMarkdown(team.Name)))
	}
}

// InviteMember handles POST /api/v1/teams/mine/invites
func (h *Handlers) InviteMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.InviteRequest
		if !h.decode(w, r, initTime, &req) {
			return
		}
		if req.UserID == "" {
			h.respondMessage(w, initTime, "Please specify a member to invite.", http.StatusBadRequest)
			return
		}

		target := services.Actor{DiscordID: req.UserID, Username: req.Username}
		res, err := h.deps.Services.Teams.Invite(r.Context(), actor, target)
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}

		if !res.Delivered {
			embed := h.deps.Services.Embeds.Error(fmt.Sprintf("Unable to message %s.", common.Mention(req.UserID)),
				"The invite was still recorded. They can use `/team accept` and pick the team.")
			common.RespondEmbed(w, initTime, embed, http.StatusAccepted)
			return
		}
		h.respondSuccess(w, initTime, fmt.Sprintf("Sent a team invite to %s!", common.Mention(req.UserID)), http.StatusCreated)
	}
}

// KickMember handles DELETE /api/v1/teams/mine/members/{user_id}.
// `team kick` and `team remove` both land here.
func (h *Handlers) KickMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		targetID := chi.URLParam(r, "user_id")
		if _, err := h.deps.Services.Teams.Kick(r.Context(), actor, targetID); err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}
		h.respondSuccess(w, initTime, fmt.Sprintf("Removed %s from the team!", common.Mention(targetID)))
	}
}

// LeaveTeam handles POST /api/v1/teams/leave
func (h *Handlers) LeaveTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		team, err := h.deps.Services.Teams.Leave(r.Context(), actor)
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}
		h.respondSuccess(w, initTime, fmt.Sprintf("You have left the team `%s`!", common.EscapeMarkdown(team.Name)))
	}
}

// RenameTeam handles PATCH /api/v1/teams/mine
func (h *Handlers) RenameTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.TeamNameRequest
		if !h.decode(w, r, initTime, &req) {
			return
		}

		team, _, err := h.deps.Services.Teams.Rename(r.Context(), actor, req.Name)
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}
		h.respondSuccess(w, initTime, fmt.Sprintf("Team has been renamed to `%s`!", common.EscapeMarkdown(team.Name)))
	}
}

// ViewTeam handles GET /api/v1/teams/view?team_id=
func (h *Handlers) ViewTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		var teamID *uint
		if raw := r.URL.Query().Get("team_id"); raw != "" {
			id, ok := parseID(raw)
			if !ok {
				h.respondMessage(w, initTime, constants.MsgTeamNotFound, http.StatusNotFound)
				return
			}
			teamID = &id
		}

		detail, err := h.deps.Services.Teams.View(r.Context(), actor, teamID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}

		lines := make([]string, 0, len(detail.Members))
		for _, m := range detail.Members {
			icon := "💻"
			if m.IsOwner {
				icon = "👑"
			}
			lines = append(lines, icon+" "+common.Mention(m.DiscordID))
		}

		embed := h.deps.Services.Embeds.Info(fmt.Sprintf("Team `%s`", common.EscapeMarkdown(detail.Name)), strings.Join(lines, "\n"))
		embed.Footer = fmt.Sprintf("%d/%d members", detail.MemberCount, h.deps.Services.Teams.MaxMembers())
		common.RespondEmbed(w, initTime, embed, http.StatusOK)
	}
}

// ViewAllTeams handles GET /api/v1/teams
func (h *Handlers) ViewAllTeams() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		teams, err := h.deps.Services.Teams.ViewAll(r.Context())
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}

		description := constants.MsgNoTeamsYet
		if len(teams) > 0 {
			lines := make([]string, 0, len(teams))
			for i, t := range teams {
				lines = append(lines, fmt.Sprintf("**%d.** %s (%d/%d)", i+1, common.EscapeMarkdown(t.Name), t.MemberCount, h.deps.Services.Teams.MaxMembers()))
			}
			description = strings.Join(lines, "\n")
		}

		common.RespondEmbed(w, initTime, h.deps.Services.Embeds.Info("Teams", description), http.StatusOK)
	}
}

// AcceptInvite handles POST /api/v1/teams/{team_id}/accept
func (h *Handlers) AcceptInvite() http.HandlerFunc {
	return h.answerInvite(true)
}

// DeclineInvite handles POST /api/v1/teams/{team_id}/decline
func (h *Handlers) DeclineInvite() http.HandlerFunc {
	return h.answerInvite(false)
}

func (h *Handlers) answerInvite(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		actor, ok := h.actor(w, r, initTime)
		if !ok {
			return
		}

		teamID, ok := parseID(chi.URLParam(r, "team_id"))
		if !ok {
			h.respondMessage(w, initTime, constants.MsgTeamNotFound, http.StatusNotFound)
			return
		}

		teams := h.deps.Services.Teams
		verb := "declined"
		answer := teams.Decline
		if accept {
			verb = "accepted"
			answer = teams.Accept
		}

		team, err := answer(r.Context(), actor, teamID)
		if err != nil {
			h.respondServiceError(w, r, initTime, err)
			return
		}
		h.respondSuccess(w, initTime, fmt.Sprintf("You have %s the invitation to join the team `%s`!", verb, common.EscapeMarkdown(team.Name)))
	}
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
