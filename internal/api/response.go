package api

import (
	"net/http"
	"time"

	"yrhacks/hackbot/internal/auth"
	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/models/dtos"
	"yrhacks/hackbot/internal/services"
)

// statusForCode maps TeamError codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case constants.ErrCodeInvalidName,
		constants.ErrCodeInvalidAbout,
		constants.ErrCodeInvalidRequestBody,
		constants.ErrCodeSelfTarget,
		constants.ErrCodeInviteExpired:
		return http.StatusBadRequest
	case constants.ErrCodeNotRegistered,
		constants.ErrCodeNotOwner,
		constants.ErrCodeNotInvitee,
		constants.ErrCodePermissionDenied:
		return http.StatusForbidden
	case constants.ErrCodeTeamNotFound,
		constants.ErrCodeInviteNotFound,
		constants.ErrCodeProfileNotFound,
		constants.ErrCodeNoTeam,
		constants.ErrCodeNotInTeam:
		return http.StatusNotFound
	case constants.ErrCodeNameTaken,
		constants.ErrCodeAlreadyInTeam,
		constants.ErrCodeTargetInTeam,
		constants.ErrCodeTeamFull,
		constants.ErrCodeAlreadyResolved,
		constants.ErrCodeOwnerCannotLeave:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondServiceError renders err as an ephemeral error embed. Anything that
// is not a TeamError is logged and hidden behind a generic message.
func (h *Handlers) respondServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error, components ...dtos.Button) {
	te, ok := services.AsTeamError(err)
	if !ok {
		logging.Error("Unexpected failure",
			"request_id", auth.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		h.respondMessage(w, initTime, constants.MsgUnexpectedFailure, http.StatusInternalServerError)
		return
	}

	embed := h.deps.Services.Embeds.Error(te.Message, "")
	embed.Ephemeral = true
	embed.Components = components
	common.RespondEmbed(w, initTime, embed, statusForCode(te.Code))
}

// respondMessage renders a plain error embed.
func (h *Handlers) respondMessage(w http.ResponseWriter, initTime time.Time, message string, status int) {
	embed := h.deps.Services.Embeds.Error(message, "")
	embed.Ephemeral = true
	common.RespondEmbed(w, initTime, embed, status)
}

func (h *Handlers) respondSuccess(w http.ResponseWriter, initTime time.Time, title string, status ...int) {
	code := http.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	common.RespondEmbed(w, initTime, h.deps.Services.Embeds.Success(title, ""), code)
}
