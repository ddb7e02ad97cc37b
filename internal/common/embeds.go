package common

import (
	"fmt"
	"strconv"
	"strings"

	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/models/dtos"
)

// EmbedBuilder renders messages with the configured accent colors.
type EmbedBuilder struct {
	colors map[constants.EmbedKind]int
}

func NewEmbedBuilder(cfg config.EmbedConfig) *EmbedBuilder {
	return &EmbedBuilder{colors: map[constants.EmbedKind]int{
		constants.EmbedInfo:    cfg.InfoColor,
		constants.EmbedSuccess: cfg.SuccessColor,
		constants.EmbedError:   cfg.ErrorColor,
	}}
}

func (b *EmbedBuilder) build(kind constants.EmbedKind, title, description string) *dtos.Embed {
	return &dtos.Embed{Title: title, Description: description, Color: b.colors[kind]}
}

func (b *EmbedBuilder) Info(title, description string) *dtos.Embed {
	return b.build(constants.EmbedInfo, title, description)
}

func (b *EmbedBuilder) Success(title, description string) *dtos.Embed {
	return b.build(constants.EmbedSuccess, title, description)
}

func (b *EmbedBuilder) Error(title, description string) *dtos.Embed {
	return b.build(constants.EmbedError, title, description)
}

// InviteCustomID is the button id the front-end forwards back on a press.
func InviteCustomID(inviteID uint, action string) string {
	return fmt.Sprintf("%s:%d:%s", constants.InviteButtonPrefix, inviteID, action)
}

// ParseInviteCustomID is the inverse of InviteCustomID.
func ParseInviteCustomID(customID string) (uint, string, error) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != constants.InviteButtonPrefix {
		return 0, "", fmt.Errorf("not an invite button: %q", customID)
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid invite id in %q", customID)
	}
	if parts[2] != constants.InviteActionAccept && parts[2] != constants.InviteActionDecline {
		return 0, "", fmt.Errorf("unknown invite action %q", parts[2])
	}
	return uint(id), parts[2], nil
}

// InviteButtons returns the accept/decline pair for an invite prompt.
func InviteButtons(inviteID uint, disabled bool) []dtos.Button {
	return []dtos.Button{
		{CustomID: InviteCustomID(inviteID, constants.InviteActionAccept), Label: "Accept", Style: "success", Disabled: disabled},
		{CustomID: InviteCustomID(inviteID, constants.InviteActionDecline), Label: "Decline", Style: "danger", Disabled: disabled},
	}
}

func Mention(discordID string) string {
	return "<@" + discordID + ">"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "~", `\~`, "`", "\\`", "|", `\|`, ">", `\>`,
)

// EscapeMarkdown escapes Discord markdown control characters.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
