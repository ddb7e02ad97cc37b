package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"

	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/models/dtos"
)

func TestEmbedBuilderColors(t *testing.T) {
	b := NewEmbedBuilder(config.EmbedConfig{InfoColor: 1, SuccessColor: 2, ErrorColor: 3})

	if b.Info("t", "").Color != 1 || b.Success("t", "").Color != 2 || b.Error("t", "").Color != 3 {
		t.Error("Expected each kind to use its configured color")
	}
}

func TestInviteCustomIDRoundTrip(t *testing.T) {
	id, action, err := ParseInviteCustomID(InviteCustomID(42, constants.InviteActionDecline))
	if err != nil || id != 42 || action != constants.InviteActionDecline {
		t.Fatalf("Unexpected parse %d %s %v", id, action, err)
	}

	for _, bad := range []string{"", "team_invite:x:accept", "other:1:accept", "team_invite:1:maybe", "team_invite:1"} {
		if _, _, err := ParseInviteCustomID(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := EscapeMarkdown("a_b*c`"); got != "a\\_b\\*c\\`" {
		t.Errorf("Unexpected escape %q", got)
	}
}

func TestToMessageSend(t *testing.T) {
	embed := &dtos.Embed{
		Title:      "Team Invitation",
		Color:      5,
		Fields:     []dtos.EmbedField{{Name: "Team", Value: "Alpha"}},
		Footer:     "Click a button below to accept or decline.",
		Components: InviteButtons(7, true),
	}

	msg := ToMessageSend(embed)
	if len(msg.Embeds) != 1 || msg.Embeds[0].Footer == nil || len(msg.Embeds[0].Fields) != 1 {
		t.Fatalf("Unexpected embed %+v", msg.Embeds)
	}
	row, ok := msg.Components[0].(discordgo.ActionsRow)
	if !ok || len(row.Components) != 2 {
		t.Fatalf("Expected one row with two buttons, got %+v", msg.Components)
	}
	accept := row.Components[0].(discordgo.Button)
	if accept.Style != discordgo.SuccessButton || !accept.Disabled || accept.CustomID != "team_invite:7:accept" {
		t.Errorf("Unexpected accept button %+v", accept)
	}
}

func TestTranslateDiscordError(t *testing.T) {
	forbidden := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeCannotSendMessagesToThisUser},
	}
	if err := translateDiscordError(forbidden); !errors.Is(err, ErrDMForbidden) {
		t.Errorf("Expected ErrDMForbidden, got %v", err)
	}

	other := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember},
	}
	if err := translateDiscordError(other); err == nil || errors.Is(err, ErrDMForbidden) {
		t.Errorf("Expected generic error, got %v", err)
	}

	if translateDiscordError(nil) != nil {
		t.Error("Expected nil for nil")
	}
}
