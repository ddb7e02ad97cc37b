package services

import (
	"context"
	"fmt"
	"time"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/models/dtos"
	gormModels "yrhacks/hackbot/internal/models/gorm"
)

// BuildInvitePrompt renders the DM an invitee receives, with live buttons.
func BuildInvitePrompt(embeds *common.EmbedBuilder, teamName, inviterID string, invite *gormModels.TeamInvite) *dtos.Embed {
	embed := embeds.Info("🤝 Team Invitation", "")
	embed.Fields = []dtos.EmbedField{
		{Name: "Team", Value: teamName},
		{Name: "Invited By", Value: common.Mention(inviterID)},
	}
	embed.Footer = "Click a button below to accept or decline."
	if invite.ExpiresAt != nil {
		embed.Footer = fmt.Sprintf("Click a button below to accept or decline before <t:%d:f>.", invite.ExpiresAt.Unix())
	}
	embed.Components = common.InviteButtons(invite.ID, false)
	return embed
}

// PromptResult is what a button press resolves to. Buttons are always
// returned disabled once the invite is no longer pending.
type PromptResult struct {
	InviteID uint
	TeamName string
	Status   constants.InviteStatus
	Buttons  []dtos.Button
}

// InvitePromptService is the single-answer gate behind an invite DM.
type InvitePromptService struct {
	invites *repositories.InviteRepositoryGORM
	teams   *TeamService
	now     func() time.Time
}

func NewInvitePromptService(invites *repositories.InviteRepositoryGORM, teams *TeamService) *InvitePromptService {
	return &InvitePromptService{
		invites: invites,
		teams:   teams,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Respond applies a button press. Only the invitee may act, and only once.
func (p *InvitePromptService) Respond(ctx context.Context, actor Actor, inviteID uint, action string) (*PromptResult, error) {
	if action != constants.InviteActionAccept && action != constants.InviteActionDecline {
		return nil, teamErr(constants.ErrCodeInvalidRequestBody, fmt.Sprintf("Unknown invite action %q.", action))
	}

	invite, err := p.invites.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		// the team was deleted along with its invites
		dead := &PromptResult{InviteID: inviteID, Buttons: common.InviteButtons(inviteID, true)}
		return dead, teamErr(constants.ErrCodeInviteNotFound, constants.MsgInviteNotFound)
	}
	if invite.UserID != actor.DiscordID {
		return nil, teamErr(constants.ErrCodeNotInvitee, constants.MsgNotInvitee)
	}

	result := &PromptResult{InviteID: invite.ID, Status: invite.Status, Buttons: common.InviteButtons(invite.ID, true)}

	if invite.Status.IsTerminal() {
		return result, teamErr(constants.ErrCodeAlreadyResolved, constants.MsgAlreadyResolved)
	}
	if invite.Expired(p.now()) {
		if _, err := p.invites.Expire(ctx, invite.ID); err != nil {
			return nil, err
		}
		result.Status = constants.InviteStatusExpired
		return result, teamErr(constants.ErrCodeInviteExpired, constants.MsgInviteExpired)
	}

	var team *gormModels.Team
	if action == constants.InviteActionAccept {
		team, err = p.teams.Accept(ctx, actor, invite.TeamID)
		result.Status = constants.InviteStatusAccepted
	} else {
		team, err = p.teams.Decline(ctx, actor, invite.TeamID)
		result.Status = constants.InviteStatusDeclined
	}
	if err != nil {
		result.Status = invite.Status
		// a full team or an existing membership can change, so the prompt stays live
		if te, ok := AsTeamError(err); ok && (te.Code == constants.ErrCodeTeamFull || te.Code == constants.ErrCodeAlreadyInTeam) {
			result.Buttons = common.InviteButtons(invite.ID, false)
		}
		return result, err
	}

	result.TeamName = team.Name
	return result, nil
}
