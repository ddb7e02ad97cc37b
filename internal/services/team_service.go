package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
	"yrhacks/hackbot/internal/models/dtos"
	"yrhacks/hackbot/internal/models/entities"
	gormModels "yrhacks/hackbot/internal/models/gorm"
)

// Stores groups the repositories the workflow reads and writes.
type Stores struct {
	Users   *repositories.UserRepositoryGORM
	Teams   *repositories.TeamRepositoryGORM
	Invites *repositories.InviteRepositoryGORM
	Views   *repositories.TeamViewRepository
}

type TeamService struct {
	stores       Stores
	registration *RegistrationService
	cache        common.CacheInterface
	notifier     *common.Notifier
	messenger    common.DiscordMessenger
	embeds       *common.EmbedBuilder
	metrics      *metrics.MetricsRegistry

	maxMembers      int
	inviteTTL       time.Duration
	autocompleteTTL time.Duration
	now             func() time.Time
}

func NewTeamService(
	stores Stores,
	registration *RegistrationService,
	cache common.CacheInterface,
	notifier *common.Notifier,
	messenger common.DiscordMessenger,
	embeds *common.EmbedBuilder,
	m *metrics.MetricsRegistry,
	teams config.TeamsConfig,
	autocompleteTTL time.Duration,
) *TeamService {
	maxMembers := teams.MaxMembers
	if maxMembers <= 0 {
		maxMembers = constants.DefaultMaxTeamSize
	}
	return &TeamService{
		stores:          stores,
		registration:    registration,
		cache:           cache,
		notifier:        notifier,
		messenger:       messenger,
		embeds:          embeds,
		metrics:         m,
		maxMembers:      maxMembers,
		inviteTTL:       teams.InviteTTL,
		autocompleteTTL: autocompleteTTL,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *TeamService) MaxMembers() int { return s.maxMembers }

// ValidateTeamName enforces 3-20 characters, letters and digits only.
func ValidateTeamName(name string) *TeamError {
	n := utf8.RuneCountInString(name)
	if n > constants.TeamNameMaxLength {
		return teamErr(constants.ErrCodeInvalidName, constants.MsgNameTooLong)
	}
	if n < constants.TeamNameMinLength {
		return teamErr(constants.ErrCodeInvalidName, constants.MsgNameTooShort)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return teamErr(constants.ErrCodeInvalidName, constants.MsgNameNotAlnum)
		}
	}
	return nil
}

// Create makes actor the owner and first member of a new team.
func (s *TeamService) Create(ctx context.Context, actor Actor, name string) (*gormModels.Team, error) {
	team, err := s.create(ctx, actor, name)
	s.observe("create", err)
	return team, err
}

func (s *TeamService) create(ctx context.Context, actor Actor, name string) (*gormModels.Team, error) {
	if err := ValidateTeamName(name); err != nil {
		return nil, err
	}

	user, err := s.registration.RequireUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, teamErr(constants.ErrCodeNotRegistered, constants.MsgNotRegistered)
	}
	if user.TeamID != nil {
		return nil, teamErr(constants.ErrCodeAlreadyInTeam, constants.MsgAlreadyInTeam)
	}

	team, created, err := s.stores.Teams.Create(ctx, name, actor.DiscordID)
	if err != nil {
		return nil, fromStore(err, constants.MsgAlreadyInTeam)
	}
	if !created {
		return nil, teamErr(constants.ErrCodeNameTaken,
			fmt.Sprintf("Team `%s` already exists! Please try a different name.", common.EscapeMarkdown(name)))
	}

	s.invalidateTeams()
	s.notifier.Audit(ctx, fmt.Sprintf("%s has created a team `%s`.", common.Mention(actor.DiscordID), common.EscapeMarkdown(name)))
	logging.Info("Team created", "team_id", team.ID, "name", team.Name, "owner_id", actor.DiscordID)
	return team, nil
}

// Delete removes the actor's team and returns it with its former members.
func (s *TeamService) Delete(ctx context.Context, actor Actor) (*gormModels.Team, []string, error) {
	team, members, err := s.stores.Teams.Delete(ctx, actor.DiscordID)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		err = teamErr(constants.ErrCodeNotOwner, constants.MsgNotOwner)
	}
	s.observe("delete", err)
	if err != nil {
		return nil, nil, err
	}

	s.invalidateTeams()
	name := common.EscapeMarkdown(team.Name)
	for _, id := range members {
		if id == actor.DiscordID {
			continue
		}
		s.notifier.DirectMessage(ctx, id, s.embeds.Info(fmt.Sprintf("The team `%s` has been deleted by its owner.", name), ""), "")
	}
	s.notifier.Audit(ctx, fmt.Sprintf("%s has deleted the team `%s`.", common.Mention(actor.DiscordID), name))
	logging.Info("Team deleted", "team_id", team.ID, "name", team.Name, "members", len(members))
	return team, members, nil
}

// InviteResult reports the invite row and whether the prompt reached the target.
type InviteResult struct {
	Team      *gormModels.Team
	Invite    *gormModels.TeamInvite
	Delivered bool
}

// Invite records a pending invite and sends the interactive prompt by DM.
// A DM failure leaves the invite answerable through accept/decline.
func (s *TeamService) Invite(ctx context.Context, actor, target Actor) (*InviteResult, error) {
	res, err := s.invite(ctx, actor, target)
	s.observe("invite", err)
	return res, err
}

func (s *TeamService) invite(ctx context.Context, actor, target Actor) (*InviteResult, error) {
	team, err := s.stores.Teams.GetByOwner(ctx, actor.DiscordID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamErr(constants.ErrCodeNotOwner, constants.MsgNotOwner)
	}
	if target.DiscordID == actor.DiscordID {
		return nil, teamErr(constants.ErrCodeSelfTarget, constants.MsgCannotInviteSelf)
	}

	invitee, err := s.registration.RequireUser(ctx, target)
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, teamErr(constants.ErrCodeNotRegistered, fmt.Sprintf("%s is not registered.", common.Mention(target.DiscordID)))
	}
	if invitee.TeamID != nil {
		return nil, teamErr(constants.ErrCodeTargetInTeam, fmt.Sprintf("%s is already in a team!", common.Mention(target.DiscordID)))
	}

	count, err := s.stores.Teams.CountMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(s.maxMembers) {
		return nil, teamErr(constants.ErrCodeTeamFull, constants.MsgTeamFull)
	}

	var expiresAt *time.Time
	if s.inviteTTL > 0 {
		t := s.now().Add(s.inviteTTL)
		expiresAt = &t
	}

	invite, err := s.stores.Invites.CreateOrReuse(ctx, team.ID, actor.DiscordID, target.DiscordID, expiresAt)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(pendingInvitesKey(target.DiscordID))

	prompt := BuildInvitePrompt(s.embeds, team.Name, actor.DiscordID, invite)
	delivered := true
	if err := s.messenger.SendDM(ctx, target.DiscordID, prompt); err != nil {
		delivered = false
		if errors.Is(err, common.ErrDMForbidden) {
			logging.Info("Invite prompt not delivered, DMs disabled", "invite_id", invite.ID, "user_id", target.DiscordID)
		} else {
			logging.Warn("Invite prompt not delivered", "invite_id", invite.ID, "user_id", target.DiscordID, "error", err)
		}
	}

	line := fmt.Sprintf("%s invited %s to join `%s`.", common.Mention(actor.DiscordID), common.Mention(target.DiscordID), common.EscapeMarkdown(team.Name))
	if !delivered {
		line += " The invite could not be delivered by DM."
	}
	s.notifier.Audit(ctx, line)

	return &InviteResult{Team: team, Invite: invite, Delivered: delivered}, nil
}

// Accept joins actor to teamID through its pending invite.
func (s *TeamService) Accept(ctx context.Context, actor Actor, teamID uint) (*gormModels.Team, error) {
	team, err := s.accept(ctx, actor, teamID)
	s.observe("accept", err)
	return team, err
}

func (s *TeamService) accept(ctx context.Context, actor Actor, teamID uint) (*gormModels.Team, error) {
	team, err := s.stores.Teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamErr(constants.ErrCodeTeamNotFound, constants.MsgTeamNotFound)
	}

	user, err := s.registration.RequireUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, teamErr(constants.ErrCodeNotRegistered, constants.MsgNotRegistered)
	}

	invite, err := s.stores.Invites.Accept(ctx, teamID, actor.DiscordID, s.maxMembers)
	if err != nil {
		return nil, fromStore(err, constants.MsgMustLeaveFirst)
	}

	s.resolved(ctx, actor, team, invite, constants.InviteStatusAccepted)
	s.invalidateTeams()
	return team, nil
}

// Decline marks the pending invite from teamID declined.
func (s *TeamService) Decline(ctx context.Context, actor Actor, teamID uint) (*gormModels.Team, error) {
	team, err := s.decline(ctx, actor, teamID)
	s.observe("decline", err)
	return team, err
}

func (s *TeamService) decline(ctx context.Context, actor Actor, teamID uint) (*gormModels.Team, error) {
	team, err := s.stores.Teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamErr(constants.ErrCodeTeamNotFound, constants.MsgTeamNotFound)
	}

	invite, err := s.stores.Invites.Decline(ctx, teamID, actor.DiscordID)
	if err != nil {
		return nil, fromStore(err, constants.MsgMustLeaveFirst)
	}

	s.resolved(ctx, actor, team, invite, constants.InviteStatusDeclined)
	return team, nil
}

func (s *TeamService) resolved(ctx context.Context, actor Actor, team *gormModels.Team, invite *gormModels.TeamInvite, status constants.InviteStatus) {
	s.cache.Delete(pendingInvitesKey(actor.DiscordID))
	if s.metrics != nil {
		s.metrics.InviteResolutions.WithLabelValues(status.String()).Inc()
	}

	name := common.EscapeMarkdown(team.Name)
	s.notifier.DirectMessage(ctx, invite.InviterID,
		s.embeds.Info(fmt.Sprintf("%s has __%s__ your invite to join `%s`.", common.Mention(actor.DiscordID), status, name), ""), "")
	s.notifier.Audit(ctx, fmt.Sprintf("%s has %s the invite to join `%s`.", common.Mention(actor.DiscordID), status, name))
}

// Kick removes target from the team actor owns. `team remove` calls this too.
func (s *TeamService) Kick(ctx context.Context, actor Actor, targetID string) (*gormModels.Team, error) {
	team, err := s.kick(ctx, actor, targetID)
	s.observe("kick", err)
	return team, err
}

func (s *TeamService) kick(ctx context.Context, actor Actor, targetID string) (*gormModels.Team, error) {
	if targetID == actor.DiscordID {
		return nil, teamErr(constants.ErrCodeSelfTarget, constants.MsgCannotKickSelf)
	}

	team, err := s.stores.Teams.GetByOwner(ctx, actor.DiscordID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamErr(constants.ErrCodeNotOwner, constants.MsgNotOwner)
	}

	removed, err := s.stores.Teams.RemoveMember(ctx, team.ID, targetID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, teamErr(constants.ErrCodeNotInTeam, fmt.Sprintf("%s is not in your team!", common.Mention(targetID)))
	}

	s.invalidateTeams()
	name := common.EscapeMarkdown(team.Name)
	s.notifier.DirectMessage(ctx, targetID, s.embeds.Info(fmt.Sprintf("You have been removed from the team `%s`.", name), ""), "")
	s.notifier.Audit(ctx, fmt.Sprintf("%s kicked %s from the team `%s`.", common.Mention(actor.DiscordID), common.Mention(targetID), name))
	return team, nil
}

// Leave removes actor from their team. Owners must delete instead.
func (s *TeamService) Leave(ctx context.Context, actor Actor) (*gormModels.Team, error) {
	team, err := s.leave(ctx, actor)
	s.observe("leave", err)
	return team, err
}

func (s *TeamService) leave(ctx context.Context, actor Actor) (*gormModels.Team, error) {
	team, err := s.stores.Teams.GetByMember(ctx, actor.DiscordID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamErr(constants.ErrCodeNoTeam, constants.MsgNoTeam)
	}
	if team.OwnerID == actor.DiscordID {
		return nil, teamErr(constants.ErrCodeOwnerCannotLeave, constants.MsgOwnerCannotLeave)
	}

	removed, err := s.stores.Teams.RemoveMember(ctx, team.ID, actor.DiscordID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, teamErr(constants.ErrCodeNoTeam, constants.MsgNoTeam)
	}

	s.invalidateTeams()
	s.notifier.Audit(ctx, fmt.Sprintf("%s has left the team `%s`.", common.Mention(actor.DiscordID), common.EscapeMarkdown(team.Name)))
	return team, nil
}

// Rename changes the name of the actor's team and returns it with the old name.
func (s *TeamService) Rename(ctx context.Context, actor Actor, newName string) (*gormModels.Team, string, error) {
	team, old, err := s.rename(ctx, actor, newName)
	s.observe("rename", err)
	return team, old, err
}

func (s *TeamService) rename(ctx context.Context, actor Actor, newName string) (*gormModels.Team, string, error) {
	if err := ValidateTeamName(newName); err != nil {
		return nil, "", err
	}

	current, err := s.stores.Teams.GetByOwner(ctx, actor.DiscordID)
	if err != nil {
		return nil, "", err
	}
	if current == nil {
		return nil, "", teamErr(constants.ErrCodeNotOwner, constants.MsgNotOwner)
	}

	team, free, err := s.stores.Teams.Rename(ctx, actor.DiscordID, newName)
	if err != nil {
		return nil, "", err
	}
	if !free {
		return nil, "", teamErr(constants.ErrCodeNameTaken,
			fmt.Sprintf("Team `%s` already exists! Please try a different name.", common.EscapeMarkdown(newName)))
	}
	if team == nil {
		return nil, "", teamErr(constants.ErrCodeNotOwner, constants.MsgNotOwner)
	}

	s.invalidateTeams()
	s.notifier.Audit(ctx, fmt.Sprintf("Team `%s` has been renamed to `%s` by %s.",
		common.EscapeMarkdown(current.Name), common.EscapeMarkdown(newName), common.Mention(actor.DiscordID)))
	return team, current.Name, nil
}

// View returns teamID's details, or the actor's own team when teamID is nil.
func (s *TeamService) View(ctx context.Context, actor Actor, teamID *uint) (*dtos.TeamDetail, error) {
	var team *gormModels.Team
	var err error

	if teamID != nil {
		team, err = s.stores.Teams.GetByID(ctx, *teamID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, teamErr(constants.ErrCodeTeamNotFound, constants.MsgTeamNotFound)
		}
	} else {
		team, err = s.stores.Teams.GetByMember(ctx, actor.DiscordID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, teamErr(constants.ErrCodeTeamNotFound, constants.MsgSpecifyTeam)
		}
	}

	users, err := s.stores.Users.ListByTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	detail := &dtos.TeamDetail{
		ID:        team.ID,
		Name:      team.Name,
		OwnerID:   team.OwnerID,
		Members:   make([]dtos.TeamMemberView, 0, len(users)),
		CreatedAt: team.CreatedAt,
	}
	for _, u := range users {
		m := dtos.TeamMemberView{DiscordID: u.DiscordID, FullName: u.FullName, IsOwner: u.DiscordID == team.OwnerID}
		if m.IsOwner {
			detail.Members = append([]dtos.TeamMemberView{m}, detail.Members...)
		} else {
			detail.Members = append(detail.Members, m)
		}
	}
	detail.MemberCount = len(detail.Members)
	return detail, nil
}

// ViewAll lists every team with live member counts. Never served from cache.
func (s *TeamService) ViewAll(ctx context.Context) ([]entities.TeamWithCount, error) {
	return s.stores.Views.ListTeamsWithCounts(ctx)
}

// TeamChoices suggests teams for `team view`.
func (s *TeamService) TeamChoices(ctx context.Context, query string) []dtos.Choice {
	val, err := s.cache.GetOrSet(string(constants.CachePrefixTeamsWithCounts), s.autocompleteTTL, func() (any, error) {
		return s.stores.Views.ListTeamsWithCounts(ctx)
	})
	if err != nil {
		logging.Warn("Team autocomplete failed", "error", err)
		return []dtos.Choice{}
	}
	teams, err := common.CachedAs[[]entities.TeamWithCount](val)
	if err != nil {
		logging.Warn("Team autocomplete cache decode failed", "error", err)
		return []dtos.Choice{}
	}

	choices := make([]dtos.Choice, 0, len(teams))
	for _, t := range teams {
		choices = append(choices, dtos.Choice{Name: t.Name, Value: strconv.FormatUint(uint64(t.ID), 10)})
	}
	return common.FilterChoices(choices, query)
}

// InviteChoices suggests teams with a live pending invite for actor.
func (s *TeamService) InviteChoices(ctx context.Context, actor Actor, query string) []dtos.Choice {
	val, err := s.cache.GetOrSet(pendingInvitesKey(actor.DiscordID), s.autocompleteTTL, func() (any, error) {
		return s.stores.Views.PendingInvitesForMember(ctx, actor.DiscordID, s.now())
	})
	if err != nil {
		logging.Warn("Invite autocomplete failed", "user_id", actor.DiscordID, "error", err)
		return []dtos.Choice{}
	}
	invites, err := common.CachedAs[[]entities.PendingInvite](val)
	if err != nil {
		logging.Warn("Invite autocomplete cache decode failed", "error", err)
		return []dtos.Choice{}
	}

	choices := make([]dtos.Choice, 0, len(invites))
	for _, inv := range invites {
		choices = append(choices, dtos.Choice{Name: inv.Name, Value: strconv.FormatUint(uint64(inv.ID), 10)})
	}
	return common.FilterChoices(choices, query)
}

// MemberChoices suggests the other members of the actor's team for kick/remove.
func (s *TeamService) MemberChoices(ctx context.Context, actor Actor, query string) []dtos.Choice {
	team, err := s.stores.Teams.GetByMember(ctx, actor.DiscordID)
	if err != nil || team == nil {
		if err != nil {
			logging.Warn("Member autocomplete failed", "user_id", actor.DiscordID, "error", err)
		}
		return []dtos.Choice{}
	}

	users, err := s.stores.Users.ListByTeam(ctx, team.ID)
	if err != nil {
		logging.Warn("Member autocomplete failed", "team_id", team.ID, "error", err)
		return []dtos.Choice{}
	}

	choices := make([]dtos.Choice, 0, len(users))
	for _, u := range users {
		if u.DiscordID == actor.DiscordID {
			continue
		}
		name := u.FullName
		if name == "" {
			name = u.DiscordID
		}
		choices = append(choices, dtos.Choice{Name: name, Value: u.DiscordID})
	}
	return common.FilterChoices(choices, query)
}

func (s *TeamService) invalidateTeams() {
	s.cache.Delete(string(constants.CachePrefixTeamsWithCounts))
}

func pendingInvitesKey(discordID string) string {
	return string(constants.CachePrefixPendingInvites) + discordID
}

func (s *TeamService) observe(operation string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if te, ok := AsTeamError(err); ok {
			outcome = te.Code
		}
	}
	s.metrics.TeamOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
