package services

import (
	"context"
	"fmt"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
	"yrhacks/hackbot/internal/models/dtos"
)

// Join outcomes, also used as the metrics label.
const (
	JoinVerified    = "verified"
	JoinUnverified  = "unverified"
	JoinIgnored     = "ignored"
	JoinRoleMissing = "role_missing"
	JoinRoleFailed  = "role_failed"
)

type JoinResult struct {
	Result   string `json:"result"`
	FullName string `json:"full_name,omitempty"`
}

// MemberSyncService applies the verified or unverified role when a member joins.
type MemberSyncService struct {
	users        *repositories.UserRepositoryGORM
	registration *RegistrationService
	messenger    common.DiscordMessenger
	notifier     *common.Notifier
	embeds       *common.EmbedBuilder
	metrics      *metrics.MetricsRegistry
	bot          config.BotConfig
	event        config.EventConfig
}

func NewMemberSyncService(
	users *repositories.UserRepositoryGORM,
	registration *RegistrationService,
	messenger common.DiscordMessenger,
	notifier *common.Notifier,
	embeds *common.EmbedBuilder,
	m *metrics.MetricsRegistry,
	bot config.BotConfig,
	event config.EventConfig,
) *MemberSyncService {
	return &MemberSyncService{
		users:        users,
		registration: registration,
		messenger:    messenger,
		notifier:     notifier,
		embeds:       embeds,
		metrics:      m,
		bot:          bot,
		event:        event,
	}
}

// HandleJoin syncs one member-join event. Role configuration problems and
// Discord failures are logged and end the sync without returning an error.
func (s *MemberSyncService) HandleJoin(ctx context.Context, guildID string, member Actor) (*JoinResult, error) {
	res, err := s.handleJoin(ctx, guildID, member)
	if s.metrics != nil {
		label := "error"
		if res != nil {
			label = res.Result
		}
		s.metrics.MemberJoinsTotal.WithLabelValues(label).Inc()
	}
	return res, err
}

func (s *MemberSyncService) handleJoin(ctx context.Context, guildID string, member Actor) (*JoinResult, error) {
	if guildID != s.bot.GuildID {
		logging.Warn("Member joined a different server, ignoring", "user_id", member.DiscordID, "guild_id", guildID)
		return &JoinResult{Result: JoinIgnored}, nil
	}

	reg, _, err := s.registration.Lookup(ctx, member)
	if err != nil {
		return nil, err
	}

	if reg != nil {
		return s.verify(ctx, member, reg)
	}
	return s.unverified(ctx, member)
}

func (s *MemberSyncService) verify(ctx context.Context, member Actor, reg *common.Registration) (*JoinResult, error) {
	if s.bot.HackerRoleID == "" {
		logging.Warn("Hacker role not configured")
		return &JoinResult{Result: JoinRoleMissing}, nil
	}

	if err := s.messenger.AddRole(ctx, s.bot.GuildID, member.DiscordID, s.bot.HackerRoleID); err != nil {
		logging.Error("Failed to add hacker role", "user_id", member.DiscordID, "error", err)
		return &JoinResult{Result: JoinRoleFailed}, nil
	}

	if err := s.messenger.SetNickname(ctx, s.bot.GuildID, member.DiscordID, reg.FullName); err != nil {
		logging.Warn("Failed to set nickname", "user_id", member.DiscordID, "error", err)
	}

	if _, err := s.users.CreateIfNotExists(ctx, UserFromRegistration(member.DiscordID, *reg)); err != nil {
		return nil, err
	}

	logging.Info("Member verified on join", "user_id", member.DiscordID, "full_name", reg.FullName)
	return &JoinResult{Result: JoinVerified, FullName: reg.FullName}, nil
}

func (s *MemberSyncService) unverified(ctx context.Context, member Actor) (*JoinResult, error) {
	mention := common.Mention(member.DiscordID)
	s.notifier.Audit(ctx, fmt.Sprintf("User %s joined the server but is not a registrant.", mention))

	if s.bot.UnverifiedRoleID == "" {
		logging.Warn("Unverified role not configured")
		return &JoinResult{Result: JoinRoleMissing}, nil
	}

	if err := s.messenger.AddRole(ctx, s.bot.GuildID, member.DiscordID, s.bot.UnverifiedRoleID); err != nil {
		logging.Error("Failed to add unverified role", "user_id", member.DiscordID, "error", err)
		return &JoinResult{Result: JoinRoleFailed}, nil
	}

	s.notifier.DirectMessage(ctx, member.DiscordID, s.welcome(member),
		fmt.Sprintf("User %s has DMs disabled. Unable to send welcome/unverified message.", mention))
	return &JoinResult{Result: JoinUnverified}, nil
}

func (s *MemberSyncService) welcome(member Actor) *dtos.Embed {
	return s.embeds.Info(
		fmt.Sprintf("🎉 Welcome to %s, %s! 🎉", s.event.Name, common.Mention(member.DiscordID)),
		fmt.Sprintf("We couldn't verify your Discord username with any registration records. "+
			"To gain access to the server, please email us at **%s** with your full name and Discord username (`%s`).",
			s.event.ContactEmail, member.Username),
	)
}
