package services

import (
	"context"
	"fmt"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/models/dtos"
	gormModels "yrhacks/hackbot/internal/models/gorm"
)

type AdminService struct {
	users     *repositories.UserRepositoryGORM
	messenger common.DiscordMessenger
	notifier  *common.Notifier
	bot       config.BotConfig
}

func NewAdminService(users *repositories.UserRepositoryGORM, messenger common.DiscordMessenger, notifier *common.Notifier, bot config.BotConfig) *AdminService {
	return &AdminService{users: users, messenger: messenger, notifier: notifier, bot: bot}
}

// IsAdministrator checks the Discord ADMINISTRATOR bit.
func IsAdministrator(permissions int64) bool {
	return permissions&constants.PermissionAdministrator != 0
}

// Verify records a member by hand and swaps their unverified role for the hacker role.
func (s *AdminService) Verify(ctx context.Context, admin Actor, permissions int64, req dtos.VerifyRequest) error {
	if !IsAdministrator(permissions) {
		return teamErr(constants.ErrCodePermissionDenied, constants.MsgAdminOnly)
	}
	if req.UserID == "" || req.FullName == "" {
		return teamErr(constants.ErrCodeInvalidRequestBody, "A user and their full name are required.")
	}

	user := &gormModels.User{
		DiscordID:  req.UserID,
		FullName:   req.FullName,
		School:     req.School,
		Grade:      req.Grade,
		SHSMSector: req.SHSMSector,
	}
	if _, err := s.users.CreateIfNotExists(ctx, user); err != nil {
		return err
	}

	if s.bot.HackerRoleID == "" {
		return teamErr(constants.ErrCodeRoleNotConfigured, "The 'Hacker' role could not be found.")
	}
	if err := s.messenger.AddRole(ctx, s.bot.GuildID, req.UserID, s.bot.HackerRoleID); err != nil {
		return fmt.Errorf("failed to add hacker role: %w", err)
	}

	if s.bot.UnverifiedRoleID == "" {
		return teamErr(constants.ErrCodeRoleNotConfigured, "The 'Unverified' role could not be found.")
	}
	if err := s.messenger.RemoveRole(ctx, s.bot.GuildID, req.UserID, s.bot.UnverifiedRoleID); err != nil {
		return fmt.Errorf("failed to remove unverified role: %w", err)
	}

	if err := s.messenger.SetNickname(ctx, s.bot.GuildID, req.UserID, req.FullName); err != nil {
		logging.Warn("Failed to set nickname", "user_id", req.UserID, "error", err)
	}

	s.notifier.Audit(ctx, fmt.Sprintf("%s verified %s.", common.Mention(admin.DiscordID), common.Mention(req.UserID)))
	return nil
}
