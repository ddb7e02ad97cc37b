package services

import (
	"context"
	"fmt"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/db/repositories"
	gormModels "yrhacks/hackbot/internal/models/gorm"
)

// Actor identifies the Discord user a command acts as or on.
type Actor struct {
	DiscordID string
	Username  string
}

// RegistrationService answers "is this member a registrant" from the
// registration directory, falling back to users verified by hand.
type RegistrationService struct {
	users     *repositories.UserRepositoryGORM
	directory *common.RegistrationDirectory
}

func NewRegistrationService(users *repositories.UserRepositoryGORM, directory *common.RegistrationDirectory) *RegistrationService {
	return &RegistrationService{users: users, directory: directory}
}

// Lookup returns the registration for a member without touching the store
// unless the directory misses.
func (s *RegistrationService) Lookup(ctx context.Context, member Actor) (*common.Registration, *gormModels.User, error) {
	if reg, ok := s.directory.Lookup(member.Username); ok {
		return &reg, nil, nil
	}

	user, err := s.users.GetByDiscordID(ctx, member.DiscordID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, nil
	}
	return RegistrationFromUser(member.Username, user), user, nil
}

// RequireUser returns the member's user row, creating it from the directory
// on first use. A nil user means the member is not a registrant.
func (s *RegistrationService) RequireUser(ctx context.Context, member Actor) (*gormModels.User, error) {
	user, err := s.users.GetByDiscordID(ctx, member.DiscordID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	reg, ok := s.directory.Lookup(member.Username)
	if !ok {
		return nil, nil
	}

	if _, err := s.users.CreateIfNotExists(ctx, UserFromRegistration(member.DiscordID, reg)); err != nil {
		return nil, fmt.Errorf("failed to record registrant: %w", err)
	}
	return s.users.GetByDiscordID(ctx, member.DiscordID)
}

func UserFromRegistration(discordID string, reg common.Registration) *gormModels.User {
	return &gormModels.User{
		DiscordID:  discordID,
		FullName:   reg.FullName,
		School:     reg.School,
		Grade:      string(reg.Grade),
		SHSMSector: reg.SHSMSector,
	}
}

func RegistrationFromUser(username string, user *gormModels.User) *common.Registration {
	return &common.Registration{
		DiscordUsername: username,
		School:          user.School,
		Grade:           common.FlexString(user.Grade),
		FullName:        user.FullName,
		SHSMSector:      user.SHSMSector,
	}
}
