package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/models/dtos"
)

type ProfileService struct {
	users        *repositories.UserRepositoryGORM
	registration *RegistrationService
	notifier     *common.Notifier
}

func NewProfileService(users *repositories.UserRepositoryGORM, registration *RegistrationService, notifier *common.Notifier) *ProfileService {
	return &ProfileService{users: users, registration: registration, notifier: notifier}
}

// SetAbout updates the actor's profile description.
func (s *ProfileService) SetAbout(ctx context.Context, actor Actor, about string) error {
	if utf8.RuneCountInString(about) > constants.AboutMaxLength {
		return teamErr(constants.ErrCodeInvalidAbout, constants.MsgAboutTooLong)
	}

	user, err := s.registration.RequireUser(ctx, actor)
	if err != nil {
		return err
	}
	if user == nil {
		return teamErr(constants.ErrCodeNotRegistered, constants.MsgNotRegistered)
	}

	if _, err := s.users.UpdateAbout(ctx, actor.DiscordID, about); err != nil {
		return err
	}

	s.notifier.Audit(ctx, fmt.Sprintf("%s updated their profile description to: %s", common.Mention(actor.DiscordID), about))
	return nil
}

// View returns target's profile. Registration data wins over the stored row.
func (s *ProfileService) View(ctx context.Context, target Actor) (*dtos.ProfileView, error) {
	reg, user, err := s.registration.Lookup(ctx, target)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, teamErr(constants.ErrCodeProfileNotFound, fmt.Sprintf("%s is not registered.", common.Mention(target.DiscordID)))
	}

	if user == nil {
		if user, err = s.users.GetByDiscordID(ctx, target.DiscordID); err != nil {
			return nil, err
		}
	}

	view := &dtos.ProfileView{
		DiscordID:  target.DiscordID,
		FullName:   orNotSet(reg.FullName),
		School:     orNotSet(reg.School),
		Grade:      orNotSet(string(reg.Grade)),
		SHSMSector: orNotSet(reg.SHSMSector),
		About:      constants.MsgNoDescription,
	}
	if user != nil && user.About != nil && *user.About != "" {
		view.About = *user.About
	}
	return view, nil
}

func orNotSet(s string) string {
	if s == "" {
		return "Not set"
	}
	return s
}
