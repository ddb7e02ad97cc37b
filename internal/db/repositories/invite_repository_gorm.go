package repositories

import (
	"context"
	"fmt"
	"time"

	"yrhacks/hackbot/internal/constants"
	gormModels "yrhacks/hackbot/internal/models/gorm"

	"gorm.io/gorm"
)

type InviteRepositoryGORM struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInviteRepositoryGORM(db *gorm.DB) *InviteRepositoryGORM {
	return &InviteRepositoryGORM{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// CreateOrReuse returns the live pending invite for (team, user), refreshing
// its inviter and deadline, or records a new one.
func (r *InviteRepositoryGORM) CreateOrReuse(ctx context.Context, teamID uint, inviterID, userID string, expiresAt *time.Time) (*gormModels.TeamInvite, error) {
	var invite gormModels.TeamInvite
	now := r.now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(forUpdate).
			Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, constants.InviteStatusPending).
			Where("expires_at IS NULL OR expires_at > ?", now).
			Order("id DESC").
			First(&invite).Error

		switch {
		case err == nil:
			return tx.Model(&invite).Updates(map[string]interface{}{
				"inviter_id": inviterID,
				"expires_at": expiresAt,
			}).Error
		case isNotFound(err):
			invite = gormModels.TeamInvite{
				TeamID:    teamID,
				InviterID: inviterID,
				UserID:    userID,
				Status:    constants.InviteStatusPending,
				ExpiresAt: expiresAt,
			}
			return tx.Omit("id").Create(&invite).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record invite: %w", err)
	}
	invite.InviterID = inviterID
	invite.ExpiresAt = expiresAt
	return &invite, nil
}

// GetByID returns nil when the invite does not exist.
func (r *InviteRepositoryGORM) GetByID(ctx context.Context, id uint) (*gormModels.TeamInvite, error) {
	var invite gormModels.TeamInvite
	if err := r.db.WithContext(ctx).First(&invite, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch invite: %w", err)
	}
	return &invite, nil
}

// FindPending returns the newest pending invite for (team, user), expired or not.
func (r *InviteRepositoryGORM) FindPending(ctx context.Context, teamID uint, userID string) (*gormModels.TeamInvite, error) {
	var invite gormModels.TeamInvite
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, constants.InviteStatusPending).
		Order("id DESC").
		First(&invite).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pending invite: %w", err)
	}
	return &invite, nil
}

// Accept joins userID to teamID through its pending invite. The team row is
// locked while members are counted so two acceptances cannot overfill it.
func (r *InviteRepositoryGORM) Accept(ctx context.Context, teamID uint, userID string, maxMembers int) (*gormModels.TeamInvite, error) {
	var invite gormModels.TeamInvite
	now := r.now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team gormModels.Team
		if err := tx.Clauses(forUpdate).First(&team, teamID).Error; err != nil {
			if isNotFound(err) {
				return ErrTeamNotFound
			}
			return err
		}

		if err := tx.Clauses(forUpdate).
			Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, constants.InviteStatusPending).
			Order("id DESC").
			First(&invite).Error; err != nil {
			if isNotFound(err) {
				return ErrInviteNotFound
			}
			return err
		}
		if invite.Expired(now) {
			return ErrInviteExpired
		}

		var user gormModels.User
		if err := tx.Clauses(forUpdate).Where("discord_id = ?", userID).First(&user).Error; err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if user.TeamID != nil {
			return ErrAlreadyInTeam
		}

		var count int64
		if err := tx.Model(&gormModels.User{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(maxMembers) {
			return ErrTeamFull
		}

		res := tx.Model(&gormModels.User{}).
			Where("discord_id = ? AND team_id IS NULL", userID).
			Update("team_id", teamID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyInTeam
		}

		res = tx.Model(&gormModels.TeamInvite{}).
			Where("id = ? AND status = ?", invite.ID, constants.InviteStatusPending).
			Update("status", constants.InviteStatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInviteResolved
		}
		invite.Status = constants.InviteStatusAccepted
		return nil
	})

	if err != nil {
		if isDomainErr(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to accept invite: %w", err)
	}
	return &invite, nil
}

// Decline marks the newest pending invite for (team, user) declined.
func (r *InviteRepositoryGORM) Decline(ctx context.Context, teamID uint, userID string) (*gormModels.TeamInvite, error) {
	invite, err := r.FindPending(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, ErrInviteNotFound
	}
	if invite.Expired(r.now()) {
		return nil, ErrInviteExpired
	}

	ok, err := r.resolve(ctx, invite.ID, constants.InviteStatusDeclined)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInviteResolved
	}
	invite.Status = constants.InviteStatusDeclined
	return invite, nil
}

func (r *InviteRepositoryGORM) resolve(ctx context.Context, id uint, status constants.InviteStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.TeamInvite{}).
		Where("id = ? AND status = ?", id, constants.InviteStatusPending).
		Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to resolve invite: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ExpireStale marks every pending invite past its deadline as expired.
func (r *InviteRepositoryGORM) ExpireStale(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.TeamInvite{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", constants.InviteStatusPending, r.now()).
		Update("status", constants.InviteStatusExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to expire invites: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Expire marks one pending invite expired.
func (r *InviteRepositoryGORM) Expire(ctx context.Context, id uint) (bool, error) {
	return r.resolve(ctx, id, constants.InviteStatusExpired)
}
