package repositories

import (
	"context"
	"fmt"

	gormModels "yrhacks/hackbot/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

// CreateIfNotExists inserts the user and reports whether a row was created.
// An existing discord_id is not an error.
func (r *UserRepositoryGORM) CreateIfNotExists(ctx context.Context, user *gormModels.User) (bool, error) {
	err := r.db.WithContext(ctx).Omit("id").Create(user).Error
	if err == nil {
		return true, nil
	}
	if IsUniqueViolation(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to create user: %w", err)
}

// GetByDiscordID returns nil when the user has never been recorded.
func (r *UserRepositoryGORM) GetByDiscordID(ctx context.Context, discordID string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("discord_id = ?", discordID).
		First(&user).Error

	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// UpdateAbout sets the profile description and reports whether the user exists.
func (r *UserRepositoryGORM) UpdateAbout(ctx context.Context, discordID, about string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("discord_id = ?", discordID).
		Update("about", about)

	if res.Error != nil {
		return false, fmt.Errorf("failed to update about: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByTeam returns the members of a team in join order.
func (r *UserRepositoryGORM) ListByTeam(ctx context.Context, teamID uint) ([]gormModels.User, error) {
	var users []gormModels.User

	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("id ASC").
		Find(&users).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch team members: %w", err)
	}
	return users, nil
}
