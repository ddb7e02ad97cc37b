package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "yrhacks/hackbot/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeamRepositoryGORM struct {
	db *gorm.DB
}

func NewTeamRepositoryGORM(db *gorm.DB) *TeamRepositoryGORM {
	return &TeamRepositoryGORM{db: db}
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

// Create inserts the team and makes the owner its first member in one transaction.
// It returns (nil, false, nil) when the name is already taken.
func (r *TeamRepositoryGORM) Create(ctx context.Context, name, ownerID string) (*gormModels.Team, bool, error) {
	var team *gormModels.Team
	taken := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner gormModels.User
		if err := tx.Clauses(forUpdate).Where("discord_id = ?", ownerID).First(&owner).Error; err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if owner.TeamID != nil {
			return ErrAlreadyInTeam
		}

		t := gormModels.Team{Name: name, OwnerID: ownerID}
		if err := tx.Omit("id").Create(&t).Error; err != nil {
			if IsUniqueViolation(err) {
				taken = true
				return errRollback
			}
			return err
		}

		res := tx.Model(&gormModels.User{}).
			Where("discord_id = ? AND team_id IS NULL", ownerID).
			Update("team_id", t.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyInTeam
		}

		team = &t
		return nil
	})

	if taken {
		return nil, false, nil
	}
	if err != nil {
		if isDomainErr(err) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("failed to create team: %w", err)
	}
	return team, true, nil
}

// GetByID returns nil when no team has the id.
func (r *TeamRepositoryGORM) GetByID(ctx context.Context, id uint) (*gormModels.Team, error) {
	var team gormModels.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch team: %w", err)
	}
	return &team, nil
}

// GetByOwner returns the team owned by ownerID, or nil.
func (r *TeamRepositoryGORM) GetByOwner(ctx context.Context, ownerID string) (*gormModels.Team, error) {
	var team gormModels.Team
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&team).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch owned team: %w", err)
	}
	return &team, nil
}

// GetByMember returns the team discordID currently belongs to, or nil.
func (r *TeamRepositoryGORM) GetByMember(ctx context.Context, discordID string) (*gormModels.Team, error) {
	var team gormModels.Team
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.team_id = teams.id").
		Where("users.discord_id = ?", discordID).
		First(&team).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch member team: %w", err)
	}
	return &team, nil
}

func (r *TeamRepositoryGORM) CountMembers(ctx context.Context, teamID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&gormModels.User{}).Where("team_id = ?", teamID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// Rename changes the name of the team owned by ownerID.
// A nil team with ok=true means the owner has no team; ok=false means the name is taken.
func (r *TeamRepositoryGORM) Rename(ctx context.Context, ownerID, newName string) (*gormModels.Team, bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Team{}).
		Where("owner_id = ?", ownerID).
		Update("name", newName)

	if res.Error != nil {
		if IsUniqueViolation(res.Error) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to rename team: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, true, nil
	}

	team, err := r.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, false, err
	}
	return team, true, nil
}

// Delete removes the team owned by ownerID, clears every member's team_id and
// drops the team's invites. It returns the deleted team and its former members.
func (r *TeamRepositoryGORM) Delete(ctx context.Context, ownerID string) (*gormModels.Team, []string, error) {
	var team gormModels.Team
	var members []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("owner_id = ?", ownerID).First(&team).Error; err != nil {
			if isNotFound(err) {
				return ErrTeamNotFound
			}
			return err
		}

		if err := tx.Model(&gormModels.User{}).
			Where("team_id = ?", team.ID).
			Order("id").
			Pluck("discord_id", &members).Error; err != nil {
			return err
		}

		if err := tx.Model(&gormModels.User{}).
			Where("team_id = ?", team.ID).
			Update("team_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("team_id = ?", team.ID).Delete(&gormModels.TeamInvite{}).Error; err != nil {
			return err
		}

		return tx.Delete(&gormModels.Team{}, team.ID).Error
	})

	if err != nil {
		if isDomainErr(err) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to delete team: %w", err)
	}
	return &team, members, nil
}

// RemoveMember clears discordID's membership only if it is still on teamID.
func (r *TeamRepositoryGORM) RemoveMember(ctx context.Context, teamID uint, discordID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("discord_id = ? AND team_id = ?", discordID, teamID).
		Update("team_id", nil)
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove member: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

var errRollback = errors.New("rollback")

func isDomainErr(err error) bool {
	for _, e := range []error{
		ErrUserNotFound, ErrTeamNotFound, ErrInviteNotFound, ErrInviteExpired,
		ErrInviteResolved, ErrAlreadyInTeam, ErrTeamFull,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
