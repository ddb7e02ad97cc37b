package repositories

import (
	"context"
	"fmt"
	"time"

	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// TeamViewRepository serves the aggregate reads that do not map onto a single model.
type TeamViewRepository struct {
	db *sqlx.DB
}

func NewTeamViewRepository(db *sqlx.DB) *TeamViewRepository {
	return &TeamViewRepository{db: db}
}

// ListTeamsWithCounts returns every team ordered by name with its live member count.
func (r *TeamViewRepository) ListTeamsWithCounts(ctx context.Context) ([]entities.TeamWithCount, error) {
	teams := []entities.TeamWithCount{}
	if err := r.db.SelectContext(ctx, &teams, r.db.Rebind(constants.ListTeamsWithCounts)); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// PendingInvitesForMember returns the teams that have a live pending invite for discordID.
func (r *TeamViewRepository) PendingInvitesForMember(ctx context.Context, discordID string, now time.Time) ([]entities.PendingInvite, error) {
	invites := []entities.PendingInvite{}
	query := r.db.Rebind(constants.PendingInvitesForMember)
	if err := r.db.SelectContext(ctx, &invites, query, discordID, now.UTC()); err != nil {
		return nil, fmt.Errorf("failed to list pending invites: %w", err)
	}
	return invites, nil
}
