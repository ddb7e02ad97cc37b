package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"yrhacks/hackbot/internal/constants"
	"yrhacks/hackbot/internal/models/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type KeysRepo struct {
	db *sqlx.DB
}

func NewApiKeysRepo(db *sqlx.DB) *KeysRepo {
	return &KeysRepo{db}
}

// GetStatus returns nil when the key is unknown.
func (r *KeysRepo) GetStatus(ctx context.Context, key string) (*entities.ApiKey, error) {
	var keyRes entities.ApiKey

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(constants.GetStatusByApiKey), key).StructScan(&keyRes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &keyRes, nil
}

// Create issues a new active key.
func (r *KeysRepo) Create(ctx context.Context) (string, error) {
	key := uuid.NewString()
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(constants.InsertApiKey), key, true, time.Now().UTC()); err != nil {
		if IsUniqueViolation(err) {
			return "", fmt.Errorf("api key collision, retry")
		}
		return "", fmt.Errorf("failed to insert api key: %w", err)
	}
	return key, nil
}
