package entities

import "time"

type ApiKey struct {
	ID        int64     `db:"id"`
	Key       string    `db:"api_key"`
	Status    bool      `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
