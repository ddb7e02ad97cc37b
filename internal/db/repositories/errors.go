package repositories

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrInviteNotFound = errors.New("no pending invite found")
	ErrInviteExpired  = errors.New("invite expired")
	ErrInviteResolved = errors.New("invite already resolved")
	ErrAlreadyInTeam  = errors.New("user already belongs to a team")
	ErrTeamFull       = errors.New("team is full")
)

// IsUniqueViolation reports whether err came from a unique constraint.
// gorm translates most drivers to ErrDuplicatedKey; the lib/pq and message
// checks cover the sqlx pool and drivers without a translator.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
