package constants

import (
	"database/sql/driver"
	"fmt"
)

// InviteStatus mirrors the team_invites.status column
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusExpired  InviteStatus = "expired"
)

func (s InviteStatus) String() string { return string(s) }

// IsTerminal reports whether no further transition is allowed from s.
func (s InviteStatus) IsTerminal() bool { return s != InviteStatusPending }

/* ---------- DB adapters so gorm / sqlx scan and store the enum cleanly ---------- */

// Scan implements the sql.Scanner interface
func (s *InviteStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = InviteStatus(v)
	case []byte:
		*s = InviteStatus(v)
	default:
		return fmt.Errorf("InviteStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s InviteStatus) Value() (driver.Value, error) { return string(s), nil }

// PermissionAdministrator is the Discord ADMINISTRATOR permission bit.
const PermissionAdministrator int64 = 1 << 3
