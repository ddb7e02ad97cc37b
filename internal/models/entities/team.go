package entities

import "time"

// TeamWithCount is one row of the "teams with member counts" view.
type TeamWithCount struct {
	ID          uint      `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	OwnerID     string    `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	MemberCount int       `db:"member_count" json:"member_count"`
}

// PendingInvite is one row of the "pending invites for a member" view.
type PendingInvite struct {
	InviteID  uint       `db:"invite_id" json:"invite_id"`
	ID        uint       `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	OwnerID   string     `db:"owner_id" json:"owner_id"`
	InviterID string     `db:"inviter_id" json:"inviter_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at,omitempty"`
}
