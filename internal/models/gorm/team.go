package gorm

import (
	"time"

	"yrhacks/hackbot/internal/constants"
)

type Team struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:20;uniqueIndex;not null"`
	OwnerID   string    `gorm:"column:owner_id;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Members []User       `gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL"`
	Invites []TeamInvite `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Team) TableName() string {
	return "teams"
}

type TeamInvite struct {
	ID        uint                   `gorm:"column:id;primaryKey;autoIncrement"`
	TeamID    uint                   `gorm:"column:team_id;index;not null"`
	InviterID string                 `gorm:"column:inviter_id;not null"`
	UserID    string                 `gorm:"column:user_id;index;not null"`
	Status    constants.InviteStatus `gorm:"column:status;type:varchar(16);not null;default:pending"`
	ExpiresAt *time.Time             `gorm:"column:expires_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (TeamInvite) TableName() string {
	return "team_invites"
}

// Expired reports whether the invite had a deadline that is already behind now.
func (i *TeamInvite) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

// AllModels is the AutoMigrate order.
func AllModels() []interface{} {
	return []interface{}{&Team{}, &User{}, &TeamInvite{}, &ApiKey{}}
}
