package gorm

import "time"

type User struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	DiscordID  string    `gorm:"column:discord_id;uniqueIndex;not null"`
	FullName   string    `gorm:"column:full_name"`
	School     string    `gorm:"column:school"`
	Grade      string    `gorm:"column:grade"`
	SHSMSector string    `gorm:"column:shsm_sector"`
	About      *string   `gorm:"column:about;size:150"`
	TeamID     *uint     `gorm:"column:team_id;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// ApiKey authenticates the bot front-end.
type ApiKey struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Key       string    `gorm:"column:api_key;uniqueIndex;not null"`
	Status    bool      `gorm:"column:status;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ApiKey) TableName() string {
	return "api_keys"
}
