package dtos

import "time"

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// Embed is the message the front-end renders back into Discord.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      string       `json:"footer,omitempty"`
	Components  []Button     `json:"components,omitempty"`
	Ephemeral   bool         `json:"ephemeral,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type Button struct {
	CustomID string `json:"custom_id"`
	Label    string `json:"label"`
	Style    string `json:"style"`
	Disabled bool   `json:"disabled"`
}

// Choice is one autocomplete suggestion.
type Choice struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type TeamMemberView struct {
	DiscordID string `json:"discord_id"`
	FullName  string `json:"full_name,omitempty"`
	IsOwner   bool   `json:"is_owner"`
}

type TeamDetail struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	OwnerID     string           `json:"owner_id"`
	Members     []TeamMemberView `json:"members"`
	MemberCount int              `json:"member_count"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ProfileView struct {
	DiscordID  string `json:"discord_id"`
	FullName   string `json:"full_name"`
	School     string `json:"school"`
	Grade      string `json:"grade"`
	SHSMSector string `json:"shsm_sector"`
	About      string `json:"about"`
}
