package dtos

type TeamNameRequest struct {
	Name string `json:"name"`
}

type InviteRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type InviteResponseRequest struct {
	Action string `json:"action"`
}

type ProfileRequest struct {
	About string `json:"about"`
}

type VerifyRequest struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Grade      string `json:"grade"`
	School     string `json:"school"`
	SHSMSector string `json:"shsm_sector"`
}

type MemberJoinRequest struct {
	GuildID  string `json:"guild_id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
