package constants

// Queries run through sqlx. Written with ? bindvars and rebound per driver.
const (
	ListTeamsWithCounts = `
	SELECT t.id, t.name, t.owner_id, t.created_at, t.updated_at, COUNT(u.discord_id) AS member_count
	FROM teams t
	LEFT JOIN users u ON u.team_id = t.id
	GROUP BY t.id, t.name, t.owner_id, t.created_at, t.updated_at
	ORDER BY t.name
	`

	PendingInvitesForMember = `
	SELECT i.id AS invite_id, t.id, t.name, t.owner_id, i.inviter_id, i.created_at, i.expires_at
	FROM team_invites i
	JOIN teams t ON t.id = i.team_id
	WHERE i.user_id = ? AND i.status = 'pending' AND (i.expires_at IS NULL OR i.expires_at > ?)
	ORDER BY t.name
	`

	GetStatusByApiKey = `
	SELECT id, api_key, status, created_at FROM api_keys WHERE api_key = ?
	`

	InsertApiKey = `
	INSERT INTO api_keys (api_key, status, created_at) VALUES (?, ?, ?)
	`
)
