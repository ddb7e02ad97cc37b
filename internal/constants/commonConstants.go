package constants

import "time"

type (
	RequestSource string
	APIStatus     string
	CachePrefix   string
	EmbedKind     string
)

const (
	RequestSourceAPI RequestSource = "API_KEY"
	RequestSourceJWT RequestSource = "JWT"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixTeamsWithCounts CachePrefix = "TEAMS_WITH_COUNTS"
	CachePrefixPendingInvites  CachePrefix = "PENDING_INVITES_"

	EmbedInfo    EmbedKind = "info"
	EmbedSuccess EmbedKind = "success"
	EmbedError   EmbedKind = "error"
)

const (
	TeamNameMinLength   = 3
	TeamNameMaxLength   = 20
	DefaultMaxTeamSize  = 4
	AboutMaxLength      = 150
	MaxAutocompleteHits = 25

	DefaultAutocompleteTTL = 7 * time.Second

	InviteButtonPrefix  = "team_invite"
	InviteActionAccept  = "accept"
	InviteActionDecline = "decline"
)
