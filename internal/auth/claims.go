package auth

import "yrhacks/hackbot/internal/constants"

// UserClaims is what the auth middleware attaches to every request.
// The front-end authenticates itself; the Discord user it acts for comes
// from the forwarded headers.
type UserClaims interface {
	DiscordUserID() string
	DiscordServerID() string
	Username() string
	Permissions() int64
	Source() string
}

// Caller is the Discord user behind a request.
type Caller struct {
	DiscordIDValue   string
	ServerIDValue    string
	UsernameValue    string
	PermissionsValue int64
}

func (c Caller) DiscordUserID() string   { return c.DiscordIDValue }
func (c Caller) DiscordServerID() string { return c.ServerIDValue }
func (c Caller) Username() string        { return c.UsernameValue }
func (c Caller) Permissions() int64      { return c.PermissionsValue }

type APIKeyClaims struct {
	Caller
}

func (c *APIKeyClaims) Source() string { return string(constants.RequestSourceAPI) }

type JWTClaims struct {
	Caller
	// Subject names the front-end the token was issued to.
	Subject string
}

func (c *JWTClaims) Source() string { return string(constants.RequestSourceJWT) }
