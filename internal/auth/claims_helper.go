package auth

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	HeaderDiscordID   = "X-Discord-Id"
	HeaderServerID    = "X-Server-Id"
	HeaderUsername    = "X-Discord-Username"
	HeaderPermissions = "X-Discord-Permissions"
)

// CallerFromHeaders reads the forwarded Discord identity. Permissions is the
// member's permission bitfield as a decimal string and may be absent.
func CallerFromHeaders(r *http.Request) (Caller, error) {
	c := Caller{
		DiscordIDValue: strings.TrimSpace(r.Header.Get(HeaderDiscordID)),
		ServerIDValue:  strings.TrimSpace(r.Header.Get(HeaderServerID)),
		UsernameValue:  strings.TrimSpace(r.Header.Get(HeaderUsername)),
	}

	if raw := strings.TrimSpace(r.Header.Get(HeaderPermissions)); raw != "" {
		perms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Caller{}, fmt.Errorf("invalid %s header: %w", HeaderPermissions, err)
		}
		c.PermissionsValue = perms
	}
	return c, nil
}
