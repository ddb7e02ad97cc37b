package middleware

import (
	"net/http"
	"time"

	"yrhacks/hackbot/internal/auth"
	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/constants"
)

// IsAdminMiddleware requires the Discord ADMINISTRATOR bit in the forwarded permissions.
func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if claims == nil || claims.Permissions()&constants.PermissionAdministrator == 0 {
				common.RespondError(w, time.Now(), nil, constants.MsgAdminOnly, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
