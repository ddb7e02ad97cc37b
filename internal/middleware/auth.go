package middleware

import (
	"net/http"
	"strings"
	"time"

	"yrhacks/hackbot/internal/auth"
	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/logging"
)

// AuthMiddleware accepts either an X-API-Key issued by `hackbot apikey create`
// or a bearer token signed with the JWT secret, then attaches the forwarded
// Discord identity as claims.
func AuthMiddleware(keysRepo *repositories.KeysRepo, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")

			caller, err := auth.CallerFromHeaders(r)
			if err != nil {
				common.RespondError(w, initTime, nil, err.Error(), http.StatusBadRequest)
				return
			}

			var claims auth.UserClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				subject, err := auth.ParseServiceToken(jwtSecret, strings.TrimPrefix(authHeader, "Bearer "))
				if err != nil {
					logging.Warn("Rejected bearer token", "error", err)
					common.RespondError(w, initTime, nil, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}
				claims = &auth.JWTClaims{Caller: caller, Subject: subject}

			case apiKey != "":
				keyRes, err := keysRepo.GetStatus(r.Context(), apiKey)
				if err != nil {
					logging.Error("API key lookup failed", "error", err)
					common.RespondError(w, initTime, nil, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}
				if keyRes == nil {
					common.RespondError(w, initTime, nil, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}
				if !keyRes.Status {
					common.RespondError(w, initTime, nil, "Unauthorized. Inactive API Key", http.StatusUnauthorized)
					return
				}
				claims = &auth.APIKeyClaims{Caller: caller}

			default:
				common.RespondError(w, initTime, nil, "Unauthorized. Missing API Key", http.StatusUnauthorized)
				return
			}

			logging.Debug("Authenticated request", "source", claims.Source(), "user_id", claims.DiscordUserID())
			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
