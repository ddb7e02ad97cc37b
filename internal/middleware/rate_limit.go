package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"yrhacks/hackbot/internal/auth"
	"yrhacks/hackbot/internal/common"
)

// RateLimiter throttles commands per Discord user. Every request comes from
// the same front-end address, so the user id is the only useful key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *RateLimiter) getLimiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[userID]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(l.rps, l.burst)
	l.limiters[userID] = limiter
	return limiter
}

// Middleware must run after AuthMiddleware. Requests with no Discord user,
// such as member-join events, are not limited.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil || claims.DiscordUserID() == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !l.getLimiter(claims.DiscordUserID()).Allow() {
			common.RespondError(w, time.Now(), nil, "You're doing that too fast. Please slow down.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
