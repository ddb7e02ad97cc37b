package routes

import (
	"github.com/go-chi/chi/v5"

	"yrhacks/hackbot/internal/api"
	"yrhacks/hackbot/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers) {
	limiter := middleware.NewRateLimiter(2, 5)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(deps.Repo.Keys, deps.Config.Secrets.JWTSecret))
		v1.Use(limiter.Middleware)

		v1.Route("/teams", func(teams chi.Router) {
			teams.Get("/", handlers.ViewAllTeams())
			teams.Post("/", handlers.CreateTeam())
			teams.Get("/view", handlers.ViewTeam())
			teams.Post("/leave", handlers.LeaveTeam())

			teams.Route("/mine", func(mine chi.Router) {
				mine.Delete("/", handlers.DeleteTeam())
				mine.Patch("/", handlers.RenameTeam())
				mine.Post("/invites", handlers.InviteMember())
				mine.Delete("/members/{user_id}", handlers.KickMember())
			})

			teams.Post("/{team_id}/accept", handlers.AcceptInvite())
			teams.Post("/{team_id}/decline", handlers.DeclineInvite())
		})

		v1.Post("/invites/{invite_id}/respond", handlers.RespondToInvite())
		v1.Get("/autocomplete/{kind}", handlers.Autocomplete())

		v1.Get("/profile", handlers.GetProfile())
		v1.Put("/profile", handlers.SetProfile())

		v1.Post("/members/join", handlers.MemberJoined())

		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())
			admin.Post("/admin/verify", handlers.VerifyMember())
		})
	})
}
