package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/db/repositories"
	"yrhacks/hackbot/internal/metrics"
	"yrhacks/hackbot/internal/services"
	"yrhacks/hackbot/internal/workers"
)

type Repositories struct {
	Users   *repositories.UserRepositoryGORM
	Teams   *repositories.TeamRepositoryGORM
	Invites *repositories.InviteRepositoryGORM
	Views   *repositories.TeamViewRepository
	Keys    *repositories.KeysRepo
}

type Services struct {
	Registration *services.RegistrationService
	Teams        *services.TeamService
	Prompts      *services.InvitePromptService
	Members      *services.MemberSyncService
	Profiles     *services.ProfileService
	Admin        *services.AdminService
	Cache        common.CacheInterface
	Embeds       *common.EmbedBuilder
	Notifier     *common.Notifier
}

// Infra is what the health check probes.
type Infra struct {
	DB        *sqlx.DB
	Redis     *redis.Client
	Queue     workers.QueueLength
	Directory *common.RegistrationDirectory
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Infra    *Infra
	Metrics  *metrics.MetricsRegistry
	Config   *config.Config
}

// Externals are the pieces built by the caller: stores, cache, queue and Discord.
type Externals struct {
	Gorm      *gorm.DB
	Sqlx      *sqlx.DB
	Redis     *redis.Client
	Cache     common.CacheInterface
	Queue     workers.QueueBackend
	Messenger common.DiscordMessenger
	Directory *common.RegistrationDirectory
}

func InitDependencies(cfg *config.Config, ext Externals, m *metrics.MetricsRegistry) *Dependencies {
	repos := &Repositories{
		Users:   repositories.NewUserRepositoryGORM(ext.Gorm),
		Teams:   repositories.NewTeamRepositoryGORM(ext.Gorm),
		Invites: repositories.NewInviteRepositoryGORM(ext.Gorm),
		Views:   repositories.NewTeamViewRepository(ext.Sqlx),
		Keys:    repositories.NewApiKeysRepo(ext.Sqlx),
	}

	embeds := common.NewEmbedBuilder(cfg.Embeds)
	notifier := common.NewNotifier(ext.Queue, m)
	registration := services.NewRegistrationService(repos.Users, ext.Directory)

	stores := services.Stores{
		Users:   repos.Users,
		Teams:   repos.Teams,
		Invites: repos.Invites,
		Views:   repos.Views,
	}
	teams := services.NewTeamService(stores, registration, ext.Cache, notifier, ext.Messenger, embeds, m, cfg.Teams, cfg.Cache.AutocompleteTTL)

	svcs := &Services{
		Registration: registration,
		Teams:        teams,
		Prompts:      services.NewInvitePromptService(repos.Invites, teams),
		Members:      services.NewMemberSyncService(repos.Users, registration, ext.Messenger, notifier, embeds, m, cfg.Bot, cfg.Event),
		Profiles:     services.NewProfileService(repos.Users, registration, notifier),
		Admin:        services.NewAdminService(repos.Users, ext.Messenger, notifier, cfg.Bot),
		Cache:        ext.Cache,
		Embeds:       embeds,
		Notifier:     notifier,
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Infra: &Infra{
			DB:        ext.Sqlx,
			Redis:     ext.Redis,
			Queue:     ext.Queue,
			Directory: ext.Directory,
		},
		Metrics: m,
		Config:  cfg,
	}
}
