package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"yrhacks/hackbot/internal/constants"
)

// placeholderID is the value shipped in the sample config for every id.
const placeholderID = "123"

// Config holds all application configuration
type Config struct {
	Bot           BotConfig           `mapstructure:"bot"`
	Embeds        EmbedConfig         `mapstructure:"embeds"`
	Server        ServerConfig        `mapstructure:"server"`
	Teams         TeamsConfig         `mapstructure:"teams"`
	Registrations RegistrationsConfig `mapstructure:"registrations"`
	Event         EventConfig         `mapstructure:"event"`
	Cache         CacheConfig         `mapstructure:"cache"`

	Secrets Secrets `mapstructure:"-"`
}

type BotConfig struct {
	GuildID           string `mapstructure:"guild_id"`
	LogChannelID      string `mapstructure:"log_channel_id"`
	UnverifiedRoleID  string `mapstructure:"unverified_role_id"`
	HackerRoleID      string `mapstructure:"hacker_role_id"`
	SyncGuildCommands bool   `mapstructure:"sync_guild_commands"`
}

// EmbedConfig keeps the raw hex strings from the file and the parsed colors.
type EmbedConfig struct {
	InfoColorHex    string `mapstructure:"info_color"`
	SuccessColorHex string `mapstructure:"success_color"`
	ErrorColorHex   string `mapstructure:"error_color"`

	InfoColor    int `mapstructure:"-"`
	SuccessColor int `mapstructure:"-"`
	ErrorColor   int `mapstructure:"-"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
	AppEnv string `mapstructure:"app_env"`
}

type TeamsConfig struct {
	MaxMembers int           `mapstructure:"max_members"`
	InviteTTL  time.Duration `mapstructure:"invite_ttl"`
}

type RegistrationsConfig struct {
	Path string `mapstructure:"path"`
}

type EventConfig struct {
	Name         string `mapstructure:"name"`
	ContactEmail string `mapstructure:"contact_email"`
}

type CacheConfig struct {
	AutocompleteTTL time.Duration `mapstructure:"autocomplete_ttl"`
}

// Secrets never come from the settings file.
type Secrets struct {
	DiscordToken  string
	DatabaseURL   string
	JWTSecret     string
	RedisAddr     string
	RedisPassword string
}

// requiredKeys lists the settings that must be present and not left at a placeholder.
var requiredKeys = map[string][]string{
	"bot":    {"guild_id", "log_channel_id", "unverified_role_id", "hacker_role_id", "sync_guild_commands"},
	"embeds": {"info_color", "success_color", "error_color"},
}

// MissingKeyError is returned when the settings file lacks required keys.
type MissingKeyError struct {
	Keys []string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required config keys: %s", strings.Join(e.Keys, ", "))
}

// Load reads the TOML settings file at path and the secrets from the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := checkRequired(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Embeds.parseColors(); err != nil {
		return nil, err
	}

	if cfg.Teams.MaxMembers <= 0 {
		return nil, errors.New("teams.max_members must be positive")
	}
	if cfg.Teams.InviteTTL < 0 {
		return nil, errors.New("teams.invite_ttl must not be negative")
	}

	cfg.Secrets = LoadSecrets()
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.app_env", "development")
	v.SetDefault("teams.max_members", constants.DefaultMaxTeamSize)
	v.SetDefault("teams.invite_ttl", "0s")
	v.SetDefault("registrations.path", "data/registrations.json")
	v.SetDefault("event.name", "YRHacks")
	v.SetDefault("cache.autocomplete_ttl", constants.DefaultAutocompleteTTL.String())
}

func checkRequired(v *viper.Viper) error {
	var missing []string
	for _, section := range []string{"bot", "embeds"} {
		for _, key := range requiredKeys[section] {
			full := section + "." + key
			if !v.InConfig(full) {
				missing = append(missing, full)
				continue
			}
			val := strings.TrimSpace(v.GetString(full))
			if val == "" || val == placeholderID {
				missing = append(missing, full)
			}
		}
	}
	if len(missing) > 0 {
		return &MissingKeyError{Keys: missing}
	}
	return nil
}

func (e *EmbedConfig) parseColors() error {
	var err error
	if e.InfoColor, err = ParseHexColor(e.InfoColorHex); err != nil {
		return fmt.Errorf("embeds.info_color: %w", err)
	}
	if e.SuccessColor, err = ParseHexColor(e.SuccessColorHex); err != nil {
		return fmt.Errorf("embeds.success_color: %w", err)
	}
	if e.ErrorColor, err = ParseHexColor(e.ErrorColorHex); err != nil {
		return fmt.Errorf("embeds.error_color: %w", err)
	}
	return nil
}

// ParseHexColor accepts "5865F2", "#5865F2" or "0x5865F2".
func ParseHexColor(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, errors.New("empty color")
	}
	n, err := strconv.ParseInt(s, 16, 32)
	if err != nil || n < 0 || n > 0xFFFFFF {
		return 0, fmt.Errorf("invalid hex color %q", s)
	}
	return int(n), nil
}

// LoadSecrets reads credentials from the process environment.
func LoadSecrets() Secrets {
	s := Secrets{
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	if s.DatabaseURL == "" && os.Getenv("PG_HOST") != "" {
		s.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("PG_USER"),
			os.Getenv("PG_PASSWORD"),
			os.Getenv("PG_HOST"),
			getEnv("PG_PORT", "5432"),
			os.Getenv("PG_DB"),
		)
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		s.RedisAddr = fmt.Sprintf("%s:%s", host, getEnv("REDIS_PORT", "6379"))
	}
	return s
}

// Validate checks the secrets the server cannot start without.
func (s Secrets) Validate() error {
	var missing []string
	if s.DiscordToken == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if s.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
