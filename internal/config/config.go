package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/mauv0809/croquet-league/internal/events"
	"github.com/mauv0809/croquet-league/internal/league"
)

const (
	defaultDBName = "league.db"
	defaultPort   = "8080"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads the league file at path plus deployment settings from
// environment variables and an optional .env file. Relative file paths in the
// league file are resolved against its directory.
func Load(path string) (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	lc, err := LoadLeague(path)
	if err != nil {
		return Config{}, err
	}

	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		League: lc,
		DBName: getEnv("DB_NAME", defaultDBName),
		Port:   getEnv("PORT", defaultPort),
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnv("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		PubSub: PubSubConfig{
			ProjectID: getEnv("GCP_PROJECT", ""),
			Topic:     getEnv("PUBSUB_TOPIC", ""),
		},
	}
	return cfg, nil
}

// LoadLeague reads and validates the league file.
func LoadLeague(path string) (LeagueConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LeagueConfig{}, fmt.Errorf("failed to read league file: %w", err)
	}
	var lc LeagueConfig
	if err := yaml.UnmarshalWithOptions(data, &lc, yaml.Strict()); err != nil {
		return LeagueConfig{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if lc.Output == "" {
		lc.Output = "out"
	}
	if lc.Recipients.MissingReport == "" {
		lc.Recipients.MissingReport = events.DefaultPolicy().MissingReport
	}
	if lc.Recipients.DrawnGame == "" {
		lc.Recipients.DrawnGame = events.DefaultPolicy().DrawnGame
	}
	if err := lc.Validate(); err != nil {
		return LeagueConfig{}, err
	}

	base := filepath.Dir(path)
	lc.Files.Results = resolve(base, lc.Files.Results)
	lc.Files.Corrections = resolve(base, lc.Files.Corrections)
	lc.Files.Teams = resolve(base, lc.Files.Teams)
	lc.Output = resolve(base, lc.Output)

	log.Debug("Loaded league file", "path", path, "leagues", lc.Leagues)
	return lc, nil
}

// Validate checks the league file for missing inputs, a bad league list and
// unknown recipient modes.
func (lc LeagueConfig) Validate() error {
	if lc.Files.Results == "" {
		return fmt.Errorf("%w: files.results is required", ErrInvalidConfig)
	}
	if lc.Files.Teams == "" {
		return fmt.Errorf("%w: files.teams is required", ErrInvalidConfig)
	}
	if len(lc.Leagues) == 0 {
		return fmt.Errorf("%w: at least one league is required", ErrInvalidConfig)
	}
	if len(lc.Leagues) > league.MaxLeagues {
		return fmt.Errorf("%w: %d leagues configured, at most %d allowed", ErrInvalidConfig, len(lc.Leagues), league.MaxLeagues)
	}
	seen := make(map[string]bool, len(lc.Leagues))
	for _, name := range lc.Leagues {
		if name == "" {
			return fmt.Errorf("%w: empty league name", ErrInvalidConfig)
		}
		if seen[name] {
			return fmt.Errorf("%w: league %q listed twice", ErrInvalidConfig, name)
		}
		seen[name] = true
	}
	if !lc.Recipients.MissingReport.Valid() {
		return fmt.Errorf("%w: unknown recipients.missing_report %q", ErrInvalidConfig, lc.Recipients.MissingReport)
	}
	if !lc.Recipients.DrawnGame.Valid() {
		return fmt.Errorf("%w: unknown recipients.drawn_game %q", ErrInvalidConfig, lc.Recipients.DrawnGame)
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
