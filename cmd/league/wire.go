package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/croquet-league/internal/config"
	"github.com/mauv0809/croquet-league/internal/database"
	"github.com/mauv0809/croquet-league/internal/engine"
	"github.com/mauv0809/croquet-league/internal/ingest"
	"github.com/mauv0809/croquet-league/internal/league"
	"github.com/mauv0809/croquet-league/internal/metrics"
	"github.com/mauv0809/croquet-league/internal/notifier"
	"github.com/mauv0809/croquet-league/internal/notifier/slack"
	"github.com/mauv0809/croquet-league/internal/pubsub"
	"github.com/mauv0809/croquet-league/internal/submission"
)

// loadInput reads the roster, submissions and corrections named in the league file.
func loadInput(lc config.LeagueConfig) (engine.Input, error) {
	f, err := os.Open(lc.Files.Teams)
	if err != nil {
		return engine.Input{}, fmt.Errorf("failed to open roster: %w", err)
	}
	teams, err := ingest.ReadRoster(f, lc.Leagues)
	f.Close()
	if err != nil {
		return engine.Input{}, fmt.Errorf("%s: %w", lc.Files.Teams, err)
	}
	registry, err := league.NewRegistry(lc.Leagues, teams)
	if err != nil {
		return engine.Input{}, fmt.Errorf("failed to build league registry: %w", err)
	}

	f, err = os.Open(lc.Files.Results)
	if err != nil {
		return engine.Input{}, fmt.Errorf("failed to open results: %w", err)
	}
	subs, err := ingest.ReadSubmissions(f)
	f.Close()
	if err != nil {
		return engine.Input{}, fmt.Errorf("%s: %w", lc.Files.Results, err)
	}

	in := engine.Input{Submissions: subs, Registry: registry, Corrections: submission.NewCorrectionSet()}
	if lc.Files.Corrections == "" {
		return in, nil
	}
	f, err = os.Open(lc.Files.Corrections)
	if os.IsNotExist(err) {
		log.Warn("Corrections file not found, continuing without corrections", "path", lc.Files.Corrections)
		return in, nil
	}
	if err != nil {
		return engine.Input{}, fmt.Errorf("failed to open corrections: %w", err)
	}
	defer f.Close()
	in.Corrections, in.CorrectionIssues, err = ingest.ReadCorrections(f)
	if err != nil {
		return engine.Input{}, fmt.Errorf("%s: %w", lc.Files.Corrections, err)
	}
	return in, nil
}

func options(lc config.LeagueConfig) engine.Options {
	return engine.Options{Policy: lc.Recipients}
}

func openDB(cfg config.Config) (*sql.DB, func(), error) {
	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, teardown, nil
}

func newNotifier(cfg config.Config, m metrics.Metrics) notifier.Notifier {
	if !cfg.SlackEnabled() {
		log.Warn("Slack is not configured, notices will only be logged")
		return notifier.NewLogger(nil)
	}
	return slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, m)
}

func newPubSub(cfg config.Config) (pubsub.PubSubClient, error) {
	if !cfg.PubSubEnabled() {
		return nil, nil
	}
	return pubsub.New(cfg.PubSub.ProjectID)
}
