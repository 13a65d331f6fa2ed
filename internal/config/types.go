package config

import "github.com/mauv0809/croquet-league/internal/events"

// Config holds all configuration for the application.
type Config struct {
	League LeagueConfig
	DBName string
	Port   string
	Slack  SlackConfig
	Turso  TursoConfig
	PubSub PubSubConfig
}

// LeagueConfig is the league file: where the inputs are, where outputs go,
// which leagues run this season and who hears about what.
type LeagueConfig struct {
	Files      FilesConfig     `yaml:"files"`
	Output     string          `yaml:"output"`
	Leagues    []string        `yaml:"leagues"`
	Contacts   events.Contacts `yaml:"contacts"`
	Recipients events.Policy   `yaml:"recipients"`
}

type FilesConfig struct {
	Results     string `yaml:"results"`
	Corrections string `yaml:"corrections"`
	Teams       string `yaml:"teams"`
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type PubSubConfig struct {
	ProjectID string
	Topic     string
}

// RunFlags are the per-invocation toggles set on the command line.
type RunFlags struct {
	Notify  bool
	DryRun  bool
	Verbose bool
}

// SlackEnabled reports whether Slack credentials are configured.
func (c Config) SlackEnabled() bool {
	return c.Slack.Token != "" && c.Slack.ChannelID != ""
}

// PubSubEnabled reports whether a Pub/Sub topic is configured.
func (c Config) PubSubEnabled() bool {
	return c.PubSub.ProjectID != "" && c.PubSub.Topic != ""
}
