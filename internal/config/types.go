package config

// Config holds all configuration for the application.
type Config struct {
	DBName             string
	Port               string
	AdminToken         string
	DefaultSeasonWeeks int
	Slack              SlackConfig
	Turso              TursoConfig
	ProjectID          string
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
