package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Slack     SlackConfig
	TenantID  string
	Turso     TursoConfig
	ProjectID string
	Rating    RatingConfig
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether division changes should go to Slack.
func (s SlackConfig) Enabled() bool {
	return s.Token != "" && s.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RatingConfig struct {
	StrictScores    bool
	DefaultLanguage string
	InitialRating   float64
	// Policy is "experience" or "level" and selects how K is staged.
	Policy string
}

const (
	PolicyExperience = "experience"
	PolicyLevel      = "level"
)
