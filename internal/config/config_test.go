package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_NAME", "ladder.db")
	t.Setenv("PORT", "8080")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"SLACK_BOT_TOKEN", "SLACK_CHANNEL_ID", "TENANT_ID", "TURSO_PRIMARY_URL", "GCP_PROJECT", "STRICT_SCORES", "DEFAULT_LANGUAGE", "INITIAL_RATING", "RATING_POLICY"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "ladder.db", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Slack.Enabled())
	assert.False(t, cfg.Rating.StrictScores)
	assert.Equal(t, "fr", cfg.Rating.DefaultLanguage)
	assert.Equal(t, 0.0, cfg.Rating.InitialRating)
	assert.Equal(t, PolicyExperience, cfg.Rating.Policy)
}

func TestFromEnv_Optional(t *testing.T) {
	setRequired(t)
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-1")
	t.Setenv("SLACK_CHANNEL_ID", "C1")
	t.Setenv("STRICT_SCORES", "true")
	t.Setenv("DEFAULT_LANGUAGE", "es")
	t.Setenv("INITIAL_RATING", "250")
	t.Setenv("TENANT_ID", "tenant-1")
	t.Setenv("RATING_POLICY", "level")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Slack.Enabled())
	assert.True(t, cfg.Rating.StrictScores)
	assert.Equal(t, "es", cfg.Rating.DefaultLanguage)
	assert.Equal(t, 250.0, cfg.Rating.InitialRating)
	assert.Equal(t, "tenant-1", cfg.TenantID)
	assert.Equal(t, PolicyLevel, cfg.Rating.Policy)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Run("missing required", func(t *testing.T) {
		t.Setenv("DB_NAME", "")
		t.Setenv("PORT", "")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "DB_NAME")
		assert.ErrorContains(t, err, "PORT")
	})

	t.Run("bad bool", func(t *testing.T) {
		setRequired(t)
		t.Setenv("STRICT_SCORES", "maybe")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "STRICT_SCORES")
	})

	t.Run("negative initial rating", func(t *testing.T) {
		setRequired(t)
		t.Setenv("STRICT_SCORES", "")
		t.Setenv("INITIAL_RATING", "-5")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("unknown policy", func(t *testing.T) {
		setRequired(t)
		t.Setenv("STRICT_SCORES", "")
		t.Setenv("INITIAL_RATING", "")
		t.Setenv("RATING_POLICY", "division")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "RATING_POLICY")
	})
}
