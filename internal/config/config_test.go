package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REMINDER_PRINTING_KEYWORDS", "Printed, Proof ,")
	t.Setenv("REMINDER_ROUTE_THROUGH_ADMIN", "false")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Printed", "Proof"}, cfg.Reminder.PrintingKeywords)
	assert.False(t, cfg.Reminder.RouteDelegatedThroughAdmin)
	assert.True(t, cfg.Reminder.IncludePersonalDigest)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, "https://api.notion.com", cfg.Notion.BaseURL)
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateReminder(t *testing.T) {
	t.Run("missing everything", func(t *testing.T) {
		err := (&Config{}).ValidateReminder()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NOTION_TOKEN")
		assert.Contains(t, err.Error(), "SLACK_BOT_TOKEN")
		assert.Contains(t, err.Error(), "ROSTER_FILE or NAMES")
	})

	t.Run("complete", func(t *testing.T) {
		cfg := &Config{
			Notion:   NotionConfig{Token: "secret", DatabaseID: "db"},
			Slack:    SlackConfig{BotToken: "xoxb"},
			Reminder: ReminderConfig{AdminEmail: "admin@example.com", RosterJSON: `{"A":"a@example.com"}`},
		}
		assert.NoError(t, cfg.ValidateReminder())
	})
}

func TestValidateDashboard(t *testing.T) {
	cfg := &Config{Notion: NotionConfig{Token: "secret", DatabaseID: "db"}}
	assert.Error(t, cfg.ValidateDashboard())

	cfg.Auth.AdminPassword = "hunter2"
	assert.NoError(t, cfg.ValidateDashboard())
}

func TestDurations(t *testing.T) {
	assert.Equal(t, 30*time.Second, AppConfig{RequestTimeoutSeconds: 30}.RequestTimeout())
	assert.Zero(t, AppConfig{}.RequestTimeout())
	assert.Equal(t, time.Hour, RedisConfig{IdentityTTLMinutes: 60}.IdentityTTL())
	assert.Equal(t, time.UTC, AppConfig{Timezone: "Nowhere/Special"}.Location())
}

func TestLoadRoster(t *testing.T) {
	t.Run("json from env", func(t *testing.T) {
		roster, err := LoadRoster(ReminderConfig{RosterJSON: `{"Ayesha Khan": "ayesha@example.com", " ": "x@example.com"}`})
		require.NoError(t, err)
		assert.Len(t, roster, 1)
		email, ok := roster.Email("Ayesha Khan")
		assert.True(t, ok)
		assert.Equal(t, "ayesha@example.com", email)
	})

	t.Run("yaml file wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.yaml")
		require.NoError(t, os.WriteFile(path, []byte("Bilal Ahmed: bilal@example.com\nSara Malik: sara@example.com\n"), 0o600))

		roster, err := LoadRoster(ReminderConfig{RosterFile: path, RosterJSON: `{"Other":"o@example.com"}`})
		require.NoError(t, err)
		assert.Equal(t, []string{"Bilal Ahmed", "Sara Malik"}, roster.Names())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRoster(ReminderConfig{RosterFile: filepath.Join(t.TempDir(), "nope.yaml")})
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LoadRoster(ReminderConfig{RosterJSON: `["not", "a", "map"]`})
		assert.Error(t, err)
	})

	t.Run("unconfigured", func(t *testing.T) {
		_, err := LoadRoster(ReminderConfig{})
		assert.Error(t, err)
	})
}
