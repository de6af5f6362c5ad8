package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finknottle/vc-events-collector/internal/event"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultUserAgent, cfg.Fetch.UserAgent)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout())
	assert.Equal(t, 45*time.Second, cfg.Fetch.NavTimeout())
	assert.Equal(t, 1500*time.Millisecond, cfg.Fetch.Settle())
	assert.Equal(t, 2500*time.Millisecond, cfg.Fetch.ProfileSettle())
	assert.Equal(t, []string{"data/events.json", "site/events.json"}, cfg.Output.Paths)
	assert.Equal(t, 50, cfg.Gmail.MaxMessages)
	assert.Equal(t, "newer_than:30d", cfg.Gmail.Query)
	assert.True(t, cfg.Logging.Development)
	assert.Empty(t, cfg.Sources)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
sources:
  - name: Good Blog
    url: https://blog.example/events
    kind: html
  - name: Fund Calendar
    url: https://lu.ma/fund
    kind: luma_calendar
fetch:
  timeout_seconds: 5
  settle_ms: 200
gmail:
  credentials_path: creds.json
  token_path: token.json
  max_messages: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, event.KindLumaCalendar, cfg.Sources[1].Kind)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout())
	assert.Equal(t, 200*time.Millisecond, cfg.Fetch.Settle())
	// Untouched knobs keep their defaults.
	assert.Equal(t, 45*time.Second, cfg.Fetch.NavTimeout())
	assert.Equal(t, 10, cfg.Gmail.MaxMessages)
	assert.Equal(t, "creds.json", cfg.Gmail.CredentialsPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Fetch: FetchConfig{
				TimeoutSeconds:    15,
				NavTimeoutSeconds: 45,
			},
			Output: OutputConfig{Paths: []string{"data/events.json"}},
			Gmail:  GmailConfig{MaxMessages: 50},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Fetch.TimeoutSeconds = 0 },
			wantErr: "timeout_seconds",
		},
		{
			name:    "negative settle",
			mutate:  func(c *Config) { c.Fetch.SettleMs = -1 },
			wantErr: "settle",
		},
		{
			name:    "no output paths",
			mutate:  func(c *Config) { c.Output.Paths = nil },
			wantErr: "output.paths",
		},
		{
			name: "source without url",
			mutate: func(c *Config) {
				c.Sources = []event.Source{{Name: "Nameless", Kind: event.KindHTML}}
			},
			wantErr: "name and url",
		},
		{
			name: "source with unknown kind",
			mutate: func(c *Config) {
				c.Sources = []event.Source{{Name: "Feed", URL: "https://f.example", Kind: "rss"}}
			},
			wantErr: "unknown kind",
		},
		{
			name:    "zero gmail max",
			mutate:  func(c *Config) { c.Gmail.MaxMessages = 0 },
			wantErr: "max_messages",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
