// Package app_test contains unit tests for the app package.
package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finknottle/vc-events-collector/internal/app"
	"github.com/finknottle/vc-events-collector/internal/event"
)

func TestNewWiresAllServices(t *testing.T) {
	a, err := app.New("")
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.GetLogger())
	assert.NotNil(t, a.Runner())
	assert.NotNil(t, a.Sink())
	assert.NotNil(t, a.Harvester())
	assert.NotEmpty(t, a.Config().Output.Paths)
}

func TestNewLoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
sources:
  - name: Good Blog
    url: https://blog.example/events
    kind: html
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	a, err := app.New(path)
	require.NoError(t, err)
	defer a.Close()

	require.Len(t, a.Config().Sources, 1)
	assert.Equal(t, event.KindHTML, a.Config().Sources[0].Kind)
}

func TestNewFailsOnMissingConfigFile(t *testing.T) {
	_, err := app.New(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestNewFailsOnInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
sources:
  - name: Mystery Feed
    url: https://m.example
    kind: rss
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	_, err := app.New(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}
