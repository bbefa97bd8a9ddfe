package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckatie/linklift/internal/core/domain"
)

// chdir moves into an empty directory so no stray linklift.yaml is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, domain.DefaultPageRequest(), cfg.PageRequest())
}

func TestLoadPrecedence(t *testing.T) {
	dir := chdir(t)
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
api_url: http://file.example/api/v1
page_size: 50
sort_direction: asc
refresh_delay: 5s
log_level: debug
`), 0o644))

	t.Setenv("LINKLIFT_PAGE_SIZE", "30")
	t.Setenv("LINKLIFT_SESSION_STORE", "badger:///tmp/linklift")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-url", "", "")
	flags.Duration("timeout", 0, "")
	require.NoError(t, flags.Parse([]string{"--api-url", "http://flag.example/api/v1"}))

	cfg, err := Load(file, flags)
	require.NoError(t, err)

	assert.Equal(t, "http://flag.example/api/v1", cfg.APIURL, "flag beats file")
	assert.Equal(t, 30, cfg.PageSize, "env beats file")
	assert.Equal(t, "badger:///tmp/linklift", cfg.SessionStore)
	assert.Equal(t, domain.SortAsc, cfg.SortDirection)
	assert.Equal(t, 5*time.Second, cfg.RefreshDelay)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout, "unset flag keeps the default")
}

func TestLoadDiscoversYAML(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "linklift.yaml"), []byte("sort_by: title\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "title", cfg.SortBy)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := chdir(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty api url", func(c *Config) { c.APIURL = "" }, true},
		{"empty session store", func(c *Config) { c.SessionStore = "" }, true},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"negative refresh delay", func(c *Config) { c.RefreshDelay = -time.Second }, true},
		{"zero refresh delay", func(c *Config) { c.RefreshDelay = 0 }, false},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNormalizesSortDirection(t *testing.T) {
	cfg := Defaults()
	cfg.SortDirection = "sideways"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, domain.SortDesc, cfg.SortDirection)
}

func TestNewLogger(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "warn"
	cfg.LogFormat = "json"

	l, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}
