package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads the yaml file", func(t *testing.T) {
		// Given: a config file with players and redis settings
		path := filepath.Join(t.TempDir(), "config.yml")
		content := `log-level: debug
http-port: "8080"
players:
  first:
    name: Ann
    marker: A
  second:
    name: Bob
redis:
  enabled: true
  host: redis
  channel: games
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: the config is loaded
		conf, err := Load(path)

		// Then: file values win and the rest falls back to defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "9091", conf.SocketPort)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "games", conf.Redis.Channel)

		players := conf.Players.Entities()
		assert.Equal(t, entity.Player{Name: "Ann", Marker: "A"}, players[0])
		assert.Equal(t, entity.Player{Name: "Bob", Marker: entity.MarkerO}, players[1])
	})

	t.Run("Falls back to the environment", func(t *testing.T) {
		// Given: no config file and a port in the environment
		t.Setenv("HTTP_PORT", "7070")
		path := filepath.Join(t.TempDir(), "missing.yml")

		// When: the config is loaded
		conf, err := Load(path)

		// Then: env and defaults are used
		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
		assert.Equal(t, "info", conf.LogLevel)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "tictactoe:events", conf.Redis.Channel)
		assert.Equal(t, entity.DefaultPlayers(), conf.Players.Entities())
	})

	t.Run("Broken file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("log-level: [unclosed"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestLoadFromWorkdir(t *testing.T) {
	// Given: a config.yml in the directory the binary runs from
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("socket-port: \"6060\"\n"), 0o600))
	t.Chdir(dir)

	// When: the config is loaded from the working directory
	conf, err := LoadFromWorkdir()

	// Then: the file is picked up
	require.NoError(t, err)
	assert.Equal(t, "6060", conf.SocketPort)
	assert.Equal(t, "9090", conf.HTTPPort)
}

func TestLevel(t *testing.T) {
	for value, expected := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	} {
		conf := &Config{LogLevel: value}
		assert.Equal(t, expected, conf.Level(), "log level %q", value)
	}
}
