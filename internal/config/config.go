package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

type Config struct {
	LogLevel   string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string  `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Players    Players `yaml:"players"`
	Redis      Redis   `yaml:"redis"`
	TUI        TUI     `yaml:"tui"`
}

type Players struct {
	First  Player `yaml:"first" env-prefix:"PLAYER_ONE_"`
	Second Player `yaml:"second" env-prefix:"PLAYER_TWO_"`
}

type Player struct {
	Name   string `yaml:"name" env:"NAME"`
	Marker string `yaml:"marker" env:"MARKER"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"tictactoe:events"`
}

type TUI struct {
	LogPath string `yaml:"log-path" env:"TUI_LOG_PATH"`
}

const FileName = "config.yml"

// LoadFromWorkdir - loads config.yml from the working directory; all three binaries start here.
func LoadFromWorkdir() (*Config, error) {
	baseDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return Load(filepath.Join(baseDir, FileName))
}

// Load - reads the yaml file at path, or only the environment when the file is missing.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// Entities - the configured players; unset fields fall back to the defaults.
func (that *Players) Entities() [2]entity.Player {
	players := entity.DefaultPlayers()

	for i, configured := range [2]Player{that.First, that.Second} {
		if configured.Name != "" {
			players[i].Name = configured.Name
		}

		if configured.Marker != "" {
			players[i].Marker = entity.Marker(configured.Marker)
		}
	}

	return players
}

// Level - the slog level for LogLevel; unknown values mean info.
func (that *Config) Level() slog.Level {
	switch that.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
