// Package configs loads the server configuration from the environment.
// Values come from real environment variables; main loads an optional
// .env file first via godotenv.
package configs

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hackz-rabuka/room-server/game/room"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string
	Port int
}

// GameConfig holds the room lifecycle tunables.
type GameConfig struct {
	// EvictTTL is how long a room may sit idle before eviction.
	EvictTTL time.Duration

	// WinThreshold is the score that, when exceeded, announces the
	// finish of a game.
	WinThreshold float64
}

// NgrokConfig holds the optional tunnel settings.
type NgrokConfig struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

// Config is the full server configuration.
type Config struct {
	ServerConfig
	GameConfig
	NgrokConfig

	LogLevel string
}

// Load reads the configuration from the environment, applying defaults
// for anything unset.
func Load() (*Config, error) {
	port, err := strconv.Atoi(GetEnv("PORT", "33000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ttl, err := time.ParseDuration(GetEnv("EVICT_TTL", room.DefaultTTL.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid EVICT_TTL: %w", err)
	}

	threshold, err := strconv.ParseFloat(GetEnv("WIN_THRESHOLD", "3.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid WIN_THRESHOLD: %w", err)
	}

	ngrokEnabled := GetEnv("NGROK_ENABLED", "")
	return &Config{
		ServerConfig: ServerConfig{
			Host: GetEnv("HOST", "localhost"),
			Port: port,
		},
		GameConfig: GameConfig{
			EvictTTL:     ttl,
			WinThreshold: threshold,
		},
		NgrokConfig: NgrokConfig{
			Enabled:   ngrokEnabled == "true" || ngrokEnabled == "1",
			AuthToken: GetEnv("NGROK_AUTHTOKEN", GetEnv("NGROK_AUTH_TOKEN", "")),
			Domain:    GetEnv("NGROK_DOMAIN", ""),
		},
		LogLevel: GetEnv("LOG_LEVEL", "info"),
	}, nil
}

// Addr returns the host:port pair the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
