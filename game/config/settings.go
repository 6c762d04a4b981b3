package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings are the process settings read from the environment. Command line
// flags override them.
type Settings struct {
	Port          int           `env:"PORT" envDefault:"8080"`
	ChallengeDir  string        `env:"CHALLENGE_DIR" envDefault:"configs"`
	RulesFile     string        `env:"RULES_FILE"`
	Seed          int64         `env:"GAME_SEED"`
	Debug         bool          `env:"DEBUG"`
	APIURL        string        `env:"API_URL" envDefault:"http://localhost:8080"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CleanupPeriod time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}
