package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GameConfig holds the rules a game is played with.
type GameConfig struct {
	Name            string `json:"name"`
	NumSnakes       int    `json:"num_snakes"`
	NumLadders      int    `json:"num_ladders"`
	ChallengeAmount int    `json:"challenge_amount"`
	MinPlayers      int    `json:"min_players"`
	MaxPlayers      int    `json:"max_players"`
	MaxNameLength   int    `json:"max_name_length"`
	MinLevel        int    `json:"min_level"`
	MaxLevel        int    `json:"max_level"`
	// Seed makes dice, board and deck reproducible. Zero draws a fresh seed
	// for every engine.
	Seed int64 `json:"seed,omitempty"`
}

// DefaultGameConfig returns the standard rules.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:            "classic",
		NumSnakes:       3,
		NumLadders:      2,
		ChallengeAmount: 40,
		MinPlayers:      2,
		MaxPlayers:      len(Palette),
		MaxNameLength:   12,
		MinLevel:        1,
		MaxLevel:        3,
	}
}

// ValidateGameConfig checks that a configuration can produce a playable game.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if config.NumSnakes < 0 || config.NumLadders < 0 {
		return fmt.Errorf("config validation: hazard counts must not be negative, got %d snakes and %d ladders",
			config.NumSnakes, config.NumLadders)
	}
	// Every hazard reserves two cells, the first and last cells are never used.
	if 2*(config.NumSnakes+config.NumLadders) > Total-2 {
		return fmt.Errorf("config validation: %d hazards do not fit on %d cells",
			config.NumSnakes+config.NumLadders, Total)
	}
	if config.ChallengeAmount < 0 || config.ChallengeAmount > Total-2 {
		return fmt.Errorf("config validation: challenge_amount must be between 0 and %d, got %d",
			Total-2, config.ChallengeAmount)
	}

	if config.MinPlayers < 1 {
		return fmt.Errorf("config validation: min_players must be at least 1, got %d", config.MinPlayers)
	}
	if config.MaxPlayers < config.MinPlayers || config.MaxPlayers > len(Palette) {
		return fmt.Errorf("config validation: max_players must be between min_players (%d) and %d, got %d",
			config.MinPlayers, len(Palette), config.MaxPlayers)
	}
	if config.MaxNameLength < 1 {
		return fmt.Errorf("config validation: max_name_length must be positive, got %d", config.MaxNameLength)
	}

	if config.MinLevel < 1 || config.MaxLevel < config.MinLevel {
		return fmt.Errorf("config validation: level range %d-%d is invalid", config.MinLevel, config.MaxLevel)
	}

	return nil
}

// LoadGameConfig reads rules from a JSON file. Fields missing from the file
// keep their default value.
func LoadGameConfig(filename string) (*GameConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read rules %q: %w", configPath, err)
	}

	config := DefaultGameConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse rules %q: %w", configPath, err)
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}
