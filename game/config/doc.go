// Package config provides challenge file loading and process settings for
// Ladder Dare.
//
// Challenge files live in one directory. Level N reads challenges_lvN with a
// .json, .yaml or .yml extension and falls back to challenges.json (or its
// YAML twin) when the level has no file of its own. A file holds either a
// mapping of ids to challenge texts or a plain list:
//
//	{"1": "Truth: Apa rahasia terbesarmu?", "2": "Dare: Maju 3 kotak"}
//
// Values of any scalar type are accepted and converted to text. A missing
// or malformed file never stops a game; it is logged and the level plays
// with an empty deck.
//
// Usage:
//
//	manager, err := config.NewManager("configs", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	texts, _ := manager.LoadChallenges(2)
//	levels, _ := manager.ListLevels()
//
// Settings holds the process settings read from the environment with
// LoadSettings.
package config
