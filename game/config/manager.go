package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/ladderdare/game/deck"
	"github.com/wricardo/ladderdare/game/engine"
	"github.com/wricardo/ladderdare/game/service"
)

var (
	ErrChallengesNotFound = errors.New("challenge file not found")
	ErrInvalidChallenges  = errors.New("invalid challenge file")
)

// FallbackName is the file base name used when a level has no file of its own.
const FallbackName = "challenges"

var extensions = []string{".json", ".yaml", ".yml"}

// Manager reads challenge files from a directory and caches them per level.
type Manager struct {
	dir    string
	rules  *engine.GameConfig
	logger *zap.Logger
	cache  map[int]*levelFile
	mu     sync.RWMutex
}

type levelFile struct {
	path     string
	fallback bool
	texts    map[string]string
	skipped  int
}

// NewManager creates a manager for the challenge files in dir. The level
// range comes from engine.DefaultGameConfig unless SetRules is called.
func NewManager(dir string, logger *zap.Logger) (*Manager, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("challenge directory does not exist: %s", dir)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		dir:    dir,
		rules:  engine.DefaultGameConfig(),
		logger: logger,
		cache:  make(map[int]*levelFile),
	}, nil
}

// SetRules sets the rules whose level range ListLevels reports.
func (m *Manager) SetRules(rules *engine.GameConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = rules
}

// Dir returns the directory challenge files are read from.
func (m *Manager) Dir() string {
	return m.dir
}

// LoadChallenges returns the raw challenge texts for level. A missing or
// malformed file yields an empty set and a warning, never an error, so a
// game can always start.
func (m *Manager) LoadChallenges(level int) (map[string]string, error) {
	lf, err := m.load(level)
	if err != nil {
		m.logger.Warn("no usable challenges, playing without cards",
			zap.Int("level", level), zap.String("dir", m.dir), zap.Error(err))
		return map[string]string{}, nil
	}

	out := make(map[string]string, len(lf.texts))
	for k, v := range lf.texts {
		out[k] = v
	}
	return out, nil
}

func (m *Manager) load(level int) (*levelFile, error) {
	m.mu.RLock()
	// Check cache first
	if lf, exists := m.cache[level]; exists {
		m.mu.RUnlock()
		return lf, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if lf, exists := m.cache[level]; exists {
		return lf, nil
	}

	path, fallback, err := m.resolve(level)
	if err != nil {
		return nil, err
	}

	texts, skipped, err := ReadChallengeFile(path)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		m.logger.Warn("skipped challenge entries that are not text",
			zap.String("file", path), zap.Int("skipped", skipped))
	}

	lf := &levelFile{path: path, fallback: fallback, texts: texts, skipped: skipped}
	m.cache[level] = lf
	return lf, nil
}

// resolve finds challenges_lv{level} first and the shared file second.
func (m *Manager) resolve(level int) (string, bool, error) {
	for i, base := range []string{fmt.Sprintf("%s_lv%d", FallbackName, level), FallbackName} {
		for _, ext := range extensions {
			path := filepath.Join(m.dir, base+ext)
			if _, err := os.Stat(path); err == nil {
				return path, i == 1, nil
			}
		}
	}
	return "", false, fmt.Errorf("%w: level %d in %s", ErrChallengesNotFound, level, m.dir)
}

// ReadChallengeFile parses a JSON or YAML challenge file. The document is
// either a mapping of ids to challenges or a list of challenges; scalar
// values of any type are converted to text, other values are counted as
// skipped.
func ReadChallengeFile(path string) (map[string]string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read challenge file: %w", err)
	}

	var doc interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrInvalidChallenges, filepath.Base(path), err)
	}

	return coerce(doc)
}

func coerce(doc interface{}) (map[string]string, int, error) {
	texts := make(map[string]string)
	skipped := 0
	put := func(key string, value interface{}) {
		s, err := cast.ToStringE(value)
		if err != nil || value == nil {
			skipped++
			return
		}
		texts[key] = s
	}

	switch v := doc.(type) {
	case map[string]interface{}:
		for k, val := range v {
			put(k, val)
		}
	case map[interface{}]interface{}:
		for k, val := range v {
			put(cast.ToString(k), val)
		}
	case []interface{}:
		for i, val := range v {
			put(strconv.Itoa(i+1), val)
		}
	case nil:
	default:
		return nil, 0, fmt.Errorf("%w: expected a mapping or a list, got %T", ErrInvalidChallenges, doc)
	}
	return texts, skipped, nil
}

// ListLevels describes the file behind every level of the rules.
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	m.mu.RLock()
	minLevel, maxLevel := m.rules.MinLevel, m.rules.MaxLevel
	m.mu.RUnlock()

	levels := make([]*service.LevelInfo, 0, maxLevel-minLevel+1)
	for level := minLevel; level <= maxLevel; level++ {
		info := &service.LevelInfo{Level: level}
		lf, err := m.load(level)
		if err == nil {
			info.Filename = filepath.Base(lf.path)
			info.Fallback = lf.fallback
			info.Skipped = lf.skipped
			for _, text := range lf.texts {
				switch c, ok := deck.Classify(text); {
				case !ok:
					info.Skipped++
				case c == deck.Truth:
					info.Truths++
				default:
					info.Dares++
				}
			}
		}
		levels = append(levels, info)
	}
	return levels, nil
}

// Files lists the challenge files present in the directory.
func (m *Manager) Files() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read challenge directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, FallbackName) {
			continue
		}
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				files = append(files, name)
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// RefreshCache drops every cached level so files are read again.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[int]*levelFile)
}
