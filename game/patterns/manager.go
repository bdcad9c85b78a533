package patterns

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/lifegame/game/engine"
	"github.com/wricardo/mcp-training/lifegame/game/service"
)

var (
	ErrPatternNotFound = errors.New("pattern not found")
	ErrInvalidPattern  = errors.New("invalid pattern")
	ErrNoDirectory     = errors.New("pattern directory not configured")
)

// Manager handles pattern loading and caching
type Manager struct {
	dir      string
	patterns map[string]*engine.Pattern
	mu       sync.RWMutex
}

// NewManager creates a pattern manager reading from dir. An empty dir
// serves the built-in patterns only.
func NewManager(dir string) (*Manager, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("pattern directory does not exist: %s", dir)
			}
			return nil, fmt.Errorf("failed to stat pattern directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("pattern path is not a directory: %s", dir)
		}
	}

	return &Manager{
		dir:      dir,
		patterns: make(map[string]*engine.Pattern),
	}, nil
}

// Dir returns the pattern directory, empty when built-ins only
func (m *Manager) Dir() string {
	return m.dir
}

// LoadPattern loads a pattern by name. Files in the pattern directory take
// precedence over built-ins of the same name.
func (m *Manager) LoadPattern(name string) (*engine.Pattern, error) {
	key := normalizeName(name)
	if err := validateName(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if p, exists := m.patterns[key]; exists {
		m.mu.RUnlock()
		return p, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if p, exists := m.patterns[key]; exists {
		return p, nil
	}

	p, err := m.readPattern(key)
	if err == nil {
		m.patterns[key] = p
		return p, nil
	}
	if !errors.Is(err, ErrPatternNotFound) {
		return nil, err
	}

	if builtin, ok := builtins[key]; ok {
		return builtin, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPatternNotFound, name)
}

// ListPatterns returns every available pattern sorted by id
func (m *Manager) ListPatterns() ([]*service.PatternInfo, error) {
	found := make(map[string]*service.PatternInfo)

	for key, p := range builtins {
		found[key] = newPatternInfo(key, "", p, true)
	}

	if m.dir != "" {
		entries, err := os.ReadDir(m.dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read pattern directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}

			key := normalizeName(entry.Name())
			p, err := m.LoadPattern(key)
			if err != nil {
				log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping invalid pattern file")
				continue
			}
			found[key] = newPatternInfo(key, entry.Name(), p, false)
		}
	}

	result := make([]*service.PatternInfo, 0, len(found))
	for _, info := range found {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PatternID < result[j].PatternID
	})
	return result, nil
}

// SavePattern validates a pattern and writes it to the pattern directory
func (m *Manager) SavePattern(name string, p *engine.Pattern) error {
	if m.dir == "" {
		return ErrNoDirectory
	}

	key := normalizeName(name)
	if err := validateName(key); err != nil {
		return err
	}
	if err := engine.ValidatePattern(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pattern: %w", err)
	}

	path := filepath.Join(m.dir, key+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pattern file: %w", err)
	}

	m.mu.Lock()
	m.patterns[key] = p
	m.mu.Unlock()

	event := log.Info().Str("pattern", key).Str("path", path)
	if IsBuiltin(key) {
		event = event.Bool("overrides_builtin", true)
	}
	event.Msg("pattern saved")
	return nil
}

// RefreshCache drops cached pattern files so they are re-read from disk on
// the next load.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = make(map[string]*engine.Pattern)
}

// readPattern must be called with m.mu held for writing.
func (m *Manager) readPattern(key string) (*engine.Pattern, error) {
	if m.dir == "" {
		return nil, ErrPatternNotFound
	}

	path := filepath.Join(m.dir, key+".json")
	p, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrPatternNotFound
		}
		return nil, err
	}
	return p, nil
}

// LoadFile reads and validates a single pattern file
func LoadFile(path string) (*engine.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}

	var p engine.Pattern
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidPattern, filepath.Base(path), err)
	}

	if err := engine.ValidatePattern(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return &p, nil
}

func newPatternInfo(key, filename string, p *engine.Pattern, builtin bool) *service.PatternInfo {
	info := &service.PatternInfo{
		Filename:    filename,
		PatternID:   key,
		Name:        p.Name,
		Description: p.Description,
		Period:      p.Period,
		Builtin:     builtin,
	}
	if g, err := p.Grid(); err == nil {
		info.Rows = g.Rows()
		info.Columns = g.Columns()
	}
	return info
}

func normalizeName(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(name), ".json")
}

func validateName(key string) error {
	if key == "" {
		return fmt.Errorf("%w: pattern name is required", engine.ErrInvalidArgument)
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: invalid pattern name %q", engine.ErrInvalidArgument, key)
	}
	return nil
}
