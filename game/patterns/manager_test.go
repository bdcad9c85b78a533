package patterns

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/mcp-training/lifegame/game/engine"
)

func writePatternFile(t *testing.T, dir, name string, p *engine.Pattern) {
	t.Helper()
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal pattern: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		t.Fatalf("Failed to write pattern file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("built-ins only", func(t *testing.T) {
		m, err := NewManager("")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if m.Dir() != "" {
			t.Errorf("Expected empty dir, got %s", m.Dir())
		}
	})

	t.Run("existing directory", func(t *testing.T) {
		if _, err := NewManager(t.TempDir()); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := NewManager(filepath.Join(t.TempDir(), "missing")); err == nil {
			t.Error("Expected error for missing directory")
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.json")
		os.WriteFile(path, []byte("{}"), 0644)
		if _, err := NewManager(path); err == nil {
			t.Error("Expected error when path is a file")
		}
	})
}

func TestBuiltinPatternsAreValid(t *testing.T) {
	for name, p := range builtins {
		t.Run(name, func(t *testing.T) {
			if err := engine.ValidatePattern(p); err != nil {
				t.Fatalf("Built-in pattern invalid: %v", err)
			}
		})
	}
}

func TestBuiltinPeriods(t *testing.T) {
	for name, p := range builtins {
		if p.Period == 0 {
			continue
		}
		t.Run(name, func(t *testing.T) {
			g, err := p.Grid()
			if err != nil {
				t.Fatalf("Failed to parse pattern: %v", err)
			}
			final, err := engine.FindFinalState(g, engine.MaxFinalStateIterations)
			if err != nil {
				t.Fatalf("FindFinalState failed: %v", err)
			}
			if final.Period != p.Period {
				t.Errorf("Expected period %d, got %d", p.Period, final.Period)
			}
			if final.FirstSeen != 0 {
				t.Errorf("Expected the starting state to repeat, first seen at %d", final.FirstSeen)
			}
		})
	}
}

func TestLoadPattern(t *testing.T) {
	dir := t.TempDir()
	custom := &engine.Pattern{
		Name:   "Custom",
		Layout: []string{"...", "OOO", "..."},
		Period: 2,
	}
	writePatternFile(t, dir, "custom", custom)

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  error
	}{
		{name: "file pattern", input: "custom", expected: "Custom"},
		{name: "json extension", input: "custom.json", expected: "Custom"},
		{name: "built-in fallback", input: "glider", expected: "Glider"},
		{name: "unknown", input: "nope", wantErr: ErrPatternNotFound},
		{name: "empty name", input: "", wantErr: engine.ErrInvalidArgument},
		{name: "path traversal", input: "../secret", wantErr: engine.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := m.LoadPattern(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if p.Name != tt.expected {
				t.Errorf("Expected name %s, got %s", tt.expected, p.Name)
			}
		})
	}
}

func TestLoadPatternFileOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writePatternFile(t, dir, "block", &engine.Pattern{
		Name:   "Big Block",
		Layout: []string{"......", ".OO...", ".OO...", "......"},
		Period: 1,
	})

	m, _ := NewManager(dir)
	p, err := m.LoadPattern("block")
	if err != nil {
		t.Fatalf("LoadPattern failed: %v", err)
	}
	if p.Name != "Big Block" {
		t.Errorf("Expected file pattern to win, got %s", p.Name)
	}
}

func TestLoadPatternInvalidFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644)
	writePatternFile(t, dir, "bad-chars", &engine.Pattern{Name: "Bad", Layout: []string{"O?O"}})

	m, _ := NewManager(dir)

	for _, name := range []string{"broken", "bad-chars"} {
		if _, err := m.LoadPattern(name); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("%s: expected ErrInvalidPattern, got %v", name, err)
		}
	}
}

func TestLoadPatternCaching(t *testing.T) {
	dir := t.TempDir()
	writePatternFile(t, dir, "cached", &engine.Pattern{Name: "First", Layout: []string{"O"}})

	m, _ := NewManager(dir)
	first, err := m.LoadPattern("cached")
	if err != nil {
		t.Fatalf("LoadPattern failed: %v", err)
	}

	writePatternFile(t, dir, "cached", &engine.Pattern{Name: "Second", Layout: []string{"O"}})

	second, _ := m.LoadPattern("cached")
	if second != first {
		t.Error("Expected cached pattern to be returned")
	}

	m.RefreshCache()
	refreshed, _ := m.LoadPattern("cached")
	if refreshed.Name != "Second" {
		t.Errorf("Expected refreshed pattern, got %s", refreshed.Name)
	}
}

func TestListPatterns(t *testing.T) {
	dir := t.TempDir()
	writePatternFile(t, dir, "custom", &engine.Pattern{
		Name:        "Custom",
		Description: "Three cells",
		Layout:      []string{"...", "OOO", "..."},
	})
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)

	m, _ := NewManager(dir)
	list, err := m.ListPatterns()
	if err != nil {
		t.Fatalf("ListPatterns failed: %v", err)
	}

	if len(list) != len(builtins)+1 {
		t.Fatalf("Expected %d patterns, got %d", len(builtins)+1, len(list))
	}

	for i := 1; i < len(list); i++ {
		if list[i-1].PatternID >= list[i].PatternID {
			t.Errorf("Patterns not sorted: %s before %s", list[i-1].PatternID, list[i].PatternID)
		}
	}

	var custom, blinker bool
	for _, info := range list {
		switch info.PatternID {
		case "custom":
			custom = true
			if info.Builtin {
				t.Error("Expected custom pattern not to be built-in")
			}
			if info.Filename != "custom.json" {
				t.Errorf("Expected filename custom.json, got %s", info.Filename)
			}
			if info.Rows != 3 || info.Columns != 3 {
				t.Errorf("Expected 3x3, got %dx%d", info.Rows, info.Columns)
			}
		case "blinker":
			blinker = true
			if !info.Builtin {
				t.Error("Expected blinker to be built-in")
			}
		}
	}
	if !custom || !blinker {
		t.Errorf("Expected custom and blinker in list, got custom=%v blinker=%v", custom, blinker)
	}
}

func TestListPatternsBuiltinsOnly(t *testing.T) {
	m, _ := NewManager("")
	list, err := m.ListPatterns()
	if err != nil {
		t.Fatalf("ListPatterns failed: %v", err)
	}
	if len(list) != len(builtins) {
		t.Errorf("Expected %d patterns, got %d", len(builtins), len(list))
	}
}

func TestSavePattern(t *testing.T) {
	dir := t.TempDir()
	m, _ := NewManager(dir)

	p := &engine.Pattern{Name: "Saved", Layout: []string{"OO", "OO"}, Period: 1}
	if err := m.SavePattern("saved", p); err != nil {
		t.Fatalf("SavePattern failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("Expected pattern file to exist: %v", err)
	}

	// A fresh manager reads it from disk
	other, _ := NewManager(dir)
	loaded, err := other.LoadPattern("saved")
	if err != nil {
		t.Fatalf("LoadPattern failed: %v", err)
	}
	if loaded.Name != "Saved" {
		t.Errorf("Expected name Saved, got %s", loaded.Name)
	}
}

func TestSavePatternOverridingBuiltin(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = previous }()

	m, _ := NewManager(t.TempDir())
	still := &engine.Pattern{Name: "Still Glider", Layout: []string{"OO", "OO"}, Period: 1}
	if err := m.SavePattern("glider", still); err != nil {
		t.Fatalf("SavePattern failed: %v", err)
	}

	loaded, err := m.LoadPattern("glider")
	if err != nil {
		t.Fatalf("LoadPattern failed: %v", err)
	}
	if loaded.Name != "Still Glider" {
		t.Errorf("Expected saved pattern to replace the built-in, got %s", loaded.Name)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["overrides_builtin"] != true {
		t.Errorf("Expected overrides_builtin in log entry, got %v", entry)
	}

	buf.Reset()
	if err := m.SavePattern("custom", still); err != nil {
		t.Fatalf("SavePattern failed: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("overrides_builtin")) {
		t.Errorf("Expected no override flag for a new name, got %s", buf.String())
	}
}

func TestSavePatternErrors(t *testing.T) {
	valid := &engine.Pattern{Name: "Ok", Layout: []string{"O"}}

	t.Run("no directory", func(t *testing.T) {
		m, _ := NewManager("")
		if err := m.SavePattern("ok", valid); !errors.Is(err, ErrNoDirectory) {
			t.Errorf("Expected ErrNoDirectory, got %v", err)
		}
	})

	t.Run("invalid pattern", func(t *testing.T) {
		m, _ := NewManager(t.TempDir())
		err := m.SavePattern("bad", &engine.Pattern{Name: "Bad", Layout: []string{"O", "OO"}})
		if !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("Expected ErrInvalidPattern, got %v", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		m, _ := NewManager(t.TempDir())
		if err := m.SavePattern("a/b", valid); !errors.Is(err, engine.ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writePatternFile(t, dir, "shared", &engine.Pattern{Name: "Shared", Layout: []string{"O"}})
	m, _ := NewManager(dir)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.LoadPattern("shared"); err != nil {
				t.Errorf("LoadPattern failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestIsBuiltin(t *testing.T) {
	if !IsBuiltin("glider") {
		t.Error("Expected glider to be built-in")
	}
	if IsBuiltin("pulsar") {
		t.Error("Expected pulsar not to be built-in")
	}
}
