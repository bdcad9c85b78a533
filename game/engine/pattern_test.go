package engine

import (
	"strings"
	"testing"
)

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern *Pattern
		wantErr bool
	}{
		{"nil pattern", nil, true},
		{"missing name", &Pattern{Layout: []string{"OO", "OO"}}, true},
		{"empty layout", &Pattern{Name: "empty"}, true},
		{"ragged layout", &Pattern{Name: "ragged", Layout: []string{"OO", "O"}}, true},
		{"bad character", &Pattern{Name: "bad", Layout: []string{"O?"}}, true},
		{"negative period", &Pattern{Name: "block", Layout: []string{"OO", "OO"}, Period: -1}, true},
		{"too many rows", &Pattern{Name: "tall", Layout: make([]string, MaxPatternSize+1)}, true},
		{"too many columns", &Pattern{Name: "wide", Layout: []string{strings.Repeat(".", MaxPatternSize+1)}}, true},
		{"valid block", &Pattern{Name: "block", Layout: []string{"OO", "OO"}, Period: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePattern(tt.pattern)
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestPattern_Grid(t *testing.T) {
	p := &Pattern{Name: "blinker", Layout: []string{"...", "OOO", "..."}}
	g, err := p.Grid()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if g.Rows() != 3 || g.Columns() != 3 || g.LiveCount() != 3 {
		t.Errorf("Unexpected grid\n%s", g)
	}
}
