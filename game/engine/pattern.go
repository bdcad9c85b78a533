package engine

import (
	"fmt"
	"strings"
)

// MaxPatternSize caps each pattern dimension loaded from disk or the API.
const MaxPatternSize = 256

// Pattern is a named starting configuration, stored as JSON.
type Pattern struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Layout      []string `json:"layout"`
	// Period is informational: 1 for still lifes, >1 for oscillators, 0 when
	// the pattern does not settle (e.g. spaceships) or is unknown.
	Period int `json:"period,omitempty"`
}

// Grid parses the pattern layout.
func (p *Pattern) Grid() (*Grid, error) {
	return ParseLayout(p.Layout)
}

// ValidatePattern checks a pattern for correctness.
func ValidatePattern(p *Pattern) error {
	if p == nil {
		return fmt.Errorf("pattern validation: pattern is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("pattern validation: name is required")
	}
	if len(p.Layout) > MaxPatternSize {
		return fmt.Errorf("pattern validation: layout has %d rows, at most %d allowed", len(p.Layout), MaxPatternSize)
	}
	for i, row := range p.Layout {
		if len(row) > MaxPatternSize {
			return fmt.Errorf("pattern validation: row %d has %d cells, at most %d allowed", i, len(row), MaxPatternSize)
		}
	}
	if p.Period < 0 {
		return fmt.Errorf("pattern validation: period must not be negative, got %d", p.Period)
	}
	if _, err := p.Grid(); err != nil {
		return fmt.Errorf("pattern validation: %w", err)
	}
	return nil
}
