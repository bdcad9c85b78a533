// Command validate provides a small CLI that validates pattern JSON files in
// the ../patterns directory. It checks:
//   - JSON structure and required fields
//   - Grid consistency and allowed layout characters
//   - Size limits and a non-negative period
//   - Declared periods: the layout must return to itself after exactly that many generations
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/lifegame/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validatePattern loads and validates a single pattern JSON file.
func validatePattern(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var p engine.Pattern
	if err := json.Unmarshal(data, &p); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if strings.TrimSpace(p.Name) == "" {
		result.fail("Name is required")
	}
	if len(p.Layout) == 0 {
		result.fail("Layout is empty")
		return result
	}

	width := len(p.Layout[0])
	for i, row := range p.Layout {
		if len(row) != width {
			result.fail("Inconsistent grid width at row %d: expected %d, got %d", i+1, width, len(row))
		}
	}
	if !result.Valid {
		return result
	}

	if err := engine.ValidatePattern(&p); err != nil {
		result.fail("%v", err)
		return result
	}

	grid, err := p.Grid()
	if err != nil {
		result.fail("%v", err)
		return result
	}

	if p.Period > 0 {
		periodResult := validatePeriod(grid, p.Period)
		if !periodResult.Valid {
			result.Valid = false
		}
		result.Errors = append(result.Errors, periodResult.Errors...)
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", p.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", grid.Rows(), grid.Columns()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Live cells: %d", grid.LiveCount()))
	}

	return result
}

// validatePeriod checks that g first repeats itself after exactly period generations.
func validatePeriod(g *engine.Grid, period int) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	final, err := engine.FindFinalState(g, period)
	if err != nil {
		result.fail("Declared period %d: layout does not repeat within %d generations", period, period)
		return result
	}

	if final.FirstSeen != 0 {
		result.fail("Declared period %d: layout changes before cycling (cycle of %d starts at generation %d)", period, final.Period, final.FirstSeen)
		return result
	}
	if final.Period != period {
		result.fail("Declared period %d: layout repeats after %d generations", period, final.Period)
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Period: %d", period))
	return result
}

// main scans the pattern directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	patternDir := flag.String("dir", "../patterns", "Directory containing pattern files")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*patternDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding pattern files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validatePattern(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All patterns are valid!")
	} else {
		fmt.Println("❌ Some patterns have errors")
		os.Exit(1)
	}
}
