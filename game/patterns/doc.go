// Package patterns provides the library of named starting patterns.
//
// The patterns package handles:
//   - Built-in patterns (block, beehive, blinker, toad, beacon, glider)
//   - Loading patterns from JSON files in a directory
//   - Caching loaded patterns
//   - Listing and saving patterns
//
// Pattern Format:
//
// Each pattern file is named <id>.json and holds an engine.Pattern:
//
//	{
//	  "name": "Blinker",
//	  "description": "Period 2 oscillator",
//	  "layout": [".....", ".....", ".OOO.", ".....", "....."],
//	  "period": 2
//	}
//
// Layout rows use O for live cells and . for dead ones; see
// engine.ParseLayout for the accepted characters. A file with the same
// id as a built-in replaces it.
//
// Usage:
//
//	manager, err := patterns.NewManager("patterns")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	glider, err := manager.LoadPattern("glider")
//	list, err := manager.ListPatterns()
package patterns
