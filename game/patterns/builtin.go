package patterns

import "github.com/wricardo/mcp-training/lifegame/game/engine"

// builtins are always available, even without a pattern directory.
var builtins = map[string]*engine.Pattern{
	"block": {
		Name:        "Block",
		Description: "2x2 still life",
		Layout: []string{
			"....",
			".OO.",
			".OO.",
			"....",
		},
		Period: 1,
	},
	"beehive": {
		Name:        "Beehive",
		Description: "Six cell still life",
		Layout: []string{
			"......",
			"..OO..",
			".O..O.",
			"..OO..",
			"......",
		},
		Period: 1,
	},
	"blinker": {
		Name:        "Blinker",
		Description: "Period 2 oscillator, three cells in a row",
		Layout: []string{
			".....",
			".....",
			".OOO.",
			".....",
			".....",
		},
		Period: 2,
	},
	"toad": {
		Name:        "Toad",
		Description: "Period 2 oscillator",
		Layout: []string{
			"......",
			"......",
			"..OOO.",
			".OOO..",
			"......",
			"......",
		},
		Period: 2,
	},
	"beacon": {
		Name:        "Beacon",
		Description: "Period 2 oscillator made of two diagonal blocks",
		Layout: []string{
			"......",
			".OO...",
			".OO...",
			"...OO.",
			"...OO.",
			"......",
		},
		Period: 2,
	},
	"glider": {
		Name:        "Glider",
		Description: "Spaceship moving one cell diagonally every 4 generations; settles once it hits the edge",
		Layout: []string{
			".O......",
			"..O.....",
			"OOO.....",
			"........",
			"........",
			"........",
			"........",
			"........",
		},
	},
}

// IsBuiltin reports whether name is one of the built-in patterns.
func IsBuiltin(name string) bool {
	_, ok := builtins[normalizeName(name)]
	return ok
}
