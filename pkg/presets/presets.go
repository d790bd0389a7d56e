package presets

import (
	"embed"
)

// The configs that can be referenced with "preset:<name>" or in "extends".
//
//go:embed configs/*.yaml
var Presets embed.FS
