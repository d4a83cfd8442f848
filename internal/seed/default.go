package seed

import _ "embed"

//go:embed default.yaml
var defaultSeed []byte

// Default returns the built-in seed data
func Default() (*File, error) {
	return Parse(defaultSeed)
}
