package content

import (
	_ "embed"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded catalog source.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultYAML)
}
