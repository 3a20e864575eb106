// Package stdlib holds the preset formulas shipped with fieldgen.
package stdlib

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a named formula.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Formula     string `yaml:"formula"`
}

// Presets returns the embedded presets in file order.
func Presets() ([]Preset, error) {
	var presets []Preset
	if err := yaml.Unmarshal(presetsYAML, &presets); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	return presets, nil
}

// Digest identifies the embedded preset file. It changes whenever a preset
// is added, removed, or edited.
func Digest() string {
	sum := sha256.Sum256(presetsYAML)
	return hex.EncodeToString(sum[:])
}
