// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/material-logger/pkg/types"
)

var defaultMaterials = []string{
	"cement", "sand", "stone", "brick", "steel", "gravel", "concrete", "wood",
	"glass", "aluminum", "plastic", "bitumen", "clay", "gypsum", "asphalt",
	"lime", "marble", "granite", "tiles", "paint", "pvc", "iron", "fiber",
	"rebar", "mortar", "aggregate", "plaster", "ceramic", "bamboo",
}

var defaultUnits = []string{
	"kg", "kgs", "ton", "tons", "bags", "m3", "liters", "liter", "l", "cft",
	"cuft", "ft", "feet", "inch", "inches", "mm", "cm", "meter", "meters",
	"sqm", "sqft", "nos", "pieces", "units", "rolls", "bundle", "bundles",
	"set", "sets", "pair", "pairs",
}

// Vocabulary is an immutable pair of keyword sets. The zero value recognizes
// nothing.
type Vocabulary struct {
	materials map[string]struct{}
	units     map[string]struct{}
}

// NewVocabulary builds a Vocabulary from the given lists. Entries are trimmed
// and lower-cased; blanks are dropped.
func NewVocabulary(materials, units []string) Vocabulary {
	return Vocabulary{
		materials: toSet(materials),
		units:     toSet(units),
	}
}

// DefaultVocabulary returns the built-in material and unit lists.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(defaultMaterials, defaultUnits)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// IsMaterial reports whether tok is a material keyword.
func (v Vocabulary) IsMaterial(tok string) bool {
	_, ok := v.materials[tok]
	return ok
}

// IsUnit reports whether tok is a unit keyword.
func (v Vocabulary) IsUnit(tok string) bool {
	_, ok := v.units[tok]
	return ok
}

// Materials returns the material keywords in sorted order.
func (v Vocabulary) Materials() []string {
	return sortedKeys(v.materials)
}

// Units returns the unit keywords in sorted order.
func (v Vocabulary) Units() []string {
	return sortedKeys(v.units)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// vocabularyFile is the on-disk form of a vocabulary.
type vocabularyFile struct {
	Materials []string `yaml:"materials"`
	Units     []string `yaml:"units"`
}

// LoadVocabulary reads a YAML file with materials and units lists. A list
// missing from the file falls back to the built-in one.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("reading vocabulary file: %w", err)
	}
	var vf vocabularyFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return Vocabulary{}, fmt.Errorf("parsing vocabulary file %s: %w", path, err)
	}
	if len(vf.Materials) == 0 {
		vf.Materials = defaultMaterials
	}
	if len(vf.Units) == 0 {
		vf.Units = defaultUnits
	}
	return NewVocabulary(vf.Materials, vf.Units), nil
}

// VocabularyFromConfig resolves the configured vocabulary: a file when set,
// otherwise inline lists, otherwise the defaults.
func VocabularyFromConfig(cfg types.VocabularyConfig) (Vocabulary, error) {
	if cfg.File != "" {
		return LoadVocabulary(cfg.File)
	}
	materials, units := cfg.Materials, cfg.Units
	if len(materials) == 0 {
		materials = defaultMaterials
	}
	if len(units) == 0 {
		units = defaultUnits
	}
	return NewVocabulary(materials, units), nil
}
