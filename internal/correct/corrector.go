// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package correct snaps misheard material words in a transcript onto the
// material vocabulary before extraction. Candidates are found by Double
// Metaphone code overlap and ranked by Jaro-Winkler similarity; when no code
// overlaps, a stricter pure Jaro-Winkler pass is tried.
package correct

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"github.com/pdiddy/material-logger/internal/extract"
	"github.com/pdiddy/material-logger/pkg/types"
)

// Correction methods.
const (
	MethodPhonetic = "phonetic"
	MethodFuzzy    = "fuzzy"
)

const (
	defaultPhoneticThreshold = 0.85
	defaultFuzzyThreshold    = 0.95

	// minWordLen keeps short words like "and" or "lay" out of reach.
	minWordLen = 4
)

// Correction records one replaced word.
type Correction struct {
	Original   string  `json:"original" yaml:"original"`
	Corrected  string  `json:"corrected" yaml:"corrected"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Method     string  `json:"method" yaml:"method"`
}

var wordPattern = regexp.MustCompile(`\p{L}+`)

// Corrector is read-only after construction and safe for concurrent use.
type Corrector struct {
	vocab             extract.Vocabulary
	targets           []target
	phoneticThreshold float64
	fuzzyThreshold    float64
}

type target struct {
	word  string
	codes [2]string
}

// New builds a Corrector for the materials in vocab. Zero thresholds in cfg
// select the defaults.
func New(vocab extract.Vocabulary, cfg types.CorrectionConfig) *Corrector {
	c := &Corrector{
		vocab:             vocab,
		phoneticThreshold: cfg.PhoneticThreshold,
		fuzzyThreshold:    cfg.FuzzyThreshold,
	}
	if c.phoneticThreshold <= 0 {
		c.phoneticThreshold = defaultPhoneticThreshold
	}
	if c.fuzzyThreshold <= 0 {
		c.fuzzyThreshold = defaultFuzzyThreshold
	}
	for _, m := range vocab.Materials() {
		p, s := matchr.DoubleMetaphone(m)
		c.targets = append(c.targets, target{word: m, codes: [2]string{p, s}})
	}
	return c
}

// Correct returns text with misheard material words replaced, plus the
// replacements made in order of appearance. Text with nothing to correct is
// returned unchanged.
func (c *Corrector) Correct(text string) (string, []Correction) {
	var corrections []Correction
	out := wordPattern.ReplaceAllStringFunc(text, func(word string) string {
		fixed, ok := c.match(word)
		if !ok {
			return word
		}
		corrections = append(corrections, fixed)
		return fixed.Corrected
	})
	return out, corrections
}

func (c *Corrector) match(word string) (Correction, bool) {
	lower := strings.ToLower(word)
	if utf8.RuneCountInString(lower) < minWordLen || c.vocab.IsMaterial(lower) || c.vocab.IsUnit(lower) {
		return Correction{}, false
	}

	p, s := matchr.DoubleMetaphone(lower)

	var (
		best      Correction
		bestScore float64
	)
	for _, t := range c.targets {
		score := matchr.JaroWinkler(lower, t.word, false)
		method := MethodFuzzy
		threshold := c.fuzzyThreshold
		if codesOverlap(p, s, t.codes) {
			method = MethodPhonetic
			threshold = c.phoneticThreshold
		}
		if score < threshold {
			continue
		}
		// A phonetic candidate always beats a fuzzy one.
		if best.Method == MethodPhonetic && method == MethodFuzzy {
			continue
		}
		if score > bestScore || (method == MethodPhonetic && best.Method == MethodFuzzy) {
			best = Correction{Original: word, Corrected: t.word, Confidence: score, Method: method}
			bestScore = score
		}
	}
	return best, best.Corrected != ""
}

func codesOverlap(p, s string, codes [2]string) bool {
	for _, a := range []string{p, s} {
		if a == "" {
			continue
		}
		if a == codes[0] || a == codes[1] {
			return true
		}
	}
	return false
}
