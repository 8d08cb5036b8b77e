// Package stemmer implements the pipeline's Stemmer capability: a
// deliberately simple English
// suffix stripper, and a pass-through for every other language. This
// is NOT a Porter stemmer; the narrowness of the CVC heuristic is
// deliberate and callers should not substitute a
// full Porter implementation.
package stemmer

import "github.com/21nOrg/searchfn/types"

// PassThrough returns its input unchanged; used for languages the
// pipeline has no stemmer for ("es"/"fr" use a no-op stemmer).
type PassThrough struct{}

func (PassThrough) Stem(value string) string { return value }

// cvcDoubledConsonants is the narrow alphabet the doubled-consonant
// heuristic applies to: collapsing e.g. "runn" -> "run".
var cvcDoubledConsonants = map[byte]struct{}{
	'b': {}, 'd': {}, 'f': {}, 'g': {}, 'l': {}, 'm': {},
	'n': {}, 'p': {}, 'r': {}, 's': {}, 't': {},
}

// English is a simple suffix-stripping stemmer: strips -ing/-ed/-s
// under length guards, then applies the
// short-stem CVC doubled-consonant collapse.
type English struct{}

func (English) Stem(value string) string {
	return stemEnglish(value)
}

const minStemLength = 3

func stemEnglish(value string) string {
	n := len(value)
	if n <= minStemLength {
		return value
	}

	switch {
	case hasSuffix(value, "ing") && n-3 >= minStemLength:
		value = value[:n-3]
	case hasSuffix(value, "ed") && n-2 >= minStemLength:
		value = value[:n-2]
	case hasSuffix(value, "s") && !hasSuffix(value, "ss") && n-1 >= minStemLength:
		value = value[:n-1]
	default:
		return value
	}

	return collapseDoubledConsonant(value)
}

// collapseDoubledConsonant implements the narrow CVC heuristic: a stem
// ending in two identical consonants drawn from cvcDoubledConsonants
// (e.g. "runn" after stripping "-ing" from "running") collapses to a
// single consonant ("run").
func collapseDoubledConsonant(stem string) string {
	n := len(stem)
	if n < 2 {
		return stem
	}
	last := stem[n-1]
	secondLast := stem[n-2]
	if last != secondLast {
		return stem
	}
	if _, ok := cvcDoubledConsonants[last]; !ok {
		return stem
	}
	return stem[:n-1]
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// ForLanguage returns the default stemmer for a language:
// language-selection table: English gets the suffix stripper, every
// other recognized or unrecognized language gets PassThrough.
func ForLanguage(lang types.Language) types.Stemmer {
	switch lang {
	case types.LanguageEnglish, "english", "":
		return English{}
	default:
		return PassThrough{}
	}
}
