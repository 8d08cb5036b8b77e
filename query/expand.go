// Package query implements query-token construction, fuzzy expansion,
// mode selection, and BM25-like scoring.
//
// Grounded on huichen/wukong's core/ranker.go, which builds a
// RankOptions-driven scored merge over posting lists; this generalizes
// that shape to a query-token set, vocabulary fuzzy expansion, and an
// explicit BM25 formula, swapping wukong's homegrown edit-distance-free
// ranking for github.com/agnivade/levenshtein (an indirect dependency
// of sushant-115/gojodb's go.mod, pulled in transitively via
// hashicorp/raft).
package query

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/21nOrg/searchfn/cache"
	"github.com/21nOrg/searchfn/vocabulary"
)

const expansionCacheCapacity = 1000

// Expander wraps a Vocabulary with a bounded, vocabulary-mutation-
// invalidated cache of fuzzyExpand results.
type Expander struct {
	vocab *vocabulary.Vocabulary
	cache *cache.LRU[string, []string]
}

// NewExpander builds an Expander over vocab, registering an observer
// that clears the expansion cache on any vocabulary mutation.
func NewExpander(vocab *vocabulary.Vocabulary) (*Expander, error) {
	c, err := cache.New[string, []string](expansionCacheCapacity)
	if err != nil {
		return nil, err
	}
	e := &Expander{vocab: vocab, cache: c}
	vocab.OnMutate(func() { e.cache.Clear() })
	return e, nil
}

// Expand returns fuzzyExpand(term, d, vocabulary), cached by "term:d".
func (e *Expander) Expand(term string, d int) []string {
	key := term + ":" + strconv.Itoa(d)
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}
	result := FuzzyExpand(term, d, e.vocab.Terms())
	e.cache.Set(key, result)
	return result
}

// FuzzyExpand returns the set of vocab entries within capped
// Levenshtein distance of term: caps d to [1,3], lowercases term for
// comparison, skips entries whose length differs from term's by more
// than the capped distance, and returns matches preserving their
// original vocabulary casing.
func FuzzyExpand(term string, d int, vocab []string) []string {
	capped := d
	if capped < 1 {
		capped = 1
	}
	if capped > 3 {
		capped = 3
	}
	lowerTerm := strings.ToLower(term)

	var out []string
	for _, v := range vocab {
		if abs(len(v)-len(lowerTerm)) > capped {
			continue
		}
		if levenshtein.ComputeDistance(lowerTerm, strings.ToLower(v)) <= capped {
			out = append(out, v)
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
