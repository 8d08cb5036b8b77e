// Package vocabulary implements the Vocabulary data model: the set of
// original (non-prefix) terms ever indexed, which fuels fuzzy query
// expansion. Entries are append-only in-session; only
// Clear drops them.
package vocabulary

import "sync"

// Vocabulary is a mutation-observable string set. Observers are
// notified on every Insert that adds a term, and on every Load and
// Clear, so the fuzzy-expansion cache can invalidate
// itself: any mutation to the vocabulary invalidates the full
// expansion cache.
type Vocabulary struct {
	mu      sync.RWMutex
	terms   map[string]struct{}
	onMutate []func()
}

func New() *Vocabulary {
	return &Vocabulary{terms: make(map[string]struct{})}
}

// OnMutate registers a callback invoked synchronously after any
// Insert that adds a term, and after any Load or Clear.
func (v *Vocabulary) OnMutate(fn func()) {
	v.mu.Lock()
	v.onMutate = append(v.onMutate, fn)
	v.mu.Unlock()
}

// Insert adds term if absent, returning true if it was newly inserted.
func (v *Vocabulary) Insert(term string) bool {
	v.mu.Lock()
	_, found := v.terms[term]
	if !found {
		v.terms[term] = struct{}{}
	}
	v.mu.Unlock()
	if !found {
		v.notify()
	}
	return !found
}

// Has reports whether term is in the vocabulary.
func (v *Vocabulary) Has(term string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.terms[term]
	return ok
}

// Terms returns a snapshot slice of all terms (unordered).
func (v *Vocabulary) Terms() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, 0, len(v.terms))
	for t := range v.terms {
		out = append(out, t)
	}
	return out
}

// Load replaces the vocabulary wholesale (used by snapshot import),
// firing OnMutate once after the whole load rather than per term.
func (v *Vocabulary) Load(terms []string) {
	v.mu.Lock()
	v.terms = make(map[string]struct{}, len(terms))
	for _, t := range terms {
		v.terms[t] = struct{}{}
	}
	v.mu.Unlock()
	v.notify()
}

// Clear drops all entries.
func (v *Vocabulary) Clear() {
	v.mu.Lock()
	v.terms = make(map[string]struct{})
	v.mu.Unlock()
	v.notify()
}

func (v *Vocabulary) notify() {
	v.mu.RLock()
	observers := append([]func(){}, v.onMutate...)
	v.mu.RUnlock()
	for _, fn := range observers {
		fn()
	}
}
