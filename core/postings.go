package core

import (
	"sync"

	"github.com/21nOrg/searchfn/types"
)

// Posting is the in-memory record for one (field, term, docKey) entry.
type Posting struct {
	Frequency float64
	Metadata  *types.PostingMetadata
}

// FieldTerm identifies a dirty (field, term) pair.
type FieldTerm struct {
	Field string
	Term  string
}

// PostingsStore is the in-memory inverted index: field -> term ->
// docKey -> Posting, plus the dirty set of (field, term) pairs pending
// persistence.
//
// Grounded on huichen/wukong's core/indexer.go InvertedIndexShard
// (map[string]*KeywordIndices under a single RWMutex), generalized
// from one flat term map to a field-scoped map of maps, and from
// parallel DocIds/Frequencies slices kept in sorted order via binary
// search (wukong's searchIndex) to a doc-keyed map, since this
// kernel's invariant is "one chunk per term" rather than ordered
// merge-intersection across shards.
type PostingsStore struct {
	mu    sync.RWMutex
	table map[string]map[string]map[string]*Posting
	dirty map[FieldTerm]struct{}
}

func NewPostingsStore() *PostingsStore {
	return &PostingsStore{
		table: make(map[string]map[string]map[string]*Posting),
		dirty: make(map[FieldTerm]struct{}),
	}
}

// Upsert writes/overwrites the posting for (field, term, docKey) and
// marks the pair dirty.
func (s *PostingsStore) Upsert(field, term, docKey string, freq float64, meta *types.PostingMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	terms := s.table[field]
	if terms == nil {
		terms = make(map[string]map[string]*Posting)
		s.table[field] = terms
	}
	docs := terms[term]
	if docs == nil {
		docs = make(map[string]*Posting)
		terms[term] = docs
	}
	docs[docKey] = &Posting{Frequency: freq, Metadata: meta}
	s.markDirtyLocked(field, term)
}

// Get returns a snapshot copy of the posting list for (field, term),
// or nil if absent.
func (s *PostingsStore) Get(field, term string) map[string]*Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, ok := s.table[field][term]
	if !ok {
		return nil
	}
	out := make(map[string]*Posting, len(docs))
	for k, v := range docs {
		p := *v
		out[k] = &p
	}
	return out
}

// RemoveDocument walks every posting list, removing docKey wherever
// present, marking each affected term dirty. Terms whose doc map
// becomes empty are returned so the caller can queue their deletion on
// the next flush.
func (s *PostingsStore) RemoveDocument(docKey string) (emptied []FieldTerm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for field, terms := range s.table {
		for term, docs := range terms {
			if _, ok := docs[docKey]; !ok {
				continue
			}
			delete(docs, docKey)
			s.markDirtyLocked(field, term)
			if len(docs) == 0 {
				emptied = append(emptied, FieldTerm{Field: field, Term: term})
			}
		}
	}
	return emptied
}

// DeleteTerm removes (field, term) entirely from memory, e.g. after
// its doc map emptied and the deletion has been persisted.
func (s *PostingsStore) DeleteTerm(field, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if terms, ok := s.table[field]; ok {
		delete(terms, term)
	}
}

// DirtyPairs returns a snapshot of the dirty set.
func (s *PostingsStore) DirtyPairs() []FieldTerm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FieldTerm, 0, len(s.dirty))
	for ft := range s.dirty {
		out = append(out, ft)
	}
	return out
}

// MarkDirty marks (field, term) dirty without mutating postings, used
// by snapshot import.
func (s *PostingsStore) MarkDirty(field, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markDirtyLocked(field, term)
}

func (s *PostingsStore) markDirtyLocked(field, term string) {
	s.dirty[FieldTerm{Field: field, Term: term}] = struct{}{}
}

// ClearDirty empties the dirty set (called on successful flush).
func (s *PostingsStore) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = make(map[FieldTerm]struct{})
}

// Clear drops all in-memory postings and dirty state.
func (s *PostingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = make(map[string]map[string]map[string]*Posting)
	s.dirty = make(map[FieldTerm]struct{})
}

// DocFrequency returns len(postings) for (field, term): document
// frequency always equals the decoded posting list's length.
func (s *PostingsStore) DocFrequency(field, term string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table[field][term])
}

// Snapshot returns a deep copy of every posting list currently held in
// memory, keyed by (field, term), for export.
func (s *PostingsStore) Snapshot() map[FieldTerm]map[string]*Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[FieldTerm]map[string]*Posting)
	for field, terms := range s.table {
		for term, docs := range terms {
			cp := make(map[string]*Posting, len(docs))
			for docKey, p := range docs {
				v := *p
				cp[docKey] = &v
			}
			out[FieldTerm{Field: field, Term: term}] = cp
		}
	}
	return out
}

// Load replaces all in-memory postings with entries, marking every
// (field, term) pair dirty so the caller can persist the imported
// state.
func (s *PostingsStore) Load(entries map[FieldTerm]map[string]*Posting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = make(map[string]map[string]map[string]*Posting)
	s.dirty = make(map[FieldTerm]struct{})
	for ft, docs := range entries {
		terms := s.table[ft.Field]
		if terms == nil {
			terms = make(map[string]map[string]*Posting)
			s.table[ft.Field] = terms
		}
		terms[ft.Term] = docs
		s.markDirtyLocked(ft.Field, ft.Term)
	}
}
