// Package stats implements Document Stats: per-document total token
// length and a running average used by the scorer's
// document-length normalization.
package stats

import (
	"sort"
	"sync"

	"github.com/21nOrg/searchfn/types"
)

// Stats tracks lengths[docId] plus running totals so average length is
// O(1) to read.
type Stats struct {
	mu      sync.RWMutex
	lengths map[string]int
	total   int
	count   int
}

func New() *Stats {
	return &Stats{lengths: make(map[string]int)}
}

// AddDocument stores/overwrites lengths[docId], adjusting totals.
func (s *Stats) AddDocument(docId string, length int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.lengths[docId]; ok {
		s.total += length - prev
	} else {
		s.total += length
		s.count++
	}
	s.lengths[docId] = length
}

// RemoveDocument reverses AddDocument; removing an unknown docId is a
// no-op.
func (s *Stats) RemoveDocument(docId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.lengths[docId]
	if !ok {
		return
	}
	delete(s.lengths, docId)
	s.total -= prev
	s.count--
}

// Length returns the stored length for docId and whether it was found.
func (s *Stats) Length(docId string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.lengths[docId]
	return v, ok
}

// AverageLength returns total/count, or 1 when empty, to avoid
// division by zero in scoring.
func (s *Stats) AverageLength() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.count == 0 {
		return 1
	}
	return float64(s.total) / float64(s.count)
}

// Count returns the number of documents tracked.
func (s *Stats) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Snapshot emits a stable (docId-sorted) array of {docId, length}.
func (s *Stats) Snapshot() []types.DocLengthEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.DocLengthEntry, 0, len(s.lengths))
	for id, length := range s.lengths {
		out = append(out, types.DocLengthEntry{DocId: id, Length: length})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocId < out[j].DocId })
	return out
}

// Load replaces state atomically from a snapshot.
func (s *Stats) Load(entries []types.DocLengthEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lengths = make(map[string]int, len(entries))
	s.total = 0
	for _, e := range entries {
		s.lengths[e.DocId] = e.Length
		s.total += e.Length
	}
	s.count = len(s.lengths)
}

// Clear drops all tracked state.
func (s *Stats) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lengths = make(map[string]int)
	s.total = 0
	s.count = 0
}
