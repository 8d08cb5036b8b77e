// Package core implements the ingestion accumulator/indexer and the
// in-memory postings store with dirty tracking.
//
// Grounded on huichen/wukong's core/indexer.go, whose
// Indexer.AddDocument walks a *types.DocumentIndex's Keywords into a
// single global inverted index (map[string]*KeywordIndices). This
// package generalizes that shape to a per-field postings map
// (field -> term -> docKey -> posting) and splits "turn text into
// per-field term frequencies" (Accumulator/Indexer) from "merge those
// frequencies into the shared postings map" (PostingsStore) the way
// wukong splits segmenter_worker.go (tokenize) from indexer_worker.go
// (merge).
package core

import "github.com/21nOrg/searchfn/types"

// FieldAccumulation is the running per-field tally built while
// ingesting one document.
type FieldAccumulation struct {
	TermFrequencies map[string]int
	TermMetadata    map[string]*types.PostingMetadata
	Length          int
}

// Accumulator collects tokens into per-field FieldAccumulations.
type Accumulator struct {
	fields map[string]*FieldAccumulation
}

func NewAccumulator() *Accumulator {
	return &Accumulator{fields: make(map[string]*FieldAccumulation)}
}

// Add folds one token into its field's accumulation. Empty-valued
// tokens are dropped. Only the first non-nil metadata seen for a term
// is kept; later metadata for the same term is ignored.
func (a *Accumulator) Add(tok types.Token) {
	if tok.Value == "" {
		return
	}
	field := a.fields[tok.Field]
	if field == nil {
		field = &FieldAccumulation{
			TermFrequencies: make(map[string]int),
			TermMetadata:    make(map[string]*types.PostingMetadata),
		}
		a.fields[tok.Field] = field
	}
	field.TermFrequencies[tok.Value]++
	field.Length++
	if _, has := field.TermMetadata[tok.Value]; !has && tok.Metadata != nil {
		meta := &types.PostingMetadata{OriginalTerm: tok.Metadata.OriginalTerm}
		if tok.Metadata.IsPrefix != nil {
			meta.IsPrefix = *tok.Metadata.IsPrefix
		}
		field.TermMetadata[tok.Value] = meta
	}
}

// Fields returns the accumulated per-field state.
func (a *Accumulator) Fields() map[string]*FieldAccumulation {
	return a.fields
}
