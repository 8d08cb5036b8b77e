package engine

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/21nOrg/searchfn/codec"
	"github.com/21nOrg/searchfn/core"
	"github.com/21nOrg/searchfn/query"
	"github.com/21nOrg/searchfn/storage"
	"github.com/21nOrg/searchfn/types"
)

// Search runs searchDetailed and returns just the ranked docIds.
func (e *Engine) Search(ctx context.Context, q string, opts types.SearchOptions) ([]string, error) {
	hits, err := e.SearchDetailed(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.DocId
	}
	return ids, nil
}

// SearchDetailed builds query tokens, resolves each one's posting list
// via the term cache (falling back to the adapter), scores, sorts,
// truncates, and optionally attaches stored payloads.
func (e *Engine) SearchDetailed(ctx context.Context, q string, opts types.SearchOptions) ([]types.ScoredHit, error) {
	if err := e.ensureOpen(ctx); err != nil {
		return nil, err
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = e.cfg.Fields
	}

	trimmed := strings.TrimSpace(q)
	mode := query.DetermineSearchMode(trimmed, opts.Mode)
	fuzzy := query.EffectiveFuzzyDistance(mode, opts.Fuzzy)

	tokens, err := query.BuildQueryTokens(fields, q, e.pipelines, opts.ApplyQueryNGrams, fuzzy, e.expander)
	if err != nil {
		return nil, err
	}

	resolved := make([]query.ResolvedTerm, 0, len(tokens))
	for _, tok := range tokens {
		ct, err := e.resolveTerm(ctx, tok.Field, tok.Term)
		if err != nil {
			return nil, err
		}
		if ct == nil {
			continue
		}
		resolved = append(resolved, query.ResolvedTerm{
			Token:                    tok,
			Postings:                 ct.Postings,
			DocFrequency:             ct.DocFrequency,
			InverseDocumentFrequency: ct.InverseDocumentFrequency,
		})
	}

	hits := query.Score(resolved, e.docStats.Length, e.docStats.AverageLength(), opts)

	if opts.IncludeStored {
		for i := range hits {
			payload, found, err := e.GetDocument(ctx, types.StringDocId(hits[i].DocId))
			if err != nil {
				return nil, err
			}
			if found {
				hits[i].Stored = payload
			}
		}
	}
	return hits, nil
}

// resolveTerm looks up (field, term) in the term cache, falling back
// to fetchPostingList on miss.
func (e *Engine) resolveTerm(ctx context.Context, field, term string) (*cachedTerm, error) {
	key := cacheKey(field, term)
	if ct, ok := e.termCache.Get(key); ok {
		return &ct, nil
	}
	return e.fetchPostingList(ctx, field, term)
}

// fetchPostingList fetches (field, term, 0) from the terms store,
// decodes it, caches the result, and returns it. Returns (nil, nil) if
// the chunk is absent, meaning the token contributes nothing.
func (e *Engine) fetchPostingList(ctx context.Context, field, term string) (*cachedTerm, error) {
	var chunk types.StoredPostingChunk
	var found bool
	err := e.adapter.WithTransaction(ctx, []storage.Store{storage.StoreTerms}, storage.ReadOnly, func(tx storage.Tx) error {
		var err error
		chunk, found, err = tx.GetTermChunk(field, term, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	decoded, err := codec.Decode(chunk.Payload, chunk.Encoding)
	if err != nil {
		return nil, err
	}
	entries := make([]query.PostingEntry, 0, len(decoded))
	for _, item := range decoded {
		if entry, ok := decodePostingEntry(item); ok {
			entries = append(entries, entry)
		}
	}

	ct := cachedTerm{
		Postings:                 entries,
		DocFrequency:             chunk.DocFrequency,
		InverseDocumentFrequency: chunk.InverseDocumentFrequency,
	}
	e.termCache.Set(cacheKey(field, term), ct)
	return &ct, nil
}

// decodePostingEntry parses one decoded array element into a
// query.PostingEntry: string entries are JSON-parsed as a wire posting
// when they decode to an object carrying a docId, else treated as a
// raw docId at frequency 1; raw numbers likewise become a frequency-1
// posting.
func decodePostingEntry(item interface{}) (query.PostingEntry, bool) {
	switch v := item.(type) {
	case string:
		var wp types.WirePosting
		if err := json.Unmarshal([]byte(v), &wp); err == nil && wp.DocId != "" {
			tf := wp.TermFrequency
			if tf <= 0 || math.IsInf(tf, 0) || math.IsNaN(tf) {
				tf = 1
			}
			isPrefix := wp.Metadata != nil && wp.Metadata.IsPrefix
			return query.PostingEntry{DocId: wp.DocId, TermFrequency: tf, IsPrefix: isPrefix}, true
		}
		return query.PostingEntry{DocId: v, TermFrequency: 1}, true
	case uint64:
		return query.PostingEntry{DocId: strconv.FormatUint(v, 10), TermFrequency: 1}, true
	case float64:
		return query.PostingEntry{DocId: strconv.FormatFloat(v, 'f', -1, 64), TermFrequency: 1}, true
	default:
		return query.PostingEntry{}, false
	}
}

// WarmTerms force-loads each (field, term) pair not already in the
// term cache from the terms store into the term cache. It loads nothing
// into the in-memory postings store that Remove edits, so a later
// Remove does not strip the document from a warmed term's persisted
// chunk or from its cache entry.
func (e *Engine) WarmTerms(ctx context.Context, pairs []core.FieldTerm) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	for _, ft := range pairs {
		if _, ok := e.termCache.Get(cacheKey(ft.Field, ft.Term)); ok {
			continue
		}
		if _, err := e.fetchPostingList(ctx, ft.Field, ft.Term); err != nil {
			return err
		}
	}
	return nil
}
