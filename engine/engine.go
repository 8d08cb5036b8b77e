// Package engine wires together the pipeline, accumulator/indexer,
// postings store, stats, vocabulary, cache and query packages into a
// single Engine facade.
//
// Grounded on huichen/wukong's engine/engine.go, which assembles its
// indexer/ranker/segmenter/storage workers behind one
// Engine struct with channel-backed RPCs; this generalizes that
// assembly to a single-threaded cooperative scheduling model: every
// public method runs its work directly on the caller's goroutine
// instead of dispatching to a worker channel. The internal concurrency
// is Flush's four independent sub-operations and persistPostings'
// parallel term-chunk deletions.
package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/21nOrg/searchfn/cache"
	"github.com/21nOrg/searchfn/core"
	"github.com/21nOrg/searchfn/ftslog"
	"github.com/21nOrg/searchfn/query"
	"github.com/21nOrg/searchfn/stats"
	"github.com/21nOrg/searchfn/storage"
	"github.com/21nOrg/searchfn/types"
	"github.com/21nOrg/searchfn/vocabulary"
)

// cachedTerm is the term cache's value type: a decoded posting list
// plus the chunk statistics needed to score it, without re-fetching or
// re-decoding on every query.
type cachedTerm struct {
	Postings                 []query.PostingEntry
	DocFrequency             int
	InverseDocumentFrequency *float64
}

// Engine is the facade for one named index: it holds all in-memory
// state plus a reference to the injected persistence adapter.
type Engine struct {
	cfg     types.EngineConfig
	adapter storage.Adapter
	logger  ftslog.Logger

	pipelines *pipelineSet
	indexer   *core.Indexer
	postings  *core.PostingsStore
	docStats  *stats.Stats
	vocab     *vocabulary.Vocabulary
	expander  *query.Expander

	termCache *cache.LRU[string, cachedTerm]

	pendingMu        sync.Mutex
	pendingDocuments map[string][]byte

	dirtyVocabulary atomic.Bool

	openMu sync.Mutex
	opened bool
}

// New builds an Engine over adapter, applying cfg's defaults. A nil
// logger falls back to ftslog.Nop().
func New(cfg types.EngineConfig, adapter storage.Adapter, logger ftslog.Logger) (*Engine, error) {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = ftslog.Nop()
	}

	vocab := vocabulary.New()
	termCache, err := cache.New[string, cachedTerm](cfg.Cache.Terms)
	if err != nil {
		return nil, err
	}
	expander, err := query.NewExpander(vocab)
	if err != nil {
		return nil, err
	}

	ps := newPipelineSet(cfg.Pipeline)
	e := &Engine{
		cfg:              cfg,
		adapter:          adapter,
		logger:           logger,
		pipelines:        ps,
		postings:         core.NewPostingsStore(),
		docStats:         stats.New(),
		vocab:            vocab,
		expander:         expander,
		termCache:        termCache,
		pendingDocuments: make(map[string][]byte),
	}
	e.indexer = core.NewIndexer(ps)
	return e, nil
}

// NewDocID mints a fresh string DocId (a supplemented convenience not
// named by the distilled operation list: callers that don't carry a
// natural key still need a stable canonical id for Add).
func (e *Engine) NewDocID() types.DocId {
	return types.StringDocId(uuid.NewString())
}

func (e *Engine) ensureOpen(ctx context.Context) error {
	e.openMu.Lock()
	defer e.openMu.Unlock()
	if e.opened {
		return nil
	}
	if err := e.adapter.Open(ctx, e.cfg.Storage.Version); err != nil {
		e.logger.Errorf("engine: failed to open adapter for index %q: %v", e.cfg.Name, err)
		return err
	}
	e.logger.Infof("engine: index %q opened at storage version %d", e.cfg.Name, e.cfg.Storage.Version)
	e.opened = true
	return nil
}

func cacheKey(field, term string) string {
	return field + "\x00" + term
}

// Add ingests one document, upserts its postings, refreshes the term
// cache, and — unless opts.Persist is explicitly false — persists and
// stores its payload immediately. opts == nil means {persist: true}.
func (e *Engine) Add(ctx context.Context, input types.AddInput, opts *types.AddOptions) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	persist := true
	if opts != nil {
		persist = opts.Persist
	}

	res, err := e.indexer.Ingest(input.Id, input.Fields)
	if err != nil {
		return err
	}
	if res.TotalLength == 0 {
		return nil
	}

	docKey := input.Id.Canonical()
	e.docStats.AddDocument(docKey, res.TotalLength)
	touched := e.applyIngestResult(docKey, res)
	e.refreshCache(touched)

	if persist {
		if err := e.persistPostings(ctx); err != nil {
			return err
		}
	}

	if input.HasStore {
		if persist {
			if err := e.persistDocument(ctx, docKey, input.Store); err != nil {
				return err
			}
		} else {
			e.pendingMu.Lock()
			e.pendingDocuments[docKey] = input.Store
			e.pendingMu.Unlock()
		}
	}
	return nil
}

// applyIngestResult folds one document's ingest result into postings
// and vocabulary, returning every (field, term) pair it touched.
func (e *Engine) applyIngestResult(docKey string, res core.IngestResult) []core.FieldTerm {
	var touched []core.FieldTerm
	for field, freqs := range res.FieldFrequencies {
		metaByTerm := res.FieldMetadata[field]
		for term, freq := range freqs {
			meta := metaByTerm[term]
			e.postings.Upsert(field, term, docKey, float64(freq), meta)
			touched = append(touched, core.FieldTerm{Field: field, Term: term})
			if meta == nil || !meta.IsPrefix {
				if e.vocab.Insert(term) {
					e.dirtyVocabulary.Store(true)
				}
			}
		}
	}
	return touched
}

// refreshCache rewrites the term cache entry for each touched pair
// directly from the in-memory postings store, so it is immediately
// queryable without a round trip to the adapter.
func (e *Engine) refreshCache(touched []core.FieldTerm) {
	seen := make(map[core.FieldTerm]struct{}, len(touched))
	for _, ft := range touched {
		if _, ok := seen[ft]; ok {
			continue
		}
		seen[ft] = struct{}{}
		docs := e.postings.Get(ft.Field, ft.Term)
		e.termCache.Set(cacheKey(ft.Field, ft.Term), postingsToCachedTerm(docs))
	}
}

func postingsToCachedTerm(docs map[string]*core.Posting) cachedTerm {
	entries := make([]query.PostingEntry, 0, len(docs))
	for docId, p := range docs {
		entries = append(entries, query.PostingEntry{
			DocId:         docId,
			TermFrequency: p.Frequency,
			IsPrefix:      p.Metadata != nil && p.Metadata.IsPrefix,
		})
	}
	return cachedTerm{Postings: entries, DocFrequency: len(docs)}
}

// Remove strips docId's postings from every in-memory list it appears
// in, persists the resulting dirty state, invalidates the term cache
// for every affected pair, then drops the document's stats entry and
// stored payload.
func (e *Engine) Remove(ctx context.Context, docId types.DocId) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	docKey := docId.Canonical()
	e.postings.RemoveDocument(docKey)

	for _, ft := range e.postings.DirtyPairs() {
		e.termCache.Delete(cacheKey(ft.Field, ft.Term))
	}
	if err := e.persistPostings(ctx); err != nil {
		return err
	}

	e.docStats.RemoveDocument(docKey)
	e.pendingMu.Lock()
	delete(e.pendingDocuments, docKey)
	e.pendingMu.Unlock()
	return e.adapter.WithTransaction(ctx, []storage.Store{storage.StoreDocuments}, storage.ReadWrite, func(tx storage.Tx) error {
		return tx.DeleteDocument(docKey)
	})
}

// GetDocument returns docId's stored payload, if any.
func (e *Engine) GetDocument(ctx context.Context, docId types.DocId) ([]byte, bool, error) {
	if err := e.ensureOpen(ctx); err != nil {
		return nil, false, err
	}
	var rec storage.DocumentRecord
	var found bool
	err := e.adapter.WithTransaction(ctx, []storage.Store{storage.StoreDocuments}, storage.ReadOnly, func(tx storage.Tx) error {
		var err error
		rec, found, err = tx.GetDocument(docId.Canonical())
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return rec.Payload, found, nil
}

// Clear drops all in-memory state and empties every object store the
// adapter manages for this index.
func (e *Engine) Clear(ctx context.Context) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	e.postings.Clear()
	e.docStats.Clear()
	e.vocab.Clear()
	e.termCache.Clear()
	e.pendingMu.Lock()
	e.pendingDocuments = make(map[string][]byte)
	e.pendingMu.Unlock()
	e.dirtyVocabulary.Store(false)

	for _, store := range []storage.Store{storage.StoreMetadata, storage.StoreTerms, storage.StoreVectors, storage.StoreDocuments, storage.StoreCacheState} {
		if err := e.adapter.ClearStore(ctx, store); err != nil {
			return err
		}
	}
	return nil
}

// Destroy clears in-memory state and deletes the underlying database.
func (e *Engine) Destroy(ctx context.Context) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	e.postings.Clear()
	e.docStats.Clear()
	e.vocab.Clear()
	e.termCache.Clear()
	e.pendingMu.Lock()
	e.pendingDocuments = make(map[string][]byte)
	e.pendingMu.Unlock()

	if err := e.adapter.DeleteDatabase(ctx); err != nil {
		return err
	}
	e.openMu.Lock()
	e.opened = false
	e.openMu.Unlock()
	return nil
}

// Close flushes any pending writes and closes the underlying adapter.
// Safe to call on an Engine that was never opened.
func (e *Engine) Close(ctx context.Context) error {
	e.openMu.Lock()
	opened := e.opened
	e.openMu.Unlock()
	if !opened {
		return nil
	}
	if err := e.Flush(ctx); err != nil {
		return err
	}
	if err := e.adapter.Close(ctx); err != nil {
		e.logger.Errorf("engine: failed to close adapter for index %q: %v", e.cfg.Name, err)
		return err
	}
	e.openMu.Lock()
	e.opened = false
	e.openMu.Unlock()
	return nil
}
