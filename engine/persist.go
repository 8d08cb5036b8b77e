package engine

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/21nOrg/searchfn/codec"
	"github.com/21nOrg/searchfn/core"
	"github.com/21nOrg/searchfn/storage"
	"github.com/21nOrg/searchfn/types"
)

// persistPostings walks the dirty set once, writing a chunk for every
// term whose doc map is non-empty and deleting the stored chunk for
// every term whose doc map emptied out, then clears the dirty set.
func (e *Engine) persistPostings(ctx context.Context) error {
	dirty := e.postings.DirtyPairs()
	if len(dirty) == 0 {
		return nil
	}

	var chunks []types.StoredPostingChunk
	var deletions []core.FieldTerm

	for _, ft := range dirty {
		docs := e.postings.Get(ft.Field, ft.Term)
		if len(docs) == 0 {
			deletions = append(deletions, ft)
			e.postings.DeleteTerm(ft.Field, ft.Term)
			continue
		}
		chunk, err := encodePostingChunk(ft.Field, ft.Term, docs)
		if err != nil {
			return err
		}
		chunks = append(chunks, chunk)
	}

	if err := e.deleteTermChunks(ctx, deletions); err != nil {
		return err
	}
	if len(chunks) > 0 {
		err := e.adapter.WithTransaction(ctx, []storage.Store{storage.StoreTerms}, storage.ReadWrite, func(tx storage.Tx) error {
			return tx.PutTermChunksBatch(chunks)
		})
		if err != nil {
			return err
		}
	}

	e.postings.ClearDirty()
	return nil
}

// deleteTermChunks executes each deletion in parallel, each inside its
// own transaction, since every deletion targets a distinct key on the
// same disjoint store.
func (e *Engine) deleteTermChunks(ctx context.Context, deletions []core.FieldTerm) error {
	if len(deletions) == 0 {
		return nil
	}
	var wg sync.WaitGroup
	errs := make([]error, len(deletions))
	for i, ft := range deletions {
		wg.Add(1)
		go func(i int, ft core.FieldTerm) {
			defer wg.Done()
			errs[i] = e.adapter.WithTransaction(ctx, []storage.Store{storage.StoreTerms}, storage.ReadWrite, func(tx storage.Tx) error {
				return tx.DeleteTermChunk(ft.Field, ft.Term, 0)
			})
		}(i, ft)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// encodePostingChunk JSON-encodes each posting to a string, then hands
// the string array to codec.Encode, which selects the json path.
func encodePostingChunk(field, term string, docs map[string]*core.Posting) (types.StoredPostingChunk, error) {
	values := make([]interface{}, 0, len(docs))
	for docId, p := range docs {
		wp := types.WirePosting{DocId: docId, TermFrequency: p.Frequency, Metadata: p.Metadata}
		b, err := json.Marshal(wp)
		if err != nil {
			return types.StoredPostingChunk{}, err
		}
		values = append(values, string(b))
	}
	payload, encoding, err := codec.Encode(values)
	if err != nil {
		return types.StoredPostingChunk{}, err
	}
	return types.StoredPostingChunk{
		Field:        field,
		Term:         term,
		Chunk:        0,
		Payload:      payload,
		Encoding:     encoding,
		DocFrequency: len(docs),
	}, nil
}

func (e *Engine) persistDocument(ctx context.Context, docKey string, payload []byte) error {
	return e.adapter.WithTransaction(ctx, []storage.Store{storage.StoreDocuments}, storage.ReadWrite, func(tx storage.Tx) error {
		return tx.PutDocument(storage.DocumentRecord{DocId: docKey, Payload: payload})
	})
}

// batchPersistDocuments drains pendingDocuments into one batch put. The
// drained entries are only removed from pendingDocuments once the write
// succeeds; on failure they are left in place so the next Flush retries
// them, matching persistPostings' dirty-set and persistVocabulary's
// dirtyVocabulary retry discipline.
func (e *Engine) batchPersistDocuments(ctx context.Context) error {
	e.pendingMu.Lock()
	if len(e.pendingDocuments) == 0 {
		e.pendingMu.Unlock()
		return nil
	}
	recs := make([]storage.DocumentRecord, 0, len(e.pendingDocuments))
	for docId, payload := range e.pendingDocuments {
		recs = append(recs, storage.DocumentRecord{DocId: docId, Payload: payload})
	}
	e.pendingMu.Unlock()

	err := e.adapter.WithTransaction(ctx, []storage.Store{storage.StoreDocuments}, storage.ReadWrite, func(tx storage.Tx) error {
		return tx.PutDocumentsBatch(recs)
	})
	if err != nil {
		return err
	}

	e.pendingMu.Lock()
	for _, rec := range recs {
		delete(e.pendingDocuments, rec.DocId)
	}
	e.pendingMu.Unlock()
	return nil
}

// persistStats writes the document-length snapshot to cacheState
// under key "document-stats".
func (e *Engine) persistStats(ctx context.Context) error {
	snap := e.docStats.Snapshot()
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return e.adapter.WithTransaction(ctx, []storage.Store{storage.StoreCacheState}, storage.ReadWrite, func(tx storage.Tx) error {
		return tx.PutCacheState(storage.CacheStateRecord{Key: "document-stats", Payload: b})
	})
}

// persistVocabulary writes the vocabulary to cacheState under key
// "vocabulary", skipping the write entirely when nothing changed.
func (e *Engine) persistVocabulary(ctx context.Context) error {
	if !e.dirtyVocabulary.Load() {
		return nil
	}
	terms := e.vocab.Terms()
	b, err := json.Marshal(terms)
	if err != nil {
		return err
	}
	err = e.adapter.WithTransaction(ctx, []storage.Store{storage.StoreCacheState}, storage.ReadWrite, func(tx storage.Tx) error {
		return tx.PutCacheState(storage.CacheStateRecord{Key: "vocabulary", Payload: b})
	})
	if err != nil {
		return err
	}
	e.dirtyVocabulary.Store(false)
	return nil
}

// Flush runs persistPostings, batchPersistDocuments, persistStats and
// persistVocabulary concurrently. persistPostings writes the terms
// store and batchPersistDocuments the documents store; persistStats and
// persistVocabulary both write the cacheState store, under different
// keys. Together with deleteTermChunks' parallel deletions, this is an
// exception to the engine's otherwise single-threaded scheduling.
func (e *Engine) Flush(ctx context.Context) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	ops := []func(context.Context) error{
		e.persistPostings,
		e.batchPersistDocuments,
		e.persistStats,
		e.persistVocabulary,
	}
	errs := make([]error, len(ops))
	var wg sync.WaitGroup
	for i, op := range ops {
		wg.Add(1)
		go func(i int, op func(context.Context) error) {
			defer wg.Done()
			errs[i] = op(ctx)
		}(i, op)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
