package engine

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/21nOrg/searchfn/storage"
	"github.com/21nOrg/searchfn/types"
)

// fakeAdapter is a minimal in-memory storage.Adapter used only by this
// package's tests, standing in for a real backend (e.g. the bbolt-based
// adapter/boltadapter) so engine behavior can be exercised without I/O.
type fakeAdapter struct {
	mu     sync.Mutex
	stores map[storage.Store]map[string][]byte
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{stores: map[storage.Store]map[string][]byte{}}
}

var fakeAdapterStores = []storage.Store{
	storage.StoreMetadata, storage.StoreTerms, storage.StoreVectors, storage.StoreDocuments, storage.StoreCacheState,
}

func (a *fakeAdapter) Open(context.Context, int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range fakeAdapterStores {
		if a.stores[s] == nil {
			a.stores[s] = map[string][]byte{}
		}
	}
	return nil
}

func (a *fakeAdapter) Close(context.Context) error { return nil }

func (a *fakeAdapter) DeleteDatabase(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stores = map[storage.Store]map[string][]byte{}
	return nil
}

func (a *fakeAdapter) ClearStore(_ context.Context, store storage.Store) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stores[store] = map[string][]byte{}
	return nil
}

func (a *fakeAdapter) WithTransaction(_ context.Context, _ []storage.Store, _ storage.TxMode, fn func(storage.Tx) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(&fakeTx{a: a})
}

type fakeTx struct {
	a *fakeAdapter
}

func fakeTermKey(field, term string, chunk int) string {
	return field + "\x00" + term + "\x00" + strconv.Itoa(chunk)
}

func fakeVectorKey(field, docId string) string {
	return field + "\x00" + docId
}

func (t *fakeTx) putJSON(store storage.Store, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	t.a.stores[store][key] = b
	return nil
}

func (t *fakeTx) getJSON(store storage.Store, key string, v interface{}) (bool, error) {
	data, ok := t.a.stores[store][key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (t *fakeTx) PutMetadata(rec storage.MetadataRecord) error {
	return t.putJSON(storage.StoreMetadata, rec.Key, rec)
}
func (t *fakeTx) GetMetadata(key string) (storage.MetadataRecord, bool, error) {
	var rec storage.MetadataRecord
	ok, err := t.getJSON(storage.StoreMetadata, key, &rec)
	return rec, ok, err
}
func (t *fakeTx) DeleteMetadata(key string) error {
	delete(t.a.stores[storage.StoreMetadata], key)
	return nil
}

func (t *fakeTx) PutTermChunk(chunk types.StoredPostingChunk) error {
	return t.putJSON(storage.StoreTerms, fakeTermKey(chunk.Field, chunk.Term, chunk.Chunk), chunk)
}
func (t *fakeTx) GetTermChunk(field, term string, chunk int) (types.StoredPostingChunk, bool, error) {
	var rec types.StoredPostingChunk
	ok, err := t.getJSON(storage.StoreTerms, fakeTermKey(field, term, chunk), &rec)
	return rec, ok, err
}
func (t *fakeTx) DeleteTermChunk(field, term string, chunk int) error {
	delete(t.a.stores[storage.StoreTerms], fakeTermKey(field, term, chunk))
	return nil
}
func (t *fakeTx) PutTermChunksBatch(chunks []types.StoredPostingChunk) error {
	for _, c := range chunks {
		if err := t.PutTermChunk(c); err != nil {
			return err
		}
	}
	return nil
}

func (t *fakeTx) PutDocument(rec storage.DocumentRecord) error {
	return t.putJSON(storage.StoreDocuments, rec.DocId, rec)
}
func (t *fakeTx) GetDocument(docId string) (storage.DocumentRecord, bool, error) {
	var rec storage.DocumentRecord
	ok, err := t.getJSON(storage.StoreDocuments, docId, &rec)
	return rec, ok, err
}
func (t *fakeTx) DeleteDocument(docId string) error {
	delete(t.a.stores[storage.StoreDocuments], docId)
	return nil
}
func (t *fakeTx) PutDocumentsBatch(recs []storage.DocumentRecord) error {
	for _, r := range recs {
		if err := t.PutDocument(r); err != nil {
			return err
		}
	}
	return nil
}

func (t *fakeTx) PutVector(rec storage.VectorRecord) error {
	return t.putJSON(storage.StoreVectors, fakeVectorKey(rec.Field, rec.DocId), rec)
}
func (t *fakeTx) GetVector(field, docId string) (storage.VectorRecord, bool, error) {
	var rec storage.VectorRecord
	ok, err := t.getJSON(storage.StoreVectors, fakeVectorKey(field, docId), &rec)
	return rec, ok, err
}
func (t *fakeTx) DeleteVector(field, docId string) error {
	delete(t.a.stores[storage.StoreVectors], fakeVectorKey(field, docId))
	return nil
}

func (t *fakeTx) PutCacheState(rec storage.CacheStateRecord) error {
	return t.putJSON(storage.StoreCacheState, rec.Key, rec)
}
func (t *fakeTx) GetCacheState(key string) (storage.CacheStateRecord, bool, error) {
	var rec storage.CacheStateRecord
	ok, err := t.getJSON(storage.StoreCacheState, key, &rec)
	return rec, ok, err
}
func (t *fakeTx) DeleteCacheState(key string) error {
	delete(t.a.stores[storage.StoreCacheState], key)
	return nil
}
