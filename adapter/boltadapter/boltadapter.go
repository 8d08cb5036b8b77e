// Package boltadapter is a concrete, optional reference implementation
// of storage.Adapter backed by go.etcd.io/bbolt, the maintained
// successor to boltdb/bolt
// dependency (see huichen/wukong's storage/bolt_storage_test.go, whose
// openBoltStorage/Set/Get/Close/WALName this package's Open/Tx/Close
// generalize from a single flat keyspace to this kernel's five named
// object stores).
//
// This package is NOT imported by the engine package — the engine
// only depends on the storage.Adapter interface, keeping the
// persistence backend an external
// collaborator. It exists so the kernel has at least one adapter that
// actually runs, exercised by its own tests.
package boltadapter

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/21nOrg/searchfn/ftserr"
	"github.com/21nOrg/searchfn/storage"
	"github.com/21nOrg/searchfn/types"
)

const keySep = "\x00"

var allStores = []storage.Store{
	storage.StoreMetadata,
	storage.StoreTerms,
	storage.StoreVectors,
	storage.StoreDocuments,
	storage.StoreCacheState,
}

// Adapter is a storage.Adapter backed by a single bbolt file, one
// bucket per named object store.
type Adapter struct {
	path string
	db   *bolt.DB
}

func New(path string) *Adapter {
	return &Adapter{path: path}
}

func (a *Adapter) Open(_ context.Context, _ int) error {
	db, err := bolt.Open(a.path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return ftserr.Wrap(ftserr.AdapterUnavailable, "boltadapter.Open", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, s := range allStores {
			if _, err := tx.CreateBucketIfNotExists([]byte(s)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return ftserr.Wrap(ftserr.AdapterUnavailable, "boltadapter.Open", err)
	}
	a.db = db
	return nil
}

func (a *Adapter) Close(_ context.Context) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// DeleteDatabase closes the database and removes its backing file.
func (a *Adapter) DeleteDatabase(ctx context.Context) error {
	if err := a.Close(ctx); err != nil {
		return err
	}
	if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
		return ftserr.Wrap(ftserr.AdapterUnavailable, "boltadapter.DeleteDatabase", err)
	}
	return nil
}

func (a *Adapter) ClearStore(_ context.Context, store storage.Store) error {
	if a.db == nil {
		return ftserr.New(ftserr.AdapterUnavailable, "boltadapter.ClearStore")
	}
	return a.db.Update(func(btx *bolt.Tx) error {
		if err := btx.DeleteBucket([]byte(store)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := btx.CreateBucket([]byte(store))
		return err
	})
}

func (a *Adapter) WithTransaction(_ context.Context, stores []storage.Store, mode storage.TxMode, fn func(storage.Tx) error) error {
	if a.db == nil {
		return ftserr.New(ftserr.AdapterUnavailable, "boltadapter.WithTransaction")
	}
	run := func(btx *bolt.Tx) error {
		return fn(&tx{btx: btx})
	}
	var err error
	if mode == storage.ReadWrite {
		err = a.db.Update(run)
	} else {
		err = a.db.View(run)
	}
	if err != nil {
		return ftserr.Wrap(ftserr.TransactionFailed, "boltadapter.WithTransaction", err)
	}
	return nil
}

// tx adapts a single bbolt transaction to storage.Tx. Every record is
// JSON-encoded; wukong stores raw bytes under caller-chosen keys in
// one bucket, this generalizes that to typed records and compound
// keys joined with keySep across five buckets.
type tx struct {
	btx *bolt.Tx
}

func (t *tx) bucket(s storage.Store) (*bolt.Bucket, error) {
	b := t.btx.Bucket([]byte(s))
	if b == nil {
		return nil, ftserr.New(ftserr.AdapterUnavailable, "boltadapter: bucket missing "+string(s))
	}
	return b, nil
}

func termKey(field, term string, chunk int) string {
	return field + keySep + term + keySep + strconv.Itoa(chunk)
}

func vectorKey(field, docId string) string {
	return field + keySep + docId
}

func (t *tx) putJSON(store storage.Store, key string, v interface{}) error {
	b, err := t.bucket(store)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ftserr.Wrap(ftserr.CodecError, "boltadapter.putJSON", err)
	}
	return b.Put([]byte(key), data)
}

func (t *tx) getJSON(store storage.Store, key string, v interface{}) (bool, error) {
	b, err := t.bucket(store)
	if err != nil {
		return false, err
	}
	data := b.Get([]byte(key))
	if data == nil {
		return false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	if err := json.Unmarshal(cp, v); err != nil {
		return false, ftserr.Wrap(ftserr.CodecError, "boltadapter.getJSON", err)
	}
	return true, nil
}

func (t *tx) deleteKey(store storage.Store, key string) error {
	b, err := t.bucket(store)
	if err != nil {
		return err
	}
	return b.Delete([]byte(key))
}

// --- metadata ---

func (t *tx) PutMetadata(rec storage.MetadataRecord) error {
	return t.putJSON(storage.StoreMetadata, rec.Key, rec)
}

func (t *tx) GetMetadata(key string) (storage.MetadataRecord, bool, error) {
	var rec storage.MetadataRecord
	ok, err := t.getJSON(storage.StoreMetadata, key, &rec)
	return rec, ok, err
}

func (t *tx) DeleteMetadata(key string) error {
	return t.deleteKey(storage.StoreMetadata, key)
}

// --- term chunks ---

func (t *tx) PutTermChunk(chunk types.StoredPostingChunk) error {
	return t.putJSON(storage.StoreTerms, termKey(chunk.Field, chunk.Term, chunk.Chunk), chunk)
}

func (t *tx) GetTermChunk(field, term string, chunk int) (types.StoredPostingChunk, bool, error) {
	var rec types.StoredPostingChunk
	ok, err := t.getJSON(storage.StoreTerms, termKey(field, term, chunk), &rec)
	return rec, ok, err
}

func (t *tx) DeleteTermChunk(field, term string, chunk int) error {
	return t.deleteKey(storage.StoreTerms, termKey(field, term, chunk))
}

func (t *tx) PutTermChunksBatch(chunks []types.StoredPostingChunk) error {
	for _, c := range chunks {
		if err := t.PutTermChunk(c); err != nil {
			return err
		}
	}
	return nil
}

// --- vectors ---

func (t *tx) PutVector(rec storage.VectorRecord) error {
	return t.putJSON(storage.StoreVectors, vectorKey(rec.Field, rec.DocId), rec)
}

func (t *tx) GetVector(field, docId string) (storage.VectorRecord, bool, error) {
	var rec storage.VectorRecord
	ok, err := t.getJSON(storage.StoreVectors, vectorKey(field, docId), &rec)
	return rec, ok, err
}

func (t *tx) DeleteVector(field, docId string) error {
	return t.deleteKey(storage.StoreVectors, vectorKey(field, docId))
}

// --- documents ---

func (t *tx) PutDocument(rec storage.DocumentRecord) error {
	return t.putJSON(storage.StoreDocuments, rec.DocId, rec)
}

func (t *tx) GetDocument(docId string) (storage.DocumentRecord, bool, error) {
	var rec storage.DocumentRecord
	ok, err := t.getJSON(storage.StoreDocuments, docId, &rec)
	return rec, ok, err
}

func (t *tx) DeleteDocument(docId string) error {
	return t.deleteKey(storage.StoreDocuments, docId)
}

func (t *tx) PutDocumentsBatch(recs []storage.DocumentRecord) error {
	for _, r := range recs {
		if err := t.PutDocument(r); err != nil {
			return err
		}
	}
	return nil
}

// --- cache state ---

func (t *tx) PutCacheState(rec storage.CacheStateRecord) error {
	return t.putJSON(storage.StoreCacheState, rec.Key, rec)
}

func (t *tx) GetCacheState(key string) (storage.CacheStateRecord, bool, error) {
	var rec storage.CacheStateRecord
	ok, err := t.getJSON(storage.StoreCacheState, key, &rec)
	return rec, ok, err
}

func (t *tx) DeleteCacheState(key string) error {
	return t.deleteKey(storage.StoreCacheState, key)
}
