// Package storage declares the Persistence Adapter the engine
// requires without committing to any concrete backend: the concrete
// key-value persistence backend is an external collaborator, named
// by the interface it must provide.
//
// Grounded on huichen/wukong's storage/storage.go Storage interface
// (Set/Get/Delete/ForEach/Close/WALName over one
// flat keyspace), generalized from a single keyspace to the five
// named, typed object stores this kernel requires, each with
// transactional semantics and batch puts.
package storage

import (
	"context"

	"github.com/21nOrg/searchfn/types"
)

// Store names the five object stores the adapter must expose.
type Store string

const (
	StoreMetadata   Store = "metadata"
	StoreTerms      Store = "terms"
	StoreVectors    Store = "vectors"
	StoreDocuments  Store = "documents"
	StoreCacheState Store = "cacheState"
)

// TxMode distinguishes read-only from read-write transactions.
type TxMode int

const (
	ReadOnly TxMode = iota
	ReadWrite
)

// MetadataRecord is the `metadata` object store's record shape.
type MetadataRecord struct {
	Key       string
	Value     []byte
	UpdatedAt int64
}

// VectorRecord is the `vectors` object store's record shape. The
// kernel currently writes none — reserved for future use — but the
// store and its record shape are part of the adapter
// contract.
type VectorRecord struct {
	Field     string
	DocId     string
	Vector    []byte
	UpdatedAt int64
}

// DocumentRecord is the `documents` object store's record shape.
type DocumentRecord struct {
	DocId     string
	Payload   []byte
	UpdatedAt int64
}

// CacheStateRecord is the `cacheState` object store's record shape.
type CacheStateRecord struct {
	Key       string
	Payload   []byte
	UpdatedAt int64
}

// Tx is the set of operations available inside a transaction opened by
// WithTransaction, scoped to the stores it was opened against.
type Tx interface {
	PutMetadata(rec MetadataRecord) error
	GetMetadata(key string) (MetadataRecord, bool, error)
	DeleteMetadata(key string) error

	PutTermChunk(chunk types.StoredPostingChunk) error
	GetTermChunk(field, term string, chunk int) (types.StoredPostingChunk, bool, error)
	DeleteTermChunk(field, term string, chunk int) error
	PutTermChunksBatch(chunks []types.StoredPostingChunk) error

	PutVector(rec VectorRecord) error
	GetVector(field, docId string) (VectorRecord, bool, error)
	DeleteVector(field, docId string) error

	PutDocument(rec DocumentRecord) error
	GetDocument(docId string) (DocumentRecord, bool, error)
	DeleteDocument(docId string) error
	PutDocumentsBatch(recs []DocumentRecord) error

	PutCacheState(rec CacheStateRecord) error
	GetCacheState(key string) (CacheStateRecord, bool, error)
	DeleteCacheState(key string) error
}

// Adapter is the full Persistence Adapter contract. All methods may
// block: implementations are expected to talk to a real backend over
// I/O.
type Adapter interface {
	Open(ctx context.Context, version int) error
	Close(ctx context.Context) error
	DeleteDatabase(ctx context.Context) error

	// WithTransaction opens a transaction scoped to stores, runs fn,
	// and commits on success or aborts (rolling back all writes) if fn
	// returns an error.
	WithTransaction(ctx context.Context, stores []Store, mode TxMode, fn func(Tx) error) error

	// ClearStore empties one named object store.
	ClearStore(ctx context.Context, store Store) error
}
