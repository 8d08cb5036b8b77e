package boltadapter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/21nOrg/searchfn/storage"
	"github.com/21nOrg/searchfn/types"
)

func openTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.db")
	a := New(path)
	require.NoError(t, a.Open(context.Background(), 1))
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func TestPutGetTermChunkRoundTrip(t *testing.T) {
	a := openTestAdapter(t)
	ctx := context.Background()

	chunk := types.StoredPostingChunk{
		Field:        "title",
		Term:         "fox",
		Chunk:        0,
		Payload:      []byte{1, 2, 3},
		Encoding:     types.EncodingDeltaVarint,
		DocFrequency: 1,
	}
	err := a.WithTransaction(ctx, []storage.Store{storage.StoreTerms}, storage.ReadWrite, func(tx storage.Tx) error {
		return tx.PutTermChunk(chunk)
	})
	require.NoError(t, err)

	var got types.StoredPostingChunk
	var found bool
	err = a.WithTransaction(ctx, []storage.Store{storage.StoreTerms}, storage.ReadOnly, func(tx storage.Tx) error {
		var err error
		got, found, err = tx.GetTermChunk("title", "fox", 0)
		return err
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, chunk.Payload, got.Payload)
	require.Equal(t, chunk.DocFrequency, got.DocFrequency)
}

func TestGetMissingKeyReturnsNotFound(t *testing.T) {
	a := openTestAdapter(t)
	ctx := context.Background()

	var found bool
	err := a.WithTransaction(ctx, []storage.Store{storage.StoreDocuments}, storage.ReadOnly, func(tx storage.Tx) error {
		var err error
		_, found, err = tx.GetDocument("missing")
		return err
	})
	require.NoError(t, err)
	require.False(t, found)
}

func TestClearStoreEmptiesBucket(t *testing.T) {
	a := openTestAdapter(t)
	ctx := context.Background()

	err := a.WithTransaction(ctx, []storage.Store{storage.StoreDocuments}, storage.ReadWrite, func(tx storage.Tx) error {
		return tx.PutDocument(storage.DocumentRecord{DocId: "doc-1", Payload: []byte("hello")})
	})
	require.NoError(t, err)

	require.NoError(t, a.ClearStore(ctx, storage.StoreDocuments))

	var found bool
	err = a.WithTransaction(ctx, []storage.Store{storage.StoreDocuments}, storage.ReadOnly, func(tx storage.Tx) error {
		var err error
		_, found, err = tx.GetDocument("doc-1")
		return err
	})
	require.NoError(t, err)
	require.False(t, found)
}

func TestPutTermChunksBatch(t *testing.T) {
	a := openTestAdapter(t)
	ctx := context.Background()

	chunks := []types.StoredPostingChunk{
		{Field: "title", Term: "a", Chunk: 0, Payload: []byte{1}},
		{Field: "title", Term: "b", Chunk: 0, Payload: []byte{2}},
	}
	err := a.WithTransaction(ctx, []storage.Store{storage.StoreTerms}, storage.ReadWrite, func(tx storage.Tx) error {
		return tx.PutTermChunksBatch(chunks)
	})
	require.NoError(t, err)

	err = a.WithTransaction(ctx, []storage.Store{storage.StoreTerms}, storage.ReadOnly, func(tx storage.Tx) error {
		_, found, err := tx.GetTermChunk("title", "b", 0)
		require.True(t, found)
		return err
	})
	require.NoError(t, err)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	a := openTestAdapter(t)
	ctx := context.Background()

	boom := require.New(t)
	err := a.WithTransaction(ctx, []storage.Store{storage.StoreDocuments}, storage.ReadWrite, func(tx storage.Tx) error {
		_ = tx.PutDocument(storage.DocumentRecord{DocId: "doc-1"})
		return ftserrLike()
	})
	boom.Error(err)

	var found bool
	err = a.WithTransaction(ctx, []storage.Store{storage.StoreDocuments}, storage.ReadOnly, func(tx storage.Tx) error {
		var err error
		_, found, err = tx.GetDocument("doc-1")
		return err
	})
	require.NoError(t, err)
	require.False(t, found)
}

func ftserrLike() error {
	return errAbort
}

var errAbort = errSentinel("abort")

type errSentinel string

func (e errSentinel) Error() string { return string(e) }
