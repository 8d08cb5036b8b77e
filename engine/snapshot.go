package engine

import (
	"context"

	"github.com/21nOrg/searchfn/core"
	"github.com/21nOrg/searchfn/types"
)

// ExportSnapshot emits the internal, fully-faithful snapshot: every
// in-memory posting list with metadata, the stats array, the
// vocabulary, and whatever stored documents are still only queued in
// memory. Documents already persisted to the adapter are not re-read
// back into the snapshot; callers that need those should read them
// via GetDocument.
func (e *Engine) ExportSnapshot(ctx context.Context) (types.Snapshot, error) {
	if err := e.ensureOpen(ctx); err != nil {
		return types.Snapshot{}, err
	}

	snap := types.Snapshot{
		Stats:      e.docStats.Snapshot(),
		Vocabulary: e.vocab.Terms(),
	}
	for ft, docs := range e.postings.Snapshot() {
		list := types.SnapshotPostingList{Field: ft.Field, Term: ft.Term}
		for docId, p := range docs {
			list.Documents = append(list.Documents, types.SnapshotPostingDocument{
				DocId:         docId,
				TermFrequency: p.Frequency,
				Metadata:      p.Metadata,
			})
		}
		snap.Postings = append(snap.Postings, list)
	}

	e.pendingMu.Lock()
	if len(e.pendingDocuments) > 0 {
		snap.Documents = make(map[string][]byte, len(e.pendingDocuments))
		for docId, payload := range e.pendingDocuments {
			snap.Documents[docId] = payload
		}
	}
	e.pendingMu.Unlock()

	return snap, nil
}

// ImportSnapshot replaces the engine's entire indexed state: clears
// postings/stats/vocabulary/cache, repopulates from snap marking every
// (field, term) dirty, then flushes so the import is durable.
func (e *Engine) ImportSnapshot(ctx context.Context, snap types.Snapshot) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	e.resetState()

	entries := make(map[core.FieldTerm]map[string]*core.Posting)
	for _, list := range snap.Postings {
		docs := make(map[string]*core.Posting, len(list.Documents))
		for _, d := range list.Documents {
			docs[d.DocId] = &core.Posting{Frequency: d.TermFrequency, Metadata: d.Metadata}
		}
		entries[core.FieldTerm{Field: list.Field, Term: list.Term}] = docs
	}
	e.postings.Load(entries)

	if len(snap.Vocabulary) > 0 {
		e.vocab.Load(snap.Vocabulary)
	} else {
		for _, list := range snap.Postings {
			for _, d := range list.Documents {
				if d.Metadata == nil || !d.Metadata.IsPrefix {
					e.vocab.Insert(list.Term)
				}
			}
		}
	}
	e.dirtyVocabulary.Store(true)
	e.docStats.Load(snap.Stats)

	if len(snap.Documents) > 0 {
		e.pendingMu.Lock()
		for docId, payload := range snap.Documents {
			e.pendingDocuments[docId] = payload
		}
		e.pendingMu.Unlock()
	}

	return e.Flush(ctx)
}

// ExportWorkerSnapshot emits the flattened, structured-clone-safe
// shape. IsPrefix/OriginalTerm are carried as parallel arrays rather
// than dropped, so metadata survives a structured-clone handoff.
func (e *Engine) ExportWorkerSnapshot(ctx context.Context) (types.WorkerSnapshot, error) {
	if err := e.ensureOpen(ctx); err != nil {
		return types.WorkerSnapshot{}, err
	}
	ws := types.WorkerSnapshot{Stats: e.docStats.Snapshot()}
	for ft, docs := range e.postings.Snapshot() {
		list := types.WorkerPostingList{Field: ft.Field, Term: ft.Term}
		for docId, p := range docs {
			isPrefix := p.Metadata != nil && p.Metadata.IsPrefix
			originalTerm := ""
			if p.Metadata != nil {
				originalTerm = p.Metadata.OriginalTerm
			}
			list.DocIds = append(list.DocIds, docId)
			list.TermFrequencies = append(list.TermFrequencies, p.Frequency)
			list.IsPrefix = append(list.IsPrefix, isPrefix)
			list.OriginalTerm = append(list.OriginalTerm, originalTerm)
		}
		ws.Postings = append(ws.Postings, list)
	}
	return ws, nil
}

// ImportWorkerSnapshot replaces state from the flattened handoff shape.
func (e *Engine) ImportWorkerSnapshot(ctx context.Context, ws types.WorkerSnapshot) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	e.resetState()

	entries := make(map[core.FieldTerm]map[string]*core.Posting)
	for _, list := range ws.Postings {
		docs := make(map[string]*core.Posting, len(list.DocIds))
		for i, docId := range list.DocIds {
			isPrefix := i < len(list.IsPrefix) && list.IsPrefix[i]
			var originalTerm string
			if i < len(list.OriginalTerm) {
				originalTerm = list.OriginalTerm[i]
			}
			var meta *types.PostingMetadata
			if isPrefix || originalTerm != "" {
				meta = &types.PostingMetadata{IsPrefix: isPrefix, OriginalTerm: originalTerm}
			}
			tf := 1.0
			if i < len(list.TermFrequencies) {
				tf = list.TermFrequencies[i]
			}
			docs[docId] = &core.Posting{Frequency: tf, Metadata: meta}
			if !isPrefix {
				e.vocab.Insert(list.Term)
			}
		}
		entries[core.FieldTerm{Field: list.Field, Term: list.Term}] = docs
	}
	e.postings.Load(entries)
	e.dirtyVocabulary.Store(true)
	e.docStats.Load(ws.Stats)

	return e.Flush(ctx)
}

func (e *Engine) resetState() {
	e.postings.Clear()
	e.docStats.Clear()
	e.vocab.Clear()
	e.termCache.Clear()
	e.pendingMu.Lock()
	e.pendingDocuments = make(map[string][]byte)
	e.pendingMu.Unlock()
}
