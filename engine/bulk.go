package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/21nOrg/searchfn/core"
	"github.com/21nOrg/searchfn/ftserr"
	"github.com/21nOrg/searchfn/types"
)

const progressThrottle = 100 * time.Millisecond

// AddBulk ingests docs in batches (fixed or adaptive sizing), folding
// each batch's results into postings/vocabulary/stats without a
// per-document cache refresh or persist, doing one cache refresh per
// batch instead, then flushing once at the end.
func (e *Engine) AddBulk(ctx context.Context, docs []types.AddInput, opts *types.BulkAddOptions) error {
	if err := e.ensureOpen(ctx); err != nil {
		return err
	}
	var o types.BulkAddOptions
	if opts != nil {
		o = *opts
	}

	batches := planBatches(docs, o)
	processed := 0
	var lastProgressAt time.Time

	for _, batch := range batches {
		touched, err := e.ingestBatchNoPersist(batch, &processed, len(docs), o)
		if err != nil {
			return err
		}
		e.refreshCache(touched)

		if o.ProgressInterval <= 0 && o.OnProgress != nil {
			if lastProgressAt.IsZero() || time.Since(lastProgressAt) >= progressThrottle {
				o.OnProgress(processed, len(docs))
				lastProgressAt = time.Now()
			}
		}
	}
	return e.Flush(ctx)
}

func (e *Engine) ingestBatchNoPersist(batch []types.AddInput, processed *int, total int, o types.BulkAddOptions) ([]core.FieldTerm, error) {
	ids := make([]types.DocId, len(batch))
	fieldsPerDoc := make([]map[string]string, len(batch))
	for i, d := range batch {
		ids[i] = d.Id
		fieldsPerDoc[i] = d.Fields
	}
	results, err := e.indexer.IngestBatch(ids, fieldsPerDoc)
	if err != nil {
		return nil, err
	}

	var touched []core.FieldTerm
	for i, res := range results {
		*processed++
		if res.TotalLength == 0 {
			continue
		}
		docKey := batch[i].Id.Canonical()
		e.docStats.AddDocument(docKey, res.TotalLength)
		touched = append(touched, e.applyIngestResult(docKey, res)...)
		if batch[i].HasStore {
			e.pendingMu.Lock()
			e.pendingDocuments[docKey] = batch[i].Store
			e.pendingMu.Unlock()
		}
		if o.ProgressInterval > 0 && o.OnProgress != nil && *processed%o.ProgressInterval == 0 {
			o.OnProgress(*processed, total)
		}
	}
	return touched, nil
}

// AddBulkWithRecovery is AddBulk with per-document error guards: a
// failure is recorded in the returned checkpoint's FailedDocuments,
// and processing only stops early if ContinueOnError is false.
func (e *Engine) AddBulkWithRecovery(ctx context.Context, docs []types.AddInput, opts *types.RecoveryOptions) (types.Checkpoint, error) {
	if err := e.ensureOpen(ctx); err != nil {
		return types.Checkpoint{}, err
	}
	var o types.RecoveryOptions
	if opts != nil {
		o = *opts
	}

	batches := planBatches(docs, o.BulkAddOptions)
	cp := types.Checkpoint{}
	processed := 0
	globalIndex := 0
	lastCheckpointAt := 0
	var lastProgressAt time.Time

	for batchIdx, batch := range batches {
		touched, failed, err := e.ingestBatchWithRecovery(batch, globalIndex, &processed, len(docs), o)
		globalIndex += len(batch)
		cp.FailedDocuments = append(cp.FailedDocuments, failed...)
		cp.ProcessedCount = processed
		e.refreshCache(touched)

		if err != nil {
			cp.TimestampUnixNano = time.Now().UnixNano()
			return cp, err
		}
		cp.LastSuccessfulBatch = batchIdx

		if !o.ContinueOnError && len(failed) > 0 {
			cp.TimestampUnixNano = time.Now().UnixNano()
			return cp, ftserr.New(ftserr.DocumentProcessingError, "engine.AddBulkWithRecovery")
		}

		if o.ProgressInterval <= 0 && o.OnProgress != nil {
			if lastProgressAt.IsZero() || time.Since(lastProgressAt) >= progressThrottle {
				o.OnProgress(processed, len(docs))
				lastProgressAt = time.Now()
			}
		}

		if o.EnableCheckpointing && o.CheckpointInterval > 0 && processed-lastCheckpointAt >= o.CheckpointInterval {
			if err := e.Flush(ctx); err != nil {
				return cp, err
			}
			cp.TimestampUnixNano = time.Now().UnixNano()
			if o.OnCheckpoint != nil {
				o.OnCheckpoint(cp)
			}
			lastCheckpointAt = processed
		}
	}

	if err := e.Flush(ctx); err != nil {
		return cp, err
	}
	cp.TimestampUnixNano = time.Now().UnixNano()
	return cp, nil
}

// ingestBatchWithRecovery processes one document at a time (forgoing
// IngestBatch's token cache) so a single document's pipeline failure
// can be isolated and recorded without losing the rest of the batch.
func (e *Engine) ingestBatchWithRecovery(batch []types.AddInput, startIndex int, processed *int, total int, o types.RecoveryOptions) ([]core.FieldTerm, []types.FailedDocument, error) {
	var touched []core.FieldTerm
	var failed []types.FailedDocument

	for i, d := range batch {
		res, err := e.indexer.Ingest(d.Id, d.Fields)
		if err != nil {
			failed = append(failed, types.FailedDocument{Index: startIndex + i, DocId: d.Id.Canonical(), Error: err.Error()})
			e.logger.Warnf("engine: document %s failed to ingest: %v", d.Id.Canonical(), err)
			if !o.ContinueOnError {
				return touched, failed, err
			}
			continue
		}
		*processed++
		if res.TotalLength == 0 {
			continue
		}
		docKey := d.Id.Canonical()
		e.docStats.AddDocument(docKey, res.TotalLength)
		touched = append(touched, e.applyIngestResult(docKey, res)...)
		if d.HasStore {
			e.pendingMu.Lock()
			e.pendingDocuments[docKey] = d.Store
			e.pendingMu.Unlock()
		}
		if o.ProgressInterval > 0 && o.OnProgress != nil && *processed%o.ProgressInterval == 0 {
			o.OnProgress(*processed, total)
		}
	}
	return touched, failed, nil
}

// planBatches slices docs into fixed-size batches, or — when Adaptive
// is set — into batches capped by MaxMemoryMB worth of rough per-
// document byte size (JSON length x2), respecting [MinBatchSize,
// MaxBatchSize].
func planBatches(docs []types.AddInput, o types.BulkAddOptions) [][]types.AddInput {
	if !o.Adaptive {
		size := o.BatchSize
		if size <= 0 {
			size = 500
		}
		return chunkDocs(docs, size)
	}

	minSize := o.MinBatchSize
	if minSize <= 0 {
		minSize = 50
	}
	maxSize := o.MaxBatchSize
	if maxSize <= 0 {
		maxSize = 2000
	}
	maxMemoryMB := o.MaxMemoryMB
	if maxMemoryMB <= 0 {
		maxMemoryMB = 64
	}
	maxBytes := maxMemoryMB * 1024 * 1024

	var batches [][]types.AddInput
	i := 0
	for i < len(docs) {
		budget := maxBytes
		count := 0
		for i+count < len(docs) && count < maxSize {
			size := estimateDocBytes(docs[i+count])
			if count >= minSize && size > budget {
				break
			}
			budget -= size
			count++
		}
		if count == 0 {
			count = 1
		}
		batches = append(batches, docs[i:i+count])
		i += count
	}
	return batches
}

func chunkDocs(docs []types.AddInput, size int) [][]types.AddInput {
	var out [][]types.AddInput
	for i := 0; i < len(docs); i += size {
		end := i + size
		if end > len(docs) {
			end = len(docs)
		}
		out = append(out, docs[i:end])
	}
	return out
}

func estimateDocBytes(d types.AddInput) int {
	b, err := json.Marshal(d.Fields)
	if err != nil {
		return 0
	}
	return len(b) * 2
}
