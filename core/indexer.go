package core

import (
	"github.com/21nOrg/searchfn/pipeline"
	"github.com/21nOrg/searchfn/types"
)

// IngestResult is what Indexer.Ingest returns for one document.
type IngestResult struct {
	DocId           types.DocId
	FieldFrequencies map[string]map[string]int
	FieldMetadata    map[string]map[string]*types.PostingMetadata
	FieldLengths     map[string]int
	TotalLength      int
}

// PipelineSet resolves the pipeline to run for a given field (the
// per-field edge n-gram override means different fields may run
// different stage chains).
type PipelineSet interface {
	PipelineFor(field string) *pipeline.Pipeline
}

// Indexer runs the pipeline across a document's fields and folds the
// resulting tokens into an Accumulator.
type Indexer struct {
	pipelines PipelineSet
	// tokenCache memoizes tokenization within one ingestBatch call,
	// keyed by (field, rawText); this requires tokenization to be
	// deterministic for the cache to be valid, which it
	// is here since Pipeline.Run has no hidden state.
	tokenCache map[string][]types.Token
}

func NewIndexer(pipelines PipelineSet) *Indexer {
	return &Indexer{pipelines: pipelines}
}

// Ingest runs the pipeline for each non-empty field value of fields
// and returns the aggregated per-field frequencies/metadata/lengths.
func (ix *Indexer) Ingest(docId types.DocId, fields map[string]string) (IngestResult, error) {
	acc := NewAccumulator()
	for field, text := range fields {
		if text == "" {
			continue
		}
		tokens, err := ix.tokenize(field, text, &docId)
		if err != nil {
			return IngestResult{}, err
		}
		for _, tok := range tokens {
			acc.Add(tok)
		}
	}
	return buildResult(docId, acc), nil
}

// IngestBatch tokenizes each distinct (field, rawText) pair in records
// at most once, reusing the cached tokens for repeats across the
// batch.
func (ix *Indexer) IngestBatch(docIds []types.DocId, fieldsPerDoc []map[string]string) ([]IngestResult, error) {
	ix.tokenCache = make(map[string][]types.Token)
	defer func() { ix.tokenCache = nil }()

	out := make([]IngestResult, len(docIds))
	for i, docId := range docIds {
		acc := NewAccumulator()
		for field, text := range fieldsPerDoc[i] {
			if text == "" {
				continue
			}
			tokens, err := ix.tokenize(field, text, &docId)
			if err != nil {
				return nil, err
			}
			for _, tok := range tokens {
				acc.Add(tok)
			}
		}
		out[i] = buildResult(docId, acc)
	}
	return out, nil
}

func (ix *Indexer) tokenize(field, text string, docId *types.DocId) ([]types.Token, error) {
	if ix.tokenCache != nil {
		key := field + "\x00" + text
		if cached, ok := ix.tokenCache[key]; ok {
			return cloneTokensFor(cached, docId), nil
		}
		p := ix.pipelines.PipelineFor(field)
		tokens, err := p.Run(field, text, docId)
		if err != nil {
			return nil, err
		}
		ix.tokenCache[key] = tokens
		return tokens, nil
	}
	p := ix.pipelines.PipelineFor(field)
	return p.Run(field, text, docId)
}

// cloneTokensFor rebinds cached tokens (tokenized against whatever
// docId happened to be the first in the batch to see this text) to
// the current document, since DocumentId is plumbed through context
// rather than being part of the cache key.
func cloneTokensFor(cached []types.Token, docId *types.DocId) []types.Token {
	out := make([]types.Token, len(cached))
	for i, t := range cached {
		t.DocumentId = docId
		out[i] = t.Clone()
		out[i].DocumentId = docId
	}
	return out
}

func buildResult(docId types.DocId, acc *Accumulator) IngestResult {
	res := IngestResult{
		DocId:            docId,
		FieldFrequencies: make(map[string]map[string]int),
		FieldMetadata:    make(map[string]map[string]*types.PostingMetadata),
		FieldLengths:     make(map[string]int),
	}
	for field, fa := range acc.Fields() {
		res.FieldFrequencies[field] = fa.TermFrequencies
		res.FieldMetadata[field] = fa.TermMetadata
		res.FieldLengths[field] = fa.Length
		res.TotalLength += fa.Length
	}
	return res
}
