package pipeline

import (
	"github.com/21nOrg/searchfn/stemmer"
	"github.com/21nOrg/searchfn/types"
)

// Pipeline is the ordered, short-circuiting stage sequence: any stage
// returning zero tokens skips the remaining stages.
type Pipeline struct {
	stages []types.Stage
}

// Build assembles the default stage order — tokenize, normalize,
// stop-word filter, optional stem, optional edge n-gram — honoring
// language defaults and explicit overrides, then appends CustomStages.
//
// includeEdgeNGrams lets callers build the query-time variant with
// n-gram expansion disabled regardless of PipelineConfig.EnableEdgeNGrams
// (the applyQueryNGrams flag overrides that when set).
func Build(cfg types.PipelineConfig, includeEdgeNGrams bool) *Pipeline {
	stopWords := cfg.StopWords
	if stopWords == nil {
		stopWords = stemmer.StopWordsForLanguage(cfg.Language)
	}

	var stem types.Stemmer
	if cfg.Stemmer != nil {
		stem = cfg.Stemmer
	} else if cfg.EnableStemming {
		stem = stemmer.ForLanguage(cfg.Language)
	}

	stages := []types.Stage{
		TokenizeStage{},
		NormalizeStage{},
		StopWordStage{StopWords: stopWords},
	}
	if stem != nil {
		stages = append(stages, StemStage{Stemmer: stem})
	}
	if includeEdgeNGrams && cfg.EnableEdgeNGrams {
		stages = append(stages, EdgeNGramStage{
			MinLength: cfg.EdgeNGramMinLength,
			MaxLength: cfg.EdgeNGramMaxLength,
		})
	}
	stages = append(stages, cfg.CustomStages...)

	return &Pipeline{stages: stages}
}

// BuildForField is like Build but resolves EdgeNGramFieldConfig's
// per-field override: a field present in the map wins outright; a
// field absent falls back to the
// global flag/lengths).
func BuildForField(cfg types.PipelineConfig, field string, includeEdgeNGrams bool) *Pipeline {
	if override, ok := cfg.EdgeNGramFieldConfig[field]; ok {
		fieldCfg := cfg
		fieldCfg.EnableEdgeNGrams = override.Enabled
		if override.MinLength > 0 {
			fieldCfg.EdgeNGramMinLength = override.MinLength
		}
		if override.MaxLength > 0 {
			fieldCfg.EdgeNGramMaxLength = override.MaxLength
		}
		return Build(fieldCfg, includeEdgeNGrams)
	}
	return Build(cfg, includeEdgeNGrams)
}

// Run executes the pipeline over raw text, seeding it as the single
// tokenize-stage input, threading (tokens, ctx) through every stage in
// order and stopping early if any stage returns zero tokens.
func (p *Pipeline) Run(field string, text string, docId *types.DocId) ([]types.Token, error) {
	ctx := types.PipelineContext{Field: field, DocumentId: docId}
	tokens := []types.Token{{Value: text, Field: field, DocumentId: docId}}

	for _, stage := range p.stages {
		next, err := stage.Execute(tokens, ctx)
		if err != nil {
			return nil, err
		}
		tokens = next
		if len(tokens) == 0 {
			break
		}
	}
	return tokens, nil
}
