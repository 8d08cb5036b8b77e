package query

import (
	"github.com/21nOrg/searchfn/pipeline"
	"github.com/21nOrg/searchfn/types"
)

// PipelineSet resolves both the indexing and query-time pipeline
// variant for a field; the query variant has edge n-gram expansion
// disabled unless applyQueryNGrams overrides that.
type PipelineSet interface {
	PipelineFor(field string) *pipeline.Pipeline
	QueryPipelineFor(field string) *pipeline.Pipeline
}

// BuildQueryTokens tokenizes query text across fields, deduplicates
// (field, term) pairs, and — when fuzzyDistance >= 1 — adds vocabulary
// expansions of each exact term at boost 0.8 alongside the exact term
// at boost 1.
func BuildQueryTokens(fields []string, query string, pipelines PipelineSet, applyQueryNGrams bool, fuzzyDistance int, expander *Expander) ([]types.QueryToken, error) {
	seen := make(map[string]struct{})
	var tokens []types.QueryToken

	add := func(field, term string, boost float64) {
		key := field + "\x00" + term
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		tokens = append(tokens, types.QueryToken{Field: field, Term: term, Boost: boost})
	}

	for _, field := range fields {
		var p *pipeline.Pipeline
		if applyQueryNGrams {
			p = pipelines.PipelineFor(field)
		} else {
			p = pipelines.QueryPipelineFor(field)
		}
		toks, err := p.Run(field, query, nil)
		if err != nil {
			return nil, err
		}
		for _, t := range toks {
			add(field, t.Value, 1)
		}
	}

	if fuzzyDistance >= 1 && expander != nil {
		base := append([]types.QueryToken{}, tokens...)
		for _, qt := range base {
			for _, term := range expander.Expand(qt.Term, fuzzyDistance) {
				if term == qt.Term {
					continue
				}
				add(qt.Field, term, 0.8)
			}
		}
	}

	return tokens, nil
}
