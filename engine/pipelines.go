package engine

import (
	"github.com/21nOrg/searchfn/pipeline"
	"github.com/21nOrg/searchfn/types"
)

// pipelineSet lazily builds and memoizes per-field pipelines in both
// variants: the indexing variant (edge n-grams per PipelineConfig) and
// the query variant (edge n-grams disabled by default, overridable via
// applyQueryNGrams). It satisfies both core.PipelineSet and
// query.PipelineSet.
type pipelineSet struct {
	cfg   types.PipelineConfig
	index map[string]*pipeline.Pipeline
	query map[string]*pipeline.Pipeline
}

func newPipelineSet(cfg types.PipelineConfig) *pipelineSet {
	return &pipelineSet{
		cfg:   cfg,
		index: make(map[string]*pipeline.Pipeline),
		query: make(map[string]*pipeline.Pipeline),
	}
}

func (ps *pipelineSet) PipelineFor(field string) *pipeline.Pipeline {
	if p, ok := ps.index[field]; ok {
		return p
	}
	p := pipeline.BuildForField(ps.cfg, field, true)
	ps.index[field] = p
	return p
}

func (ps *pipelineSet) QueryPipelineFor(field string) *pipeline.Pipeline {
	if p, ok := ps.query[field]; ok {
		return p
	}
	p := pipeline.BuildForField(ps.cfg, field, false)
	ps.query[field] = p
	return p
}
