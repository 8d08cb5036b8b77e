package query

import (
	"math"
	"sort"

	"github.com/21nOrg/searchfn/types"
)

// BM25-like scoring constants.
const (
	k1                  = 1.2
	bParam              = 0.75
	dParam              = 0.5
	PrefixMatchPenalty  = 0.7
	defaultResultLimit  = 10
)

// PostingEntry is one resolved (docId, tf) contribution for a query
// token's term, after decode.
type PostingEntry struct {
	DocId         string
	TermFrequency float64
	IsPrefix      bool
}

// ResolvedTerm is one query token together with the posting list and
// chunk statistics fetched for it.
type ResolvedTerm struct {
	Token                    types.QueryToken
	Postings                 []PostingEntry
	DocFrequency             int
	InverseDocumentFrequency *float64
}

func idfFor(rt ResolvedTerm) float64 {
	if rt.InverseDocumentFrequency != nil {
		return *rt.InverseDocumentFrequency
	}
	if rt.DocFrequency <= 0 {
		return 0
	}
	return math.Log(1 + 1/float64(rt.DocFrequency))
}

// DocLengthFunc returns the indexed length for docId and whether it
// was found; callers fall back to avgDocLength when not found.
type DocLengthFunc func(docId string) (int, bool)

// Score aggregates each resolved term's posting contributions per
// docId via the BM25-like formula, sorts descending, drops anything
// below opts.MinScore, and truncates to opts.Limit
// (clamped to >=1, default 10).
func Score(terms []ResolvedTerm, docLength DocLengthFunc, avgDocLength float64, opts types.SearchOptions) []types.ScoredHit {
	denom := avgDocLength
	if denom < 1 {
		denom = 1
	}

	scores := make(map[string]float64)
	for _, rt := range terms {
		idf := idfFor(rt)
		if idf == 0 {
			continue
		}
		for _, p := range rt.Postings {
			tf := p.TermFrequency * rt.Token.Boost
			length := avgDocLength
			if l, ok := docLength(p.DocId); ok {
				length = float64(l)
			}
			norm := 1 - bParam + bParam*length/denom
			contribution := idf * (dParam + ((k1+1)*tf)/(k1*norm+tf))
			if p.IsPrefix {
				contribution *= PrefixMatchPenalty
			}
			scores[p.DocId] += contribution
		}
	}

	hits := make([]types.ScoredHit, 0, len(scores))
	for docId, score := range scores {
		if opts.MinScore > 0 && score < opts.MinScore {
			continue
		}
		hits = append(hits, types.ScoredHit{DocId: docId, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].DocId < hits[j].DocId
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultResultLimit
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
