package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/21nOrg/searchfn/types"
	"github.com/21nOrg/searchfn/vocabulary"
)

func TestFuzzyExpandFindsWithinCappedDistance(t *testing.T) {
	vocab := []string{"anthropic", "anthropology", "antenna"}
	got := FuzzyExpand("anthopric", 2, vocab)
	require.Contains(t, got, "anthropic")
}

func TestFuzzyExpandCapsDistanceAtThree(t *testing.T) {
	vocab := []string{"hello"}
	got := FuzzyExpand("xxxxx", 99, vocab)
	require.Empty(t, got)
}

func TestExpanderCacheInvalidatesOnVocabularyMutation(t *testing.T) {
	vocab := vocabulary.New()
	vocab.Insert("anthropic")
	exp, err := NewExpander(vocab)
	require.NoError(t, err)

	first := exp.Expand("anthopric", 2)
	require.Contains(t, first, "anthropic")

	// "anthoprics" is one edit away from the query, so it only shows up
	// if the cached first result was dropped on Insert.
	vocab.Insert("anthoprics")
	second := exp.Expand("anthopric", 2)
	require.Contains(t, second, "anthropic")
	require.Contains(t, second, "anthoprics")
}

func TestDetermineSearchModeByLength(t *testing.T) {
	require.Equal(t, types.ModePrefix, DetermineSearchMode("an", types.ModeAuto))
	require.Equal(t, types.ModeExact, DetermineSearchMode("anthro", types.ModeAuto))
	require.Equal(t, types.ModeFuzzy, DetermineSearchMode("anthropic", types.ModeAuto))
}

func TestDetermineSearchModeExplicitWins(t *testing.T) {
	require.Equal(t, types.ModeExact, DetermineSearchMode("anthropic", types.ModeExact))
}

func TestEffectiveFuzzyDistanceDefaultsToTwoForFuzzyMode(t *testing.T) {
	require.Equal(t, 2, EffectiveFuzzyDistance(types.ModeFuzzy, 0))
	require.Equal(t, 3, EffectiveFuzzyDistance(types.ModeFuzzy, 3))
	require.Equal(t, 0, EffectiveFuzzyDistance(types.ModeExact, 0))
}

func TestScoreMonotonicityOnTermFrequency(t *testing.T) {
	idf := 1.0
	terms := []ResolvedTerm{
		{
			Token:                    types.QueryToken{Field: "body", Term: "fox", Boost: 1},
			Postings:                 []PostingEntry{{DocId: "A", TermFrequency: 1}, {DocId: "B", TermFrequency: 2}},
			InverseDocumentFrequency: &idf,
		},
	}
	hits := Score(terms, func(string) (int, bool) { return 10, true }, 10, types.SearchOptions{})
	require.Len(t, hits, 2)
	require.Equal(t, "B", hits[0].DocId)
	require.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
}

func TestScorePrefixPenaltyReducesContribution(t *testing.T) {
	idf := 1.0
	withPrefix := []ResolvedTerm{{
		Token:                    types.QueryToken{Field: "body", Term: "an", Boost: 1},
		Postings:                 []PostingEntry{{DocId: "A", TermFrequency: 1, IsPrefix: true}},
		InverseDocumentFrequency: &idf,
	}}
	withoutPrefix := []ResolvedTerm{{
		Token:                    types.QueryToken{Field: "body", Term: "an", Boost: 1},
		Postings:                 []PostingEntry{{DocId: "A", TermFrequency: 1, IsPrefix: false}},
		InverseDocumentFrequency: &idf,
	}}
	lenFn := func(string) (int, bool) { return 10, true }
	prefixHits := Score(withPrefix, lenFn, 10, types.SearchOptions{})
	exactHits := Score(withoutPrefix, lenFn, 10, types.SearchOptions{})
	require.Less(t, prefixHits[0].Score, exactHits[0].Score)
}

func TestScoreRespectsMinScoreAndLimit(t *testing.T) {
	idf := 1.0
	terms := []ResolvedTerm{{
		Token:                    types.QueryToken{Field: "body", Term: "fox", Boost: 1},
		Postings:                 []PostingEntry{{DocId: "A", TermFrequency: 5}, {DocId: "B", TermFrequency: 1}},
		InverseDocumentFrequency: &idf,
	}}
	hits := Score(terms, func(string) (int, bool) { return 10, true }, 10, types.SearchOptions{MinScore: 0.6, Limit: 1})
	require.Len(t, hits, 1)
	require.Equal(t, "A", hits[0].DocId)
}
