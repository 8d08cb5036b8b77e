package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/21nOrg/searchfn/types"
)

func values(tokens []types.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Value
	}
	return out
}

func TestDefaultPipelineLowercasesAndDropsStopWords(t *testing.T) {
	p := Build(types.PipelineConfig{Language: types.LanguageEnglish}, true)
	tokens, err := p.Run("body", "The Quick Brown Fox", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"quick", "brown", "fox"}, values(tokens))
}

func TestEdgeNGramExpansion(t *testing.T) {
	p := Build(types.PipelineConfig{
		Language:           types.LanguageEnglish,
		StopWords:          map[string]struct{}{},
		EnableEdgeNGrams:   true,
		EdgeNGramMinLength: 2,
		EdgeNGramMaxLength: 15,
	}, true)
	tokens, err := p.Run("title", "anthropic", nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		"an", "ant", "anth", "anthr", "anthro", "anthrop", "anthropi", "anthropic",
	}, values(tokens))

	for _, tok := range tokens[:len(tokens)-1] {
		require.NotNil(t, tok.Metadata)
		require.True(t, *tok.Metadata.IsPrefix)
		require.Equal(t, "anthropic", tok.Metadata.OriginalTerm)
	}
	last := tokens[len(tokens)-1]
	require.NotNil(t, last.Metadata)
	require.False(t, *last.Metadata.IsPrefix)
}

func TestQueryVariantDisablesEdgeNGramsByDefault(t *testing.T) {
	cfg := types.PipelineConfig{
		Language:           types.LanguageEnglish,
		StopWords:          map[string]struct{}{},
		EnableEdgeNGrams:   true,
		EdgeNGramMinLength: 2,
		EdgeNGramMaxLength: 15,
	}
	p := Build(cfg, false)
	tokens, err := p.Run("title", "an", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"an"}, values(tokens))
}

func TestStemmingCollapsesDoubledConsonant(t *testing.T) {
	p := Build(types.PipelineConfig{
		Language:       types.LanguageEnglish,
		StopWords:      map[string]struct{}{},
		EnableStemming: true,
	}, true)
	tokens, err := p.Run("body", "running", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"run"}, values(tokens))
}

func TestPipelineIdempotenceWithoutStopWordsOrStemming(t *testing.T) {
	p := Build(types.PipelineConfig{
		Language:  types.LanguageEnglish,
		StopWords: map[string]struct{}{},
	}, true)

	text := "The Quick Brown Fox Jumps"
	first, err := p.Run("body", text, nil)
	require.NoError(t, err)

	joined := ""
	for i, t := range first {
		if i > 0 {
			joined += " "
		}
		joined += t.Value
	}

	second, err := p.Run("body", joined, nil)
	require.NoError(t, err)

	require.ElementsMatch(t, values(first), values(second))
}

func TestTokenizeStageRejectsNonSingleSeed(t *testing.T) {
	var s TokenizeStage
	_, err := s.Execute([]types.Token{}, types.PipelineContext{})
	require.Error(t, err)
}

func TestPerFieldEdgeNGramOverride(t *testing.T) {
	cfg := types.PipelineConfig{
		Language:         types.LanguageEnglish,
		StopWords:        map[string]struct{}{},
		EnableEdgeNGrams: false,
		EdgeNGramFieldConfig: map[string]types.EdgeNGramFieldOptions{
			"title": {Enabled: true, MinLength: 2, MaxLength: 4},
		},
	}
	titlePipeline := BuildForField(cfg, "title", true)
	tokens, err := titlePipeline.Run("title", "anthropic", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"an", "ant", "anth"}, values(tokens))

	bodyPipeline := BuildForField(cfg, "body", true)
	tokens, err = bodyPipeline.Run("body", "anthropic", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"anthropic"}, values(tokens))
}
