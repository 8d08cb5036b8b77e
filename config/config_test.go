package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/21nOrg/searchfn/types"
)

const sampleYAML = `
name: articles
fields: [title, body]
pipeline:
  language: en
  enableStemming: true
  enableEdgeNGrams: true
  edgeNGramMinLength: 2
  edgeNGramMaxLength: 10
  stopWords: [the, a]
  edgeNGramFields:
    title:
      enabled: true
      minLength: 1
      maxLength: 6
storage:
  dbName: test.db
  version: 2
  chunkSize: 128
cache:
  terms: 100
  vectors: 50
`

func TestParseDecodesAllFields(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Equal(t, "articles", cfg.Name)
	require.Equal(t, []string{"title", "body"}, cfg.Fields)
	require.Equal(t, types.LanguageEnglish, cfg.Pipeline.Language)
	require.True(t, cfg.Pipeline.EnableStemming)
	require.True(t, cfg.Pipeline.EnableEdgeNGrams)
	require.Equal(t, 2, cfg.Pipeline.EdgeNGramMinLength)
	require.Equal(t, 10, cfg.Pipeline.EdgeNGramMaxLength)
	_, hasThe := cfg.Pipeline.StopWords["the"]
	require.True(t, hasThe)

	override, ok := cfg.Pipeline.EdgeNGramFieldConfig["title"]
	require.True(t, ok)
	require.Equal(t, 1, override.MinLength)
	require.Equal(t, 6, override.MaxLength)

	require.Equal(t, "test.db", cfg.Storage.DBName)
	require.Equal(t, 2, cfg.Storage.Version)
	require.Equal(t, 128, cfg.Storage.ChunkSize)
	require.Equal(t, 100, cfg.Cache.Terms)
	require.Equal(t, 50, cfg.Cache.Vectors)
}

func TestParseAppliesDefaultsForMissingFields(t *testing.T) {
	cfg, err := Parse([]byte("name: minimal\nfields: [body]\n"))
	require.NoError(t, err)

	require.Equal(t, types.LanguageEnglish, cfg.Pipeline.Language)
	require.Equal(t, 2, cfg.Pipeline.EdgeNGramMinLength)
	require.Equal(t, 15, cfg.Pipeline.EdgeNGramMaxLength)
	require.Equal(t, 1, cfg.Storage.Version)
	require.Equal(t, 256, cfg.Storage.ChunkSize)
	require.Equal(t, 2048, cfg.Cache.Terms)
	require.Equal(t, 512, cfg.Cache.Vectors)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unterminated"))
	require.Error(t, err)
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.yaml")
	require.Error(t, err)
}
