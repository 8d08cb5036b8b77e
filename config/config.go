// Package config loads an EngineConfig from YAML, mirroring
// huichen/wukong's preference for a small, explicit configuration
// surface over a generic settings blob.
//
// wukong itself takes its options as a Go struct literal rather than
// a config file; gopkg.in/yaml.v3 is grounded on the
// Adithya-Monish-Kumar-K distributed search platform's go.mod, which
// uses it for exactly this kind of static configuration file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/21nOrg/searchfn/ftserr"
	"github.com/21nOrg/searchfn/types"
)

// file is the on-disk shape, kept deliberately close to
// types.EngineConfig rather than introducing a parallel naming scheme.
type file struct {
	Name     string       `yaml:"name"`
	Fields   []string     `yaml:"fields"`
	Pipeline pipelineFile `yaml:"pipeline"`
	Storage  storageFile  `yaml:"storage"`
	Cache    cacheFile    `yaml:"cache"`
}

type pipelineFile struct {
	Language           string                   `yaml:"language"`
	StopWords          []string                 `yaml:"stopWords"`
	EnableStemming     bool                     `yaml:"enableStemming"`
	EnableEdgeNGrams   bool                     `yaml:"enableEdgeNGrams"`
	EdgeNGramMinLength int                      `yaml:"edgeNGramMinLength"`
	EdgeNGramMaxLength int                      `yaml:"edgeNGramMaxLength"`
	EdgeNGramFields    map[string]edgeNGramFile `yaml:"edgeNGramFields"`
}

type edgeNGramFile struct {
	Enabled   bool `yaml:"enabled"`
	MinLength int  `yaml:"minLength"`
	MaxLength int  `yaml:"maxLength"`
}

type storageFile struct {
	DBName    string `yaml:"dbName"`
	Version   int    `yaml:"version"`
	ChunkSize int    `yaml:"chunkSize"`
}

type cacheFile struct {
	Terms   int `yaml:"terms"`
	Vectors int `yaml:"vectors"`
}

// Load reads path as YAML and returns an EngineConfig with defaults
// applied.
func Load(path string) (types.EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.EngineConfig{}, ftserr.Wrap(ftserr.InputRejected, "config.Load", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes into an EngineConfig with defaults applied.
func Parse(data []byte) (types.EngineConfig, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return types.EngineConfig{}, ftserr.Wrap(ftserr.InputRejected, "config.Parse", err)
	}

	cfg := types.EngineConfig{
		Name:   f.Name,
		Fields: f.Fields,
		Pipeline: types.PipelineConfig{
			Language:           types.Language(f.Pipeline.Language),
			EnableStemming:     f.Pipeline.EnableStemming,
			EnableEdgeNGrams:   f.Pipeline.EnableEdgeNGrams,
			EdgeNGramMinLength: f.Pipeline.EdgeNGramMinLength,
			EdgeNGramMaxLength: f.Pipeline.EdgeNGramMaxLength,
		},
		Storage: types.StorageConfig{
			DBName:    f.Storage.DBName,
			Version:   f.Storage.Version,
			ChunkSize: f.Storage.ChunkSize,
		},
		Cache: types.CacheConfig{
			Terms:   f.Cache.Terms,
			Vectors: f.Cache.Vectors,
		},
	}

	if len(f.Pipeline.StopWords) > 0 {
		cfg.Pipeline.StopWords = make(map[string]struct{}, len(f.Pipeline.StopWords))
		for _, w := range f.Pipeline.StopWords {
			cfg.Pipeline.StopWords[w] = struct{}{}
		}
	}

	if len(f.Pipeline.EdgeNGramFields) > 0 {
		cfg.Pipeline.EdgeNGramFieldConfig = make(map[string]types.EdgeNGramFieldOptions, len(f.Pipeline.EdgeNGramFields))
		for field, opts := range f.Pipeline.EdgeNGramFields {
			cfg.Pipeline.EdgeNGramFieldConfig[field] = types.EdgeNGramFieldOptions{
				Enabled:   opts.Enabled,
				MinLength: opts.MinLength,
				MaxLength: opts.MaxLength,
			}
		}
	}

	return cfg.WithDefaults(), nil
}
