// Package pipeline implements the ordered stage sequence over tokens:
// tokenize, normalize, stop-word filter, optional stem, optional edge
// n-gram expansion, plus any custom
// stages appended by configuration. Stages run eagerly: each one builds
// its full output slice before the next stage starts.
//
// Grounded on huichen/wukong's segmenter_worker.go, which runs one
// pass over raw text producing a token->positions map; this package
// generalizes that single pass into an ordered, short-circuiting
// stage chain, and replaces wukong's dictionary-based Chinese
// segmenter (sego) with a Unicode-letter/digit regex tokenizer (see
// DESIGN.md for why sego was dropped).
package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/21nOrg/searchfn/ftserr"
	"github.com/21nOrg/searchfn/types"
)

// tokenPattern matches runs of Unicode letters and digits, the
// tokenizer's match class.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// TokenizeStage is the default first stage: it must receive exactly
// one seed token holding raw text in Value, and emits one token per
// match of tokenPattern, carrying the match's byte offset as Position.
type TokenizeStage struct{}

func (TokenizeStage) Execute(tokens []types.Token, ctx types.PipelineContext) ([]types.Token, error) {
	if len(tokens) != 1 {
		return nil, ftserr.New(ftserr.InvalidPipelineInput, "pipeline.TokenizeStage: expected exactly one seed token")
	}
	raw := tokens[0].Value
	matches := tokenPattern.FindAllStringIndex(raw, -1)
	out := make([]types.Token, 0, len(matches))
	for _, m := range matches {
		out = append(out, types.Token{
			Value:      raw[m[0]:m[1]],
			Position:   m[0],
			Field:      ctx.Field,
			DocumentId: ctx.DocumentId,
		})
	}
	return out, nil
}

// NormalizeStage lower-cases each token's value.
type NormalizeStage struct{}

func (NormalizeStage) Execute(tokens []types.Token, _ types.PipelineContext) ([]types.Token, error) {
	out := make([]types.Token, len(tokens))
	for i, t := range tokens {
		t.Value = strings.ToLower(t.Value)
		out[i] = t
	}
	return out, nil
}

// StopWordStage drops tokens whose value is in the configured set. An
// empty (but non-nil) set is a no-op.
type StopWordStage struct {
	StopWords map[string]struct{}
}

func (s StopWordStage) Execute(tokens []types.Token, _ types.PipelineContext) ([]types.Token, error) {
	if len(s.StopWords) == 0 {
		return tokens, nil
	}
	out := make([]types.Token, 0, len(tokens))
	for _, t := range tokens {
		if _, stop := s.StopWords[t.Value]; stop {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// StemStage applies a types.Stemmer to every token's value.
type StemStage struct {
	Stemmer types.Stemmer
}

func (s StemStage) Execute(tokens []types.Token, _ types.PipelineContext) ([]types.Token, error) {
	if s.Stemmer == nil {
		return tokens, nil
	}
	out := make([]types.Token, len(tokens))
	for i, t := range tokens {
		t.Value = s.Stemmer.Stem(t.Value)
		out[i] = t
	}
	return out, nil
}

// EdgeNGramStage emits, for each token of length >= MinLength,
// prefixes of length MinLength..min(len(token), MaxLength); every
// emitted prefix (including the full-length token) carries metadata
// marking whether it IsPrefix, and if so its OriginalTerm. Tokens
// shorter than MinLength pass through unchanged, with no metadata.
type EdgeNGramStage struct {
	MinLength int
	MaxLength int
}

func (s EdgeNGramStage) Execute(tokens []types.Token, _ types.PipelineContext) ([]types.Token, error) {
	minLen, maxLen := s.MinLength, s.MaxLength
	if minLen <= 0 {
		minLen = 2
	}
	if maxLen < minLen {
		maxLen = minLen
	}

	out := make([]types.Token, 0, len(tokens))
	for _, t := range tokens {
		runes := []rune(t.Value)
		if len(runes) < minLen {
			out = append(out, t)
			continue
		}

		upper := maxLen
		if len(runes) < upper {
			upper = len(runes)
		}
		full := t.Value
		for l := minLen; l <= upper; l++ {
			isPrefix := l != len(runes)
			tok := t
			tok.Value = string(runes[:l])
			meta := &types.TokenMetadata{IsPrefix: boolPtr(isPrefix)}
			if isPrefix {
				meta.OriginalTerm = full
			}
			tok.Metadata = meta
			out = append(out, tok)
		}
	}
	return out, nil
}

func boolPtr(b bool) *bool { return &b }

// IsLetterOrDigit reports whether r belongs to the tokenizer's match
// class; exposed for callers building custom stages consistent with
// the default tokenizer.
func IsLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
