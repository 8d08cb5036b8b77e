package stemmer

import "github.com/21nOrg/searchfn/types"

// englishStopWords, spanishStopWords and frenchStopWords are small,
// representative closed-class word lists — enough to exercise the
// stop-word filter stage without trying to be exhaustive.
var englishStopWords = set(
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for",
	"if", "in", "into", "is", "it", "no", "not", "of", "on", "or",
	"such", "that", "the", "their", "then", "there", "these", "they",
	"this", "to", "was", "will", "with",
)

var spanishStopWords = set(
	"de", "la", "que", "el", "en", "y", "a", "los", "del", "se",
	"las", "por", "un", "para", "con", "no", "una", "su", "al", "lo",
)

var frenchStopWords = set(
	"le", "de", "un", "à", "être", "et", "en", "avoir", "que", "pour",
	"dans", "ce", "il", "qui", "ne", "sur", "se", "pas", "plus", "par",
)

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// StopWordsForLanguage returns the default stop-word set,
// language-selection table. Unknown languages fall back to English.
func StopWordsForLanguage(lang types.Language) map[string]struct{} {
	switch lang {
	case types.LanguageSpanish:
		return spanishStopWords
	case types.LanguageFrench:
		return frenchStopWords
	case types.LanguageEnglish, "english", "":
		return englishStopWords
	default:
		return englishStopWords
	}
}
