package query

import "github.com/21nOrg/searchfn/types"

// DetermineSearchMode resolves explicit mode, or auto-selects by
// trimmed query length: <=3 runes -> prefix, >=8 -> fuzzy, else exact.
func DetermineSearchMode(trimmedQuery string, requested types.SearchMode) types.SearchMode {
	if requested != "" && requested != types.ModeAuto {
		return requested
	}
	n := len([]rune(trimmedQuery))
	switch {
	case n <= 3:
		return types.ModePrefix
	case n >= 8:
		return types.ModeFuzzy
	default:
		return types.ModeExact
	}
}

// EffectiveFuzzyDistance returns requestedFuzzy unchanged, except when
// mode resolved to fuzzy and no fuzzy distance was requested, in which
// case it defaults to 2.
func EffectiveFuzzyDistance(mode types.SearchMode, requestedFuzzy int) int {
	if mode == types.ModeFuzzy && requestedFuzzy == 0 {
		return 2
	}
	return requestedFuzzy
}
