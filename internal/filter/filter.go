package filter

import "strings"

// Keyword vocabularies for the official-release heuristic. Matching is
// case-insensitive substring over the title, mirroring how uploaders tag
// their videos rather than exact word matching.
var (
	excludeKeywords = []string{
		"reaction", "mix", "dj", "interview", "podcast", "compilation",
		"lyrics", "cover", "behind the scenes", "challenge", "dance", "shorts",
	}

	// quickExcludeKeywords runs before the channel-info fetch to skip obvious
	// non-candidates without spending API quota. Same vocabulary minus
	// cover/challenge/dance, which need channel context to judge.
	quickExcludeKeywords = []string{
		"reaction", "mix", "dj", "interview", "podcast", "compilation",
		"lyrics", "behind the scenes", "shorts",
	}

	includeKeywords = []string{
		"official", "music video", "official video", "audio", "single", "release",
	}

	// refilterKeywords is the lightweight second-pass exclusion applied after
	// merging candidates from all queries.
	refilterKeywords = []string{"mix", "cover", "reaction"}
)

func containsAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// QuickPreFilter reports whether a title survives the cheap pre-check that
// runs before the channel lookup.
func QuickPreFilter(title string) bool {
	return !containsAny(title, quickExcludeKeywords)
}

// OfficialRelease applies the keyword heuristic distinguishing genuine
// releases from reactions, mixes, covers and the like. The recency and
// channel checks run separately in the pipeline; this function only judges
// title and channel title.
func OfficialRelease(title, channelTitle string) bool {
	if containsAny(title, excludeKeywords) {
		return false
	}
	if containsAny(title, includeKeywords) {
		return true
	}
	return strings.Contains(strings.ToLower(channelTitle), "official")
}

// Refilter reports whether a normalized title survives the defensive
// second-pass exclusion.
func Refilter(title string) bool {
	return !containsAny(title, refilterKeywords)
}
