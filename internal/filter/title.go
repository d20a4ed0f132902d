package filter

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	noiseTokenRe = regexp.MustCompile(`(?i)\b(official|video|lyrics|hd|4k)\b`)
	bracketRe    = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	edgeDashRe   = regexp.MustCompile(`^[-\s]+|[-\s]+$`)
)

// NormalizeTitle cleans platform clutter from a raw video title and appends
// the artist (channel) name when it is not already present. The channel name
// goes through the same cleaning so that re-normalizing an output is a no-op.
func NormalizeTitle(title, channel string) string {
	clean := titleCase(cleanFragment(title))
	artist := titleCase(cleanFragment(channel))
	if artist == "" {
		return clean
	}
	if !strings.Contains(strings.ToLower(clean), strings.ToLower(artist)) {
		if clean == "" {
			return artist
		}
		clean = clean + " - " + artist
	}
	return clean
}

func cleanFragment(s string) string {
	s = bracketRe.ReplaceAllString(s, "")
	s = noiseTokenRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return edgeDashRe.ReplaceAllString(s, "")
}

// titleCase upper-cases the first letter of each space-separated word and
// lower-cases the rest, like Python's str.title but stable under repetition.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		runes := []rune(w)
		upped := false
		for j, r := range runes {
			if !unicode.IsLetter(r) {
				continue
			}
			if !upped {
				runes[j] = unicode.ToUpper(r)
				upped = true
			} else {
				runes[j] = unicode.ToLower(r)
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
