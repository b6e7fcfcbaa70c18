// Package keyword provides the case-insensitive keyword matching shared by the
// intent, omnibox and sites rule tables.
//
// A keyword always starts at a word boundary, so "ai" never matches inside
// "explain" and "here" never matches inside "there". Match, Any, First and
// Strip take whole words only, optionally with a plural or possessive suffix:
// "score" matches "scores" and stripping "in" leaves "india" alone. The Prefix
// variants also let a keyword of MinPrefix runes or more run on into the rest
// of the word, so "score" matches "scoreboard" and "cricket" "cricketers".
package keyword

import (
	"strings"
	"unicode"
)

// suffixes may follow a keyword that ends in a letter.
var suffixes = [][]rune{[]rune("'s"), []rune("es"), []rune("s"), nil}

// MinPrefix is the shortest keyword the Prefix variants extend. Shorter ones
// such as "ai" or "odi" would otherwise match "air" and "odisha".
const MinPrefix = 4

// Match reports whether kw occurs in text.
func Match(text, kw string) bool {
	_, _, ok := find(lowerRunes(text), lowerRunes(kw), 0, false)
	return ok
}

// MatchPrefix reports whether kw occurs in text at the start of a word.
func MatchPrefix(text, kw string) bool {
	_, _, ok := find(lowerRunes(text), lowerRunes(kw), 0, true)
	return ok
}

// Any reports whether any of kws occurs in text.
func Any(text string, kws []string) bool {
	_, ok := First(text, kws)
	return ok
}

// AnyPrefix is Any with prefix matching.
func AnyPrefix(text string, kws []string) bool {
	_, ok := first(text, kws, true)
	return ok
}

// First returns the first keyword of kws (in slice order) that occurs in text.
func First(text string, kws []string) (string, bool) {
	return first(text, kws, false)
}

func first(text string, kws []string, prefix bool) (string, bool) {
	t := lowerRunes(text)
	for _, kw := range kws {
		if _, _, ok := find(t, lowerRunes(kw), 0, prefix); ok {
			return kw, true
		}
	}
	return "", false
}

// Strip removes every occurrence of the given keywords from text, suffix
// included, and collapses the remaining whitespace. The casing of the
// surviving text is preserved.
func Strip(text string, groups ...[]string) string {
	src := []rune(text)
	low := lowerRunes(text)
	drop := make([]bool, len(src))

	for _, group := range groups {
		for _, kw := range group {
			k := lowerRunes(kw)
			if len(k) == 0 {
				continue
			}
			from := 0
			for {
				start, end, ok := find(low, k, from, false)
				if !ok {
					break
				}
				for i := start; i < end; i++ {
					drop[i] = true
				}
				from = end
			}
		}
	}

	var sb strings.Builder
	for i, r := range src {
		if drop[i] {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(r)
	}
	return strings.Trim(strings.Join(strings.Fields(sb.String()), " "), " ?!.,;:")
}

// Count returns the number of whitespace-separated tokens in text.
func Count(text string) int {
	return len(strings.Fields(text))
}

// find locates k in t at or after from. With prefix set and k at least
// MinPrefix runes long, any word runes may follow and end extends to the end
// of that word; otherwise only a suffix may. The returned end includes
// whatever followed.
func find(t, k []rune, from int, prefix bool) (int, int, bool) {
	if len(k) == 0 || len(k) > len(t) {
		return 0, 0, false
	}
	for i := from; i+len(k) <= len(t); i++ {
		if !equalAt(t, k, i) {
			continue
		}
		if isWord(k[0]) && i > 0 && isWord(t[i-1]) {
			continue
		}
		end := i + len(k)
		if !isWord(k[len(k)-1]) {
			return i, end, true
		}
		if prefix && len(k) >= MinPrefix {
			for end < len(t) && isWord(t[end]) {
				end++
			}
			return i, end, true
		}
		for _, suf := range suffixes {
			e := end + len(suf)
			if e > len(t) || !equalAt(t, suf, end) {
				continue
			}
			if e == len(t) || !isWord(t[e]) {
				return i, e, true
			}
		}
	}
	return 0, 0, false
}

func equalAt(t, k []rune, i int) bool {
	if i+len(k) > len(t) {
		return false
	}
	for j, r := range k {
		if t[i+j] != r {
			return false
		}
	}
	return true
}

// lowerRunes lowercases rune by rune so indexes line up with []rune(s).
func lowerRunes(s string) []rune {
	r := []rune(s)
	for i := range r {
		r[i] = unicode.ToLower(r[i])
	}
	return r
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}
