package query

import (
	"regexp"
	"strings"
)

// matcher matches a search term against name and description. The term is
// treated as a regular expression only when it compiles and carries at least
// one metacharacter; everything else is a case-insensitive substring
// search, so "c++" finds libc++ instead of failing to compile.
type matcher struct {
	re   *regexp.Regexp
	term string
}

func newMatcher(term string) matcher {
	if hasUnescapedMeta(term) {
		if re, err := regexp.Compile(term); err == nil {
			return matcher{re: re}
		}
	}
	return matcher{term: strings.ToLower(term)}
}

func (m matcher) matches(candidates ...string) bool {
	for _, c := range candidates {
		if m.re != nil {
			if m.re.MatchString(c) {
				return true
			}
			continue
		}
		if strings.Contains(strings.ToLower(c), m.term) {
			return true
		}
	}
	return false
}

const metaChars = `^$.*+?[]()|`

// hasUnescapedMeta reports whether the term contains a regex metacharacter.
// A backslash counts as one: escaping only makes sense with regex intent.
func hasUnescapedMeta(term string) bool {
	return strings.ContainsAny(term, metaChars+`\`)
}
