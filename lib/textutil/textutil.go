package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims a string and folds runs of whitespace
// (including newlines from pretty-printed markup) into single spaces.
func CollapseWhitespace(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

var ordinalRegex = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\b`)

// StripOrdinals removes ordinal suffixes from day numbers,
// "Sat 4th July" becomes "Sat 4 July". Suffixes only come off digits
// so month and team names are left alone.
func StripOrdinals(s string) string {
	return ordinalRegex.ReplaceAllString(s, "$1")
}

// ContainsAny reports whether s contains any of the given keywords.
func ContainsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
