package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Candidate bounds. The pre-merge and final passes use different limits.
const (
	candidateMinLen = 4
	candidateMaxLen = 60
	finalMinLen     = 3
	finalMaxLen     = 80
)

var (
	candidateNoise = []string{
		"No Substance", "Regulation", "Annex", "List", "Assessed", "Authorisation",
		"Candidate", "Pop", "Pic", "Explosives", "Drug", "Ozone", "###",
	}
	finalNoise = []string{
		"Not Hazardous", "No Substance", "See Section", "###", "Ltd", "Com",
	}

	leadingEmphasisRe = regexp.MustCompile(`^\*\*[:\-]?\s*`)
	multiSpaceRe      = regexp.MustCompile(`\s{2,}`)
	letterRunRe       = regexp.MustCompile(`\p{L}+`)
	whitelistRe       = regexp.MustCompile(`^[A-Za-z0-9\s\-\(\),]+$`)
)

// titleCase capitalises the first letter of every run of letters and lowers
// the rest, so a letter after a digit or apostrophe starts a new word
// ("h2o2" becomes "H2O2").
func titleCase(s string) string {
	caser := cases.Title(language.Und)
	return letterRunRe.ReplaceAllStringFunc(s, caser.String)
}

func containsNoise(name string, noise []string) bool {
	lower := strings.ToLower(name)
	for _, w := range noise {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func inBounds(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

// CleanCandidates is the pre-merge pass over pattern harvests: names are
// trimmed and title-cased, then dropped when outside [4,60] characters,
// noisy, or containing characters other than letters, digits, whitespace,
// hyphens, parentheses and commas. Order is kept and duplicates removed.
func CleanCandidates(raw []string) []string {
	var out []string
	for _, name := range raw {
		name = titleCase(strings.TrimSpace(name))
		if !inBounds(name, candidateMinLen, candidateMaxLen) {
			continue
		}
		if containsNoise(name, candidateNoise) {
			continue
		}
		name = leadingEmphasisRe.ReplaceAllString(name, "")
		name = multiSpaceRe.ReplaceAllString(name, " ")
		if !whitelistRe.MatchString(name) {
			continue
		}
		out = appendUnique(out, name)
	}
	return out
}

// FinalPass filters merged names to [3,80] characters without final-pass
// noise words and collapses internal whitespace.
func FinalPass(names []string) []string {
	var out []string
	for _, name := range names {
		if !inBounds(name, finalMinLen, finalMaxLen) {
			continue
		}
		if containsNoise(name, finalNoise) {
			continue
		}
		name = strings.TrimSpace(multiSpaceRe.ReplaceAllString(name, " "))
		out = appendUnique(out, name)
	}
	return out
}

func appendUnique(list []string, name string) []string {
	if name == "" {
		return list
	}
	for _, existing := range list {
		if existing == name {
			return list
		}
	}
	return append(list, name)
}
