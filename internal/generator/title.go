package generator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// DefaultTitle is used when no line of the response looks like a title.
const DefaultTitle = "Fictional Article"

const (
	scanLines     = 3
	maxTitleWords = 4
	minTitleRunes = 3
	maxTitleRunes = 50
)

// DefaultTitles is the pool a title is drawn from when extraction yields
// something unusable.
var DefaultTitles = []string{
	"Mount Alderson", "Project Meridian", "Sarah Chen", "Battle of Corinth",
	"Keldysh Protocol", "Lake Thornton", "Operation Nightfall", "Dr. Marcus Webb",
	"Treaty of Millbrook", "The Valdez Method", "Port Harrison", "Expedition Aurora",
}

// lineFilter reports whether a line can not be a title.
type lineFilter func(line string) bool

var lineFilters = []lineFilter{
	isPreamble,
	isBoldLead,
	isSentence,
}

func isPreamble(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "here is") ||
		strings.Contains(lower, "fictional") ||
		strings.Contains(lower, "wikipedia") ||
		strings.Contains(line, "From Wikipedia")
}

func isBoldLead(line string) bool { return strings.HasPrefix(line, "**") }

func isSentence(line string) bool {
	for _, verb := range []string{" is ", " was ", " are ", " were "} {
		if strings.Contains(line, verb) {
			return true
		}
	}
	return false
}

func looksLikeTitle(line string) bool {
	n := utf8.RuneCountInString(line)
	return n > 0 && n < maxTitleRunes && !strings.Contains(line, ".")
}

// lines splits s into trimmed non-empty lines.
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// candidate picks the first plausible title among the leading lines.
func candidate(content string) string {
	ll := lines(content)
	for _, l := range ll[:min(scanLines, len(ll))] {
		rejected := lo.ContainsBy(lineFilters, func(f lineFilter) bool { return f(l) })
		if !rejected && looksLikeTitle(l) {
			return l
		}
	}
	return DefaultTitle
}

var (
	reNumbering   = regexp.MustCompile(`^\d+\.\s*`)
	reBullet      = regexp.MustCompile(`^[-•*]\s*`)
	reQuotes      = regexp.MustCompile(`["“”'‘’]`)
	reTitlePrefix = regexp.MustCompile(`(?i)^\s*title:\s*`)
)

// cleanTitle strips list markers, quotes and a "Title:" prefix, and keeps at
// most four words.
func cleanTitle(s string) string {
	s = reNumbering.ReplaceAllString(s, "")
	s = reBullet.ReplaceAllString(s, "")
	s = reQuotes.ReplaceAllString(s, "")
	s = reTitlePrefix.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if words := strings.Split(s, " "); len(words) > maxTitleWords {
		s = strings.Join(words[:maxTitleWords], " ")
	}
	return s
}

func validTitle(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= minTitleRunes && n <= maxTitleRunes
}

// ExtractTitle returns the cleaned title of a generated article and whether
// it is usable. Callers substitute a pool title when ok is false.
func ExtractTitle(content string) (title string, ok bool) {
	title = cleanTitle(candidate(content))
	return title, validTitle(title)
}
