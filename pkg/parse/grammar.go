package parse

import (
	"regexp"
	"strings"
)

// The input grammar is a fixed-priority list of anchored matchers instead of
// one composite pattern. Each matcher consumes its token plus the following
// whitespace; a token only counts when it is terminated by whitespace or
// end of input. Vocabulary is case-sensitive.
var (
	flagRe     = regexp.MustCompile(`^(task|todo)(?:\s+|$)`)
	shortcutRe = regexp.MustCompile(`^(today|tod|heute|tomorrow|tom|morgen|yesterday|yes|gestern|0)(?:\s+|$)`)
	numericRe  = regexp.MustCompile(`^([+-]\d+)(?:\s+|$)`)
	calendarRe = regexp.MustCompile(`^(\d{4}-\d{1,2}-\d{1,2}|\d{1,2}-\d{1,2}|\d{1,2})(?:\s+|$)`)
	weekdayRe  = regexp.MustCompile(`^(next|last|n|l)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|wed|thu|fri|sat|sun|montag|dienstag|mittwoch|donnerstag|freitag|samstag|sonntag)(?:\s+|$)`)
)

// tokens holds the optional capture slots of one tokenized line. At most one
// of the four date slots is populated.
type tokens struct {
	flagLead  string
	shortcut  string
	numeric   string
	calendar  string
	weekMod   string
	weekName  string
	flagTrail string
	text      string
}

// tokenize splits a line into its capture slots. It never fails: a line that
// matches none of the date matchers simply carries everything in text.
func tokenize(line string) tokens {
	var tk tokens
	rest := line

	if m := flagRe.FindStringSubmatch(rest); m != nil {
		tk.flagLead = m[1]
		rest = rest[len(m[0]):]
	}

	// Exactly one date alternative may consume input. Shortcut is tried
	// first so the literal "0" never reaches the calendar matcher.
	if m := shortcutRe.FindStringSubmatch(rest); m != nil {
		tk.shortcut = m[1]
		rest = rest[len(m[0]):]
	} else if m := numericRe.FindStringSubmatch(rest); m != nil {
		tk.numeric = m[1]
		rest = rest[len(m[0]):]
	} else if m := calendarRe.FindStringSubmatch(rest); m != nil {
		tk.calendar = m[1]
		rest = rest[len(m[0]):]
	} else if m := weekdayRe.FindStringSubmatch(rest); m != nil {
		tk.weekMod = m[1]
		tk.weekName = m[2]
		rest = rest[len(m[0]):]
	}

	if m := flagRe.FindStringSubmatch(rest); m != nil {
		tk.flagTrail = m[1]
		rest = rest[len(m[0]):]
	}

	tk.text = strings.TrimSpace(rest)
	return tk
}

// extractFlag returns the classification for the leading flag slot if
// present, else the trailing one. Only one physical flag token is expected
// per line even though the grammar admits two positions. Both flag words
// ("task" and "todo") classify as a task; the memo classification is only
// ever inferred, never parsed.
func extractFlag(tk tokens) string {
	if tk.flagLead != "" || tk.flagTrail != "" {
		return FlagTask
	}
	return ""
}
