// Package parse turns one free-form journal line into a structured Input:
// an optional task flag, an optional date expression resolved to a signed
// day offset, and the remaining memo text.
//
// Recognized date expressions, in matching priority:
//
//   - shortcuts: today|tod|heute, tomorrow|tom|morgen,
//     yesterday|yes|gestern, 0
//   - numeric offsets: +3, -10
//   - calendar dates: 2026-8-27, 8-27, 27
//   - relative weekdays: next monday, last fri, n dienstag
//
// A "task" or "todo" word may precede or follow the date expression.
package parse

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Flag classifications carried by an Input. The memo flag is only ever
// inferred from the text, never written by the user.
const (
	FlagTask = "task"
	FlagMemo = "memo"
)

// DefaultScope is the scope assigned to every Input. Scope tags are not
// extracted from the line yet; the slot exists so downstream path
// resolution already works per scope.
const DefaultScope = "default"

// ErrCanceled reports that there was nothing to parse: the line was empty
// or blank. It is a user-cancelled outcome, not a failure.
var ErrCanceled = errors.New("input cancelled")

// ErrNoText rejects a line that carries a task flag but no text to go
// with it.
var ErrNoText = errors.New("no text for memo or task")

// Input is the immutable result of parsing one line. When Resolved is
// false no date expression was present or recognized and Offset is
// meaningless; callers decide what an unconstrained date means.
type Input struct {
	Flags    string
	Offset   int
	Resolved bool
	Text     string
	Scope    string
}

// Parser parses journal lines against the wall clock. The zero value is not
// usable; construct with New.
type Parser struct {
	now func() time.Time
}

func New() *Parser {
	return &Parser{now: time.Now}
}

// Parse parses one line, taking a single clock snapshot as the reference
// date so every relative expression in the line resolves against the same
// instant.
func (p *Parser) Parse(line string) (Input, error) {
	return ParseAt(line, p.now())
}

// ParseAt parses one line against an explicit reference date. It is a pure
// function of (line, ref): parsing the same line twice against the same
// reference date yields identical Inputs.
func ParseAt(line string, ref time.Time) (Input, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Input{}, ErrCanceled
	}

	tk := tokenize(line)
	flags := extractFlag(tk)

	offset, resolved, err := resolveOffset(tk, ref)
	if err != nil {
		return Input{}, fmt.Errorf("could not parse %q: %w", line, err)
	}

	return assemble(flags, offset, resolved, tk.text)
}

// assemble applies the defaulting rules, in order:
//
//  1. a flag without text is rejected;
//  2. text longer than 6 characters without a flag defaults to a memo;
//  3. a flagged entry with text but no date expression defaults to today.
//
// An empty line section-wise (no flags, no text, no date) stays as-is with
// an unresolved offset.
func assemble(flags string, offset int, resolved bool, text string) (Input, error) {
	if flags != "" && text == "" {
		return Input{}, ErrNoText
	}
	if flags == "" && utf8.RuneCountInString(text) > 6 {
		flags = FlagMemo
	}
	if !resolved && flags != "" && text != "" {
		offset = 0
		resolved = true
	}
	return Input{
		Flags:    flags,
		Offset:   offset,
		Resolved: resolved,
		Text:     text,
		Scope:    DefaultScope,
	}, nil
}
