package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	KindTask = "task"
	KindMemo = "memo"
)

const entryDateLayout = "2006-01-02"

// EntryDate is a calendar day without a clock-time component. It marshals
// as "2006-01-02"; the zero value marshals as an empty string.
type EntryDate struct {
	time.Time
}

// Day builds an EntryDate at UTC midnight of the given calendar day.
func Day(year int, month time.Month, day int) EntryDate {
	return EntryDate{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d *EntryDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(entryDateLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse entry date '%s': %w", s, err)
	}
	d.Time = t
	return nil
}

func (d EntryDate) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Time.Format(entryDateLayout) + `"`), nil
}

// Entry is one journal line: a memo or a task, pinned to a day page.
type Entry struct {
	ID    string     `json:"id"`
	Text  string     `json:"text"`
	Kind  string     `json:"kind"`
	Done  bool       `json:"done,omitempty"`
	Day   *EntryDate `json:"day,omitempty"`
	Scope string     `json:"scope,omitempty"`
	// Source is the day-page path the entry was read from, empty for
	// entries that were just written.
	Source string `json:"source,omitempty"`
}

// Overdue reports whether a pending task entry's day has passed.
func (e *Entry) Overdue(now time.Time) bool {
	if e.Kind != KindTask || e.Done || e.Day == nil || e.Day.IsZero() {
		return false
	}
	endOfDay := e.Day.AddDate(0, 0, 1)
	return !now.Before(endOfDay)
}
