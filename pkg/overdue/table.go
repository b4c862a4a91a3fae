// Package overdue tracks open task entries whose day lies ahead, so the
// background sync can mark their calendar events once the day has passed.
package overdue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

type Entry struct {
	GCalID  string    `json:"gcal_id"`
	Summary string    `json:"summary"`
	Day     time.Time `json:"day"`
}

type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

func NewTable() (*Table, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewTableAt(filepath.Join(home, ".config", "daybook", "pending_tasks.json"))
}

func NewTableAt(path string) (*Table, error) {
	t := &Table{
		Path:    path,
		Entries: make(map[string]Entry),
	}

	if _, err := os.Stat(path); err == nil {
		if err := t.Load(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) Load() error {
	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(t)
}

func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(t)
	if err == nil {
		t.dirty = false
	}
	return err
}

// Update records an open task entry pinned to a future day; an entry with a
// zero day is dropped instead.
func (t *Table) Update(entryID, gcalID, summary string, day time.Time) {
	if day.IsZero() {
		t.Remove(entryID)
		return
	}
	old, exists := t.Entries[entryID]
	if !exists || !old.Day.Equal(day) || old.GCalID != gcalID || old.Summary != summary {
		t.Entries[entryID] = Entry{
			GCalID:  gcalID,
			Summary: summary,
			Day:     day,
		}
		t.dirty = true
	}
}

func (t *Table) Remove(entryID string) {
	if _, exists := t.Entries[entryID]; exists {
		delete(t.Entries, entryID)
		t.dirty = true
	}
}

// Sweep returns entries whose day has fully passed and removes them from
// the table. A task is overdue starting the day after its entry day.
func (t *Table) Sweep(now time.Time) []Entry {
	var swept []Entry
	for entryID, entry := range t.Entries {
		endOfDay := entry.Day.AddDate(0, 0, 1)
		if !now.Before(endOfDay) {
			swept = append(swept, entry)
			delete(t.Entries, entryID)
			t.dirty = true
		}
	}
	return swept
}
