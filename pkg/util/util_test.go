package util

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"

	"daybook/pkg/journal"
	"daybook/pkg/model"
)

func TestConvertEntryToCalendarEvent(t *testing.T) {
	day := model.Day(2026, 3, 4)
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	entry := &model.Entry{
		ID:     "12345678-1234-1234-1234-123456789012",
		Text:   "buy milk",
		Kind:   model.KindTask,
		Day:    &day,
		Scope:  "work",
		Source: "2026/03/04.md",
	}

	event, err := ConvertEntryToCalendarEvent(entry, now, nil)
	if err != nil {
		t.Fatalf("ConvertEntryToCalendarEvent failed: %v", err)
	}

	if event.Summary != "buy milk" {
		t.Errorf("summary = %q, want %q", event.Summary, "buy milk")
	}
	if event.Start.Date != "2026-03-04" || event.End.Date != "2026-03-05" {
		t.Errorf("all-day span = %s..%s, want 2026-03-04..2026-03-05", event.Start.Date, event.End.Date)
	}
	if event.ExtendedProperties == nil || event.ExtendedProperties.Private["daybook_id"] != entry.ID {
		t.Errorf("expected daybook_id %s in extended properties", entry.ID)
	}
	if !strings.Contains(event.Description, "#work") {
		t.Errorf("expected scope tag in description, got: %s", event.Description)
	}
	if !strings.Contains(event.Description, "Status: open") {
		t.Errorf("expected status in description, got: %s", event.Description)
	}
}

func TestConvertEntryToCalendarEvent_Prefixes(t *testing.T) {
	day := model.Day(2026, 3, 4)

	done := &model.Entry{ID: "a", Text: "ship release", Kind: model.KindTask, Done: true, Day: &day}
	event, err := ConvertEntryToCalendarEvent(done, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(event.Summary, "✓ ") {
		t.Errorf("done summary = %q, want check prefix", event.Summary)
	}

	pending := &model.Entry{ID: "b", Text: "ship release", Kind: model.KindTask, Day: &day}
	event, err = ConvertEntryToCalendarEvent(pending, time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(event.Summary, "! ") {
		t.Errorf("overdue summary = %q, want exclamation prefix", event.Summary)
	}
}

func TestCheckedOffTaskConvertsToDoneEvent(t *testing.T) {
	// A task checked off on its day page comes back from the scanner with
	// Done set and must sync as a checked event.
	page := strings.NewReader(`# Wednesday, 2026-03-04
- [x] ship release <!--dbid:33333333-3333-3333-3333-333333333333-->
`)
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	entries, err := journal.ScanPage(page, "04.md", day, "default")
	if err != nil {
		t.Fatalf("ScanPage failed: %v", err)
	}
	if len(entries) != 1 || !entries[0].Done {
		t.Fatalf("scanned entries = %+v, want one done task", entries)
	}

	event, err := ConvertEntryToCalendarEvent(&entries[0], time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("ConvertEntryToCalendarEvent failed: %v", err)
	}
	if !strings.HasPrefix(event.Summary, "✓ ") {
		t.Errorf("summary = %q, want check prefix for done task", event.Summary)
	}
	if !strings.Contains(event.Description, "Status: done") {
		t.Errorf("description = %q, want done status", event.Description)
	}
}

func TestConvertEntryToCalendarEvent_NoDay(t *testing.T) {
	entry := &model.Entry{ID: "c", Text: "floating", Kind: model.KindTask}
	if _, err := ConvertEntryToCalendarEvent(entry, time.Now(), nil); err == nil {
		t.Fatal("expected error for entry without a day")
	}
}

func TestEventNeedsUpdate(t *testing.T) {
	target := &calendar.Event{
		Summary:     "buy milk",
		ColorId:     "3",
		Description: "Status: open\n",
		Start:       &calendar.EventDateTime{Date: "2026-03-04"},
		End:         &calendar.EventDateTime{Date: "2026-03-05"},
	}

	same := &calendar.Event{
		Summary:     "buy milk",
		ColorId:     "3",
		Description: "Status: open\n",
		Start:       &calendar.EventDateTime{Date: "2026-03-04"},
		End:         &calendar.EventDateTime{Date: "2026-03-05"},
	}
	if patch := EventNeedsUpdate(same, target); patch != nil {
		t.Errorf("identical events produced a patch: %+v", patch)
	}

	moved := &calendar.Event{
		Summary:     "buy milk",
		ColorId:     "3",
		Description: "Status: open\n",
		Start:       &calendar.EventDateTime{Date: "2026-03-01"},
		End:         &calendar.EventDateTime{Date: "2026-03-02"},
	}
	patch := EventNeedsUpdate(moved, target)
	if patch == nil {
		t.Fatal("moved event produced no patch")
	}
	if patch.Start == nil || patch.Start.Date != "2026-03-04" {
		t.Errorf("patch start = %+v, want 2026-03-04", patch.Start)
	}
	if patch.Summary != "" {
		t.Errorf("patch carries unchanged summary %q", patch.Summary)
	}

	renamed := &calendar.Event{
		Summary:     "! buy milk",
		ColorId:     "3",
		Description: "Status: open\n",
		Start:       &calendar.EventDateTime{Date: "2026-03-04"},
		End:         &calendar.EventDateTime{Date: "2026-03-05"},
	}
	patch = EventNeedsUpdate(renamed, target)
	if patch == nil || patch.Summary != "buy milk" {
		t.Errorf("renamed event patch = %+v, want summary update", patch)
	}
}
