package parse

import (
	"errors"
	"testing"
	"time"
)

// Fixed reference date: Wednesday, 2026-03-04 15:30 UTC.
var testRef = time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)

func TestParseAt_Shortcuts(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"today", 0},
		{"tod", 0},
		{"heute", 0},
		{"0", 0},
		{"tomorrow", 1},
		{"tom", 1},
		{"morgen", 1},
		{"yesterday", -1},
		{"yes", -1},
		{"gestern", -1},
	}
	for _, tt := range tests {
		in, err := ParseAt(tt.input, testRef)
		if err != nil {
			t.Errorf("ParseAt(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !in.Resolved || in.Offset != tt.want {
			t.Errorf("ParseAt(%q) offset = (%d, %v), want (%d, true)", tt.input, in.Offset, in.Resolved, tt.want)
		}
		if in.Flags != "" || in.Text != "" {
			t.Errorf("ParseAt(%q) = flags %q text %q, want both empty", tt.input, in.Flags, in.Text)
		}
	}
}

func TestParseAt_NumericOffsets(t *testing.T) {
	tests := []struct {
		input    string
		offset   int
		text     string
		flags    string
	}{
		{"+3 trip", 3, "trip", ""}, // 4 chars, below the memo threshold
		{"-10 review", -10, "review", ""},
		{"+1 groceries list", 1, "groceries list", FlagMemo},
		{"+3", 3, "", ""},
		{"-0", 0, "", ""},
	}
	for _, tt := range tests {
		in, err := ParseAt(tt.input, testRef)
		if err != nil {
			t.Errorf("ParseAt(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !in.Resolved || in.Offset != tt.offset {
			t.Errorf("ParseAt(%q) offset = (%d, %v), want (%d, true)", tt.input, in.Offset, in.Resolved, tt.offset)
		}
		if in.Text != tt.text || in.Flags != tt.flags {
			t.Errorf("ParseAt(%q) = text %q flags %q, want %q / %q", tt.input, in.Text, in.Flags, tt.text, tt.flags)
		}
	}
}

func TestParseAt_CalendarDates(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"2026-03-01", -3},
		{"2026-3-4", 0},
		{"2026-2-18", -14},
		{"2027-3-4", 365},
		{"3-1", -3},  // month-day, year anchored to the reference year
		{"12-24", 295},
		{"1", -3},    // bare day, anchored to the reference month
		{"28", 24},
	}
	for _, tt := range tests {
		in, err := ParseAt(tt.input, testRef)
		if err != nil {
			t.Errorf("ParseAt(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !in.Resolved || in.Offset != tt.want {
			t.Errorf("ParseAt(%q) offset = (%d, %v), want (%d, true)", tt.input, in.Offset, in.Resolved, tt.want)
		}
	}
}

func TestParseAt_CalendarBounds(t *testing.T) {
	// Raw month 13 survives the bound check and rolls over into January of
	// the following year; raw day 31 is accepted for every month and
	// normalizes past short months; day 0 normalizes to the last day of
	// the previous month.
	tests := []struct {
		input string
		want  int
	}{
		{"2026-13-5", 307}, // 2027-01-05
		{"4-31", 58},       // April 31 -> 2026-05-01
		{"3-0", -4},        // -> 2026-02-28
	}
	for _, tt := range tests {
		in, err := ParseAt(tt.input, testRef)
		if err != nil {
			t.Errorf("ParseAt(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if in.Offset != tt.want {
			t.Errorf("ParseAt(%q) offset = %d, want %d", tt.input, in.Offset, tt.want)
		}
	}

	invalid := []string{"2026-14-5", "2026-3-32", "0-5"}
	for _, input := range invalid {
		_, err := ParseAt(input, testRef)
		if err == nil {
			t.Errorf("ParseAt(%q): expected range error, got nil", input)
			continue
		}
		if errors.Is(err, ErrCanceled) || errors.Is(err, ErrNoText) {
			t.Errorf("ParseAt(%q): range error misclassified: %v", input, err)
		}
	}
}

func TestParseAt_RelativeWeekdays(t *testing.T) {
	// testRef is a Wednesday.
	tests := []struct {
		input string
		want  int
	}{
		{"next monday", 5},
		{"last monday", -2},
		{"next wednesday", 7}, // never resolves to today
		{"last wednesday", -7},
		{"next fri", 2},
		{"last fri", -5},
		{"n donnerstag", 1},
		{"l samstag", -4},
		{"next sunday", 4},
		{"last sunday", -3},
	}
	for _, tt := range tests {
		in, err := ParseAt(tt.input, testRef)
		if err != nil {
			t.Errorf("ParseAt(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if !in.Resolved || in.Offset != tt.want {
			t.Errorf("ParseAt(%q) offset = (%d, %v), want (%d, true)", tt.input, in.Offset, in.Resolved, tt.want)
		}
	}
}

func TestParseAt_WeekdayRange(t *testing.T) {
	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	for _, day := range days {
		in, err := ParseAt("next "+day, testRef)
		if err != nil {
			t.Fatalf("next %s: %v", day, err)
		}
		if in.Offset < 1 || in.Offset > 7 {
			t.Errorf("next %s = %d, want within [1,7]", day, in.Offset)
		}
		in, err = ParseAt("last "+day, testRef)
		if err != nil {
			t.Fatalf("last %s: %v", day, err)
		}
		if in.Offset < -7 || in.Offset > -1 {
			t.Errorf("last %s = %d, want within [-7,-1]", day, in.Offset)
		}
	}
}

func TestParseAt_Flags(t *testing.T) {
	tests := []struct {
		input  string
		flags  string
		text   string
		offset int
	}{
		{"task buy milk", FlagTask, "buy milk", 0}, // no date -> defaults to today
		{"todo buy milk", FlagTask, "buy milk", 0},
		{"task +2 buy milk", FlagTask, "buy milk", 2},
		{"tomorrow task buy milk", FlagTask, "buy milk", 1}, // trailing flag position
		{"next monday todo call plumber", FlagTask, "call plumber", 5},
	}
	for _, tt := range tests {
		in, err := ParseAt(tt.input, testRef)
		if err != nil {
			t.Errorf("ParseAt(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if in.Flags != tt.flags || in.Text != tt.text {
			t.Errorf("ParseAt(%q) = flags %q text %q, want %q / %q", tt.input, in.Flags, in.Text, tt.flags, tt.text)
		}
		if !in.Resolved || in.Offset != tt.offset {
			t.Errorf("ParseAt(%q) offset = (%d, %v), want (%d, true)", tt.input, in.Offset, in.Resolved, tt.offset)
		}
	}
}

func TestParseAt_MemoInference(t *testing.T) {
	// Text longer than 6 characters without a flag becomes a memo, which in
	// turn defaults the missing date to today. Shorter text stays
	// unclassified with an unresolved offset.
	in, err := ParseAt("a much longer note", testRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Flags != FlagMemo {
		t.Errorf("flags = %q, want %q", in.Flags, FlagMemo)
	}
	if !in.Resolved || in.Offset != 0 {
		t.Errorf("offset = (%d, %v), want (0, true)", in.Offset, in.Resolved)
	}

	in, err = ParseAt("hello", testRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Flags != "" {
		t.Errorf("flags = %q, want empty", in.Flags)
	}
	if in.Resolved {
		t.Errorf("offset resolved to %d, want unresolved", in.Offset)
	}
}

func TestParseAt_Cancellation(t *testing.T) {
	for _, input := range []string{"", "   ", "\t"} {
		_, err := ParseAt(input, testRef)
		if !errors.Is(err, ErrCanceled) {
			t.Errorf("ParseAt(%q) error = %v, want ErrCanceled", input, err)
		}
	}
}

func TestParseAt_FlagWithoutText(t *testing.T) {
	for _, input := range []string{"task", "todo", "task tomorrow", "todo next monday"} {
		_, err := ParseAt(input, testRef)
		if !errors.Is(err, ErrNoText) {
			t.Errorf("ParseAt(%q) error = %v, want ErrNoText", input, err)
		}
	}
}

func TestParseAt_CaseSensitiveVocabulary(t *testing.T) {
	// "Today" is not in the vocabulary; it falls through to plain text.
	in, err := ParseAt("Today", testRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Resolved {
		t.Errorf("offset resolved to %d, want unresolved", in.Offset)
	}
	if in.Text != "Today" {
		t.Errorf("text = %q, want %q", in.Text, "Today")
	}
}

func TestParseAt_Scope(t *testing.T) {
	in, err := ParseAt("today", testRef)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Scope != DefaultScope {
		t.Errorf("scope = %q, want %q", in.Scope, DefaultScope)
	}
}

func TestParseAt_Idempotent(t *testing.T) {
	inputs := []string{"today", "+3 trip", "task buy milk", "next monday", "2026-03-01"}
	for _, input := range inputs {
		first, err1 := ParseAt(input, testRef)
		second, err2 := ParseAt(input, testRef)
		if err1 != nil || err2 != nil {
			t.Errorf("ParseAt(%q): errors %v / %v", input, err1, err2)
			continue
		}
		if first != second {
			t.Errorf("ParseAt(%q) not idempotent: %+v vs %+v", input, first, second)
		}
	}
}

func TestParser_UsesCurrentTime(t *testing.T) {
	in, err := New().Parse("today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !in.Resolved || in.Offset != 0 {
		t.Errorf("offset = (%d, %v), want (0, true)", in.Offset, in.Resolved)
	}
}
