package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// shortcutOffsets maps the symbolic date words (English and German, plus the
// literal "0") to their day offsets.
var shortcutOffsets = map[string]int{
	"today": 0, "tod": 0, "heute": 0, "0": 0,
	"tomorrow": 1, "tom": 1, "morgen": 1,
	"yesterday": -1, "yes": -1, "gestern": -1,
}

// weekdayIndexes maps weekday names to their index, Sunday = 0, matching
// time.Weekday numbering.
var weekdayIndexes = map[string]int{
	"sunday": 0, "monday": 1, "tuesday": 2, "wednesday": 3,
	"thursday": 4, "friday": 5, "saturday": 6,
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
	"sonntag": 0, "montag": 1, "dienstag": 2, "mittwoch": 3,
	"donnerstag": 4, "freitag": 5, "samstag": 6,
}

// resolveOffset dispatches on whichever date slot the tokenizer filled:
// shortcut, then numeric offset, then calendar date, then relative weekday.
// It reports resolved=false when no slot is present or the slot value is not
// recognized. A calendar date outside its stated bounds is a hard error.
func resolveOffset(tk tokens, ref time.Time) (offset int, resolved bool, err error) {
	switch {
	case tk.shortcut != "":
		offset, resolved = shortcutOffsets[tk.shortcut]
		return offset, resolved, nil
	case tk.numeric != "":
		return resolveNumeric(tk.numeric), true, nil
	case tk.calendar != "":
		offset, err = resolveCalendar(tk.calendar, ref)
		return offset, err == nil, err
	case tk.weekMod != "" && tk.weekName != "":
		offset, resolved = resolveWeekday(tk.weekMod, tk.weekName, ref)
		return offset, resolved, nil
	}
	return 0, false, nil
}

// resolveNumeric turns a signed digit token into a day offset. A missing
// sign is treated as positive; the grammar always supplies one, but the
// token must still resolve without it.
func resolveNumeric(tok string) int {
	sign := 1
	switch {
	case strings.HasPrefix(tok, "-"):
		sign = -1
		tok = tok[1:]
	case strings.HasPrefix(tok, "+"):
		tok = tok[1:]
	}
	n, _ := strconv.Atoi(tok) // grammar guarantees digits
	return sign * n
}

// resolveCalendar turns a calendar token (YYYY-M-D, M-D or bare D) into the
// signed day difference from the reference date. Missing parts are anchored
// to the reference date's year and month. Both midnights are taken in UTC so
// daylight-saving shifts cannot produce fractional days.
//
// Bounds are checked on the 0-based month ([0,12]) and the raw day
// ([0,31]): a raw month of 13 passes the check and rolls over into the
// following year's January, and day 0 normalizes to the last day of the
// previous month. Day tokens up to 31 are accepted for every month.
func resolveCalendar(tok string, ref time.Time) (int, error) {
	parts := strings.Split(tok, "-")

	year := ref.Year()
	month := int(ref.Month()) - 1 // 0-based
	var day int

	switch len(parts) {
	case 3:
		year, _ = strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		month = m - 1
		day, _ = strconv.Atoi(parts[2])
		if month < 0 || month > 12 {
			return 0, fmt.Errorf("month out of range in date %q", tok)
		}
	case 2:
		m, _ := strconv.Atoi(parts[0])
		month = m - 1
		day, _ = strconv.Atoi(parts[1])
		if month < 0 || month > 12 {
			return 0, fmt.Errorf("month out of range in date %q", tok)
		}
	default:
		day, _ = strconv.Atoi(parts[0])
	}
	if day < 0 || day > 31 {
		return 0, fmt.Errorf("day out of range in date %q", tok)
	}

	target := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
	refMidnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Floor(target.Sub(refMidnight).Hours() / 24)), nil
}

// resolveWeekday resolves "next <weekday>" / "last <weekday>" against the
// reference date. Any modifier starting with 'n' means next, everything else
// means last.
func resolveWeekday(modifier, name string, ref time.Time) (int, bool) {
	target, ok := weekdayIndexes[name]
	if !ok {
		return 0, false
	}
	next := strings.HasPrefix(modifier, "n")
	return weekdayDelta(next, int(ref.Weekday()), target), true
}

// weekdayDelta computes the signed day offset from a reference weekday to
// the next or last occurrence of a target weekday. "next" always lands in
// [1,7] and "last" in [-7,-1]: when the target weekday is the reference
// weekday itself, the result is a full week away, never 0.
func weekdayDelta(next bool, refIndex, targetIndex int) int {
	diff := targetIndex - refIndex
	if next {
		if diff <= 0 {
			return diff + 7
		}
		return diff
	}
	if diff < 0 {
		return diff
	}
	return diff - 7
}
