package util

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"daybook/pkg/colors"
	"daybook/pkg/model"
)

const dateLayout = "2006-01-02"

// ConvertEntryToCalendarEvent turns a task entry into an all-day calendar
// event on the entry's day. Done tasks get a check prefix, overdue pending
// tasks an exclamation prefix.
func ConvertEntryToCalendarEvent(e *model.Entry, now time.Time, cache *colors.ColorCache) (*calendar.Event, error) {
	if e == nil {
		return nil, fmt.Errorf("could not convert nil entry")
	}
	if e.Day == nil || e.Day.IsZero() {
		return nil, fmt.Errorf("entry has no day: %s", e.ID)
	}

	prefix := ""
	if e.Done {
		prefix = "✓"
	} else if e.Overdue(now) {
		prefix = "!"
	}

	summary := e.Text
	if prefix != "" {
		summary = fmt.Sprintf("%s %s", prefix, e.Text)
	}

	colorID := "1"
	if cache != nil {
		colorID = cache.GetColorID(e.Scope)
	}

	status := "open"
	if e.Done {
		status = "done"
	}

	var descBuilder strings.Builder
	if e.Scope != "" {
		descBuilder.WriteString(fmt.Sprintf("#%s\n\n", e.Scope))
	}
	descBuilder.WriteString(fmt.Sprintf("Status: %s\n", status))
	if e.Source != "" {
		descBuilder.WriteString(fmt.Sprintf("Page: %s\n", e.Source))
	}
	descBuilder.WriteString(fmt.Sprintf("ID: %s\n", e.ID))

	// All-day events carry a date, not a datetime; the end date is
	// exclusive per the Calendar API.
	start := e.Day.Format(dateLayout)
	end := e.Day.AddDate(0, 0, 1).Format(dateLayout)

	event := &calendar.Event{
		Summary:     summary,
		ColorId:     colorID,
		Start:       &calendar.EventDateTime{Date: start},
		End:         &calendar.EventDateTime{Date: end},
		Description: descBuilder.String(),
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				"daybook_id": e.ID,
			},
		},
	}
	return event, nil
}

// EventNeedsUpdate returns a patch holding the fields where the existing
// calendar event diverges from the freshly converted target, or nil when
// nothing changed.
func EventNeedsUpdate(existingEvent, targetEvent *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existingEvent.Summary != targetEvent.Summary {
		patch.Summary = targetEvent.Summary
		needsUpdate = true
	}
	if existingEvent.Description != targetEvent.Description {
		patch.Description = targetEvent.Description
		needsUpdate = true
	}
	if existingEvent.ColorId != targetEvent.ColorId {
		patch.ColorId = targetEvent.ColorId
		needsUpdate = true
	}

	existingStart, existingEnd := "", ""
	if existingEvent.Start != nil {
		existingStart = existingEvent.Start.Date
	}
	if existingEvent.End != nil {
		existingEnd = existingEvent.End.Date
	}
	if existingStart != targetEvent.Start.Date || existingEnd != targetEvent.End.Date {
		patch.Start = targetEvent.Start
		patch.End = targetEvent.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}
