package google

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"daybook/pkg/colors"
	"daybook/pkg/index"
	"daybook/pkg/model"
	"daybook/pkg/util"
)

// CalendarClient syncs journal task entries to one Google Calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
}

func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx}
}

// SyncEntry creates a calendar event for a task entry or patches the
// existing one. The entry's event is found through the local index first
// and an extended-property search second.
func (c *CalendarClient) SyncEntry(e model.Entry, now time.Time, cache *colors.ColorCache) (*calendar.Event, error) {
	event, err := util.ConvertEntryToCalendarEvent(&e, now, cache)
	if err != nil {
		return nil, err
	}

	var existingEvent *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(e.ID); eventID != "" {
			existingEvent, err = c.srv.Events.Get(c.calendarID, eventID).Do()
			if err != nil {
				// Stale index entry; fall back to search.
				existingEvent = nil
			}
		}
	}
	if existingEvent == nil {
		existingEvent, err = c.GetEventByEntryID(e.ID)
		if err != nil {
			return nil, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existingEvent != nil {
		patch := util.EventNeedsUpdate(existingEvent, event)
		if patch == nil {
			return existingEvent, nil
		}
		updatedEvent, err := c.PatchEvent(existingEvent.Id, patch)
		if err == nil && c.index != nil {
			c.index.Set(e.ID, updatedEvent.Id)
		}
		return updatedEvent, err
	}

	createdEvent, err := c.srv.Events.Insert(c.calendarID, event).Do()
	if err == nil && c.index != nil {
		c.index.Set(e.ID, createdEvent.Id)
	}
	return createdEvent, err
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Do()
}

// ListEventsOn fetches the events that fall on one calendar day.
func (c *CalendarClient) ListEventsOn(day time.Time) ([]*calendar.Event, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	events, err := c.srv.Events.List(c.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}
	return events.Items, nil
}

// GetEventByEntryID searches for the event carrying the given entry ID in
// its private extended properties.
func (c *CalendarClient) GetEventByEntryID(entryID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("daybook_id=%s", entryID)).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
