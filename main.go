package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"daybook/pkg/auth"
	"daybook/pkg/colors"
	"daybook/pkg/config"
	"daybook/pkg/google"
	"daybook/pkg/index"
	"daybook/pkg/journal"
	"daybook/pkg/model"
	"daybook/pkg/overdue"
	"daybook/pkg/parse"
)

func main() {
	// 1. Parse Flags
	scopeName := flag.String("scope", "", "Journal scope to write to (overrides the parsed scope)")
	calendarName := flag.String("calendar", "", "Google Calendar name to sync tasks to (overrides config)")
	setCalendar := flag.String("set-calendar", "", "Set the default Google Calendar name")
	setBase := flag.String("set-base", "", "Set the journal root directory")
	doAuth := flag.Bool("auth", false, "Authenticate with Google Calendar")
	printOnly := flag.Bool("print", false, "Parse the input and print the result without writing")
	resync := flag.Bool("resync", false, "Rescan a day page and reconcile its calendar events")
	noSync := flag.Bool("no-sync", false, "Skip the calendar sync for task entries")
	background := flag.Bool("background", false, "Internal use: run the sync pass in background mode")
	flag.Parse()

	// 2. Handle Settings
	if *setCalendar != "" || *setBase != "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		if *setCalendar != "" {
			cfg.Calendar = *setCalendar
		}
		if *setBase != "" {
			cfg.Base = *setBase
		}
		if err := config.Save(cfg); err != nil {
			log.Fatalf("Error saving config: %v", err)
		}
		if *setCalendar != "" {
			fmt.Printf("Default calendar set to: %s\n", *setCalendar)
		}
		if *setBase != "" {
			fmt.Printf("Journal root set to: %s\n", *setBase)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// 3. Determine Calendar (Priority: Flag > Config)
	selectedCalendar := cfg.Calendar
	if *calendarName != "" {
		selectedCalendar = *calendarName
	}

	// 4. Handle Authentication
	if *doAuth {
		runAuth()
		return
	}

	// 5. Background Mode: sync entries piped in by the foreground process
	if *background {
		runBackgroundSync(selectedCalendar)
		return
	}

	// 6. Foreground: parse the input line and write the journal entry
	line := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(line) == "" {
		if *resync {
			line = "today"
		} else {
			line = promptLine()
		}
	}

	now := time.Now()
	in, err := parse.ParseAt(line, now)
	if errors.Is(err, parse.ErrCanceled) {
		fmt.Println("Nothing to do.")
		return
	}
	if err != nil {
		log.Fatalf("Error parsing input: %v", err)
	}

	scope := in.Scope
	if *scopeName != "" {
		scope = *scopeName
	}

	// An input with no date expression and no defaulted offset still needs
	// a page to land on: it goes to today.
	offset := 0
	if in.Resolved {
		offset = in.Offset
	}
	day := journal.TargetDay(now, offset)
	base, extension := cfg.ResolveScope(scope)
	path := journal.PathFor(base, extension, day)

	if *printOnly {
		printInput(in, day, path)
		return
	}

	if *resync {
		if in.Text != "" || in.Flags != "" {
			log.Fatalf("resync takes only a date expression, got %q", line)
		}
		runResync(path, day, scope, selectedCalendar)
		return
	}

	if in.Text == "" {
		// Date-only input: make sure the page exists and hand back its path.
		if err := journal.EnsurePage(path, day); err != nil {
			log.Fatalf("Error creating day page: %v", err)
		}
		fmt.Println(path)
		return
	}

	var entry model.Entry
	if in.Flags == parse.FlagTask {
		entry, err = journal.AppendTask(path, day, in.Text, scope)
	} else {
		entry, err = journal.AppendMemo(path, day, in.Text, scope)
	}
	if err != nil {
		log.Fatalf("Error writing entry: %v", err)
	}
	fmt.Printf("Added %s to %s\n", entry.Kind, path)

	// 7. Spawn the background sync for task entries and exit immediately.
	if entry.Kind != model.KindTask || *noSync {
		return
	}
	spawnBackgroundSync(entry, selectedCalendar)
}

func promptLine() string {
	fmt.Print("> ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return ""
	}
	return scanner.Text()
}

func printInput(in parse.Input, day time.Time, path string) {
	if in.Resolved {
		fmt.Printf("offset: %+d (%s)\n", in.Offset, day.Format("2006-01-02"))
	} else {
		fmt.Println("offset: none")
	}
	fmt.Printf("flags:  %q\n", in.Flags)
	fmt.Printf("text:   %q\n", in.Text)
	fmt.Printf("scope:  %s\n", in.Scope)
	fmt.Printf("page:   %s\n", path)
}

func runAuth() {
	ctx := context.Background()
	xdgConfigBase, err := auth.GetXdgHome()
	if err != nil {
		log.Fatalf("could not find path to configuration file: error %v", err)
	}

	tokenFile := filepath.Join(xdgConfigBase, auth.TokenFile)
	if _, err := os.Stat(tokenFile); err == nil {
		log.Printf("Removing existing token file at '%s'", tokenFile)
		if err := os.Remove(tokenFile); err != nil {
			log.Fatalf("could not delete token file '%s', error %v. Please delete it manually", tokenFile, err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("could not check token file '%s', error %v", tokenFile, err)
	}

	if _, err := auth.GetCalendarService(ctx); err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}
	log.Printf("Authentication successful! Token saved to %s", auth.TokenFile)
}

func spawnBackgroundSync(entry model.Entry, selectedCalendar string) {
	self, err := os.Executable()
	if err != nil {
		log.Fatalf("could not find self: %v", err)
	}
	cmd := exec.Command(self, "--background", "--calendar", selectedCalendar)
	cmd.Stdout = nil // Silence in background
	cmd.Stderr = nil // Silence in background

	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Fatalf("could not open stdin pipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		log.Fatalf("could not start background process: %v", err)
	}

	model.EncodeEntries(stdin, []model.Entry{entry})
	stdin.Close()
}

// runResync re-reads a day page and brings the calendar back in line with
// it: checked-off tasks get their done state synced, and events whose task
// lines were removed from the page are deleted.
func runResync(path string, day time.Time, scope, selectedCalendar string) {
	entries, err := journal.ScanFile(path, day, scope)
	if err != nil {
		log.Fatalf("Error scanning day page: %v", err)
	}

	sweepTable, err := overdue.NewTable()
	if err != nil {
		log.Printf("Warning: failed to initialize overdue sweep table: %v", err)
	}
	evtIndex, err := index.NewEventIndex()
	if err != nil {
		log.Printf("Warning: failed to initialize event index: %v", err)
	}
	colorCache, err := colors.NewColorCache()
	if err != nil {
		log.Printf("Warning: failed to initialize scope color cache: %v", err)
	}

	ctx := context.Background()
	gClient, err := google.NewClient(ctx, selectedCalendar, evtIndex)
	if err != nil {
		log.Fatalf("Error creating Google Calendar client: %v", err)
	}

	now := time.Now()
	synced := 0
	for _, e := range entries {
		if e.ID == "" {
			// Legacy task lines without an ID cannot be reconciled.
			continue
		}
		event, err := gClient.SyncEntry(e, now, colorCache)
		if err != nil {
			log.Printf("Error syncing entry %s: %v", e.ID, err)
			continue
		}
		synced++
		if sweepTable == nil {
			continue
		}
		if e.Done {
			sweepTable.Remove(e.ID)
		} else if e.Day != nil {
			sweepTable.Update(e.ID, event.Id, e.Text, e.Day.Time)
		}
	}

	// Task lines deleted from the page leave their events behind; drop them.
	removed := 0
	events, err := gClient.ListEventsOn(day)
	if err != nil {
		log.Printf("Warning: could not list events for %s: %v", day.Format("2006-01-02"), err)
	} else {
		for _, ev := range vanishedEvents(events, entries) {
			entryID := ev.ExtendedProperties.Private["daybook_id"]
			if err := gClient.DeleteEvent(ev.Id); err != nil {
				log.Printf("Error deleting event %s: %v", ev.Id, err)
				continue
			}
			removed++
			if evtIndex != nil {
				evtIndex.Remove(entryID)
			}
			if sweepTable != nil {
				sweepTable.Remove(entryID)
			}
		}
	}

	if sweepTable != nil {
		if err := sweepTable.Save(); err != nil {
			log.Printf("Warning: failed to save sweep table: %v", err)
		}
	}
	if evtIndex != nil {
		if err := evtIndex.Save(); err != nil {
			log.Printf("Warning: failed to save event index: %v", err)
		}
	}
	if colorCache != nil {
		if err := colorCache.Save(); err != nil {
			log.Printf("Warning: failed to save scope color cache: %v", err)
		}
	}

	fmt.Printf("Resynced %d task(s), removed %d event(s) for %s\n", synced, removed, day.Format("2006-01-02"))
}

// vanishedEvents returns the calendar events whose entry ID no longer
// appears among the scanned page entries. Events without a daybook ID are
// not ours and are left alone.
func vanishedEvents(events []*calendar.Event, entries []model.Entry) []*calendar.Event {
	present := make(map[string]bool)
	for _, e := range entries {
		if e.ID != "" {
			present[e.ID] = true
		}
	}

	var vanished []*calendar.Event
	for _, ev := range events {
		if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private == nil {
			continue
		}
		entryID := ev.ExtendedProperties.Private["daybook_id"]
		if entryID == "" || present[entryID] {
			continue
		}
		vanished = append(vanished, ev)
	}
	return vanished
}

func runBackgroundSync(selectedCalendar string) {
	entries, err := model.DecodeEntries(os.Stdin)
	if err != nil {
		log.Fatalf("Background: error decoding entries: %v", err)
	}

	sweepTable, err := overdue.NewTable()
	if err != nil {
		log.Printf("Warning: failed to initialize overdue sweep table: %v", err)
	}
	evtIndex, err := index.NewEventIndex()
	if err != nil {
		log.Printf("Warning: failed to initialize event index: %v", err)
	}
	colorCache, err := colors.NewColorCache()
	if err != nil {
		log.Printf("Warning: failed to initialize scope color cache: %v", err)
	}

	ctx := context.Background()
	gClient, err := google.NewClient(ctx, selectedCalendar, evtIndex)
	if err != nil {
		log.Printf("Error creating Google Calendar client: %v", err)
		return
	}

	now := time.Now()

	// Overdue sweep: flag events whose day has passed.
	if sweepTable != nil {
		for _, e := range sweepTable.Sweep(now) {
			patch := &calendar.Event{
				Summary: "! " + e.Summary,
			}
			if _, err := gClient.PatchEvent(e.GCalID, patch); err != nil {
				log.Printf("Sweep: error patching event %s: %v", e.GCalID, err)
			}
		}
		if err := sweepTable.Save(); err != nil {
			log.Printf("Warning: failed to save sweep table: %v", err)
		}
	}

	for _, entry := range entries {
		if entry.Kind != model.KindTask {
			continue
		}
		event, err := gClient.SyncEntry(entry, now, colorCache)
		if err != nil {
			log.Printf("Error syncing entry %s: %v", entry.ID, err)
			continue
		}
		if sweepTable != nil && !entry.Done && entry.Day != nil {
			sweepTable.Update(entry.ID, event.Id, entry.Text, entry.Day.Time)
		}
	}

	if sweepTable != nil {
		if err := sweepTable.Save(); err != nil {
			log.Printf("Warning: failed to save sweep table: %v", err)
		}
	}
	if evtIndex != nil {
		if err := evtIndex.Save(); err != nil {
			log.Printf("Warning: failed to save event index: %v", err)
		}
	}
	if colorCache != nil {
		if err := colorCache.Save(); err != nil {
			log.Printf("Warning: failed to save scope color cache: %v", err)
		}
	}
}
