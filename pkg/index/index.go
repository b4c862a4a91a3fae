// Package index keeps the mapping from journal entry IDs to their Google
// Calendar event IDs so repeated syncs patch instead of duplicating.
package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

type EventIndex struct {
	path     string
	mu       sync.RWMutex
	mappings map[string]string
	dirty    bool
}

func NewEventIndex() (*EventIndex, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewEventIndexAt(filepath.Join(home, ".config", "daybook", "events.json"))
}

// NewEventIndexAt loads the index from path, starting empty when the file
// does not exist yet.
func NewEventIndexAt(path string) (*EventIndex, error) {
	idx := &EventIndex{
		path:     path,
		mappings: make(map[string]string),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&idx.mappings); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(idx.path), 0700); err != nil {
		return err
	}
	f, err := os.Create(idx.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(idx.mappings); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

// Get returns the event ID mapped to an entry, or "" when unknown.
func (idx *EventIndex) Get(entryID string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.mappings[entryID]
}

func (idx *EventIndex) Set(entryID, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.mappings[entryID] != eventID {
		idx.mappings[entryID] = eventID
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(entryID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.mappings[entryID]; exists {
		delete(idx.mappings, entryID)
		idx.dirty = true
	}
}
