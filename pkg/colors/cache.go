package colors

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type ScopeState struct {
	ColorID      string    `json:"color_id"`
	LastModified time.Time `json:"last_modified"`
}

// ColorCache assigns each journal scope a stable Google Calendar color,
// recycling the least recently used color once all slots are taken.
type ColorCache struct {
	Path   string
	Scopes map[string]*ScopeState `json:"scopes"`
	dirty  bool
}

const (
	xdgAppName = "daybook"
	cacheFile  = "scope_colors.json"

	// defaultColorID is the gray used for the default scope.
	defaultColorID = "14"
)

func NewColorCache() (*ColorCache, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewColorCacheAt(filepath.Join(home, ".config", xdgAppName, cacheFile))
}

func NewColorCacheAt(path string) (*ColorCache, error) {
	cache := &ColorCache{
		Path:   path,
		Scopes: make(map[string]*ScopeState),
	}

	if _, err := os.Stat(path); err == nil {
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(&c.Scopes)
}

func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Printf("Error creating color cache directory: %v", err)
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		log.Printf("Error creating color cache file: %v", err)
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(c.Scopes)
	if err == nil {
		c.dirty = false
	}
	return err
}

// GetColorID returns the color for a scope, assigning one on first use.
// The default scope always maps to gray.
func (c *ColorCache) GetColorID(scope string) string {
	if scope == "" || scope == "default" {
		return defaultColorID
	}

	state, exists := c.Scopes[scope]
	if exists {
		state.LastModified = time.Now()
		c.dirty = true
		return state.ColorID
	}

	return c.assignColor(scope)
}

func (c *ColorCache) assignColor(scope string) string {
	// Calendar event colors 1 to 11.
	used := make(map[string]bool)
	for _, s := range c.Scopes {
		used[s.ColorID] = true
	}

	for i := 1; i <= 11; i++ {
		id := strconv.Itoa(i)
		if !used[id] {
			c.Scopes[scope] = &ScopeState{
				ColorID:      id,
				LastModified: time.Now(),
			}
			c.dirty = true
			return id
		}
	}

	// All slots taken: evict the least recently used scope and recycle
	// its color.
	var oldestScope string
	var oldestTime time.Time
	first := true

	for s, state := range c.Scopes {
		if first || state.LastModified.Before(oldestTime) {
			oldestTime = state.LastModified
			oldestScope = s
			first = false
		}
	}

	if oldestScope != "" {
		recycled := c.Scopes[oldestScope].ColorID
		delete(c.Scopes, oldestScope)

		c.Scopes[scope] = &ScopeState{
			ColorID:      recycled,
			LastModified: time.Now(),
		}
		c.dirty = true
		return recycled
	}

	return "1" // Fallback
}
