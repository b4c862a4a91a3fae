package model

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeEntries reads a stream of JSON entry objects, one per object, until
// EOF. The foreground process feeds the background sync pass this way.
func DecodeEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	decoder := json.NewDecoder(r)
	for {
		var e Entry
		if err := decoder.Decode(&e); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode entry json: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// EncodeEntries writes entries as a stream of JSON objects.
func EncodeEntries(w io.Writer, entries []Entry) error {
	encoder := json.NewEncoder(w)
	for _, e := range entries {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("failed to encode entry json: %w", err)
		}
	}
	return nil
}
