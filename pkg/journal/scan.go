package journal

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"daybook/pkg/model"
)

var taskLineRe = regexp.MustCompile(`^- \[( |x|X)\]\s+(.*?)(?:\s*<!--dbid:([a-fA-F0-9-]+)-->)?\s*$`)

// ScanPage reads a day page and returns its task entries, open and done.
// Plain memo lines are skipped; only task lines take part in calendar sync.
func ScanPage(r io.Reader, source string, day time.Time, scope string) ([]model.Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []model.Entry

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		matches := taskLineRe.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		e := model.Entry{
			ID:     matches[3],
			Text:   matches[2],
			Kind:   model.KindTask,
			Done:   matches[1] != " ",
			Day:    &model.EntryDate{Time: day},
			Scope:  scope,
			Source: source,
		}
		if e.Text == "" {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ScanFile scans the day page at path. A missing page yields no entries.
func ScanFile(path string, day time.Time, scope string) ([]model.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return ScanPage(f, path, day, scope)
}
