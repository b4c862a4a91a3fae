// Package journal resolves day offsets to page files and appends entries
// to them. A day page lives at <base>/<YYYY>/<MM>/<DD><ext> and starts with
// a weekday header line.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"daybook/pkg/model"
)

const headerLayout = "Monday, 2006-01-02"

// TargetDay applies a signed day offset to the reference date, dropping the
// clock-time component.
func TargetDay(ref time.Time, offset int) time.Time {
	day := ref.AddDate(0, 0, offset)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

// PathFor maps a calendar day to its page file under the given base.
func PathFor(base, extension string, day time.Time) string {
	return filepath.Join(base,
		fmt.Sprintf("%04d", day.Year()),
		fmt.Sprintf("%02d", int(day.Month())),
		fmt.Sprintf("%02d%s", day.Day(), extension))
}

// EnsurePage creates the page with its header when it does not exist yet.
func EnsurePage(path string, day time.Time) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}
	header := fmt.Sprintf("# %s\n", day.Format(headerLayout))
	if err := os.WriteFile(path, []byte(header), 0600); err != nil {
		return fmt.Errorf("failed to create day page %s: %w", path, err)
	}
	return nil
}

// AppendMemo appends a plain memo line to the day page, creating the page
// first when needed, and returns the written entry.
func AppendMemo(path string, day time.Time, text, scope string) (model.Entry, error) {
	e := model.Entry{
		ID:    uuid.NewString(),
		Text:  text,
		Kind:  model.KindMemo,
		Day:   &model.EntryDate{Time: day},
		Scope: scope,
	}
	return e, appendLine(path, day, fmt.Sprintf("- %s\n", text))
}

// AppendTask appends an open task line to the day page. The line carries the
// minted entry ID in a trailing comment so later scans and calendar syncs
// can identify it.
func AppendTask(path string, day time.Time, text, scope string) (model.Entry, error) {
	e := model.Entry{
		ID:    uuid.NewString(),
		Text:  text,
		Kind:  model.KindTask,
		Day:   &model.EntryDate{Time: day},
		Scope: scope,
	}
	line := fmt.Sprintf("- [ ] %s <!--dbid:%s-->\n", text, e.ID)
	return e, appendLine(path, day, line)
}

func appendLine(path string, day time.Time, line string) error {
	if err := EnsurePage(path, day); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open day page %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append to day page %s: %w", path, err)
	}
	return nil
}
