// Package importer parses foreign task exports and encodes/decodes
// structured bundles of the whole data set.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/taskcal/internal/domain"
)

// Required tabular columns, matched case-insensitively.
const (
	ColumnName    = "Task Name"
	ColumnContent = "Task Content"
	ColumnDue     = "Due Date Text"
)

// TabularOptions configures ParseTabular.
type TabularOptions struct {
	Now       time.Time          // Tasks starting before Now are imported as completed
	Location  *time.Location     // Zone of textual due dates; nil means UTC
	IDs       domain.IDGenerator // Source of task and comment IDs
	Layout    string             // Layout of textual due dates; empty means domain.DefaultDateLayout
	Delimiter rune               // Field separator; zero means ','
}

// Diagnostic explains why a data row was skipped.
type Diagnostic struct {
	Reason string
	Line   int // 1-based line number in the input
}

// Result is the outcome of a tabular parse.
type Result struct {
	Tasks       []*domain.Task
	Diagnostics []Diagnostic
	TotalRows   int // Non-blank data rows
	ValidRows   int // Rows that produced a task
}

// ParseTabular parses a delimited export with a header row.
//
// Blank lines are neither parsed nor counted. A field wrapped in one
// matching pair of double quotes is unquoted; no other escaping is
// understood. Rows that cannot be turned into a task are counted in
// TotalRows and reported in Diagnostics.
func ParseTabular(raw string, opts TabularOptions) (*Result, error) {
	opts = opts.withDefaults()
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	headerLine := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerLine = i
			break
		}
	}
	if headerLine < 0 {
		return nil, domain.ErrEmptyFile
	}

	cols, err := locateColumns(splitFields(lines[headerLine], opts.Delimiter))
	if err != nil {
		return nil, err
	}

	res := &Result{}
	nextOrder := make(map[string]int)
	for i := headerLine + 1; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		res.TotalRows++

		t, reason := cols.task(splitFields(line, opts.Delimiter), opts)
		if t == nil {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Line: i + 1, Reason: reason})
			continue
		}
		key := t.DayKey()
		t.Order = nextOrder[key]
		nextOrder[key]++

		res.Tasks = append(res.Tasks, t)
		res.ValidRows++
	}
	return res, nil
}

func (o TabularOptions) withDefaults() TabularOptions {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Layout == "" {
		o.Layout = domain.DefaultDateLayout
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.IDs == nil {
		o.IDs = domain.UUIDGenerator{}
	}
	return o
}

type columns struct {
	name, content, due int
}

func locateColumns(header []string) (columns, error) {
	idx := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(h)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}

	var c columns
	for _, want := range []struct {
		dst  *int
		name string
	}{
		{&c.name, ColumnName},
		{&c.content, ColumnContent},
		{&c.due, ColumnDue},
	} {
		i, ok := idx[strings.ToLower(want.name)]
		if !ok {
			return columns{}, fmt.Errorf("%w: %q", domain.ErrMissingColumn, want.name)
		}
		*want.dst = i
	}
	return c, nil
}

func (c columns) task(fields []string, opts TabularOptions) (*domain.Task, string) {
	if len(fields) < c.due+1 {
		return nil, "missing due date field"
	}
	if len(fields) <= max(c.name, c.content) {
		return nil, "missing fields"
	}

	title := fields[c.name]
	if title == "" {
		return nil, "empty task name"
	}
	start, err := parseDue(fields[c.due], opts)
	if err != nil {
		return nil, err.Error()
	}

	t := domain.NewTask(opts.IDs.NewID(), title, start, domain.DefaultTaskDuration)
	t.Completed = start.Before(opts.Now)
	if body := fields[c.content]; body != "" {
		t.AddComment(opts.IDs.NewID(), body)
	}
	return t, ""
}

// parseDue reads a millisecond epoch or a textual date in opts.Location.
func parseDue(s string, opts TabularOptions) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty due date", domain.ErrInvalidDate)
	}
	if isDigits(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
		}
		return storable(time.UnixMilli(ms).UTC(), s)
	}
	t, err := time.ParseInLocation(opts.Layout, s, opts.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	return storable(t, s)
}

// storable rejects instants whose task could not be written back.
// The end is one hour later, so that has to fit too.
func storable(t time.Time, raw string) (time.Time, error) {
	if !domain.IsStorable(t) || !domain.IsStorable(t.Add(domain.DefaultTaskDuration)) {
		return time.Time{}, fmt.Errorf("%w: %q: year %d out of range", domain.ErrInvalidDate, raw, t.Year())
	}
	return t, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func splitFields(line string, delim rune) []string {
	fields := strings.Split(line, string(delim))
	for i, f := range fields {
		fields[i] = unquote(strings.TrimSpace(f))
	}
	return fields
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
