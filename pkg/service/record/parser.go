package record

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/overlap/pkg/domain/model"
	"github.com/secmon-lab/overlap/pkg/domain/types"
)

const (
	headerToken = "EmpID"
	minFields   = 4

	// maxLineBytes bounds a single input line
	maxLineBytes = 1024 * 1024
)

// Stats describes what happened to the input lines during a parse
type Stats struct {
	Lines   int
	Records int
	Blank   int
	Dropped int
	Header  bool

	// DroppedLines are the 1-based lines of rows ending before they start
	DroppedLines []int
}

// Parse converts EmpID,ProjectID,DateFrom,DateTo lines into assignment
// records. A blank or NULL DateTo resolves to today.
func Parse(lines []string, today time.Time) ([]model.AssignmentRecord, error) {
	records, _, err := ParseWithStats(lines, today)
	return records, err
}

// ParseWithStats is Parse that also reports line counters. Rows whose DateTo
// falls before DateFrom are skipped and counted as dropped; any other bad row
// fails the whole load.
func ParseWithStats(lines []string, today time.Time) ([]model.AssignmentRecord, *Stats, error) {
	today = model.DateOf(today)
	stats := &Stats{Lines: len(lines)}
	records := make([]model.AssignmentRecord, 0, max(16, len(lines)))

	for i, line := range lines {
		raw := strings.TrimSpace(line)
		if i == 0 {
			raw = strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
		}
		if raw == "" {
			stats.Blank++
			continue
		}

		if i == 0 && hasHeaderPrefix(raw) {
			stats.Header = true
			continue
		}

		rec, ok, err := parseLine(raw, today)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to parse assignment line",
				goerr.V("line", i+1),
				goerr.V("content", line))
		}
		if !ok {
			stats.Dropped++
			stats.DroppedLines = append(stats.DroppedLines, i+1)
			continue
		}

		records = append(records, rec)
	}

	stats.Records = len(records)
	return records, stats, nil
}

// ReadLines splits r into lines without trailing newline characters
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read assignment lines",
			goerr.V("line", len(lines)+1))
	}

	return lines, nil
}

// ParseReader reads every line from r and parses it
func ParseReader(r io.Reader, today time.Time) ([]model.AssignmentRecord, *Stats, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, nil, err
	}
	return ParseWithStats(lines, today)
}

func hasHeaderPrefix(s string) bool {
	return len(s) >= len(headerToken) && strings.EqualFold(s[:len(headerToken)], headerToken)
}

// parseLine reports ok=false for a well-formed row whose DateTo is before
// DateFrom
func parseLine(raw string, today time.Time) (model.AssignmentRecord, bool, error) {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < minFields {
		return model.AssignmentRecord{}, false, goerr.New("invalid CSV format",
			goerr.T(model.ErrTagMalformedRow),
			goerr.V("fields", len(parts)))
	}

	employeeID, err := types.ParseEmployeeID(parts[0])
	if err != nil {
		return model.AssignmentRecord{}, false, goerr.Wrap(err, "invalid EmpID",
			goerr.T(model.ErrTagMalformedRow),
			goerr.V("field", "EmpID"))
	}

	projectID, err := types.ParseProjectID(parts[1])
	if err != nil {
		return model.AssignmentRecord{}, false, goerr.Wrap(err, "invalid ProjectID",
			goerr.T(model.ErrTagMalformedRow),
			goerr.V("field", "ProjectID"))
	}

	dateFrom, err := ParseDate(parts[2])
	if err != nil {
		return model.AssignmentRecord{}, false, goerr.Wrap(err, "invalid DateFrom",
			goerr.V("field", "DateFrom"))
	}

	dateTo := today
	if !isOpenEnded(parts[3]) {
		dateTo, err = ParseDate(parts[3])
		if err != nil {
			return model.AssignmentRecord{}, false, goerr.Wrap(err, "invalid DateTo",
				goerr.V("field", "DateTo"))
		}
	}

	rec, ok := model.NewAssignmentRecord(employeeID, projectID, dateFrom, dateTo)
	return rec, ok, nil
}
