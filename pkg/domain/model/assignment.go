package model

import (
	"time"

	"github.com/secmon-lab/overlap/pkg/domain/types"
)

// AssignmentRecord is one employee's stint on a project. DateFrom and DateTo
// are calendar dates at UTC midnight and DateTo is never before DateFrom.
type AssignmentRecord struct {
	EmployeeID types.EmployeeID
	ProjectID  types.ProjectID
	DateFrom   time.Time
	DateTo     time.Time
}

// NewAssignmentRecord builds a record from calendar dates. ok is false when
// the range is inverted.
func NewAssignmentRecord(employeeID types.EmployeeID, projectID types.ProjectID, from, to time.Time) (AssignmentRecord, bool) {
	from = DateOf(from)
	to = DateOf(to)
	if to.Before(from) {
		return AssignmentRecord{}, false
	}
	return AssignmentRecord{
		EmployeeID: employeeID,
		ProjectID:  projectID,
		DateFrom:   from,
		DateTo:     to,
	}, true
}

// DateOf drops the time of day, keeping the calendar date as seen in t's own
// location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
