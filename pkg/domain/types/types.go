package types

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// EmployeeID represents an employee identifier taken from the EmpID column
type EmployeeID int

// String returns the string representation
func (id EmployeeID) String() string {
	return strconv.Itoa(int(id))
}

// ParseEmployeeID parses a decimal employee identifier
func ParseEmployeeID(s string) (EmployeeID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid employee ID", goerr.V("value", s))
	}
	return EmployeeID(n), nil
}

// ProjectID represents a project identifier taken from the ProjectID column
type ProjectID int

// String returns the string representation
func (id ProjectID) String() string {
	return strconv.Itoa(int(id))
}

// ParseProjectID parses a decimal project identifier
func ParseProjectID(s string) (ProjectID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid project ID", goerr.V("value", s))
	}
	return ProjectID(n), nil
}
