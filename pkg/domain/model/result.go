package model

import "github.com/secmon-lab/overlap/pkg/domain/types"

// ProjectOverlapRow is the number of days a pair shared on one project
type ProjectOverlapRow struct {
	EmployeeA      types.EmployeeID `json:"employee1" yaml:"employee1"`
	EmployeeB      types.EmployeeID `json:"employee2" yaml:"employee2"`
	ProjectID      types.ProjectID  `json:"projectId" yaml:"projectId"`
	DaysOverlapped int              `json:"daysWorked" yaml:"daysWorked"`
}

// PairResult is the best collaborating pair and its per-project breakdown
type PairResult struct {
	EmployeeA types.EmployeeID    `json:"employee1" yaml:"employee1"`
	EmployeeB types.EmployeeID    `json:"employee2" yaml:"employee2"`
	TotalDays int                 `json:"totalDays" yaml:"totalDays"`
	Rows      []ProjectOverlapRow `json:"projectRows" yaml:"projectRows"`
}

// NewEmptyPairResult returns the result reported when no two employees overlap
func NewEmptyPairResult() *PairResult {
	return &PairResult{Rows: []ProjectOverlapRow{}}
}

// IsEmpty returns true for the "no overlapping pair" result
func (r *PairResult) IsEmpty() bool {
	return r == nil || (r.EmployeeA == 0 && r.EmployeeB == 0 && r.TotalDays == 0 && len(r.Rows) == 0)
}
