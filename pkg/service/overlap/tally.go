package overlap

import (
	"cmp"
	"slices"

	"github.com/secmon-lab/overlap/pkg/domain/model"
)

// tally accumulates per-pair totals and project rows
type tally struct {
	totals map[model.PairKey]int
	rows   map[model.PairKey][]model.ProjectOverlapRow
}

func newTally() *tally {
	return &tally{
		totals: make(map[model.PairKey]int),
		rows:   make(map[model.PairKey][]model.ProjectOverlapRow),
	}
}

func (t *tally) add(key model.PairKey, row model.ProjectOverlapRow) {
	t.totals[key] += row.DaysOverlapped
	t.rows[key] = append(t.rows[key], row)
}

// merge folds other into t. Summation keeps it order independent.
func (t *tally) merge(other *tally) {
	for key, total := range other.totals {
		t.totals[key] += total
	}
	for key, rows := range other.rows {
		t.rows[key] = append(t.rows[key], rows...)
	}
}

// best picks the pair with the highest total, lowest IDs on ties
func (t *tally) best() *model.PairResult {
	if len(t.totals) == 0 {
		return model.NewEmptyPairResult()
	}

	var (
		bestKey   model.PairKey
		bestTotal int
		found     bool
	)
	for key, total := range t.totals {
		if !found || total > bestTotal || (total == bestTotal && key.Less(bestKey)) {
			bestKey, bestTotal, found = key, total, true
		}
	}

	rows := slices.Clone(t.rows[bestKey])
	slices.SortStableFunc(rows, func(x, y model.ProjectOverlapRow) int {
		if c := cmp.Compare(y.DaysOverlapped, x.DaysOverlapped); c != 0 {
			return c
		}
		return cmp.Compare(x.ProjectID, y.ProjectID)
	})
	if rows == nil {
		rows = []model.ProjectOverlapRow{}
	}

	return &model.PairResult{
		EmployeeA: bestKey.A(),
		EmployeeB: bestKey.B(),
		TotalDays: bestTotal,
		Rows:      rows,
	}
}
