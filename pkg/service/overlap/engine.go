package overlap

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/overlap/pkg/domain/model"
	"github.com/secmon-lab/overlap/pkg/domain/types"
	"golang.org/x/sync/errgroup"
)

const secondsPerDay = 24 * 60 * 60

// Engine finds the pair of employees who shared the most project days.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	workers int
}

// Option configures an Engine
type Option func(*Engine)

// WithWorkers spreads project groups over n goroutines. Values below 2 keep
// the scan on the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New creates an Engine
func New(opts ...Option) *Engine {
	e := &Engine{workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured parallelism
func (e *Engine) Workers() int {
	return e.workers
}

// FindBestPair runs a sequential scan without cancellation
func FindBestPair(records []model.AssignmentRecord) *model.PairResult {
	t := newTally()
	for _, g := range groupByProject(records) {
		scanGroup(g, t)
	}
	return t.best()
}

// Run computes the best pair. The only error is ctx cancellation, checked
// between project groups.
func (e *Engine) Run(ctx context.Context, records []model.AssignmentRecord) (*model.PairResult, error) {
	if len(records) == 0 {
		return model.NewEmptyPairResult(), nil
	}

	groups := groupByProject(records)
	workers := min(e.workers, len(groups))

	if workers < 2 {
		t := newTally()
		for _, g := range groups {
			if err := ctx.Err(); err != nil {
				return nil, goerr.Wrap(err, "overlap scan cancelled")
			}
			scanGroup(g, t)
		}
		return t.best(), nil
	}

	partials := make([]*tally, workers)
	eg, egCtx := errgroup.WithContext(ctx)
	for w := range workers {
		partials[w] = newTally()
		eg.Go(func() error {
			for i := w; i < len(groups); i += workers {
				if err := egCtx.Err(); err != nil {
					return goerr.Wrap(err, "overlap scan cancelled", goerr.V("worker", w))
				}
				scanGroup(groups[i], partials[w])
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := partials[0]
	for _, p := range partials[1:] {
		merged.merge(p)
	}
	return merged.best(), nil
}

// projectGroup is every record sharing one project
type projectGroup struct {
	projectID types.ProjectID
	records   []model.AssignmentRecord
}

// groupByProject partitions records. Groups are ordered by project ID so the
// work split across goroutines is reproducible.
func groupByProject(records []model.AssignmentRecord) []projectGroup {
	index := make(map[types.ProjectID]int)
	var groups []projectGroup
	for _, rec := range records {
		i, ok := index[rec.ProjectID]
		if !ok {
			i = len(groups)
			index[rec.ProjectID] = i
			groups = append(groups, projectGroup{projectID: rec.ProjectID})
		}
		groups[i].records = append(groups[i].records, rec)
	}

	slices.SortFunc(groups, func(x, y projectGroup) int {
		return cmp.Compare(x.projectID, y.projectID)
	})
	return groups
}

// scanGroup compares every pair of records in one project group
func scanGroup(g projectGroup, t *tally) {
	recs := g.records
	for i := 0; i < len(recs); i++ {
		for j := i + 1; j < len(recs); j++ {
			key, ok := model.NewPairKey(recs[i].EmployeeID, recs[j].EmployeeID)
			if !ok {
				continue
			}

			days := OverlapDays(recs[i], recs[j])
			if days <= 0 {
				continue
			}

			t.add(key, model.ProjectOverlapRow{
				EmployeeA:      key.A(),
				EmployeeB:      key.B(),
				ProjectID:      g.projectID,
				DaysOverlapped: days,
			})
		}
	}
}

// OverlapDays counts the calendar days both ranges cover, including both
// boundary days. Disjoint ranges give zero.
func OverlapDays(a, b model.AssignmentRecord) int {
	start := max(dayNumber(a.DateFrom), dayNumber(b.DateFrom))
	end := min(dayNumber(a.DateTo), dayNumber(b.DateTo))
	if end < start {
		return 0
	}
	return int(end-start) + 1
}

// dayNumber counts days since the Unix epoch for the calendar date of t
func dayNumber(t time.Time) int64 {
	return model.DateOf(t).Unix() / secondsPerDay
}
