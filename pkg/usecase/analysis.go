package usecase

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/overlap/pkg/domain/interfaces"
	"github.com/secmon-lab/overlap/pkg/domain/model"
	"github.com/secmon-lab/overlap/pkg/metrics"
	"github.com/secmon-lab/overlap/pkg/service/overlap"
	"github.com/secmon-lab/overlap/pkg/service/record"
)

// Analysis loads assignments and finds the longest collaborating pair
type Analysis struct {
	clock   func() time.Time
	engine  *overlap.Engine
	metrics interfaces.Metrics
}

var _ interfaces.Analysis = (*Analysis)(nil)

// AnalysisOption configures Analysis
type AnalysisOption func(*Analysis)

// WithClock sets the source of "today" used for open-ended assignments
func WithClock(clock func() time.Time) AnalysisOption {
	return func(a *Analysis) {
		a.clock = clock
	}
}

// WithToday pins "today" to a fixed date
func WithToday(today time.Time) AnalysisOption {
	return WithClock(func() time.Time { return today })
}

// WithWorkers sets how many goroutines scan project groups
func WithWorkers(n int) AnalysisOption {
	return func(a *Analysis) {
		a.engine = overlap.New(overlap.WithWorkers(n))
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m interfaces.Metrics) AnalysisOption {
	return func(a *Analysis) {
		a.metrics = m
	}
}

// NewAnalysis creates an Analysis use case
func NewAnalysis(opts ...AnalysisOption) *Analysis {
	a := &Analysis{
		clock:   time.Now,
		engine:  overlap.New(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze parses EmpID,ProjectID,DateFrom,DateTo lines from r. Input errors
// carry model.ErrTagMalformedRow or model.ErrTagUnrecognizedDate.
func (a *Analysis) Analyze(ctx context.Context, r io.Reader) (*model.PairResult, error) {
	logger := ctxlog.From(ctx)
	today := model.DateOf(a.clock())

	records, stats, err := record.ParseReader(r, today)
	if err != nil {
		a.metrics.RecordParseFailure(model.InputErrorKind(err))
		return nil, goerr.Wrap(err, "failed to load assignments")
	}
	a.metrics.RecordParse(stats.Records, stats.Dropped)

	logger.Debug("Assignments loaded",
		slog.Int("lines", stats.Lines),
		slog.Int("records", stats.Records),
		slog.Int("dropped", stats.Dropped),
		slog.Bool("header", stats.Header),
		slog.String("today", today.Format(time.DateOnly)),
	)
	if stats.Dropped > 0 {
		logger.Info("Skipped assignments ending before they start",
			slog.Int("count", stats.Dropped),
			slog.Any("lines", stats.DroppedLines),
		)
	}

	start := time.Now()
	result, err := a.engine.Run(ctx, records)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compute overlapping pair",
			goerr.V("records", len(records)))
	}
	elapsed := time.Since(start)
	a.metrics.RecordAnalysis(elapsed, result.TotalDays, !result.IsEmpty())

	logger.Info("Overlap analysis completed",
		slog.Int("records", len(records)),
		slog.Int("employee1", int(result.EmployeeA)),
		slog.Int("employee2", int(result.EmployeeB)),
		slog.Int("total_days", result.TotalDays),
		slog.Int("workers", a.engine.Workers()),
		slog.Duration("duration", elapsed),
	)

	return result, nil
}

// AnalyzeFile analyzes the CSV file at path
func (a *Analysis) AnalyzeFile(ctx context.Context, path string) (*model.PairResult, error) {
	if path == "" {
		return nil, goerr.New("file path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "CSV file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to open CSV file", goerr.V("path", path))
	}
	defer f.Close()

	result, err := a.Analyze(ctx, f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to analyze CSV file", goerr.V("path", path))
	}
	return result, nil
}
