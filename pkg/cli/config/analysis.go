package config

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/overlap/pkg/domain/interfaces"
	"github.com/secmon-lab/overlap/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Analysis holds overlap analysis configuration
type Analysis struct {
	Today   string
	Workers int
}

// Flags returns CLI flags for Analysis configuration
func (a *Analysis) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "today",
			Usage:       "Reference date (YYYY-MM-DD) for open-ended assignments (default: current date)",
			Category:    "Analysis",
			Sources:     cli.EnvVars("OVERLAP_TODAY"),
			Destination: &a.Today,
		},
		&cli.IntFlag{
			Name:        "workers",
			Usage:       "Goroutines scanning project groups, 0 means number of CPUs",
			Category:    "Analysis",
			Value:       1,
			Sources:     cli.EnvVars("OVERLAP_WORKERS"),
			Destination: &a.Workers,
		},
	}
}

// Validate validates the analysis configuration
func (a *Analysis) Validate() error {
	if a.Workers < 0 {
		return goerr.New("workers must not be negative", goerr.V("workers", a.Workers))
	}
	if _, err := a.today(); err != nil {
		return err
	}
	return nil
}

// Configure creates the analysis use case
func (a *Analysis) Configure(m interfaces.Metrics) (*usecase.Analysis, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	workers := a.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	opts := []usecase.AnalysisOption{usecase.WithWorkers(workers)}
	if m != nil {
		opts = append(opts, usecase.WithMetrics(m))
	}

	today, _ := a.today()
	if !today.IsZero() {
		opts = append(opts, usecase.WithToday(today))
	}

	return usecase.NewAnalysis(opts...), nil
}

func (a *Analysis) today() (time.Time, error) {
	if a.Today == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, a.Today)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid --today date, expected YYYY-MM-DD", goerr.V("today", a.Today))
	}
	return t, nil
}

// LogValue returns structured log value
func (a Analysis) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("today", a.Today),
		slog.Int("workers", a.Workers),
	)
}
