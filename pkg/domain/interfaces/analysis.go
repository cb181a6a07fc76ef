package interfaces

import (
	"context"
	"io"

	"github.com/secmon-lab/overlap/pkg/domain/model"
)

// Analysis loads assignment records and reports the longest collaborating pair
type Analysis interface {
	// Analyze parses CSV assignment lines from r
	Analyze(ctx context.Context, r io.Reader) (*model.PairResult, error)

	// AnalyzeFile opens path and analyzes its content
	AnalyzeFile(ctx context.Context, path string) (*model.PairResult, error)
}
