package apperr

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/overlap/pkg/domain/model"
)

// Handle logs err with the logger carried by ctx. Rejected input is logged
// as a warning, everything else as an error.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	attrs := []any{slog.Any("error", err)}
	for k, v := range goerr.Values(err) {
		attrs = append(attrs, slog.Any(k, v))
	}

	if model.IsInputError(err) {
		logger.Warn("input rejected", attrs...)
		return
	}
	logger.Error("application error", attrs...)
}
