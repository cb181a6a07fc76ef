package cli

import (
	"context"
	"io"
)

// RunWithIO runs the CLI with explicit output streams
func RunWithIO(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	return run(ctx, args, stdout, stderr)
}
