package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/natefinch/atomic"
	"github.com/secmon-lab/overlap/pkg/cli/config"
	"github.com/secmon-lab/overlap/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdAnalyze() *cli.Command {
	var (
		analysisCfg config.Analysis
		format      string
		output      string
	)

	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze a CSV file of EmpID,ProjectID,DateFrom,DateTo rows",
		ArgsUsage: "<file.csv>",
		Flags: joinFlags(
			analysisCfg.Flags(),
			[]cli.Flag{
				&cli.StringFlag{
					Name:        "format",
					Aliases:     []string{"f"},
					Usage:       "Output format (json, yaml, table)",
					Value:       "table",
					Sources:     cli.EnvVars("OVERLAP_FORMAT"),
					Destination: &format,
				},
				&cli.StringFlag{
					Name:        "output",
					Aliases:     []string{"o"},
					Usage:       "Write the result to this file instead of stdout",
					Destination: &output,
				},
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if c.Args().Len() != 1 {
				return goerr.New("exactly one CSV file is required", goerr.V("args", c.Args().Slice()))
			}
			path := c.Args().First()

			enc, err := newEncoder(format)
			if err != nil {
				return err
			}

			analysisUC, err := analysisCfg.Configure(nil)
			if err != nil {
				return err
			}

			result, err := analysisUC.AnalyzeFile(ctx, path)
			if err != nil {
				if model.IsInputError(err) {
					fmt.Fprintln(c.Root().ErrWriter, model.InputErrorMessage(err))
				}
				return err
			}

			var buf bytes.Buffer
			if err := enc(&buf, result); err != nil {
				return err
			}

			if output == "" {
				if _, err := c.Root().Writer.Write(buf.Bytes()); err != nil {
					return goerr.Wrap(err, "failed to write result")
				}
				return nil
			}

			if err := atomic.WriteFile(output, &buf); err != nil {
				return goerr.Wrap(err, "failed to write result file", goerr.V("path", output))
			}
			logger.Info("Result written", slog.String("path", output), slog.String("format", format))
			return nil
		},
	}
}
