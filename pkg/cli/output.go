package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/overlap/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

type encoder func(w io.Writer, result *model.PairResult) error

func newEncoder(format string) (encoder, error) {
	switch strings.ToLower(format) {
	case "json":
		return encodeJSON, nil
	case "yaml", "yml":
		return encodeYAML, nil
	case "table", "":
		return encodeTable, nil
	default:
		return nil, goerr.New("unsupported output format", goerr.V("format", format))
	}
}

func encodeJSON(w io.Writer, result *model.PairResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return goerr.Wrap(err, "failed to encode result as JSON")
	}
	return nil
}

func encodeYAML(w io.Writer, result *model.PairResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return goerr.Wrap(err, "failed to encode result as YAML")
	}
	if err := enc.Close(); err != nil {
		return goerr.Wrap(err, "failed to encode result as YAML")
	}
	return nil
}

func encodeTable(w io.Writer, result *model.PairResult) error {
	if result.IsEmpty() {
		_, err := fmt.Fprintln(w, "(no overlapping pairs found)")
		return err
	}

	if _, err := fmt.Fprintf(w, "Best pair: %d, %d (%d days)\n\n", result.EmployeeA, result.EmployeeB, result.TotalDays); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Employee #1\tEmployee #2\tProject ID\tDays worked")
	for _, row := range result.Rows {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", row.EmployeeA, row.EmployeeB, row.ProjectID, row.DaysOverlapped)
	}
	return tw.Flush()
}
