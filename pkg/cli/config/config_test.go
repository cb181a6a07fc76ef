package config_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/overlap/pkg/cli/config"
)

func TestLoggerValidate(t *testing.T) {
	gt.NoError(t, (&config.Logger{Level: "debug", Format: "json"}).Validate())
	gt.NoError(t, (&config.Logger{}).Validate())
	gt.Error(t, (&config.Logger{Level: "trace", Format: "json"}).Validate())
	gt.Error(t, (&config.Logger{Level: "info", Format: "xml"}).Validate())
}

func TestLoggerConfigure(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Logger{Level: "warn", Format: "json", Output: &buf}

	logger, err := cfg.Configure()
	gt.NoError(t, err).Required()

	logger.Info("dropped")
	logger.Warn("kept")
	gt.False(t, strings.Contains(buf.String(), "dropped"))
	gt.True(t, strings.Contains(buf.String(), "kept"))
}

func TestServerValidate(t *testing.T) {
	gt.NoError(t, (&config.Server{Addr: ":8080", MaxUploadBytes: 1}).Validate())
	gt.Error(t, (&config.Server{Addr: "", MaxUploadBytes: 1}).Validate())
	gt.Error(t, (&config.Server{Addr: ":8080", MaxUploadBytes: 0}).Validate())
}

func TestAnalysisConfigure(t *testing.T) {
	t.Run("pinned today resolves NULL end dates", func(t *testing.T) {
		cfg := config.Analysis{Today: "2024-06-01", Workers: 2}
		uc, err := cfg.Configure(nil)
		gt.NoError(t, err).Required()

		result, err := uc.Analyze(context.Background(), strings.NewReader("1,1,2024-05-31,NULL\n2,1,2024-05-01,NULL\n"))
		gt.NoError(t, err).Required()
		gt.Equal(t, result.TotalDays, 2)
	})

	t.Run("zero workers means number of CPUs", func(t *testing.T) {
		_, err := (&config.Analysis{Workers: 0}).Configure(nil)
		gt.NoError(t, err)
	})

	t.Run("invalid today", func(t *testing.T) {
		_, err := (&config.Analysis{Today: "06/01/2024", Workers: 1}).Configure(nil)
		gt.Error(t, err)
	})

	t.Run("negative workers", func(t *testing.T) {
		gt.Error(t, (&config.Analysis{Workers: -1}).Validate())
	})
}
