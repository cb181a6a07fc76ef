package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	controller "github.com/secmon-lab/overlap/pkg/controller/http"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr           string
	MaxUploadBytes int64
	TempDir        string
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Category:    "Server",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("OVERLAP_ADDR"),
			Destination: &s.Addr,
		},
		&cli.Int64Flag{
			Name:        "max-upload-bytes",
			Usage:       "Maximum size of an uploaded CSV file",
			Category:    "Server",
			Value:       controller.DefaultMaxUploadBytes,
			Sources:     cli.EnvVars("OVERLAP_MAX_UPLOAD_BYTES"),
			Destination: &s.MaxUploadBytes,
		},
		&cli.StringFlag{
			Name:        "temp-dir",
			Usage:       "Directory for uploaded files while they are analyzed (default: system temp dir)",
			Category:    "Server",
			Sources:     cli.EnvVars("OVERLAP_TEMP_DIR"),
			Destination: &s.TempDir,
		},
	}
}

// Validate validates the server configuration
func (s *Server) Validate() error {
	if s.Addr == "" {
		return goerr.New("server address is required")
	}
	if s.MaxUploadBytes <= 0 {
		return goerr.New("max upload bytes must be positive", goerr.V("max_upload_bytes", s.MaxUploadBytes))
	}
	return nil
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Int64("max_upload_bytes", s.MaxUploadBytes),
		slog.String("temp_dir", s.TempDir),
	)
}
