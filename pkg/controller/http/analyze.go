package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/overlap/pkg/domain/interfaces"
	"github.com/secmon-lab/overlap/pkg/domain/model"
	"github.com/secmon-lab/overlap/pkg/utils/apperr"
)

const (
	uploadField = "file"

	// multipartMemory is kept in memory before the multipart reader spills to disk
	multipartMemory = 8 << 20
)

// AnalyzeHandler accepts a CSV upload and responds with the best pair
type AnalyzeHandler struct {
	analysisUC     interfaces.Analysis
	maxUploadBytes int64
	tempDir        string
}

// NewAnalyzeHandler creates a new upload handler
func NewAnalyzeHandler(analysisUC interfaces.Analysis, maxUploadBytes int64, tempDir string) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisUC:     analysisUC,
		maxUploadBytes: maxUploadBytes,
		tempDir:        tempDir,
	}
}

// ServeHTTP handles POST /api/overlap/analyze
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: "Uploaded file is too large."})
			return
		}
		writeError(w, r, http.StatusBadRequest, errorResponse{Error: "No file was uploaded."})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.Warn("Failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil || header.Size == 0 {
		if file != nil {
			file.Close()
		}
		writeError(w, r, http.StatusBadRequest, errorResponse{Error: "No file was uploaded."})
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, r, http.StatusBadRequest, errorResponse{Error: "Please upload a .csv file."})
		return
	}

	tmpPath, err := h.spool(file)
	if tmpPath != "" {
		defer func() {
			if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
				logger.Warn("Failed to remove uploaded file", "error", err, "path", tmpPath)
			}
		}()
	}
	if err != nil {
		apperr.Handle(ctx, err)
		writeError(w, r, http.StatusInternalServerError, errorResponse{Error: "Failed to store uploaded file."})
		return
	}

	logger.Debug("Analyzing uploaded file",
		"filename", header.Filename,
		"size", header.Size,
	)

	result, err := h.analysisUC.AnalyzeFile(ctx, tmpPath)
	if err != nil {
		if model.IsInputError(err) {
			line, _ := goerr.Values(err)["line"].(int)
			logger.Info("Rejected uploaded file", "error", err)
			writeError(w, r, http.StatusBadRequest, errorResponse{
				Error: model.InputErrorMessage(err),
				Kind:  model.InputErrorKind(err),
				Line:  line,
			})
			return
		}

		apperr.Handle(ctx, err)
		writeError(w, r, http.StatusInternalServerError, errorResponse{Error: "Failed to analyze uploaded file."})
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// spool copies the upload to <tempDir>/<uuid>.csv
func (h *AnalyzeHandler) spool(src io.Reader) (string, error) {
	path := filepath.Join(h.tempDir, uuid.NewString()+".csv")

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create temp file", goerr.V("path", path))
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return path, goerr.Wrap(err, "failed to write temp file", goerr.V("path", path))
	}
	if err := dst.Close(); err != nil {
		return path, goerr.Wrap(err, "failed to close temp file", goerr.V("path", path))
	}

	return path, nil
}
