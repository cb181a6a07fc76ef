package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	controller "github.com/secmon-lab/overlap/pkg/controller/http"
	"github.com/secmon-lab/overlap/pkg/domain/model"
	"github.com/secmon-lab/overlap/pkg/metrics"
	"github.com/secmon-lab/overlap/pkg/usecase"
)

var testToday = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, cfg controller.Config) (*controller.Server, string) {
	t.Helper()

	ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if cfg.TempDir == "" {
		cfg.TempDir = t.TempDir()
	}
	registry := prometheus.NewRegistry()
	collector, err := metrics.NewPrometheus(registry, "")
	gt.NoError(t, err).Required()
	cfg.Gatherer = registry

	analysisUC := usecase.NewAnalysis(usecase.WithToday(testToday), usecase.WithMetrics(collector))
	server, err := controller.NewServer(ctx, cfg, analysisUC)
	gt.NoError(t, err).Required()

	return server, cfg.TempDir
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	gt.NoError(t, err).Required()
	_, err = fw.Write([]byte(content))
	gt.NoError(t, err).Required()
	gt.NoError(t, mw.Close()).Required()

	req := httptest.NewRequest(http.MethodPost, "/api/overlap/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp)).Required()
	return resp
}

func TestServerHealthCheck(t *testing.T) {
	server, _ := newTestServer(t, controller.Config{Addr: ":8080"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains("healthy")
	gt.S(t, w.Body.String()).Contains("overlap")
}

func TestServerAnalyze(t *testing.T) {
	t.Run("returns the best pair", func(t *testing.T) {
		server, tempDir := newTestServer(t, controller.Config{})

		csv := "EmpID,ProjectID,DateFrom,DateTo\n1,100,2020-01-01,2020-01-10\n2,100,2020-01-05,2020-01-15\n"
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, uploadRequest(t, "file", "data.csv", csv))

		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "application/json")

		var result model.PairResult
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &result)).Required()
		gt.Equal(t, result, model.PairResult{
			EmployeeA: 1, EmployeeB: 2, TotalDays: 6,
			Rows: []model.ProjectOverlapRow{{EmployeeA: 1, EmployeeB: 2, ProjectID: 100, DaysOverlapped: 6}},
		})

		entries, err := os.ReadDir(tempDir)
		gt.NoError(t, err).Required()
		gt.Equal(t, len(entries), 0)
	})

	t.Run("no overlapping pair", func(t *testing.T) {
		server, _ := newTestServer(t, controller.Config{})

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, uploadRequest(t, "file", "data.CSV", "1,100,2020-01-01,NULL\n"))

		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Body.String(), `{"employee1":0,"employee2":0,"totalDays":0,"projectRows":[]}`+"\n")
	})

	t.Run("malformed row is a bad request", func(t *testing.T) {
		server, tempDir := newTestServer(t, controller.Config{})

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, uploadRequest(t, "file", "data.csv", "EmpID,ProjectID,DateFrom,DateTo\n1,100,2020-01-01\n"))

		gt.Equal(t, w.Code, http.StatusBadRequest)
		resp := decodeError(t, w)
		gt.Equal(t, resp["error"], any("Invalid CSV format at line 2: '1,100,2020-01-01'"))
		gt.Equal(t, resp["kind"], any("malformed_row"))
		gt.Equal(t, resp["line"], any(float64(2)))

		entries, err := os.ReadDir(tempDir)
		gt.NoError(t, err).Required()
		gt.Equal(t, len(entries), 0)
	})

	t.Run("unrecognized date is a bad request", func(t *testing.T) {
		server, _ := newTestServer(t, controller.Config{})

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, uploadRequest(t, "file", "data.csv", "1,100,the-first,NULL\n"))

		gt.Equal(t, w.Code, http.StatusBadRequest)
		resp := decodeError(t, w)
		gt.Equal(t, resp["kind"], any("unrecognized_date"))
		gt.Equal(t, resp["error"], any("Unrecognized date at line 1: 'the-first'"))
	})

	t.Run("wrong extension", func(t *testing.T) {
		server, _ := newTestServer(t, controller.Config{})

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, uploadRequest(t, "file", "data.txt", "1,100,2020-01-01,NULL\n"))

		gt.Equal(t, w.Code, http.StatusBadRequest)
		gt.Equal(t, decodeError(t, w)["error"], any("Please upload a .csv file."))
	})

	t.Run("empty file", func(t *testing.T) {
		server, _ := newTestServer(t, controller.Config{})

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, uploadRequest(t, "file", "data.csv", ""))

		gt.Equal(t, w.Code, http.StatusBadRequest)
		gt.Equal(t, decodeError(t, w)["error"], any("No file was uploaded."))
	})

	t.Run("wrong form field", func(t *testing.T) {
		server, _ := newTestServer(t, controller.Config{})

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, uploadRequest(t, "upload", "data.csv", "1,100,2020-01-01,NULL\n"))

		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("not multipart", func(t *testing.T) {
		server, _ := newTestServer(t, controller.Config{})

		req := httptest.NewRequest(http.MethodPost, "/api/overlap/analyze", bytes.NewBufferString("1,100,2020-01-01,NULL"))
		req.Header.Set("Content-Type", "text/csv")
		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, req)

		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("only POST is routed", func(t *testing.T) {
		server, _ := newTestServer(t, controller.Config{})

		w := httptest.NewRecorder()
		server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/overlap/analyze", nil))

		gt.Equal(t, w.Code, http.StatusMethodNotAllowed)
	})
}

func TestServerMetrics(t *testing.T) {
	server, _ := newTestServer(t, controller.Config{})

	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, uploadRequest(t, "file", "data.csv", "1,100,2020-01-01,2020-01-10\n2,100,2020-01-05,2020-01-15\n"))
	gt.Equal(t, w.Code, http.StatusOK)

	w = httptest.NewRecorder()
	server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains("overlap_parser_records_total 2")
	gt.S(t, w.Body.String()).Contains(`overlap_engine_analyses_total{found="true"} 1`)
}
