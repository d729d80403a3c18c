// Package httpadapter exposes the analysis pipeline over HTTP.
package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/ports"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/observability/metrics"
)

type Options struct {
	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
	ServiceName    string
	Metrics        *metrics.HTTPServerMetrics
	Pipeline       *metrics.PipelineMetrics
}

type Router struct {
	analyzer ports.EmailAnalyzer
	ingestor ports.EmailIngestor
	reader   ports.EmailReader
	exporter ports.AnalysisExporter
	options  Options
}

func NewRouter(
	analyzer ports.EmailAnalyzer,
	ingestor ports.EmailIngestor,
	reader ports.EmailReader,
	exporter ports.AnalysisExporter,
	options Options,
) *Router {
	if options.MaxUploadBytes <= 0 {
		options.MaxUploadBytes = 16 << 20
	}
	if options.ServiceName == "" {
		options.ServiceName = "api"
	}
	return &Router{
		analyzer: analyzer,
		ingestor: ingestor,
		reader:   reader,
		exporter: exporter,
		options:  options,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/analyze/text", rt.analyzeText)
	mux.HandleFunc("/v1/analyze/file", rt.analyzeFile)
	mux.HandleFunc("/v1/emails", rt.uploadEmail)
	mux.HandleFunc("/v1/emails/", rt.getEmailByID)
	mux.HandleFunc("/v1/analyses/export", rt.exportAnalyses)
	if rt.options.Metrics != nil {
		mux.Handle("/metrics", rt.options.Metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.options.Metrics != nil {
		handler = rt.options.Metrics.Middleware(rt.options.ServiceName, handler)
	}
	if rt.options.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.options.RateLimitRPS, rt.options.RateLimitBurst, rt.options.Metrics, rt.options.ServiceName)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) analyzeText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	body := http.MaxBytesReader(w, r.Body, rt.options.MaxUploadBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, map[string]string{"error": "invalid json body"})
		return
	}

	start := time.Now()
	result, err := rt.analyzer.Analyze(r.Context(), domain.TextInput(req.Text))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.observeAnalysis("text", *result, time.Since(start))

	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) analyzeFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	payload, filename, ok := rt.readUpload(w, r)
	if !ok {
		return
	}
	extension := strings.ToLower(filepath.Ext(filename))

	start := time.Now()
	result, err := rt.analyzer.Analyze(r.Context(), domain.FileInput(payload, extension))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.observeAnalysis("file", *result, time.Since(start))
	if rt.options.Metrics != nil {
		rt.options.Metrics.RecordUpload(rt.options.ServiceName, extension, int64(len(payload)))
	}

	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) uploadEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	payload, filename, ok := rt.readUpload(w, r)
	if !ok {
		return
	}

	doc, err := rt.ingestor.Upload(r.Context(), filename, bytes.NewReader(payload))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if rt.options.Metrics != nil {
		rt.options.Metrics.RecordUpload(rt.options.ServiceName, doc.Extension, int64(len(payload)))
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getEmailByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/emails/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) exportAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	filename := fmt.Sprintf("analyses-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := rt.exporter.Export(r.Context(), w); err != nil {
		// Headers are already out, the best we can do is log and drop.
		slog.Error("export_failed", "error", err, "request_id", requestIDFromContext(r.Context()))
	}
}

// readUpload pulls the multipart "file" field, enforcing the upload cap.
func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.options.MaxUploadBytes)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		status := http.StatusBadRequest
		message := "multipart field 'file' is required"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
			message = "upload exceeds the size limit"
		}
		writeJSON(w, status, map[string]string{"error": message})
		return nil, "", false
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload exceeds the size limit"})
			return nil, "", false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "could not read uploaded file"})
		return nil, "", false
	}

	return payload, fileHeader.Filename, true
}

func (rt *Router) observeAnalysis(source string, result domain.AnalysisResult, duration time.Duration) {
	if rt.options.Pipeline == nil {
		return
	}
	rt.options.Pipeline.ObserveAnalysis(rt.options.ServiceName, source, result, duration)
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		slog.Error("request_failed", "error", err, "request_id", requestIDFromContext(r.Context()))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
