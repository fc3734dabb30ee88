package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/alexanderramin/tally/internal/contract"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/importer"
	"github.com/alexanderramin/tally/internal/report"
	"github.com/alexanderramin/tally/internal/service"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title            string
	Version          string
	NarrativeEnabled bool
}

// UploadPageData is the template data for the upload form.
type UploadPageData struct {
	PageData
	MaxUploadMB int64
}

// ReportPageData is the template data for a rendered report.
type ReportPageData struct {
	PageData
	Report      *contract.ReportResponse
	Dimensions  []domain.Dimension
	FilterBy    string
	FilterValue string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
	Details    []string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	logger    *zap.Logger
}

// NewRenderer parses the layout and page templates from templateFS.
func NewRenderer(templateFS fs.FS, version string, logger *zap.Logger) (*Renderer, error) {
	funcMap := template.FuncMap{
		"hours":    func(h domain.Hours) string { return h.String() },
		"percent":  formatPercent,
		"bar":      barValue,
		"date":     formatDate,
		"markdown": renderMarkdown,
	}

	layout, err := template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}

	pages := map[string]string{
		"upload": "upload.html",
		"report": "report.html",
		"error":  "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		templates[name] = t
	}

	return &Renderer{templates: templates, version: version, logger: logger}, nil
}

// renderPage renders a named page template with the given data and status.
func (r *Renderer) renderPage(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("template not found", zap.String("name", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("template execution failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// requestError is a client mistake detected by a handler.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

// apiError is the JSON error body.
type apiError struct {
	Code       string               `json:"code"`
	Message    string               `json:"message"`
	Status     int                  `json:"status"`
	Violations []importer.Violation `json:"violations,omitempty"`
	Truncated  int                  `json:"truncated,omitempty"`
}

// classify maps an error onto an HTTP status and a user-facing body.
func classify(err error) apiError {
	var reqErr *requestError
	var malformed *importer.MalformedInputError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &reqErr):
		return apiError{Code: reqErr.code, Message: reqErr.message, Status: reqErr.status}
	case errors.As(err, &malformed):
		return apiError{
			Code:       "MALFORMED_INPUT",
			Message:    malformed.Error(),
			Status:     http.StatusUnprocessableEntity,
			Violations: malformed.Violations,
			Truncated:  malformed.Truncated,
		}
	case errors.As(err, &tooLarge):
		return apiError{
			Code:    "UPLOAD_TOO_LARGE",
			Message: fmt.Sprintf("upload exceeds %d MB", tooLarge.Limit>>20),
			Status:  http.StatusRequestEntityTooLarge,
		}
	case errors.Is(err, service.ErrEmptyUpload):
		return apiError{Code: "EMPTY_UPLOAD", Message: err.Error(), Status: http.StatusBadRequest}
	case errors.Is(err, report.ErrUnknownDimension):
		return apiError{Code: "UNKNOWN_DIMENSION", Message: err.Error(), Status: http.StatusBadRequest}
	default:
		return apiError{Code: "INTERNAL", Message: "internal server error", Status: http.StatusInternalServerError}
	}
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	body := classify(err)
	if body.Status >= http.StatusInternalServerError {
		r.logger.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
	}

	if wantsJSON(req) {
		renderJSON(w, body.Status, map[string]any{"error": body})
		return
	}

	details := make([]string, 0, len(body.Violations)+1)
	for _, v := range body.Violations {
		details = append(details, v.String())
	}
	if body.Truncated > 0 {
		details = append(details, fmt.Sprintf("... and %d more", body.Truncated))
	}

	r.renderPage(w, body.Status, "error", ErrorPageData{
		PageData:   PageData{Title: fmt.Sprintf("Error %d", body.Status), Version: r.version},
		StatusCode: body.Status,
		Message:    body.Message,
		Details:    details,
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark. Raw HTML in
// the source is dropped.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func formatPercent(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}

// barValue scales a 0..1 share to the 0..1000 range of the <progress> bars.
func barValue(share float64) int {
	v := int(share*1000 + 0.5)
	return max(0, min(1000, v))
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(domain.DateLayout)
}
