package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/contract"
	"github.com/alexanderramin/tally/internal/domain"
)

// Handlers contains HTTP route handlers for the dashboard.
type Handlers struct {
	reports  app.ReportUseCase
	renderer *Renderer
	uploads  *uploadStore
	opts     Options
}

func (h *Handlers) page(title string) PageData {
	return PageData{Title: title, Version: h.opts.Version, NarrativeEnabled: h.opts.NarrativeEnabled}
}

// HandleIndex handles GET / with the upload form.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, http.StatusOK, "upload", UploadPageData{
		PageData:    h.page("Upload timesheet"),
		MaxUploadMB: h.opts.MaxUploadBytes >> 20,
	})
}

// HandleUpload handles POST /reports with a multipart "file" field.
// Optional fields: "narrate" (checkbox) and "by"/"value" (filter).
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			h.renderer.renderError(w, r, &requestError{
				status:  http.StatusRequestEntityTooLarge,
				code:    "UPLOAD_TOO_LARGE",
				message: fmt.Sprintf("upload exceeds %d MB", h.opts.MaxUploadBytes>>20),
			})
			return
		}
		h.renderer.renderError(w, r, &requestError{
			status:  http.StatusBadRequest,
			code:    "INVALID_FORM",
			message: "expected a multipart form with a CSV file",
		})
		return
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		h.renderer.renderError(w, r, &requestError{
			status:  http.StatusBadRequest,
			code:    "EMPTY_UPLOAD",
			message: "choose a CSV file to upload",
		})
		return
	}
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	u := upload{filename: header.Filename, data: data, narrate: formBool(r.FormValue("narrate"))}
	req := u.request()
	req.Filter = filterFrom(r.FormValue("by"), r.FormValue("value"))

	resp, err := h.reports.Build(r.Context(), req)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.uploads.put(resp.ID, u)
	h.respond(w, r, resp)
}

// HandleReport handles GET /reports/{id}, re-running a stored upload with
// the filter given in the "by" and "value" query parameters.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	u, ok := h.uploads.get(id)
	if !ok {
		h.renderer.renderError(w, r, &requestError{
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "report not found; it may have expired, please upload the file again",
		})
		return
	}

	req := u.request()
	req.Filter = filterFrom(r.URL.Query().Get("by"), r.URL.Query().Get("value"))

	resp, err := h.reports.Build(r.Context(), req)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	resp.ID = id
	h.respond(w, r, resp)
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   h.opts.Version,
		"narrative": h.opts.NarrativeEnabled,
	})
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, resp *contract.ReportResponse) {
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, resp)
		return
	}

	data := ReportPageData{
		PageData:   h.page(resp.Filename),
		Report:     resp,
		Dimensions: domain.Dimensions,
	}
	if resp.Selection != nil {
		data.FilterBy = string(resp.Selection.Dimension)
		data.FilterValue = resp.Selection.Value
	}
	h.renderer.renderPage(w, http.StatusOK, "report", data)
}

func (u upload) request() contract.ReportRequest {
	req := contract.NewReportRequest(u.filename, u.data)
	req.Narrate = u.narrate
	return req
}

func filterFrom(by, value string) *contract.FilterRequest {
	by, value = strings.TrimSpace(by), strings.TrimSpace(value)
	if by == "" || value == "" {
		return nil
	}
	return &contract.FilterRequest{Dimension: domain.Dimension(strings.ToLower(by)), Value: value}
}

func formBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}
