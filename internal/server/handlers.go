package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/pindora-shield/internal/pipeline"
	"github.com/jonathan/pindora-shield/internal/rendering"
	"github.com/jonathan/pindora-shield/internal/types"
)

// maxRequestBytes caps request bodies; identifiers are short strings.
const maxRequestBytes = 1 << 20

// StreamEvent is the payload of an SSE "report" event.
type StreamEvent struct {
	Index int                 `json:"index"`
	View  pipeline.ReportView `json:"view"`
}

// handleReport fetches and normalizes one report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req types.ReportRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.requestErrorResponse(w, err)
		return
	}

	view := pipeline.ViewReport(r.Context(), s.fetcher, req)
	status := http.StatusOK
	if !view.Response.OK() {
		status = http.StatusBadGateway
	}
	s.jsonResponse(w, status, view.Report())
}

// handleReportStream fetches several reports concurrently and streams each
// one via SSE as it completes
func (s *Server) handleReportStream(w http.ResponseWriter, r *http.Request) {
	var req types.BatchReportRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.requestErrorResponse(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log := zerolog.Ctx(r.Context())
	failed := 0
	views := pipeline.ViewMany(r.Context(), s.fetcher, req.Requests(), s.cfg.MaxConcurrent, func(index int, view *pipeline.View) {
		if !view.Response.OK() {
			failed++
		}
		if err := sse.WriteEvent("report", StreamEvent{Index: index, View: view.Report()}); err != nil {
			log.Debug().Err(err).Int("index", index).Msg("Client went away during report stream")
		}
	})
	sse.WriteComplete(len(views), failed)
}

// handlePreview renders one report as a standalone HTML page
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req := types.ReportRequest{MoleculeIdentifier: r.URL.Query().Get("smiles")}
	if err := req.Validate(); err != nil {
		s.requestErrorResponse(w, err)
		return
	}

	view := pipeline.ViewReport(r.Context(), s.fetcher, req)
	page := rendering.Page{
		Identifier: req.MoleculeIdentifier,
		Status:     view.Response.Status,
		Error:      view.Response.ErrorMessage(),
		Markdown:   view.Markdown(),
	}
	if view.Response.Outcome == types.OutcomeEmpty {
		page.Markdown = "_The backend returned an empty report._"
	}

	html, err := rendering.RenderPage(page)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render report preview")
		s.errorResponse(w, HTTPStatus(err), "Failed to render report")
		return
	}

	status := http.StatusOK
	if !view.Response.OK() {
		status = http.StatusBadGateway
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}

// decodeRequest decodes a JSON body into dst, writing a 400 on failure.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+strings.TrimPrefix(err.Error(), "json: "))
		return false
	}
	return true
}

func (s *Server) requestErrorResponse(w http.ResponseWriter, err error) {
	reqErr := newRequestError(err)
	s.errorResponse(w, HTTPStatus(reqErr), reqErr.Message)
}
