package server

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/threadmap/pkg/buildinfo"
	"github.com/matzehuels/threadmap/pkg/cache"
	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/layout"
	"github.com/matzehuels/threadmap/pkg/errors"
	"github.com/matzehuels/threadmap/pkg/graph"
	"github.com/matzehuels/threadmap/pkg/pipeline"
)

const headerRunID = "X-Run-ID"

// =============================================================================
// Request / Response Types
// =============================================================================

type graphRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

type probeRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Point   geom.Point       `json:"point"`
	Options pipeline.Options `json:"options"`
}

type layoutResponse struct {
	RunID     string       `json:"run_id"`
	GraphHash string       `json:"graph_hash"`
	Cached    bool         `json:"cached"`
	Layout    graph.Layout `json:"layout"`
}

type inspectResponse struct {
	OK     bool          `json:"ok"`
	Report layout.Report `json:"report"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Detail  string      `json:"detail,omitempty"`
}

type errorResponse struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.prepare(&req.Options)

	runID := uuid.NewString()
	w.Header().Set(headerRunID, runID)

	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("layout", "run_id", runID, "nodes", len(l.Nodes), "cached", hit)

	writeJSON(w, http.StatusOK, layoutResponse{
		RunID:     runID,
		GraphHash: cache.HashJSON(req.Graph),
		Cached:    hit,
		Layout:    l,
	})
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.prepare(&req.Options)

	res, err := pipeline.Probe(req.Graph, req.Point, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.prepare(&req.Options)

	report, err := pipeline.Inspect(req.Graph, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inspectResponse{OK: report.OK(), Report: report})
}

// handleRender lays out the graph and writes one artifact. The format is
// the single entry of options.formats, svg when empty.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.prepare(&req.Options)

	if len(req.Options.Formats) > 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "render takes one format, got %d", len(req.Options.Formats)))
		return
	}
	if len(req.Options.Formats) == 0 {
		req.Options.Formats = []string{pipeline.FormatSVG}
	}
	format := req.Options.Formats[0]

	runID := uuid.NewString()
	w.Header().Set(headerRunID, runID)

	res, err := s.runner.Execute(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("render", "run_id", runID, "format", format,
		"layout_cached", res.CacheInfo.LayoutHit, "render_cached", res.CacheInfo.RenderHit)

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

// prepare fills the server's engine parameters into options that carry none.
func (s *Server) prepare(opts *pipeline.Options) {
	if opts.Params == nil {
		p := s.params
		opts.Params = &p
	}
	opts.Logger = s.logger
}

// decode reads a JSON request body into v, writing an error response and
// returning false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	limit := s.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = 8 << 20
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errorBody{
			Code:    code,
			Message: errors.UserMessage(err),
			Detail:  err.Error(),
		},
		RequestID: chimiddleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
