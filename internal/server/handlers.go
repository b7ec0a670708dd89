package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/buildinfo"
	"github.com/matzehuels/lightbox/pkg/carousel"
	"github.com/matzehuels/lightbox/pkg/errors"
	"github.com/matzehuels/lightbox/pkg/grid"
	"github.com/matzehuels/lightbox/pkg/media"
	"github.com/matzehuels/lightbox/pkg/pipeline"
	"github.com/matzehuels/lightbox/pkg/rowgrid"
)

// =============================================================================
// Health
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// =============================================================================
// Pack
// =============================================================================

// Artifact is one rendered output. Text formats are returned verbatim,
// binary formats base64-encoded.
type Artifact struct {
	ContentType string `json:"content_type"`
	Encoding    string `json:"encoding"`
	Data        string `json:"data"`
}

// PackResponse is the body of a successful pack request.
type PackResponse struct {
	Title     string              `json:"title,omitempty"`
	ItemsHash string              `json:"items_hash"`
	Layout    grid.Layout         `json:"layout"`
	Artifacts map[string]Artifact `json:"artifacts"`
	PackHit   bool                `json:"pack_cached"`
	RenderHit bool                `json:"render_cached"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// handlePack runs the pipeline. With ?format=svg (or any requested format)
// the raw artifact is returned instead of the JSON envelope.
func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(r, &opts); err != nil {
		writeError(w, r, err)
		return
	}
	s.applyGridDefaults(&opts)
	opts.Logger = log.FromContext(r.Context())

	raw := r.URL.Query().Get("format")
	if raw != "" {
		if err := pipeline.ValidateFormat(raw); err != nil {
			writeError(w, r, err)
			return
		}
		opts.Formats = []string{raw}
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if raw != "" {
		w.Header().Set("Content-Type", contentTypes[raw])
		w.WriteHeader(http.StatusOK)
		w.Write(result.Artifacts[raw])
		return
	}

	resp := PackResponse{
		Title:     result.Layout.Title,
		ItemsHash: result.ItemsHash,
		Layout:    result.Layout,
		Artifacts: make(map[string]Artifact, len(result.Artifacts)),
		PackHit:   result.CacheInfo.PackHit,
		RenderHit: result.CacheInfo.RenderHit,
	}
	for format, data := range result.Artifacts {
		resp.Artifacts[format] = encodeArtifact(format, data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// applyGridDefaults fills unset pack options from the server config.
func (s *Server) applyGridDefaults(opts *pipeline.Options) {
	g := s.cfg.Grid
	if opts.Width == 0 {
		opts.Width = g.Width
	}
	if opts.Gutter == 0 {
		opts.Gutter = g.Gutter
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = g.Tolerance
	}
	if opts.Columns == 0 {
		opts.Columns = g.Columns
	}
	if len(opts.Responsive) == 0 {
		opts.Responsive = g.Breakpoints
	}
}

func encodeArtifact(format string, data []byte) Artifact {
	a := Artifact{ContentType: contentTypes[format]}
	switch format {
	case pipeline.FormatSVG, pipeline.FormatJSON:
		a.Encoding = "utf-8"
		a.Data = string(data)
	default:
		a.Encoding = "base64"
		a.Data = base64.StdEncoding.EncodeToString(data)
	}
	return a
}

// =============================================================================
// Aspect
// =============================================================================

// AspectResponse describes one normalized descriptor. Fallback is set when
// the descriptor was malformed and Default was substituted.
type AspectResponse struct {
	Descriptor  string        `json:"descriptor"`
	Aspect      aspect.Aspect `json:"aspect"`
	Orientation string        `json:"orientation"`
	Portrait    bool          `json:"portrait"`
	Square      bool          `json:"square"`
	Landscape   bool          `json:"landscape"`
	CSSRatio    string        `json:"css_ratio"`
	Fallback    bool          `json:"fallback"`
	Reason      string        `json:"reason,omitempty"`
}

func (s *Server) handleAspect(w http.ResponseWriter, r *http.Request) {
	desc := chi.URLParam(r, "desc")
	model, err := s.modelFor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := AspectResponse{Descriptor: desc}
	if _, err := aspect.Parse(desc); err != nil {
		resp.Fallback = true
		resp.Reason = errors.UserMessage(err)
	}
	a := model.Normalize(desc)
	o := model.Classify(a)
	resp.Aspect = a
	resp.Orientation = o.String()
	resp.Portrait = o.Portrait
	resp.Square = o.Square
	resp.Landscape = o.Landscape()
	resp.CSSRatio = a.CSSRatio()
	writeJSON(w, http.StatusOK, resp)
}

// modelFor honours an optional ?tolerance= override.
func (s *Server) modelFor(r *http.Request) (*aspect.Model, error) {
	v := r.URL.Query().Get("tolerance")
	if v == "" {
		return s.model, nil
	}
	t, err := strconv.ParseFloat(v, 64)
	if err != nil || t < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tolerance must be a non-negative number, got %q", v)
	}
	return aspect.New(aspect.WithTolerance(t)), nil
}

// =============================================================================
// Rows
// =============================================================================

// RowsRequest is the body of a rows request.
type RowsRequest struct {
	Items []media.Item `json:"items"`
}

// RowsResponse lists the row partition.
type RowsResponse struct {
	Rows []rowgrid.Row `json:"rows"`
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	var req RowsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := media.Validate(req.Items); err != nil {
		writeError(w, r, err)
		return
	}
	model, err := s.modelFor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	l := rowgrid.Build(req.Items, model)
	if l.Rows == nil {
		l.Rows = []rowgrid.Row{}
	}
	writeJSON(w, http.StatusOK, RowsResponse{Rows: l.Rows})
}

// =============================================================================
// Carousel
// =============================================================================

// OffsetRequest asks for the scroll target of one carousel item.
// ViewportWidth decides whether zoom is enabled and defaults to
// ClientWidth.
type OffsetRequest struct {
	Items         []media.Item `json:"items"`
	Index         int          `json:"index"`
	Expanded      bool         `json:"expanded"`
	ClientWidth   float64      `json:"client_width"`
	ViewportWidth float64      `json:"viewport_width,omitempty"`
}

// OffsetResponse is the clamped scroll target at the requested state.
type OffsetResponse struct {
	Index        int     `json:"index"`
	Height       float64 `json:"height"`
	Offset       float64 `json:"offset"`
	ContentWidth float64 `json:"content_width"`
	ZoomEnabled  bool    `json:"zoom_enabled"`
}

func (s *Server) handleCarouselOffset(w http.ResponseWriter, r *http.Request) {
	var req OffsetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := media.Validate(req.Items); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ClientWidth <= 0 {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "client_width must be positive"))
		return
	}
	if req.ViewportWidth == 0 {
		req.ViewportWidth = req.ClientWidth
	}

	cfg := s.cfg.Carousel.ControllerConfig()
	height := cfg.BaseHeight
	if req.Expanded {
		height = cfg.ExpandedHeight
	}
	aspects := make([]aspect.Aspect, len(req.Items))
	for i, it := range req.Items {
		aspects[i] = it.Normalized(s.model)
	}

	offset, ok := carousel.ScrollTarget(aspects, req.Index, height, cfg.Gap, cfg.Padding, req.ClientWidth)
	if !ok {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "index %d out of range [0, %d)", req.Index, len(req.Items)))
		return
	}
	writeJSON(w, http.StatusOK, OffsetResponse{
		Index:        req.Index,
		Height:       height,
		Offset:       offset,
		ContentWidth: carousel.ContentWidth(aspects, height, cfg.Gap, cfg.Padding),
		ZoomEnabled:  req.ViewportWidth >= cfg.Breakpoint,
	})
}

// =============================================================================
// Helpers
// =============================================================================

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}
