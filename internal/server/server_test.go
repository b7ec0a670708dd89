package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/matzehuels/lightbox/pkg/cache"
	"github.com/matzehuels/lightbox/pkg/config"
	"github.com/matzehuels/lightbox/pkg/observability"
	"github.com/matzehuels/lightbox/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	srv := httptest.NewServer(New(runner, config.Default(), logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

const threeItems = `[
	{"id": "wide", "aspect": "1500-1000"},
	{"id": "square", "aspect": "1000-1000"},
	{"id": "pano", "aspect": "2000-1000"}
]`

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := do(t, srv, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got healthResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "ok" || got.Build.Version == "" {
		t.Errorf("health = %+v", got)
	}
}

func TestPack(t *testing.T) {
	srv := newTestServer(t)
	body := `{"items": ` + threeItems + `, "columns": 2, "formats": ["svg", "json"], "title": "Trip"}`

	resp, data := do(t, srv, http.MethodPost, "/api/v1/pack", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var got PackResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "Trip" {
		t.Errorf("Title = %q, want Trip", got.Title)
	}
	if len(got.Layout.Columns) != 2 || got.Layout.TileCount() != 3 {
		t.Errorf("layout has %d columns / %d tiles", len(got.Layout.Columns), got.Layout.TileCount())
	}
	svg := got.Artifacts["svg"]
	if svg.ContentType != "image/svg+xml" || svg.Encoding != "utf-8" || !strings.Contains(svg.Data, "<svg") {
		t.Errorf("svg artifact = %+v", svg)
	}
	if _, ok := got.Artifacts["json"]; !ok {
		t.Error("json artifact missing")
	}
}

func TestPackRawFormat(t *testing.T) {
	srv := newTestServer(t)
	resp, data := do(t, srv, http.MethodPost, "/api/v1/pack?format=svg", `{"items": `+threeItems+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "<svg") && !strings.HasPrefix(string(data), "<?xml") {
		t.Errorf("body is not SVG: %.40s", data)
	}
}

func TestPackErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name string
		path string
		body string
		code string
	}{
		{"malformed json", "/api/v1/pack", `{`, "INVALID_INPUT"},
		{"unknown field", "/api/v1/pack", `{"colums": 2}`, "INVALID_INPUT"},
		{"no input", "/api/v1/pack", `{}`, "INVALID_INPUT"},
		{"bad format", "/api/v1/pack", `{"items": ` + threeItems + `, "formats": ["gif"]}`, "INVALID_FORMAT"},
		{"bad raw format", "/api/v1/pack?format=gif", `{"items": ` + threeItems + `}`, "INVALID_FORMAT"},
		{"bad manifest", "/api/v1/pack", `{"manifest": "items = 3", "manifest_format": "toml"}`, "INVALID_MANIFEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, srv, http.MethodPost, tt.path, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var got errorResponse
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("error body: %v (%s)", err, data)
			}
			if got.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", got.Code, tt.code, got.Message)
			}
		})
	}
}

func TestAspect(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		desc        string
		orientation string
		fallback    bool
		css         string
	}{
		{"1600-900", "landscape", false, "1600 / 900"},
		{"900-1600", "portrait", false, "900 / 1600"},
		{"1000-1050", "square", false, "1000 / 1050"},
		{"banana", "landscape", true, "1600 / 1000"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			resp, data := do(t, srv, http.MethodGet, "/api/v1/aspect/"+tt.desc, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var got AspectResponse
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if got.Orientation != tt.orientation || got.Fallback != tt.fallback || got.CSSRatio != tt.css {
				t.Errorf("got %+v", got)
			}
			if tt.fallback && got.Reason == "" {
				t.Error("fallback without a reason")
			}
		})
	}
}

type countingAspectHooks struct {
	mu    sync.Mutex
	descs []string
}

func (h *countingAspectHooks) OnFallback(desc string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.descs = append(h.descs, desc)
}

func TestAspectFallbackReportedOnce(t *testing.T) {
	hooks := &countingAspectHooks{}
	observability.SetAspectHooks(hooks)
	defer observability.Reset()

	srv := newTestServer(t)
	do(t, srv, http.MethodGet, "/api/v1/aspect/banana", "")
	do(t, srv, http.MethodGet, "/api/v1/aspect/1600-900", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if diff := cmp.Diff([]string{"banana"}, hooks.descs); diff != "" {
		t.Errorf("fallback reports mismatch (-want +got):\n%s", diff)
	}
}

func TestAspectTolerance(t *testing.T) {
	srv := newTestServer(t)

	_, data := do(t, srv, http.MethodGet, "/api/v1/aspect/1000-1050?tolerance=0", "")
	var got AspectResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Orientation != "portrait" {
		t.Errorf("orientation at zero tolerance = %q, want portrait", got.Orientation)
	}

	resp, _ := do(t, srv, http.MethodGet, "/api/v1/aspect/1-1?tolerance=-1", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative tolerance status = %d, want 400", resp.StatusCode)
	}
}

func TestRows(t *testing.T) {
	srv := newTestServer(t)
	body := `{"items": [
		{"id": "a", "aspect": "900-1600"},
		{"id": "b", "aspect": "1600-900"},
		{"id": "c", "aspect": "1-1"},
		{"id": "d", "aspect": "1600-900"}
	]}`
	resp, data := do(t, srv, http.MethodPost, "/api/v1/rows", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	var got RowsResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	var expandable [][]bool
	for _, row := range got.Rows {
		var flags []bool
		for _, c := range row.Cells {
			flags = append(flags, c.Expandable)
		}
		expandable = append(expandable, flags)
	}
	want := [][]bool{{false, true, false}, {false}}
	if diff := cmp.Diff(want, expandable); diff != "" {
		t.Errorf("expandable mismatch (-want +got):\n%s", diff)
	}
	if got.Rows[0].Cells[1].Key != "b#1" {
		t.Errorf("key = %q, want b#1", got.Rows[0].Cells[1].Key)
	}
}

func TestRowsEmptyAndInvalid(t *testing.T) {
	srv := newTestServer(t)

	_, data := do(t, srv, http.MethodPost, "/api/v1/rows", `{"items": []}`)
	if strings.TrimSpace(string(data)) != `{"rows":[]}` {
		t.Errorf("empty rows body = %s", data)
	}

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/rows", `{"items": [{"id": "x", "aspect": "1-1"}, {"id": "x", "aspect": "1-1"}]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate ids status = %d, want 400", resp.StatusCode)
	}
}

func TestCarouselOffset(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name     string
		body     string
		status   int
		want     OffsetResponse
		wantCode string
	}{
		{
			name:   "expanded last item",
			body:   `{"items": ` + threeItems + `, "index": 2, "expanded": true, "client_width": 800, "viewport_width": 1280}`,
			status: http.StatusOK,
			want:   OffsetResponse{Index: 2, Height: 480, Offset: 1304, ContentWidth: 2184, ZoomEnabled: true},
		},
		{
			name:   "collapsed clamps to range",
			body:   `{"items": ` + threeItems + `, "index": 2, "client_width": 800}`,
			status: http.StatusOK,
			want:   OffsetResponse{Index: 2, Height: 320, Offset: 664, ContentWidth: 1464, ZoomEnabled: true},
		},
		{
			name:   "narrow viewport",
			body:   `{"items": ` + threeItems + `, "index": 0, "client_width": 600}`,
			status: http.StatusOK,
			want:   OffsetResponse{Index: 0, Height: 320, Offset: 0, ContentWidth: 1464, ZoomEnabled: false},
		},
		{
			name:     "out of range",
			body:     `{"items": ` + threeItems + `, "index": 3, "client_width": 800}`,
			status:   http.StatusBadRequest,
			wantCode: "INVALID_INPUT",
		},
		{
			name:     "missing client width",
			body:     `{"items": ` + threeItems + `, "index": 0}`,
			status:   http.StatusBadRequest,
			wantCode: "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, srv, http.MethodPost, "/api/v1/carousel/offset", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode, tt.status, data)
			}
			if tt.wantCode != "" {
				var e errorResponse
				if err := json.Unmarshal(data, &e); err != nil {
					t.Fatal(err)
				}
				if e.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", e.Code, tt.wantCode)
				}
				return
			}
			var got OffsetResponse
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("response mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/healthz", "")
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("generated request ID %q is not a UUID", resp.Header.Get(RequestIDHeader))
	}

	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want echoed %q", got, id)
	}
}

type recordingHTTPHooks struct {
	mu       sync.Mutex
	statuses map[string]int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, method, path string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses[method+" "+path] = status
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{statuses: map[string]int{}}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := newTestServer(t)
	do(t, srv, http.MethodGet, "/healthz", "")
	do(t, srv, http.MethodPost, "/api/v1/rows", `{`)
	do(t, srv, http.MethodGet, "/nope", "")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	want := map[string]int{
		"GET /healthz":      200,
		"POST /api/v1/rows": 400,
		"GET /nope":         404,
	}
	if diff := cmp.Diff(want, hooks.statuses); diff != "" {
		t.Errorf("hook statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestBodyLimit(t *testing.T) {
	logger := log.New(io.Discard)
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 16
	srv := httptest.NewServer(New(pipeline.NewRunner(nil, nil, logger), cfg, logger).Handler())
	defer srv.Close()

	resp, _ := do(t, srv, http.MethodPost, "/api/v1/rows", `{"items": `+threeItems+`}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("oversized body status = %d, want 400", resp.StatusCode)
	}
}
