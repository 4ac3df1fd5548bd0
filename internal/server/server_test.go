package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ChicagoDave/phppkit/internal/metrics"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
)

const projectYAML = `
spec_version: "0.1.0"
name: Row House
dhw:
  branches:
    - id: kitchen
      pipe_segments: [10, 15]
ventilation:
  systems:
    - name: ERV-1
      duct_01:
        duct_length: [5, 8]
`

func init() {
	gin.SetMode(gin.TestMode)
}

func defaultServer(t *testing.T) (*Server, *metrics.Collector) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "phpp.yaml"), []byte(projectYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	return New(dir, Options{IDs: &metadata.SequentialIDs{Start: 1000}, Metrics: m}), m
}

func get(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestTakeoffEndpoint(t *testing.T) {
	s, _ := defaultServer(t)
	rr := get(t, s.Router(), http.MethodGet, "/api/takeoff")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body)
	}
	var body struct {
		Project   string `json:"project"`
		DHWTotals struct {
			BranchTotal struct {
				TotalLength float64 `json:"total_length"`
			} `json:"branch_total"`
		} `json:"dhw_totals"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Project != "Row House" || body.DHWTotals.BranchTotal.TotalLength != 25 {
		t.Errorf("body = %+v", body)
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := defaultServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/validation", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestCellsEndpoint(t *testing.T) {
	s, _ := defaultServer(t)
	rr := get(t, s.Router(), http.MethodGet, "/api/cells")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body struct {
		Cells []struct {
			Sheet string `json:"sheet"`
			Range string `json:"range"`
		} `json:"cells"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Cells) == 0 || body.Summary == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestStoreThenFetchSystem(t *testing.T) {
	s, _ := defaultServer(t)
	router := s.Router()

	rr := get(t, router, http.MethodPost, "/api/store")
	if rr.Code != http.StatusOK {
		t.Fatalf("store status = %d: %s", rr.Code, rr.Body)
	}
	var stored struct {
		Keys []string `json:"keys"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored.Keys) != 2 || !strings.HasPrefix(stored.Keys[1], "ventilation/") {
		t.Fatalf("keys = %v", stored.Keys)
	}

	rr = get(t, router, http.MethodGet, "/api/systems/"+strings.TrimPrefix(stored.Keys[1], "ventilation/"))
	if rr.Code != http.StatusOK {
		t.Fatalf("system status = %d: %s", rr.Code, rr.Body)
	}
	if !strings.Contains(rr.Body.String(), `"ERV-1"`) {
		t.Errorf("system body = %s", rr.Body)
	}

	if rr := get(t, router, http.MethodGet, "/api/systems/42"); rr.Code != http.StatusNotFound {
		t.Errorf("missing system status = %d", rr.Code)
	}
	if rr := get(t, router, http.MethodGet, "/api/systems/abc"); rr.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rr.Code)
	}
}

func TestMissingProject(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"), Options{})
	rr := get(t, s.Router(), http.MethodGet, "/api/project")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := defaultServer(t)
	router := s.Router()
	get(t, router, http.MethodGet, "/api/takeoff")

	rr := get(t, router, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`phppkit_http_requests_total{code="200",route="/api/takeoff"} 1`,
		`phppkit_runs_total{valid="true"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
