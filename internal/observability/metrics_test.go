package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/sessions", "200", 20*time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ImportRow("Sessions", "created")
	m.ObserveImport("sessions", errors.New("boom"))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: err=%v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`afran_http_requests_total{method="GET",route="/api/sessions",status="200"} 1`,
		`afran_import_rows_total{outcome="created",sheet="Sessions"} 1`,
		`afran_import_runs_total{kind="sessions",status="error"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("missing %q in exposition", want)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ImportRow("Sessions", "created")
	if err := m.RegisterDB(nil); err != nil {
		t.Fatalf("RegisterDB: err=%v", err)
	}
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}
