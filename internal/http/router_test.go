package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/testutil"
	httpH "github.com/Hi-chem22/AFRAN-2025/internal/http/handlers"
	"github.com/Hi-chem22/AFRAN-2025/internal/observability"
)

func TestRouterServesOpsEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := NewRouter(RouterConfig{
		Log:           testutil.Logger(t),
		Metrics:       m,
		ServiceName:   "afran-test",
		HealthHandler: httpH.NewHealthHandler(testutil.DB(t)),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: status=%d body=%q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `afran_http_requests_total{method="GET",route="/healthcheck",status="200"} 1`) {
		t.Fatalf("healthcheck request not counted:\n%s", rec.Body.String())
	}
}

func TestRouterWithoutMetricsHasNoMetricsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=404", rec.Code)
	}
}
