package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Hi-chem22/AFRAN-2025/internal/observability"
)

func TestMetricsLabelsByRouteAndSkipsProbes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := gin.New()
	r.Use(Metrics(m, "/healthcheck"))
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/sessions/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/healthcheck", "/api/sessions/1", "/api/sessions/2", "/wp-login.php"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`afran_http_requests_total{method="GET",route="/api/sessions/:id",status="404"} 2`,
		`afran_http_requests_total{method="GET",route="unrouted",status="404"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in exposition", want)
		}
	}
	if strings.Contains(text, `route="/healthcheck"`) {
		t.Fatalf("health probes must not be counted")
	}
}
