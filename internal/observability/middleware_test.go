package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_RecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mp := newEnabledProvider(t)

	r := gin.New()
	r.Use(TracingMiddleware("test"), MetricsMiddleware(mp))
	r.GET("/api/v1/admin/applications/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/admin/applications/1", "/api/v1/admin/applications/2", "/nope"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, mp)
	assert.Contains(t, body, `http_route="/api/v1/admin/applications/:id"`)
	assert.Contains(t, body, `http_route="unmatched"`)
	assert.NotContains(t, body, "/api/v1/admin/applications/1")
}
