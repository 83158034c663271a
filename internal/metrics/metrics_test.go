package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordAuthEvent(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordAuthEvent(EventLogin, ResultFailure)
	c.RecordAuthEvent(EventLogin, ResultFailure)
	c.RecordAuthEvent(EventLogin, ResultSuccess)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.authEvents.WithLabelValues(EventLogin, ResultFailure)))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.authEvents.WithLabelValues(EventLogin, ResultSuccess)))
}

func TestMiddleware_RecordsRouteAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector(prometheus.NewRegistry())

	r := gin.New()
	r.Use(Middleware(c))
	r.GET("/api/tasks/:id", func(ctx *gin.Context) {
		ctx.Status(http.StatusNotFound)
	})

	for _, path := range []string{"/api/tasks/1", "/api/tasks/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/api/tasks/:id", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.RecordTaskOperation("create", ResultSuccess)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `todo_task_operations_total{operation="create",result="success"} 1`))
}
