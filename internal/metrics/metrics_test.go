package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Counters(t *testing.T) {
	m := NewManager()

	m.RecordIntent("contact")
	m.RecordIntent("contact")
	m.RecordLLM("failure")
	m.RecordRecommendation(true)
	m.RecordRecommendation(false)
	m.RecordRecommendation(false)
	m.RecordContact("stored")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.chatIntents.WithLabelValues("contact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recommendations.WithLabelValues("ranked")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recommendations.WithLabelValues("default")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.contactMessages.WithLabelValues("stored")))
}

func TestManager_SeparateRegistries(t *testing.T) {
	a := NewManager()
	b := NewManager()

	a.RecordLLM("success")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.llmRequests.WithLabelValues("success")))
}

func TestManager_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager(WithHistogramBuckets([]float64{0.01, 0.1, 1}))

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/projects/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/projects/1", "/api/projects/2", "/missing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/projects/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_request_duration_seconds_bucket")
}

func TestManager_RecordHTTP(t *testing.T) {
	m := NewManager(WithNamespace("test"))
	m.RecordHTTP("POST", "/api/chat", 200, 25*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.httpRequestDuration))
}
