package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceOf(t *testing.T, headers map[string]string) (string, string) {
	t.Helper()
	r := gin.New()
	r.Use(TraceID())
	r.GET("/trace", func(c *gin.Context) {
		c.String(http.StatusOK, GetTraceID(c))
	})
	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String(), w.Header().Get(TraceIDHeader)
}

func TestTraceID_Generated(t *testing.T) {
	id, header := traceOf(t, nil)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, header)
}

func TestTraceID_KeepsClientUUID(t *testing.T) {
	want := uuid.NewString()
	id, header := traceOf(t, map[string]string{TraceIDHeader: want})
	assert.Equal(t, want, id)
	assert.Equal(t, want, header)
}

func TestTraceID_ReadsRequestID(t *testing.T) {
	want := uuid.NewString()
	id, _ := traceOf(t, map[string]string{RequestIDHeader: want})
	assert.Equal(t, want, id)
}

func TestTraceID_ReplacesGarbage(t *testing.T) {
	id, _ := traceOf(t, map[string]string{TraceIDHeader: "my-custom-trace\nInjected: 1"})
	assert.NotContains(t, id, "custom")
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestGetTraceID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetTraceID(c))
}

func TestTraceID_UniquePerRequest(t *testing.T) {
	a, _ := traceOf(t, nil)
	b, _ := traceOf(t, nil)
	assert.NotEqual(t, a, b)
}
