package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})
	return r
}

func TestRequestIDEchoesClientHeader(t *testing.T) {
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "client-abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "client-abc", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "client-abc", w.Body.String())
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	rid := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(rid)
	require.NoError(t, err)
	assert.Equal(t, rid, w.Body.String())
}

func TestRequestIDRejectsOversizedHeader(t *testing.T) {
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", requestIDMaxLen+1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	rid := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(rid)
	require.NoError(t, err)
}
