package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMatchWildcardRoute(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/api/v1/exports/abc", "/api/v1/exports/*", true},
		{"/api/v1/exports/abc/download", "/api/v1/exports/*", true},
		{"/api/v1/exports/abc/download", "/api/v1/exports/*/download", true},
		{"/api/v1/exports/abc/other", "/api/v1/exports/*/download", false},
		{"/api/v1/models", "/api/v1/exports/*", false},
		{"/swagger/index.html", "/swagger/*", true},
	}

	for _, tt := range tests {
		t.Run(tt.path+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, matchWildcardRoute(tt.path, tt.pattern))
		})
	}
}

func TestDispatchOrder(t *testing.T) {
	r := New(nil)
	r.GET("/api/v1/exports/*/download", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("download"))
	})
	r.GET("/api/v1/exports/*", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("get"))
	})

	for path, want := range map[string]string{
		"/api/v1/exports/abc/download": "download",
		"/api/v1/exports/abc":          "get",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Body.String(), path)
	}
}

func TestMethodNotAllowedAndNotFound(t *testing.T) {
	r := New(nil)
	r.POST("/api/v1/exports", func(w http.ResponseWriter, _ *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/exports", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := New(zap.New(core))
	r.GET("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/ping", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
