package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-triage-pipeline/internal/api/handler"
	"go-triage-pipeline/internal/model"
	"go-triage-pipeline/internal/pipeline"
	"go-triage-pipeline/internal/store"
	"go-triage-pipeline/pkg/router"
)

const triageCSV = `repo_name,event_type,status,url,security_model_flag,cve_model_flag,triage_feedback_comments,id,number,api_url,created_at,updated_at,closed_at,creator_name,creator_url,title
knative/serving,issue,open,https://github.com/knative/serving/issues/1,1,1,,101,1,https://api.github.com/repos/knative/serving/issues/1,2024-03-01T00:00:00Z,2024-03-01T00:00:00Z,,jdoe,https://github.com/jdoe,Leak
knative/serving,issue,closed,https://github.com/knative/serving/issues/2,0,0,,102,2,https://api.github.com/repos/knative/serving/issues/2,2024-03-02T00:00:00Z,2024-03-03T00:00:00Z,2024-03-03T00:00:00Z,asmith,https://github.com/asmith,Typo
`

type testServer struct {
	router *router.Router
	root   string
	input  string
	db     *store.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()

	db, err := store.Open(filepath.Join(dir, "triage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	input := filepath.Join(dir, "results.csv")
	require.NoError(t, os.WriteFile(input, []byte(triageCSV), 0644))

	root := filepath.Join(dir, "out")
	resolve := func(kind model.DestinationKind) (pipeline.Destination, error) {
		if kind != model.DestinationLocal {
			return nil, fmt.Errorf("object store is not configured")
		}
		return pipeline.LocalDestination{Root: root}, nil
	}

	h := handler.NewExportHandler(db, resolve, nil)
	return &testServer{router: NewRouter(h, nil), root: root, input: input, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func exportBody(input, modelName string) map[string]interface{} {
	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	return map[string]interface{}{
		"input":     input,
		"start":     start.Format(time.RFC3339),
		"end":       start.AddDate(0, 0, -7).Format(time.RFC3339),
		"model":     modelName,
		"ecosystem": "knative",
	}
}

func TestCreateExportAndFetch(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/exports", exportBody(s.input, "bert_torch"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	wantPath := filepath.Join(s.root, "20240305-20240227", "bert_model_inference_probable_cves_20240305-20240227_knative.csv")
	assert.Equal(t, wantPath, created["path"])
	assert.EqualValues(t, 2, created["record_count"])
	assert.Equal(t, true, created["success"])
	id := created["id"].(string)
	assert.Equal(t, "/api/v1/exports/"+id+"/download", created["download_url"])

	rec = s.do(t, http.MethodGet, "/api/v1/exports/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ecosystem":"knative"`)

	rec = s.do(t, http.MethodGet, "/api/v1/exports?ecosystem=knative", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0]["id"])

	rec = s.do(t, http.MethodGet, "/api/v1/exports/"+id+"/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "repo_name,"))
	assert.True(t, strings.HasSuffix(lines[0], ",ecosystem"))
	assert.NotContains(t, lines[0], "title")
}

func TestCreateExportBadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "unknown model", body: exportBody(s.input, "random_forest")},
		{name: "missing input", body: exportBody("", "bert")},
		{name: "missing file", body: exportBody(filepath.Join(s.root, "nope.csv"), "bert")},
		{name: "bad destination", body: func() map[string]interface{} {
			b := exportBody(s.input, "bert")
			b["destination"] = "ftp"
			return b
		}()},
		{name: "unconfigured object store", body: func() map[string]interface{} {
			b := exportBody(s.input, "bert")
			b["destination"] = "object_store"
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/exports", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/exports", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateExportMissingColumns(t *testing.T) {
	s := newTestServer(t)
	input := filepath.Join(t.TempDir(), "thin.csv")
	require.NoError(t, os.WriteFile(input, []byte("repo_name,id\nx,1\n"), 0644))

	rec := s.do(t, http.MethodPost, "/api/v1/exports", exportBody(input, "bert"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing column")
}

func TestCreateExportWriteFailure(t *testing.T) {
	s := newTestServer(t)
	// a file where the output root should be
	require.NoError(t, os.WriteFile(s.root, []byte("x"), 0644))

	rec := s.do(t, http.MethodPost, "/api/v1/exports", exportBody(s.input, "bert"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	all, err := s.db.ListExports()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Success)
	assert.NotEmpty(t, all[0].Error)
}

func TestGetExportNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/exports/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/exports/missing/download", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListModels(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/v1/models", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var models []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &models))
	assert.Contains(t, models, map[string]string{"name": "bert_torch", "label": "bert_model"})
}

func TestSwaggerDocServed(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/exports/{id}/download")
}
