package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arya-s-cmd/financial-forensic-engine/internal/store"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/telemetry"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := &Server{Store: s, Hub: NewHub(telemetry.Logger("test", false)), Log: telemetry.Logger("test", false)}
	go srv.Hub.Run()
	return srv, NewRouter(srv)
}

func TestHandleAnalyze_ValidCSVReturnsReport(t *testing.T) {
	_, router := newTestServer(t)

	body := "sender,receiver,amount,timestamp\n" +
		"A,B,10,1\nB,C,10,2\nC,A,10,3\n"
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "run_id")
}

func TestHandleGetRun_NotFound(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListRuns_EmptyInitially(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "run_ids")
}

func TestHandleGetGraph_MissingRunIDRejected(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/graph", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetGraph_ReturnsProjectionForAnalyzedRun(t *testing.T) {
	_, router := newTestServer(t)

	body := "sender,receiver,amount,timestamp\n" +
		"A,B,10,1\nB,C,10,2\nC,A,10,3\n"
	analyzeReq := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(body))
	analyzeRec := httptest.NewRecorder()
	router.ServeHTTP(analyzeRec, analyzeReq)
	require.Equal(t, http.StatusOK, analyzeRec.Code)

	var analyzed struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(analyzeRec.Body.Bytes(), &analyzed))

	graphReq := httptest.NewRequest(http.MethodGet, "/v1/graph?run_id="+analyzed.RunID, nil)
	graphRec := httptest.NewRecorder()
	router.ServeHTTP(graphRec, graphReq)

	assert.Equal(t, http.StatusOK, graphRec.Code)
	assert.Contains(t, graphRec.Body.String(), `"id":"A"`)
	assert.Contains(t, graphRec.Body.String(), `"A__B"`)
}
