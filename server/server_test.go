package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/TFMV/forcegraph/config"
	"github.com/TFMV/forcegraph/models"
)

const lineScenario = `{
  "name": "line",
  "nodes": [
    {"id": "A", "x": 0, "y": 0},
    {"id": "B", "x": 10, "y": 0},
    {"id": "C", "x": 20, "y": 0}
  ],
  "edges": [
    {"source": "A", "target": "B"},
    {"source": "B", "target": "C"}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Physics.Steps = 5
	cfg.Topology.Nodes = 10
	return New(cfg, zap.NewNop(), nil)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func createLayout(t *testing.T, s *Server, query string) *models.LayoutResult {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/layouts"+query, lineScenario)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res models.LayoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return &res
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateAndFetchLayout(t *testing.T) {
	s := newTestServer(t)
	res := createLayout(t, s, "?steps=1")

	assert.Equal(t, "line", res.Name)
	assert.Equal(t, 1, res.StepsRun)
	require.Len(t, res.Nodes, 3)
	assert.InDelta(t, -0.0625, res.Nodes[0].Final.X, 1e-9)
	assert.InDelta(t, 10.0, res.Nodes[1].Final.X, 1e-9)
	assert.InDelta(t, 20.0625, res.Nodes[2].Final.X, 1e-9)

	rec := do(t, s, http.MethodGet, "/api/layouts/"+res.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.LayoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, res.ID, fetched.ID)

	rec = do(t, s, http.MethodGet, "/api/layouts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []layoutSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Nodes)
	assert.Equal(t, 2, list[0].Edges)
}

func TestCreateWithMatrixBackend(t *testing.T) {
	s := newTestServer(t)
	set := createLayout(t, s, "?steps=3")
	matrix := createLayout(t, s, "?steps=3&backend=matrix")

	assert.Equal(t, "matrix", matrix.Backend)
	for i := range set.Nodes {
		assert.InDelta(t, set.Nodes[i].Final.X, matrix.Nodes[i].Final.X, 1e-9)
		assert.InDelta(t, set.Nodes[i].Final.Y, matrix.Nodes[i].Final.Y, 1e-9)
	}
}

func TestCreateErrors(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"malformed json", "/api/layouts", `{nope`, http.StatusBadRequest},
		{"unknown endpoint", "/api/layouts", `{"nodes":[{"id":"A"}],"edges":[{"source":"A","target":"Z"}]}`, http.StatusBadRequest},
		{"bad steps", "/api/layouts?steps=-2", lineScenario, http.StatusBadRequest},
		{"too many steps", "/api/layouts?steps=10001", lineScenario, http.StatusBadRequest},
		{"overflowing steps", "/api/layouts?steps=6148914691236517206", lineScenario, http.StatusBadRequest},
		{"bad backend", "/api/layouts?backend=list", lineScenario, http.StatusBadRequest},
		{"bad placement", "/api/layouts?placement=spiral", lineScenario, http.StatusBadRequest},
		{"duplicate position", "/api/layouts", `{"nodes":[{"id":"A","x":1,"y":1},{"id":"B","x":1,"y":1}]}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tc.target, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestCreateLimits(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Server.MaxNodes = 2
	rec := do(t, s, http.MethodPost, "/api/layouts", lineScenario)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s = newTestServer(t)
	s.cfg.Server.MaxSteps = 4
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/layouts?steps=5", lineScenario).Code)
	assert.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/layouts?steps=4", lineScenario).Code)

	s = newTestServer(t)
	s.cfg.Server.MaxRequestSize = 16
	rec = do(t, s, http.MethodPost, "/api/layouts", lineScenario)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/layouts/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/layouts/missing/render", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodDelete, "/api/layouts/missing", "").Code)
}

func TestDeleteLayout(t *testing.T) {
	s := newTestServer(t)
	res := createLayout(t, s, "")

	assert.Equal(t, http.StatusNoContent, do(t, s, http.MethodDelete, "/api/layouts/"+res.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/layouts/"+res.ID, "").Code)
}

func TestRenderLayout(t *testing.T) {
	s := newTestServer(t)
	res := createLayout(t, s, "")

	rec := do(t, s, http.MethodGet, "/api/layouts/"+res.ID+"/render", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = do(t, s, http.MethodGet, "/api/layouts/"+res.ID+"/render?format=dot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"A" -- "B"`)

	rec = do(t, s, http.MethodGet, "/api/layouts/"+res.ID+"/render?format=webgl", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSample(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/sample?placement=noise", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res models.LayoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Nodes, 10)
	assert.Len(t, res.Edges, 9)
	assert.Equal(t, "/api/layouts/"+res.ID, rec.Header().Get("Location"))
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := New(config.Default(), zap.New(core), nil)

	do(t, s, http.MethodGet, "/health", "")

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/health", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	assert.Error(t, store.Save(&models.LayoutResult{}))

	require.NoError(t, store.Save(&models.LayoutResult{ID: "b"}))
	require.NoError(t, store.Save(&models.LayoutResult{ID: "a"}))

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)

	_, err := store.FindByID("c")
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, store.Delete("a"))
	assert.ErrorIs(t, store.Delete("a"), models.ErrNotFound)
}
