package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/benefit-engine/api"
	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/engine"
	"github.com/warp/benefit-engine/pipeline"
)

func newServer(t *testing.T) (*httptest.Server, pipeline.Cache) {
	t.Helper()
	cache := pipeline.NewMemoryCache(0)
	runner := pipeline.NewRunner(zerolog.Nop(), pipeline.WithCache(cache))
	ref := benefit.Reference{Month: time.March, Year: 2025}
	handler := api.NewHandler(runner, cache, engine.DefaultConfig(), ref, zerolog.Nop())
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, cache
}

func runBody() map[string]any {
	return map[string]any{
		"month": 1,
		"year":  2025,
		"sources": map[string][]map[string]string{
			"ativos": {
				{"ID": "1", "Nome": "Ana Lima", "Cargo": "Analista de Sistemas"},
			},
			"base_sindicato_valor": {
				{"Cargo": "Analista", "Valor_Diario": "25.00"},
			},
		},
	}
}

func postRun(t *testing.T, srv *httptest.Server, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/runs", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRunBenefits_OK(t *testing.T) {
	srv, _ := newServer(t)

	resp := postRun(t, srv, runBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result pipeline.RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Employees, 1)
	assert.Equal(t, 23, result.Employees[0].WorkingDays)
	require.NotNil(t, result.Employees[0].Benefit)
	assert.Equal(t, "575", result.Employees[0].Benefit.TotalValue.String())
}

func TestRunBenefits_DefaultsToConfiguredReference(t *testing.T) {
	srv, _ := newServer(t)

	body := runBody()
	delete(body, "month")
	delete(body, "year")
	resp := postRun(t, srv, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result pipeline.RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, time.March, result.Reference.Month)
	assert.Equal(t, 2025, result.Reference.Year)
}

func TestRunBenefits_MalformedJSON(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/api/runs", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunBenefits_BadOverride(t *testing.T) {
	srv, _ := newServer(t)

	body := runBody()
	body["default_daily_rate"] = "R$25"
	resp := postRun(t, srv, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunBenefits_MissingActiveSource(t *testing.T) {
	srv, _ := newServer(t)

	body := runBody()
	body["sources"] = map[string][]map[string]string{
		"ferias": {{"ID": "1"}},
	}
	resp := postRun(t, srv, body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var errResp api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "consolidate", errResp.Stage)
}

func TestRunBenefits_InvalidMonth(t *testing.T) {
	srv, _ := newServer(t)

	body := runBody()
	body["month"] = 0
	resp := postRun(t, srv, body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetCachedRun(t *testing.T) {
	srv, _ := newServer(t)

	resp := postRun(t, srv, runBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first pipeline.RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))

	// A second identical POST replays from cache; its key is the content
	// hash of the request, which we recompute through the DTO.
	var dto api.RunRequest
	payload, _ := json.Marshal(runBody())
	require.NoError(t, json.Unmarshal(payload, &dto))
	pr, err := dto.ToPipeline(engine.DefaultConfig())
	require.NoError(t, err)
	key := pipeline.CacheKey(pr)

	lookup, err := http.Get(srv.URL + "/api/runs/" + key)
	require.NoError(t, err)
	defer lookup.Body.Close()
	require.Equal(t, http.StatusOK, lookup.StatusCode)

	var cached pipeline.RunResult
	require.NoError(t, json.NewDecoder(lookup.Body).Decode(&cached))
	assert.Equal(t, first.RunID, cached.RunID)
}

func TestGetCachedRun_Miss(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/runs/deadbeef")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}
