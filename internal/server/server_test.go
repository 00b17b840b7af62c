package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/cppi/internal/domain"
	"github.com/aristath/cppi/internal/metrics"
	"github.com/aristath/cppi/internal/modules/cppi"
)

func newTestServer() *Server {
	return New(Config{
		Log:      zerolog.Nop(),
		Port:     0,
		DevMode:  true,
		Service:  cppi.NewService(nil, zerolog.Nop()),
		Defaults: domain.DefaultParameters(),
	})
}

func sineSeries(label string, n int) map[string]interface{} {
	risky := make([]float64, n)
	riskFree := make([]float64, n)
	for i := range risky {
		risky[i] = 0.01 * math.Sin(float64(i)/7)
		riskFree[i] = 0.0001
	}
	return map[string]interface{}{"label": label, "risky": risky, "risk_free": riskFree}
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestHandleHealth(t *testing.T) {
	w, body := doRequest(t, newTestServer(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "healthy", body["status"])
}

func TestHandleDefaults(t *testing.T) {
	w, body := doRequest(t, newTestServer(), http.MethodGet, "/api/cppi/defaults", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "simple", data["rate_type"])
	assert.Equal(t, 255.0, data["trading_days_per_year"])
	assert.Equal(t, 0.8, data["guarantee_ratio"])
	assert.Contains(t, body["metadata"], "timestamp")
}

func TestHandleSimulate(t *testing.T) {
	s := newTestServer()

	t.Run("two periods with overrides", func(t *testing.T) {
		w, body := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{
			"parameters": map[string]interface{}{"rate_type": "compound", "risk_multiplier": 3},
			"periods":    []interface{}{sineSeries("2019", 250), sineSeries("2020", 240)},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		data := body["data"].(map[string]interface{})
		_, err := uuid.Parse(data["run_id"].(string))
		assert.NoError(t, err)

		report := data["report"].([]interface{})
		require.Len(t, report, 2)
		assert.Equal(t, "2019", report[0].(map[string]interface{})["period"])
		assert.Equal(t, "2020", report[1].(map[string]interface{})["period"])

		// NAV of the last period, one value per trading day
		assert.Len(t, data["nav"], 240)
		assert.Equal(t, 2.0, body["metadata"].(map[string]interface{})["periods"])
	})

	t.Run("invalid parameters", func(t *testing.T) {
		w, body := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{
			"parameters": map[string]interface{}{"guarantee_ratio": 1.5},
			"periods":    []interface{}{sineSeries("p", 50)},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], domain.ErrInvalidParameters.Error())
	})

	t.Run("mismatched legs", func(t *testing.T) {
		series := sineSeries("p", 50)
		series["risk_free"] = []float64{0.0001}
		w, body := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{
			"periods": []interface{}{series},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], cppi.ErrSeriesTooShort.Error())
	})

	t.Run("no periods", func(t *testing.T) {
		w, body := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, cppi.ErrNoPeriods.Error(), body["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w, body := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", `{"periods": [`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], "invalid request body")
	})

	t.Run("path count over the limit", func(t *testing.T) {
		w, body := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{
			"parameters": map[string]interface{}{"path_count": DefaultMaxPathCount + 1},
			"periods":    []interface{}{sineSeries("p", 30)},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, body["error"], "exceeds the limit of 10000")
	})

	t.Run("non-finite nav", func(t *testing.T) {
		series := sineSeries("blowup", 30)
		risky := series["risky"].([]float64)
		risky[1] = 1e308
		w, body := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{
			"periods": []interface{}{series},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		nav := body["data"].(map[string]interface{})["nav"].([]interface{})
		require.Len(t, nav, 30)
		assert.IsType(t, 0.0, nav[0])
		assert.Equal(t, "+Inf", nav[1])
	})

	t.Run("unknown field", func(t *testing.T) {
		w, _ := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", `{"paths": 3}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSimulateMaxPathCount(t *testing.T) {
	s := New(Config{
		Log:          zerolog.Nop(),
		DevMode:      true,
		Service:      cppi.NewService(nil, zerolog.Nop()),
		Defaults:     domain.DefaultParameters(),
		MaxPathCount: 2,
	})

	w, _ := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{
		"parameters": map[string]interface{}{"path_count": 2},
		"periods":    []interface{}{sineSeries("p", 30)},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, body := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{
		"parameters": map[string]interface{}{"path_count": 3},
		"periods":    []interface{}{sineSeries("p", 30)},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "path_count 3 exceeds the limit of 2", body["error"])
}

func TestWriteJSON_EncodingFailure(t *testing.T) {
	s := newTestServer()
	w := httptest.NewRecorder()

	s.writeJSON(w, http.StatusOK, map[string]float64{"nav": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"failed to encode response"}`, w.Body.String())
}

func TestSimulateDoesNotMutateDefaults(t *testing.T) {
	s := newTestServer()

	w, _ := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{
		"parameters": map[string]interface{}{"initial_nav": 500},
		"periods":    []interface{}{sineSeries("p", 30)},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.DefaultInitialNAV, s.defaults.InitialNAV)
}

func TestUnknownRoute(t *testing.T) {
	w, _ := doRequest(t, newTestServer(), http.MethodGet, "/api/cppi/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSimulateRateLimited(t *testing.T) {
	s := New(Config{
		Log:       zerolog.Nop(),
		DevMode:   true,
		Service:   cppi.NewService(nil, zerolog.Nop()),
		Defaults:  domain.DefaultParameters(),
		RateLimit: 0.001, // effectively no refill during the test
		RateBurst: 1,
	})
	body := map[string]interface{}{"periods": []interface{}{sineSeries("p", 30)}}

	w, _ := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", body)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate limit exceeded", resp["error"])
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// other routes are not limited
	w, _ = doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := metrics.New()
	s := New(Config{
		Log:      zerolog.Nop(),
		DevMode:  true,
		Service:  cppi.NewService(nil, zerolog.Nop()).WithObserver(reg),
		Defaults: domain.DefaultParameters(),
		Metrics:  reg,
	})

	w, _ := doRequest(t, s, http.MethodPost, "/api/cppi/simulate", map[string]interface{}{
		"periods": []interface{}{sineSeries("p", 30)},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cppi_runs_total{status="success"} 1`)
	assert.Contains(t, w.Body.String(), "cppi_periods_total 1")
}

func TestMetricsEndpointDisabled(t *testing.T) {
	w, _ := doRequest(t, newTestServer(), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
