package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oncosurv/app"
	"oncosurv/domain/pipeline"
	"oncosurv/internal/testkit"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testkit.DefaultCohortConfig()
	cfg.Rows = 80
	tbl, err := testkit.NewCohortGenerator(cfg).Generate()
	require.NoError(t, err)

	pcfg := pipeline.DefaultConfig()
	pcfg.Forest.NumTrees = 40
	pipe := pipeline.New(pcfg, nil)
	_, err = pipe.Fit(tbl)
	require.NoError(t, err)

	return NewServer(app.NewPredictionService(pipe, nil), nil)
}

func postPredict(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req.WithContext(context.Background()))
	return w
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPredictEndpoint(t *testing.T) {
	s := testServer(t)

	w := postPredict(t, s, PredictRequest{
		Age:            "50",
		Gender:         "Male",
		TobaccoUse:     "yes",
		AlcoholUse:     "no",
		DiagnosisStage: "Late",
		TreatmentType:  "Surgery",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var outcome app.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.GreaterOrEqual(t, outcome.SurvivalRate, 0.0)
	assert.LessOrEqual(t, outcome.SurvivalRate, 100.0)
	assert.NotEmpty(t, outcome.Bucket)
	assert.NotEmpty(t, outcome.Recommendations)
}

func TestPredictUnknownCategory(t *testing.T) {
	s := testServer(t)

	w := postPredict(t, s, PredictRequest{
		Age:            "50",
		Gender:         "Male",
		TobaccoUse:     "yes",
		AlcoholUse:     "no",
		DiagnosisStage: "Terminal",
		TreatmentType:  "Surgery",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "no prediction available")
}

func TestPredictMissingField(t *testing.T) {
	s := testServer(t)
	w := postPredict(t, s, map[string]string{"age": "50"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModelEndpoint(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/model", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "snapshot_id")
	assert.Contains(t, w.Body.String(), "metrics")
}

func TestReportEndpoint(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Survival Model Card")
}
