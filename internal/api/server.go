// Package api exposes the fitted model over HTTP: predictions, snapshot
// metadata and the rendered model card.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"oncosurv/app"
	"oncosurv/domain/core"
	"oncosurv/domain/pipeline"
	"oncosurv/internal/report"
)

// Server hosts the prediction API around one loaded snapshot.
type Server struct {
	router *gin.Engine
	svc    *app.PredictionService
	log    *zap.Logger
}

// PredictRequest is the JSON body of POST /api/predict. All fields are
// raw values; numeric parsing happens inside the pipeline.
type PredictRequest struct {
	Age            string `json:"age" binding:"required"`
	Gender         string `json:"gender" binding:"required"`
	TobaccoUse     string `json:"tobacco_use" binding:"required"`
	AlcoholUse     string `json:"alcohol_use" binding:"required"`
	DiagnosisStage string `json:"diagnosis_stage" binding:"required"`
	TreatmentType  string `json:"treatment_type" binding:"required"`
}

// Record converts the request to pipeline input.
func (r PredictRequest) Record() pipeline.Record {
	return pipeline.Record{
		"Age":             r.Age,
		"Gender":          r.Gender,
		"Tobacco_Use":     r.TobaccoUse,
		"Alcohol_Use":     r.AlcoholUse,
		"Diagnosis_Stage": r.DiagnosisStage,
		"Treatment_Type":  r.TreatmentType,
	}
}

// NewServer wires the routes around a prediction service.
func NewServer(svc *app.PredictionService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{router: router, svc: svc, log: log}

	router.GET("/healthz", s.handleHealth)
	api := router.Group("/api")
	{
		api.POST("/predict", s.handlePredict)
		api.GET("/model", s.handleModel)
		api.GET("/report", s.handleReport)
	}
	return s
}

// Handler returns the http handler, for serving and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(port string) error {
	s.log.Info("prediction API listening", zap.String("port", port))
	return s.router.Run(":" + port)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	outcome, err := s.svc.Predict(c.Request.Context(), req.Record())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, outcome)
	case core.IsUnknownCategoryError(err):
		// Recoverable at this boundary: the model has no basis for this input.
		s.log.Warn("no prediction available", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no prediction available: " + err.Error()})
	case core.IsModelNotTrainedError(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleModel(c *gin.Context) {
	b, err := s.svc.Bundle()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshot_id": b.SnapshotID,
		"created_at":  b.CreatedAt,
		"version":     b.Version,
		"fingerprint": b.Fingerprint,
		"features":    b.FeatureOrder,
		"metrics":     b.Metrics,
	})
}

func (s *Server) handleReport(c *gin.Context) {
	b, err := s.svc.Bundle()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	card := report.ModelCard(b)
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.RenderHTML(card))
}
