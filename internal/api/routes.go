package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/arya-s-cmd/financial-forensic-engine"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/ingest"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/store"
	"github.com/arya-s-cmd/financial-forensic-engine/internal/telemetry"
)

// Server bundles the dependencies HTTP handlers need. Metrics and Tracer are
// optional — a nil value skips the corresponding instrumentation, which
// keeps the handlers testable without a running metrics/trace pipeline.
type Server struct {
	Store   *store.Store
	Hub     *Hub
	Log     zerolog.Logger
	Metrics *telemetry.Metrics
	Tracer  trace.Tracer
}

// NewRouter builds the gin engine exposing the analysis and retrieval
// endpoints plus the progress-stream websocket.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	})

	v1 := r.Group("/v1")
	v1.POST("/analyze", s.handleAnalyze)
	v1.GET("/runs/:id", s.handleGetRun)
	v1.GET("/runs", s.handleListRuns)
	v1.GET("/graph", s.handleGetGraph)
	v1.GET("/ws", s.Hub.Subscribe)

	return r
}

func (s *Server) handleAnalyze(c *gin.Context) {
	if s.Tracer != nil {
		_, span := s.Tracer.Start(c.Request.Context(), "analyze")
		defer span.End()
	}

	txns, err := ingest.FromCSV(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.Metrics != nil {
		s.Metrics.TransactionsIngested.Add(float64(len(txns)))
	}

	s.Hub.Broadcast([]byte(`{"stage":"ingested","transactions":` + strconv.Itoa(len(txns)) + `}`))

	runStart := time.Now()
	result, err := mulegraph.Run(txns)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if s.Metrics != nil {
		s.Metrics.RunLatency.Observe(time.Since(runStart).Seconds())
		s.Metrics.SuspiciousAccounts.Set(float64(result.Report.Summary.SuspiciousAccountsFlagged))
		for _, ring := range result.Report.FraudRings {
			switch mulegraph.Pattern(ring.PatternType) {
			case mulegraph.PatternCycle:
				s.Metrics.CyclesFound.Inc()
			case mulegraph.PatternSmurfing:
				s.Metrics.SmurfingRingsFound.Inc()
			case mulegraph.PatternLayeredShell:
				s.Metrics.ShellChainsFound.Inc()
			}
		}
	}

	s.Hub.Broadcast([]byte(`{"stage":"complete","run_id":"` + result.RunID + `"}`))

	graph := mulegraph.ExportGraph(mulegraph.BuildGraph(txns))
	rec := store.RunRecord{
		RunID:       result.RunID,
		CompletedAt: time.Now().UTC(),
		Report:      result.Report,
		Graph:       graph,
	}
	if err := s.Store.SaveRun(rec); err != nil {
		s.Log.Error().Err(err).Str("run_id", result.RunID).Msg("failed to persist run")
	}

	c.JSON(http.StatusOK, gin.H{"run_id": result.RunID, "report": result.Report})
}

func (s *Server) handleGetRun(c *gin.Context) {
	rec, err := s.Store.GetRun(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleGetGraph(c *gin.Context) {
	runID := c.Query("run_id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_id is required"})
		return
	}

	rec, err := s.Store.GetRun(runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec.Graph)
}

func (s *Server) handleListRuns(c *gin.Context) {
	ids, err := s.Store.ListRunIDs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_ids": ids})
}
