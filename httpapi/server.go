// Package httpapi exposes the pipeline over HTTP: multipart upload
// for ingestion and JSON for question answering.
package httpapi

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/visualdoc/ragservice/history"
	"github.com/visualdoc/ragservice/rag"
)

type Server struct {
	pipeline *rag.Pipeline
	history  history.Repository
	engine   *gin.Engine
}

// ServerOption is a function that configures the server
type ServerOption func(*Server)

// WithHistory records every answered query in the given repository and
// exposes it under /api/history.
func WithHistory(repo history.Repository) ServerOption {
	return func(s *Server) {
		s.history = repo
	}
}

type queryRequest struct {
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k"`
}

// NewServer creates the HTTP server around a pipeline.
func NewServer(pipeline *rag.Pipeline, opts ...ServerOption) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		pipeline: pipeline,
		engine:   engine,
	}
	for _, opt := range opts {
		opt(s)
	}

	engine.GET("/healthz", s.handleHealth)
	api := engine.Group("/api")
	{
		api.POST("/ingest", s.handleIngest)
		api.POST("/query", s.handleQuery)
		api.GET("/stats", s.handleStats)
		if s.history != nil {
			api.GET("/history", s.handleHistoryList)
			api.DELETE("/history", s.handleHistoryClear)
		}
	}

	return s
}

// Handler returns the underlying http handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	slog.Info("http api listening", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleIngest accepts one file as multipart form field "file", spools
// it to disk under its original extension and runs ingestion.
func (s *Server) handleIngest(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	tmpDir, err := os.MkdirTemp("", "ingest_")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to spool upload"})
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save upload"})
		return
	}

	result, err := s.pipeline.IngestFile(c.Request.Context(), path)
	if err != nil {
		slog.Error("ingestion failed", "file", file.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !result.OK {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	result, err := s.pipeline.Query(c.Request.Context(), req.Question, req.TopK)
	if err != nil {
		slog.Error("query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if s.history != nil {
		ex := history.Exchange{
			Question:  req.Question,
			Answer:    result.Answer,
			Contexts:  len(result.Contexts),
			LatencyMS: result.LatencyMS,
		}
		if err := s.history.Append(c.Request.Context(), ex); err != nil {
			slog.Warn("failed to record exchange", "error", err)
		}
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHistoryList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	exchanges, err := s.history.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if exchanges == nil {
		exchanges = []history.Exchange{}
	}
	c.JSON(http.StatusOK, gin.H{"exchanges": exchanges})
}

func (s *Server) handleHistoryClear(c *gin.Context) {
	if err := s.history.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) handleStats(c *gin.Context) {
	count, err := s.pipeline.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chunks": count})
}
