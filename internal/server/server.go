package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ChicagoDave/phppkit/internal/metrics"
	"github.com/ChicagoDave/phppkit/internal/takeoff"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/workbook"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Options configures a Server. Nil fields get in-memory or no-op defaults.
type Options struct {
	Port        int
	CORSOrigins []string
	Layout      *workbook.Layout
	IDs         metadata.IDSource
	Store       metadata.Store
	Metrics     *metrics.Collector
	Logger      *zap.Logger
}

// Server is the local takeoff server. The project is re-read on every
// request so edits show up without a restart.
type Server struct {
	projectPath string
	opts        Options
	logger      *zap.Logger
}

// New creates a server for the given project directory or file.
func New(projectPath string, opts Options) *Server {
	if opts.Port == 0 {
		opts.Port = 3000
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.Store == nil {
		opts.Store = metadata.NewMemoryStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{projectPath: projectPath, opts: opts, logger: logger}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestID(), s.accessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  s.opts.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/", s.handleIndex)
	if s.opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/project", s.handleProject)
		api.GET("/takeoff", s.handleTakeoff)
		api.GET("/cells", s.handleCells)
		api.GET("/validation", s.handleValidation)
		api.POST("/store", s.handleStore)
		api.GET("/systems/:id", s.handleSystem)
	}
	return router
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	s.logger.Info("phppkit server starting",
		zap.String("url", "http://localhost"+addr),
		zap.String("project", s.projectPath))
	return s.Router().Run(addr)
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.opts.Metrics.ObserveRequest(route, c.Writer.Status())
		s.logger.Debug("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) load(c *gin.Context) (*spec.Project, bool) {
	p, err := spec.LoadProject(s.projectPath)
	if err != nil {
		s.logger.Warn("project load failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	return p, true
}

func (s *Server) run(c *gin.Context) (*takeoff.Result, bool) {
	p, ok := s.load(c)
	if !ok {
		return nil, false
	}
	start := time.Now()
	res := takeoff.Run(p, takeoff.Options{IDs: s.opts.IDs, Layout: s.opts.Layout})
	s.opts.Metrics.ObserveRun(res.Validation, res.Cells, time.Since(start))
	return res, true
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html><head><title>phppkit</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>phppkit</h1>
<p>See <code>/api/takeoff</code>, <code>/api/cells</code> and <code>/api/validation</code>.</p>
</div>
</body></html>`))
}

func (s *Server) handleProject(c *gin.Context) {
	p, ok := s.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleTakeoff(c *gin.Context) {
	res, ok := s.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleCells(c *gin.Context) {
	res, ok := s.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"cells": res.Cells, "summary": res.Validation.Summary})
}

func (s *Server) handleValidation(c *gin.Context) {
	res, ok := s.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res.Validation)
}

func (s *Server) handleStore(c *gin.Context) {
	res, ok := s.run(c)
	if !ok {
		return
	}
	keys, err := takeoff.Save(c.Request.Context(), s.opts.Store, res)
	if err != nil {
		s.logger.Error("store failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "keys": keys})
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

func (s *Server) handleSystem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "system id must be an integer"})
		return
	}
	sys, err := takeoff.LoadSystem(c.Request.Context(), s.opts.Store, id)
	switch {
	case errors.Is(err, metadata.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, sys)
	}
}
