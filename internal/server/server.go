package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/auth"
	"tasktracker/internal/storage"
	"tasktracker/internal/tasks"
)

const apiPrefix = "/api/"

// Server provides HTTP handlers for the task tracker backend.
type Server struct {
	engine    *gin.Engine
	tasks     *tasks.Service
	verifier  *auth.Verifier
	logger    *slog.Logger
	staticDir string
	now       func() time.Time
}

// New constructs the HTTP server with routes and middleware configured.
func New(svc *tasks.Service, verifier *auth.Verifier, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz"))

	srv := &Server{
		engine:    router,
		tasks:     svc,
		verifier:  verifier,
		logger:    logger,
		staticDir: staticDir,
		now:       time.Now,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		taskRoutes := api.Group("/tasks", auth.Middleware(s.verifier))
		{
			taskRoutes.GET("", s.handleListTasks)
			taskRoutes.GET("/timeline", s.handleTimeline)
			taskRoutes.GET("/summary", s.handleSummary)
			taskRoutes.POST("", s.handleCreateTask)
			taskRoutes.PUT("/:id", s.handleUpdateTask)
			taskRoutes.DELETE("/:id", s.handleDeleteTask)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// currentUser returns the authenticated user id or aborts with 401.
func currentUser(c *gin.Context) (string, bool) {
	identity, ok := auth.FromContext(c)
	if !ok || identity.UserID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
		return "", false
	}
	return identity.UserID, true
}

// respondTaskError maps service errors onto HTTP statuses.
func (s *Server) respondTaskError(c *gin.Context, err error) {
	var verr *tasks.ValidationError
	switch {
	case errors.As(err, &verr):
		s.respondError(c, http.StatusBadRequest, err)
	case errors.Is(err, tasks.ErrNotFound):
		s.respondError(c, http.StatusNotFound, err)
	case errors.Is(err, tasks.ErrForbidden):
		s.respondError(c, http.StatusForbidden, err)
	case errors.Is(err, storage.ErrInvalidID):
		s.respondError(c, http.StatusBadRequest, storage.ErrInvalidID)
	default:
		s.respondError(c, http.StatusInternalServerError, err)
	}
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(c.Request.Context(), level, "request failed",
		slog.String("path", c.FullPath()),
		slog.Int("status", status),
		slog.String("error", err.Error()))

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
