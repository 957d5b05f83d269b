package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardstack/internal/deck"
)

// Options tunes the HTTP layer.
type Options struct {
	StaticDir      string
	Mode           string
	RatePerMinute  int
	AllowedOrigins []string
}

// Server provides HTTP handlers for the deck engine.
type Server struct {
	engine    *gin.Engine
	deck      *deck.Engine
	logger    *zap.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(d *deck.Engine, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mode := opts.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: opts.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	if opts.RatePerMinute > 0 {
		router.Use(rateLimit(newRateLimiter(opts.RatePerMinute)))
	}

	srv := &Server{
		engine:    router,
		deck:      d,
		logger:    logger,
		staticDir: opts.StaticDir,
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

		d := api.Group("/deck")
		{
			d.GET("", s.handleState)
			d.POST("/complete", s.handleComplete)
			d.POST("/dismiss", s.handleDismiss)
			d.POST("/snooze", s.handleSnooze)
			d.POST("/shuffle", s.handleShuffle)
			d.POST("/next", s.handleNext)
			d.POST("/previous", s.handlePrevious)
			d.PUT("/index", s.handleSetIndex)
			d.PUT("/category", s.handleSelectCategory)
		}

		tasks := api.Group("/tasks")
		{
			tasks.POST("", s.handleAddTask)
			tasks.POST(":id/unsnooze", s.handleUnsnooze)
			tasks.GET(":id/subtasks", s.handleListSubtasks)
			tasks.POST(":id/subtasks", s.handleAddSubtask)
			tasks.POST(":id/subtasks/:subId/complete", s.handleCompleteSubtask)
			tasks.POST(":id/subtasks/:subId/upgrade", s.handleUpgradeSubtask)
			tasks.DELETE(":id/subtasks/:subId", s.handleCancelSubtask)
		}

		completed := api.Group("/completed")
		{
			completed.GET("", s.handleListCompleted)
			completed.POST(":id/return", s.handleReturnToStack)
			completed.DELETE(":id", s.handleDeleteCompleted)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger logs API requests through zap; static assets are skipped.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if !isAPIPath(c.Request.URL.Path) {
			return
		}
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// respondDeck reports whether an engine operation applied and the resulting
// deck. Operations that do not apply are not errors.
func (s *Server) respondDeck(c *gin.Context, applied bool, extra gin.H) {
	body := gin.H{"applied": applied, "deck": s.deck.State()}
	for k, v := range extra {
		body[k] = v
	}
	respondSuccess(c, http.StatusOK, body)
}
