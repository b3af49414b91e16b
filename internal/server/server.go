package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeysi05/pickle-jar-courts/internal/auth"
	"github.com/jeysi05/pickle-jar-courts/internal/config"
	"github.com/jeysi05/pickle-jar-courts/internal/court"
	"github.com/jeysi05/pickle-jar-courts/internal/reservation"
)

// Handlers are the HTTP handlers mounted by the router.
type Handlers struct {
	Auth         *auth.Handler
	Courts       *court.Handler
	Reservations *reservation.Handler
}

type Server struct {
	router  *gin.Engine
	http    *http.Server
	limiter *RateLimiter
}

func New(cfg *config.Config, h Handlers, checks map[string]Checker) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		corsMiddleware(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
	)

	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)
	limited := limiter.Middleware()
	optionalAuth := auth.OptionalAuth(cfg.JWTSecret)

	router.GET("/health", Health(checks))
	router.GET("/metrics", Metrics())

	login := router.Group("/auth")
	login.Use(limited)
	{
		login.POST("/admin", h.Auth.AdminLogin)
		login.POST("/coach", h.Auth.CoachLogin)
		login.POST("/refresh", h.Auth.Refresh)
	}

	public := router.Group("/")
	public.Use(optionalAuth)
	{
		public.GET("/courts", h.Courts.ListCourts)
		public.GET("/courts/:courtID/availability", h.Reservations.Availability)
		public.POST("/courts/:courtID/quote", limited, h.Reservations.Quote)
		public.POST("/reservations", limited, h.Reservations.Submit)
	}

	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(cfg.JWTSecret), auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/courts", h.Courts.CreateCourt)
		admin.GET("/reservations", h.Reservations.List)
		admin.POST("/reservations/:id/approve", h.Reservations.Approve)
		admin.POST("/reservations/:id/reject", h.Reservations.Reject)
		admin.DELETE("/reservations/:id", h.Reservations.Delete)
		admin.GET("/reservations/:id/calendar", h.Reservations.CalendarLink)
		admin.GET("/summary", h.Reservations.Summary)
		admin.GET("/pricing", h.Reservations.PricingRules)
	}

	return &Server{
		router:  router,
		limiter: limiter,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
