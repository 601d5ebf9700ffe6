package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/adapters/metrics"
	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/infrastructure/config"
)

// Server is the REST surface of the engine. Every handler binds a request,
// dispatches through the mediator and maps domain errors to statuses; no
// business logic lives here.
type Server struct {
	cfg      config.ServerConfig
	mediator common.Mediator
	log      *logrus.Entry
	httpSrv  *http.Server
}

// NewServer creates the REST server
func NewServer(cfg config.ServerConfig, metricsCfg config.MetricsConfig, m common.Mediator, httpMetrics *metrics.HTTPCollector, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}

	gin.SetMode(cfg.Mode)
	s := &Server{
		cfg:      cfg,
		mediator: m,
		log:      log.WithField("component", "http"),
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	if httpMetrics != nil {
		router.Use(httpMetrics.Middleware())
	}

	s.registerRoutes(router, metricsCfg)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) registerRoutes(router *gin.Engine, metricsCfg config.MetricsConfig) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metricsCfg.Enabled {
		router.GET(metricsCfg.Path, gin.WrapH(
			promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		))
	}

	route := router.Group("/route")
	{
		route.POST("/", s.planRoutes)
		route.POST("/assign/", s.assignRoute)
		route.POST("/getByDriver/", s.routeByDriver)
		route.POST("/finish/", s.finishJourney)
		route.POST("/return/", s.returnRoute)
		route.POST("/recalculate/", s.recalculateRoute)
		route.POST("/checkDriverStatus/", s.checkDriverStatus)
		route.GET("/active/", s.activeRoutes)
		route.DELETE("/dropAll/", s.dropAllRoutes)
		route.POST("/optimize-office/", s.optimizeOfficeRoute)
	}

	router.POST("/packages_mark/", s.markDelivered)
	router.POST("/packages_mark_undelivered/", s.markUndelivered)

	router.POST("/office-delivery/", s.recordOfficeDelivery)
	router.POST("/office-delivery/suggest/", s.suggestOfficeRoute)

	history := router.Group("/history")
	{
		history.GET("/", s.recentHistory)
		history.GET("/detail/", s.historyDetail)
	}
	router.GET("/statistics/", s.statistics)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		s.log.WithFields(logrus.Fields{
			"method":   ctx.Request.Method,
			"path":     ctx.Request.URL.Path,
			"status":   ctx.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request handled")
	}
}

// Run serves until the listener fails or Shutdown is called
func (s *Server) Run() error {
	s.log.WithField("addr", s.httpSrv.Addr).Info("http server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
