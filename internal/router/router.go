package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/puredent/clinic-api/internal/handler"
	apptH "github.com/puredent/clinic-api/internal/handler/appointment"
	authH "github.com/puredent/clinic-api/internal/handler/auth"
	billingH "github.com/puredent/clinic-api/internal/handler/billing"
	catalogH "github.com/puredent/clinic-api/internal/handler/catalog"
	patientH "github.com/puredent/clinic-api/internal/handler/patient"
	reportH "github.com/puredent/clinic-api/internal/handler/report"
	staffH "github.com/puredent/clinic-api/internal/handler/staff"
	"github.com/puredent/clinic-api/internal/middleware"
)

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *authH.Handler
	patientH     *patientH.Handler
	staffH       *staffH.Handler
	catalogH     *catalogH.Handler
	appointmentH *apptH.Handler
	billingH     *billingH.Handler
	reportH      *reportH.Handler
	h            *handler.Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authHandler *authH.Handler,
	patientHandler *patientH.Handler,
	staffHandler *staffH.Handler,
	catalogHandler *catalogH.Handler,
	appointmentHandler *apptH.Handler,
	billingHandler *billingH.Handler,
	reportHandler *reportH.Handler,
	h *handler.Handler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authHandler,
		patientH:     patientHandler,
		staffH:       staffHandler,
		catalogH:     catalogHandler,
		appointmentH: appointmentHandler,
		billingH:     billingHandler,
		reportH:      reportHandler,
		h:            h,
		metrics:      initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	// Routes for any logged-in principal, patient or staff.
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)

	// Console routes, staff tokens only.
	console := api.Group("")
	console.Use(r.auth.Authenticate(), r.auth.RequireStaff())
	r.setupStaffRoutes(console)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("", r.h.HealthCheck)
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.authH.RegisterRoutes(rg)
	r.patientH.RegisterPublicRoutes(rg)
	r.catalogH.RegisterPublicRoutes(rg)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.appointmentH.RegisterRoutes(rg)
	r.billingH.RegisterRoutes(rg)
	r.reportH.RegisterRoutes(rg)
}

func (r *Router) setupStaffRoutes(rg *gin.RouterGroup) {
	r.patientH.RegisterRoutes(rg)
	r.staffH.RegisterRoutes(rg)
	r.catalogH.RegisterRoutes(rg)
	r.appointmentH.RegisterStaffRoutes(rg)
	r.billingH.RegisterStaffRoutes(rg)
	r.reportH.RegisterStaffRoutes(rg)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
