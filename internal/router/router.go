package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nutrivo/practice-api/internal/handler/auth"
	"github.com/nutrivo/practice-api/internal/handler/health"
	"github.com/nutrivo/practice-api/internal/handler/patient"
	"github.com/nutrivo/practice-api/internal/handler/program"
	"github.com/nutrivo/practice-api/internal/handler/prometheus"
	"github.com/nutrivo/practice-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	authH    *auth.Handler
	patientH *patient.Handler
	programH *program.Handler
	healthH  *health.Handler
	promH    *prometheus.Handler
}

type Config struct {
	RateLimit        rate.Limit
	RateBurst        int
	RateLimitEnabled bool
	CORSConfig       middleware.CORSConfig
	Timeout          middleware.TimeoutConfig
}

func NewRouter(
	authMw *middleware.AuthMiddleware,
	authH *auth.Handler,
	patientH *patient.Handler,
	programH *program.Handler,
	healthH *health.Handler,
	promH *prometheus.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     authMw,
		authH:    authH,
		patientH: patientH,
		programH: programH,
		healthH:  healthH,
		promH:    promH,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		promH.Middleware(),
		middleware.Timeout(config.Timeout),
		middleware.CORS(config.CORSConfig),
		middleware.CacheControl(),
	)

	if config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.healthH.RegisterRoutes(api)
	api.GET("/metrics", r.promH.Handler())

	// Public routes
	r.authH.RegisterRoutes(api)

	// Everything else requires an authenticated professional.
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.authH.RegisterProtectedRoutes(protected)
	r.patientH.RegisterRoutes(protected)
	r.programH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
