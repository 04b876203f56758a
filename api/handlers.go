package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/gcbaptista/go-grammar-checker/config"
	"github.com/gcbaptista/go-grammar-checker/internal/jobs"
	"github.com/gcbaptista/go-grammar-checker/model"
	"github.com/gcbaptista/go-grammar-checker/services"
)

const serviceName = "go-grammar-checker"

// Engine is what the handlers need from the checker
type Engine interface {
	services.Checker
	services.BatchChecker
	services.JobManager
	ListRules() []model.RuleInfo
	GetRule(id string) (model.RuleInfo, error)
	SetRuleEnabled(id string, enabled bool) (model.RuleInfo, error)
	GetJobMetrics() jobs.JobMetricsData
}

// API holds dependencies for API handlers
type API struct {
	engine    Engine
	analytics services.Analytics
}

// NewAPI creates a new API handler structure. Analytics may be nil.
func NewAPI(engine Engine, analytics services.Analytics) *API {
	return &API{
		engine:    engine,
		analytics: analytics,
	}
}

// NewRouter creates a gin router with middleware and all routes
func NewRouter(settings config.ServerSettings, engine Engine, analytics services.Analytics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware())
	router.Use(CORSMiddleware(settings.CORSOrigins))
	if settings.MaxRequestBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(settings.MaxRequestBytes))
	}

	SetupRoutes(router, engine, analytics)
	return router
}

// SetupRoutes defines all the API routes of the grammar checker
func SetupRoutes(router *gin.Engine, engine Engine, analytics services.Analytics) {
	apiHandler := NewAPI(engine, analytics)

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/check", apiHandler.CheckHandler)
		v1.GET("/analytics", apiHandler.GetAnalyticsHandler)

		ruleRoutes := v1.Group("/rules")
		{
			ruleRoutes.GET("", apiHandler.ListRulesHandler)
			ruleRoutes.GET("/:ruleId", apiHandler.GetRuleHandler)
			ruleRoutes.PATCH("/:ruleId", apiHandler.UpdateRuleHandler)
		}

		jobRoutes := v1.Group("/jobs")
		{
			jobRoutes.POST("/check", apiHandler.BatchCheckHandler)
			jobRoutes.GET("", apiHandler.ListJobsHandler)
			jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
			jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
		}
	}
}
