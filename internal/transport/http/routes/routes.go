package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hqportal/gatehouse/internal/infra/config"
	"github.com/hqportal/gatehouse/internal/infra/security"
	"github.com/hqportal/gatehouse/internal/transport/http/handlers"
	"github.com/hqportal/gatehouse/internal/transport/http/middleware"
	"github.com/hqportal/gatehouse/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth   *usecase.AuthService
	Users  *usecase.UserService
	Config *usecase.ConfigService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Tokens   *security.TokenManager
	Metrics  *middleware.HTTPMetrics
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthHandler := handlers.NewHealthHandler()
	r.GET("/healthz", healthHandler.Status)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Tokens)
		authHandler.RegisterRoutes(api.Group("/auth"))

		userHandler := handlers.NewUserHandler(deps.Services.Users, deps.Tokens)
		userHandler.RegisterRoutes(api)

		adminHandler := handlers.NewAdminHandler(
			deps.Services.Auth,
			deps.Services.Users,
			deps.Services.Config,
			deps.Tokens,
		)
		adminHandler.RegisterRoutes(api.Group("/admin"))
	}

	return r
}
