package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/rsconstruction/constructhub-api/docs"
	v1 "github.com/rsconstruction/constructhub-api/internal/api/handler/v1"
	"github.com/rsconstruction/constructhub-api/internal/api/middleware"
	"github.com/rsconstruction/constructhub-api/internal/config"
	"github.com/rsconstruction/constructhub-api/internal/repository"
	"github.com/rsconstruction/constructhub-api/internal/repository/dao"
	"github.com/rsconstruction/constructhub-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	rateHandler := s.initRateHandler(db)
	s.MountHandlers(authHandler, rateHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	tokenRepo := repository.NewTokenRepository(dao.NewRefreshTokenDAO(db))
	accessTTL := time.Duration(s.Config.API.AccessTokenTTL) * time.Minute
	refreshTTL := time.Duration(s.Config.API.RefreshTokenTTL) * time.Hour
	svc := service.NewAuthService(userRepo, tokenRepo, s.Config.API.JWTSigningKey, accessTTL, refreshTTL)
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewAuthHandler(svc, uSvc)

	return handler
}

func (s *Server) initRateHandler(db *gorm.DB) *v1.RateHandler {
	rateRepo := repository.NewRateRepository(dao.NewRateDAO(db))
	svc := service.NewRateService(rateRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewRateHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.Metrics())
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, rateHandler *v1.RateHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
		auth.POST("/auth/refresh-token", authHandler.HandleRefreshToken)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.POST("/auth/logout", authHandler.HandleLogout)
		authed.GET("/auth/profile", authHandler.HandleGetProfile)
		authed.PUT("/auth/profile", authHandler.HandleUpdateProfile)

		authed.GET("/customer/daily-rates", rateHandler.HandleCustomerRates)

		authed.GET("/admin/daily-rates", rateHandler.HandleListRates)
		authed.POST("/admin/daily-rates", rateHandler.HandleCreateRate)
		authed.POST("/admin/daily-rates/bulk-update", rateHandler.HandleBulkUpdate)
		authed.POST("/admin/daily-rates/import", rateHandler.HandleImportRates)
		authed.GET("/admin/daily-rates/export", rateHandler.HandleExportRates)
		authed.PUT("/admin/daily-rates/:rateID", rateHandler.HandleUpdateRate)
		authed.DELETE("/admin/daily-rates/:rateID", rateHandler.HandleDeleteRate)
		authed.GET("/admin/daily-rates/:rateID/history", rateHandler.HandleGetRateHistory)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "ConstructHub Pro API"
	docs.SwaggerInfo.Description = "Construction material rates and ordering API for RS Construction Shop."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
