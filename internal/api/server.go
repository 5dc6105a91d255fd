package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/solvida/charity-api/docs"
	v1 "github.com/solvida/charity-api/internal/api/handler/v1"
	"github.com/solvida/charity-api/internal/api/middleware"
	"github.com/solvida/charity-api/internal/config"
	"github.com/solvida/charity-api/internal/repository"
	"github.com/solvida/charity-api/internal/repository/dao"
	"github.com/solvida/charity-api/internal/service"
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
	userHandler := s.initUserHandler(db)
	eventHandler := s.initEventHandler(db)
	purchaseHandler := s.initPurchaseHandler(db)
	donationHandler := s.initDonationHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, purchaseHandler, donationHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	donationRepo := repository.NewDonationRepository(dao.NewDonationDAO(db))

	svc := service.NewUserService(userRepo)
	accountSvc := service.NewAccountService(userRepo, purchaseRepo, donationRepo)
	handler := v1.NewUserHandler(svc, accountSvc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))

	catalogSvc := service.NewCatalogService(eventRepo)
	eventSvc := service.NewEventService(eventRepo)
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewEventHandler(catalogSvc, eventSvc, uSvc)

	return handler
}

func (s *Server) initPurchaseHandler(db *gorm.DB) *v1.PurchaseHandler {
	purchaseRepo := repository.NewPurchaseRepository(dao.NewPurchaseDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))

	svc := service.NewPurchaseService(purchaseRepo, eventRepo, userRepo)
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewPurchaseHandler(svc, uSvc)

	return handler
}

func (s *Server) initDonationHandler(db *gorm.DB) *v1.DonationHandler {
	donationRepo := repository.NewDonationRepository(dao.NewDonationDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))

	svc := service.NewDonationService(donationRepo)
	uSvc := service.NewUserService(userRepo)
	handler := v1.NewDonationHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	purchaseHandler *v1.PurchaseHandler,
	donationHandler *v1.DonationHandler,
) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
	}

	// Checkout takes an optional token so guests can buy too.
	checkout := s.Router.Group(basePath, authenticator.OptionalJWT())
	{
		checkout.POST("/purchases", purchaseHandler.HandlePurchase)
	}

	authed := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)
		authed.GET("/users/:userID/account", userHandler.HandleGetAccount)
		authed.POST("/users/:userID/wallet/topup", userHandler.HandleTopUpWallet)
		authed.POST("/users/:userID/membership", userHandler.HandleSetMembership)
		authed.POST("/donations", donationHandler.HandleDonate)

		// Admin-only; the handlers check the caller's admin flag.
		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		authed.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		authed.POST("/tickets/scan", purchaseHandler.HandleScanTicket)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Solvida Charity API"
	docs.SwaggerInfo.Description = "Events, tickets and donations for the Solvida charity."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
