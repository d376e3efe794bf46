package routes

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cit-system/internal/controllers"
	"cit-system/internal/repositories"
	"cit-system/internal/services"
	"cit-system/pkg/config"
	"cit-system/pkg/filestorage"
	"cit-system/pkg/middleware"
	"cit-system/pkg/service"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	Request *zap.Logger
}

const serviceTypeCacheTTL = 12 * time.Hour

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: начало создания маршрутов")

	// --- ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.Dir)
	if err != nil {
		loggers.Main.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}
	txManager := repositories.NewTxManager(dbConn, cfg.Timeouts.Transaction)

	// --- РЕПОЗИТОРИИ ---
	requestRepo := repositories.NewRequestRepository(dbConn)
	cashCountRepo := repositories.NewCashCountRepository(dbConn)
	deliveryRepo := repositories.NewDeliveryCompletionRepository(dbConn)
	staffRepo := repositories.NewStaffRepository(dbConn)
	locationRepo := repositories.NewCrewLocationRepository(dbConn)
	reportRepo := repositories.NewReportRepository(dbConn)
	serviceTypeRepo := repositories.NewCachedServiceTypeRepository(
		repositories.NewServiceTypeRepository(dbConn), redisClient, serviceTypeCacheTTL)

	// --- СЕРВИСЫ ---
	authService := services.NewAuthService(staffRepo, jwtSvc, loggers.Auth)
	requestService := services.NewRequestService(
		txManager, requestRepo, cashCountRepo, deliveryRepo, serviceTypeRepo, loggers.Request)
	staffService := services.NewStaffService(staffRepo, loggers.Main)
	locationService := services.NewCrewLocationService(txManager, requestRepo, locationRepo, loggers.Request)
	reportService := services.NewReportService(reportRepo, loggers.Main)

	// --- КОНТРОЛЛЕРЫ ---
	timeout := cfg.Timeouts.Request
	authController := controllers.NewAuthController(authService, timeout, loggers.Auth)
	requestController := controllers.NewRequestController(requestService, timeout, loggers.Request)
	staffController := controllers.NewStaffController(staffService, timeout, loggers.Main)
	locationController := controllers.NewCrewLocationController(locationService, timeout, loggers.Request)
	reportController := controllers.NewReportController(reportService, timeout, loggers.Main)
	uploadController := controllers.NewUploadController(fileStorage, loggers.Main)

	// --- РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authController)
	runRequestRouter(secureGroup, requestController)
	runStaffRouter(secureGroup, staffController)
	runCrewLocationRouter(secureGroup, locationController)
	runReportRouter(secureGroup, reportController)
	runUploadRouter(secureGroup, uploadController)

	loggers.Main.Info("InitRouter: создание маршрутов завершено")
}
