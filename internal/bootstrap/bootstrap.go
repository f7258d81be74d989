package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/gradesheet/internal/app/controllers"
	"github.com/yigit/gradesheet/internal/app/grading"
	appRoutes "github.com/yigit/gradesheet/internal/app/routes"
	appServices "github.com/yigit/gradesheet/internal/app/services"
	"github.com/yigit/gradesheet/internal/config"
	appMiddleware "github.com/yigit/gradesheet/internal/middleware"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
	"github.com/yigit/gradesheet/internal/pkg/filestorage"
	"github.com/yigit/gradesheet/internal/pkg/logger"
	"github.com/yigit/gradesheet/internal/pkg/metrics"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	UploadService     appServices.UploadService  // Interface type
	StudentService    appServices.StudentService // Interface type
	HealthController  *appControllers.HealthController
	UploadController  *appControllers.UploadController
	StudentController *appControllers.StudentController
	Storage           *Storage
	Metrics           *metrics.Metrics
	FileStorage       *filestorage.LocalStorage // nil unless uploads are archived
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// IngestionRules builds the row rules from the ingestion config
func IngestionRules(cfg *config.Config) grading.Rules {
	return grading.Rules{
		Aliases: grading.DefaultAliases,
		Policy:  grading.Policy{EnforceObtainedLETotal: cfg.Ingestion.EnforceObtainedLETotal},
	}
}

// BuildDependencies initializes services and controllers on top of an opened storage backend.
func BuildDependencies(cfg *config.Config, storage *Storage, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Storage: storage,
		Metrics: metrics.New(),
		Logger:  lgr,
	}

	// A nil interface disables archiving; a typed nil *LocalStorage would not.
	var archive filestorage.FileStorage
	if cfg.Server.ArchiveUploads {
		local, err := filestorage.NewLocalStorage(cfg.Server.StoragePath)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize file storage")
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		deps.FileStorage = local
		archive = local
	}

	deps.UploadService = appServices.NewUploadService(
		storage.Students,
		storage.History,
		IngestionRules(cfg),
		archive,
		deps.Metrics,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(
		storage.Students,
		storage.History,
		appServices.StudentServiceConfig{
			Policy:         grading.Policy{EnforceObtainedLETotal: cfg.Ingestion.EnforceObtainedLETotal},
			PassPercentage: cfg.Ingestion.PassPercentage,
			HistoryLimit:   cfg.Ingestion.HistoryLimit,
		},
		lgr,
	)

	deps.HealthController = appControllers.NewHealthController(storage.Driver, storage.Ping, lgr)
	deps.UploadController = appControllers.NewUploadController(deps.UploadService, cfg.Server.MaxUploadSize)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case gin.Mode() != gin.TestMode:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterJSONFieldNames()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		deps.Metrics.Middleware(),
		cors.New(corsConfig(cfg)),
	)

	appRoutes.SetupRouter(router,
		deps.HealthController,
		deps.UploadController,
		deps.StudentController,
	)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	router.NoRoute(func(c *gin.Context) {
		appMiddleware.HandleAPIError(c, apperrors.NewResourceNotFoundError("route not found"))
	})

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	for _, origin := range cfg.Server.AllowedOrigins {
		if origin == "*" {
			corsCfg.AllowAllOrigins = true
			return corsCfg
		}
	}
	corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	return corsCfg
}
