package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mstolarczyk/Goshawk/config"
	"github.com/mstolarczyk/Goshawk/database"
	_ "github.com/mstolarczyk/Goshawk/docs" // Swagger docs - auto-generated
	adminctrl "github.com/mstolarczyk/Goshawk/internal/controller/admin"
	userctrl "github.com/mstolarczyk/Goshawk/internal/controller/user"
	"github.com/mstolarczyk/Goshawk/internal/logger"
	"github.com/mstolarczyk/Goshawk/internal/repository"
	"github.com/mstolarczyk/Goshawk/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Driving Test Question Bank API
// @version 1.0
// @description Import and serve the official driving-test question bank: XLSX ingestion with an auditable run ledger, media resolution against a flat file directory, and locale-aware question access.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewQuestionBankRepository,
			repository.NewQuestionRepository,
			repository.NewLicenseCategoryRepository,
			repository.NewMediaAssetRepository,
			repository.NewImportRunRepository,
			repository.NewExamAttemptRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewImportService,
			service.NewMediaRepairService,
			service.NewQuestionQueryService,
			service.NewImportRunQueryService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewImportController,
			userctrl.NewQuestionController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Funnel gin request logging through zerolog
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func AutoMigrateDB(db *gorm.DB) {
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Database migration failed")
	}
	log.Info().Msg("Database migration completed")
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	importCtrl *adminctrl.ImportController,
	questionCtrl *userctrl.QuestionController,
) {
	apiV1 := router.Group("/api/v1")
	questionCtrl.RegisterRoutes(apiV1)
	importCtrl.RegisterRoutes(apiV1.Group("/admin"))

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Str("port", cfg.Server.Port).Msg("Starting HTTP server")
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("HTTP server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
