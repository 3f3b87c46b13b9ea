package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/hostel-core-api/api/swagger"
	"github.com/noah-isme/hostel-core-api/internal/handler"
	"github.com/noah-isme/hostel-core-api/internal/middleware"
	"github.com/noah-isme/hostel-core-api/internal/models"
	"github.com/noah-isme/hostel-core-api/internal/repository"
	"github.com/noah-isme/hostel-core-api/internal/service"
	"github.com/noah-isme/hostel-core-api/pkg/cache"
	"github.com/noah-isme/hostel-core-api/pkg/config"
	"github.com/noah-isme/hostel-core-api/pkg/database"
	"github.com/noah-isme/hostel-core-api/pkg/events"
	"github.com/noah-isme/hostel-core-api/pkg/export"
	"github.com/noah-isme/hostel-core-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/hostel-core-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hostel-core-api/pkg/middleware/requestid"
	"github.com/noah-isme/hostel-core-api/pkg/storage"
)

// @title Hostel Core API
// @version 1.0.0
// @description Hostel management service: blocks, rooms, beds, allocations, complaints and leave requests
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	defer cacheRepo.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, cfg.Query.CacheTTL, metricsSvc, logr)

	dispatcher := events.NewDispatcher(events.PublisherFunc(func(ctx context.Context, event events.Event) error {
		logr.Sugar().Infow("domain event", "id", event.ID, "name", event.Name, "occurred_at", event.OccurredAt)
		return nil
	}), events.Config{
		Workers:    cfg.Events.Workers,
		BufferSize: cfg.Events.BufferSize,
		MaxRetries: cfg.Events.MaxRetries,
		RetryDelay: cfg.Events.RetryDelay,
		Logger:     logr,
	})
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher.Start(dispatcherCtx)
	defer func() {
		stopDispatcher()
		dispatcher.Stop()
	}()

	blockRepo := repository.NewBlockRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bedRepo := repository.NewBedRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)

	blockSvc := service.NewBlockService(blockRepo, roomRepo, bedRepo, allocationRepo, directoryRepo, cacheSvc, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, blockRepo, allocationRepo, bedRepo, cacheSvc, validate, logr)
	bedSvc := service.NewBedSetService(bedRepo, roomRepo, cacheSvc, validate, logr)
	querySvc := service.NewQueryService(roomRepo, cacheSvc, logr)
	allocationSvc := service.NewAllocationService(allocationRepo, directoryRepo, bedRepo, dispatcher, cacheSvc, validate, logr)
	massUpdateSvc := service.NewMassUpdateService(roomRepo, roomSvc, bedRepo, cacheSvc, validate, logr)
	complaintSvc := service.NewComplaintService(complaintRepo, directoryRepo, directoryRepo, roomRepo, validate, logr)
	leaveSvc := service.NewLeaveService(leaveRepo, directoryRepo, directoryRepo, validate, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(blockRepo, files, signer,
			service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr,
			export.NewCSVRenderer(), export.NewPDFRenderer())
	}

	blockHandler := handler.NewBlockHandler(blockSvc)
	roomHandler := handler.NewRoomHandler(roomSvc, querySvc)
	bedHandler := handler.NewBedHandler(bedSvc)
	allocationHandler := handler.NewAllocationHandler(allocationSvc, metricsSvc)
	massUpdateHandler := handler.NewMassUpdateHandler(massUpdateSvc, metricsSvc)
	complaintHandler := handler.NewComplaintHandler(complaintSvc, metricsSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc, metricsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	verifier := middleware.NewTokenVerifier(cfg.JWT.Secret)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, verifier, blockHandler, roomHandler, bedHandler,
		allocationHandler, massUpdateHandler, complaintHandler, leaveHandler, exportHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func registerRoutes(r *gin.Engine, cfg *config.Config, verifier *middleware.TokenVerifier,
	blocks *handler.BlockHandler, rooms *handler.RoomHandler, beds *handler.BedHandler,
	allocations *handler.AllocationHandler, massUpdates *handler.MassUpdateHandler,
	complaints *handler.ComplaintHandler, leaves *handler.LeaveHandler, exports *handler.ExportHandler) {

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(verifier))

	staffRoles := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleWarden, models.RoleStaff)
	adminRoles := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)
	wardenRoles := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleWarden)

	blockGroup := api.Group("/blocks")
	{
		blockGroup.GET("", blocks.List)
		blockGroup.GET("/:id", blocks.Get)
		blockGroup.POST("", adminRoles, blocks.Create)
		blockGroup.PUT("/:id", adminRoles, blocks.Update)
		blockGroup.DELETE("/:id", adminRoles, blocks.Deactivate)
		blockGroup.POST("/:id/rooms/generate", adminRoles, blocks.GenerateRooms)
	}

	roomGroup := api.Group("/rooms")
	{
		roomGroup.GET("", rooms.List)
		roomGroup.GET("/filter-options", rooms.FilterOptions)
		roomGroup.GET("/available-for-booking", rooms.AvailableForBooking)
		roomGroup.GET("/:id", rooms.Get)
		roomGroup.POST("", adminRoles, rooms.Create)
		roomGroup.PUT("/:id", wardenRoles, rooms.Update)
		roomGroup.GET("/:id/beds", beds.ListByRoom)
		roomGroup.PUT("/:id/beds", wardenRoles, beds.Regenerate)
		roomGroup.POST("/mass-update", adminRoles, massUpdates.UpdateRooms)
		roomGroup.POST("/mass-update/beds", adminRoles, massUpdates.UpdateBeds)
	}

	allocationGroup := api.Group("/allocations")
	{
		allocationGroup.GET("", staffRoles, allocations.List)
		allocationGroup.GET("/:id", staffRoles, allocations.Get)
		allocationGroup.POST("", wardenRoles, allocations.Allocate)
		allocationGroup.POST("/:id/end", wardenRoles, allocations.End)
		allocationGroup.POST("/:id/transfer", wardenRoles, allocations.Transfer)
	}

	complaintGroup := api.Group("/complaints")
	{
		complaintGroup.GET("", complaints.List)
		complaintGroup.GET("/:id", complaints.Get)
		complaintGroup.POST("", complaints.File)
		complaintGroup.POST("/:id/assign", staffRoles, complaints.Assign)
		complaintGroup.POST("/:id/resolve", staffRoles, complaints.Resolve)
		complaintGroup.POST("/:id/close", staffRoles, complaints.Close)
	}

	leaveGroup := api.Group("/leaves")
	{
		leaveGroup.GET("", leaves.List)
		leaveGroup.GET("/:id", leaves.Get)
		leaveGroup.POST("", leaves.Submit)
		leaveGroup.POST("/:id/approve", wardenRoles, leaves.Approve)
		leaveGroup.POST("/:id/reject", wardenRoles, leaves.Reject)
		leaveGroup.POST("/:id/return", staffRoles, leaves.MarkReturned)
	}

	exportGroup := api.Group("/exports")
	{
		exportGroup.POST("/occupancy", staffRoles, exports.GenerateOccupancy)
		exportGroup.GET("/download", exports.Download)
	}
}
