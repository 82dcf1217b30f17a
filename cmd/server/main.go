package main

import (
	"log"
	"os"
	"time"

	"github.com/henningcullin/service-system/docs"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/henningcullin/service-system/internal/auth"
	"github.com/henningcullin/service-system/internal/cache"
	"github.com/henningcullin/service-system/internal/config"
	"github.com/henningcullin/service-system/internal/db"
	"github.com/henningcullin/service-system/internal/events"
	"github.com/henningcullin/service-system/internal/handler"
	"github.com/henningcullin/service-system/internal/mailer"
	"github.com/henningcullin/service-system/internal/model"
	"github.com/henningcullin/service-system/internal/repository"
	"github.com/henningcullin/service-system/internal/router"
	"github.com/henningcullin/service-system/internal/service"
)

// @title Service System API
// @version 1.0
// @description Maintenance and asset tracking backend with dual-path login and role-based authorization.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.TaskExecutor{},
			&model.Report{},
			&model.Task{},
			&model.Machine{},
			&model.User{},
			&model.Facility{},
			&model.Role{},
			&model.MachineType{},
			&model.MachineStatus{},
			&model.TaskType{},
			&model.TaskStatus{},
			&model.ReportType{},
			&model.ReportStatus{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.Facility{},
		&model.User{},
		&model.MachineType{},
		&model.MachineStatus{},
		&model.TaskType{},
		&model.TaskStatus{},
		&model.ReportType{},
		&model.ReportStatus{},
		&model.Machine{},
		&model.Task{},
		&model.TaskExecutor{},
		&model.Report{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	bus := events.NewBus(cacheClient)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	facilityRepo := repository.NewFacilityRepository(gormDB)
	machineRepo := repository.NewMachineRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)
	machineTypeRepo := repository.NewMachineTypeRepository(gormDB)
	machineStatusRepo := repository.NewMachineStatusRepository(gormDB)
	taskTypeRepo := repository.NewTaskTypeRepository(gormDB)
	taskStatusRepo := repository.NewTaskStatusRepository(gormDB)
	reportTypeRepo := repository.NewReportTypeRepository(gormDB)
	reportStatusRepo := repository.NewReportStatusRepository(gormDB)

	// Initialize auth components
	sessionTTL := time.Duration(cfg.JWTExpiresIn) * time.Minute
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.JWTPwlSecret, sessionTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, codec, mailer.NewLogMailer())
	userService := service.NewUserService(userRepo, roleRepo)
	roleService := service.NewRoleService(roleRepo)
	facilityService := service.NewFacilityService(facilityRepo, cacheClient)
	machineService := service.NewMachineService(machineRepo, cacheClient)
	taskService := service.NewTaskService(taskRepo, bus)
	reportService := service.NewReportService(reportRepo, bus)
	machineTypeService := service.NewMachineTypeService(machineTypeRepo)
	machineStatusService := service.NewMachineStatusService(machineStatusRepo)
	taskTypeService := service.NewTaskTypeService(taskTypeRepo)
	taskStatusService := service.NewTaskStatusService(taskStatusRepo)
	reportTypeService := service.NewReportTypeService(reportTypeRepo)
	reportStatusService := service.NewReportStatusService(reportStatusRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessionTTL)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	facilityHandler := handler.NewFacilityHandler(facilityService)
	machineHandler := handler.NewMachineHandler(machineService)
	taskHandler := handler.NewTaskHandler(taskService)
	reportHandler := handler.NewReportHandler(reportService)
	lookups := &handler.LookupSet{
		MachineTypes:    handler.NewLookupHandler(machineTypeService),
		MachineStatuses: handler.NewLookupHandler(machineStatusService),
		TaskTypes:       handler.NewLookupHandler(taskTypeService),
		TaskStatuses:    handler.NewLookupHandler(taskStatusService),
		ReportTypes:     handler.NewLookupHandler(reportTypeService),
		ReportStatuses:  handler.NewLookupHandler(reportStatusService),
	}
	channelHandler := handler.NewChannelHandler(bus)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		userHandler,
		roleHandler,
		facilityHandler,
		machineHandler,
		taskHandler,
		reportHandler,
		lookups,
		channelHandler,
	)

	log.Printf("swagger UI at http://localhost:%s/swagger/index.html", cfg.ServerPort)

	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
