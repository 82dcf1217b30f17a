package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/henningcullin/service-system/internal/config"
	"github.com/henningcullin/service-system/internal/handler"
	"github.com/henningcullin/service-system/internal/middleware"
	"github.com/henningcullin/service-system/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	users repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	facilityHandler *handler.FacilityHandler,
	machineHandler *handler.MachineHandler,
	taskHandler *handler.TaskHandler,
	reportHandler *handler.ReportHandler,
	lookups *handler.LookupSet,
	channelHandler *handler.ChannelHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderAccept, echo.HeaderContentType},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/login", authHandler.Initiate)
	api.POST("/login/password", authHandler.LoginPassword)
	api.POST("/login/otp", authHandler.LoginOTP)

	// Secured routes: session token first, then user resolution.
	secured := api.Group("", middleware.SessionJWT(cfg.JWTSecret), middleware.ResolveUser(users))

	secured.GET("/me", authHandler.Me)
	secured.GET("/logout", authHandler.Logout)

	// Users
	secured.GET("/user", userHandler.Details)
	secured.GET("/users", userHandler.Index)
	secured.POST("/user", userHandler.Create)
	secured.PUT("/user", userHandler.Update)
	secured.DELETE("/user", userHandler.Delete)

	// Roles
	secured.GET("/role", roleHandler.Details)
	secured.GET("/roles", roleHandler.Index)
	secured.POST("/role", roleHandler.Create)
	secured.PUT("/role", roleHandler.Update)
	secured.DELETE("/role", roleHandler.Delete)

	// Facilities
	secured.GET("/facility", facilityHandler.Details)
	secured.GET("/facilities", facilityHandler.Index)
	secured.POST("/facility", facilityHandler.Create)
	secured.PUT("/facility", facilityHandler.Update)
	secured.DELETE("/facility", facilityHandler.Delete)

	// Machines
	secured.GET("/machine", machineHandler.Details)
	secured.GET("/machines", machineHandler.Index)
	secured.POST("/machine", machineHandler.Create)
	secured.PUT("/machine", machineHandler.Update)
	secured.DELETE("/machine", machineHandler.Delete)

	// Machine vocabularies
	secured.GET("/machine_type", lookups.MachineTypes.Details)
	secured.GET("/machine_types", lookups.MachineTypes.Index)
	secured.POST("/machine_type", lookups.MachineTypes.Create)
	secured.PUT("/machine_type", lookups.MachineTypes.Update)
	secured.DELETE("/machine_type", lookups.MachineTypes.Delete)

	secured.GET("/machine_status", lookups.MachineStatuses.Details)
	secured.GET("/machine_statuses", lookups.MachineStatuses.Index)
	secured.POST("/machine_status", lookups.MachineStatuses.Create)
	secured.PUT("/machine_status", lookups.MachineStatuses.Update)
	secured.DELETE("/machine_status", lookups.MachineStatuses.Delete)

	// Tasks
	secured.GET("/task", taskHandler.Details)
	secured.GET("/tasks", taskHandler.Index)
	secured.POST("/task", taskHandler.Create)
	secured.PUT("/task", taskHandler.Update)
	secured.DELETE("/task", taskHandler.Delete)

	// Task executors
	secured.POST("/task_executor", taskHandler.AssignExecutor)
	secured.DELETE("/task_executor", taskHandler.RemoveExecutor)

	// Task vocabularies
	secured.GET("/task_type", lookups.TaskTypes.Details)
	secured.GET("/task_types", lookups.TaskTypes.Index)
	secured.POST("/task_type", lookups.TaskTypes.Create)
	secured.PUT("/task_type", lookups.TaskTypes.Update)
	secured.DELETE("/task_type", lookups.TaskTypes.Delete)

	secured.GET("/task_status", lookups.TaskStatuses.Details)
	secured.GET("/task_statuses", lookups.TaskStatuses.Index)
	secured.POST("/task_status", lookups.TaskStatuses.Create)
	secured.PUT("/task_status", lookups.TaskStatuses.Update)
	secured.DELETE("/task_status", lookups.TaskStatuses.Delete)

	// Reports
	secured.GET("/report", reportHandler.Details)
	secured.GET("/reports", reportHandler.Index)
	secured.POST("/report", reportHandler.Create)
	secured.PUT("/report", reportHandler.Update)
	secured.DELETE("/report", reportHandler.Delete)

	// Report vocabularies
	secured.GET("/report_type", lookups.ReportTypes.Details)
	secured.GET("/report_types", lookups.ReportTypes.Index)
	secured.POST("/report_type", lookups.ReportTypes.Create)
	secured.PUT("/report_type", lookups.ReportTypes.Update)
	secured.DELETE("/report_type", lookups.ReportTypes.Delete)

	secured.GET("/report_status", lookups.ReportStatuses.Details)
	secured.GET("/report_statuses", lookups.ReportStatuses.Index)
	secured.POST("/report_status", lookups.ReportStatuses.Create)
	secured.PUT("/report_status", lookups.ReportStatuses.Update)
	secured.DELETE("/report_status", lookups.ReportStatuses.Delete)

	// Live change channels
	secured.GET("/channel/tasks", channelHandler.Tasks)
	secured.GET("/channel/reports", channelHandler.Reports)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
