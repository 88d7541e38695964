package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/employee_training_dashboard/internal/config"
	"github.com/locvowork/employee_training_dashboard/internal/domain"
	"github.com/locvowork/employee_training_dashboard/internal/handler"
	"github.com/locvowork/employee_training_dashboard/internal/logger"
	"github.com/locvowork/employee_training_dashboard/internal/repository"
	"github.com/locvowork/employee_training_dashboard/internal/service"
)

// Services are the application services shared by the HTTP server and the
// command line.
type Services struct {
	Employees       domain.EmployeeRepository
	EmployeeModules domain.EmployeeTrainingModuleRepository
	Search          *service.SearchService
	Save            *service.SaveService
	Modules         *service.ModuleStatusService
	Performance     *service.PerformanceService
	Export          *service.ExportService
	Import          *service.ImportService
	Catalog         domain.TrainingModuleRepository
}

type App struct {
	Echo     *echo.Echo
	Client   *repository.Client
	Services *Services
	// Modules is the catalog shown by the dashboard.
	Modules []domain.TrainingModule
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	client, err := repository.NewClient(repository.ClientConfig{
		BaseURL:        cfg.BACKEND_BASE_URL,
		SearchPath:     cfg.BACKEND_SEARCH_PATH,
		Timeout:        cfg.REQUEST_TIMEOUT,
		CSRFCookieName: cfg.CSRF_COOKIE_NAME,
		CSRFToken:      cfg.CSRF_TOKEN,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize backend client: %w", err)
	}
	a.Client = client

	modules, err := domain.LoadTrainingModules(cfg.MODULE_CATALOG_PATH)
	if err != nil {
		return fmt.Errorf("failed to load module catalog: %w", err)
	}
	a.Modules = modules
	a.Services = NewServices(client, time.Now, cfg.IMPORT_WORKERS)
	logger.InfoLog(ctx, "Backend client ready for %s", cfg.BACKEND_BASE_URL)

	empHandler := handler.NewEmployeeHandler(
		a.Services.Search,
		a.Services.Save,
		a.Services.Modules,
		a.Services.Export,
		a.Services.Import,
		a.Modules,
		time.Now,
	)
	perfHandler := handler.NewPerformanceHandler(a.Services.Search, a.Services.Performance)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(empHandler, perfHandler)

	return nil
}

// NewServices wires the repositories and services on top of client.
func NewServices(client *repository.Client, now func() time.Time, importWorkers int) *Services {
	employees := repository.NewEmployeeRepository(client)
	employeeModules := repository.NewEmployeeTrainingModuleRepository(client)
	search := service.NewSearchService(employees)
	save := service.NewSaveService(
		employees,
		repository.NewTrainingRecordRepository(client),
		repository.NewOJTRecordRepository(client),
		repository.NewDexterityAssessmentRepository(client),
		search,
	)
	return &Services{
		Employees:       employees,
		EmployeeModules: employeeModules,
		Search:          search,
		Save:            save,
		Modules:         service.NewModuleStatusService(employees, employeeModules, search, now),
		Performance:     service.NewPerformanceService(employees, repository.NewPerformanceRecordRepository(client), search),
		Export:          service.NewExportService(employees),
		Import:          service.NewImportService(employees, save, search, now, importWorkers),
		Catalog:         repository.NewTrainingModuleRepository(client),
	}
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(middleware.BodyLimit("16M"))
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler, perfHandler *handler.PerformanceHandler) {
	RegisterRoutes(a.Echo, empHandler, perfHandler)
}

// RegisterRoutes mounts the dashboard API on e.
func RegisterRoutes(e *echo.Echo, empHandler *handler.EmployeeHandler, perfHandler *handler.PerformanceHandler) {
	api := e.Group("/api")
	api.GET("/modules", empHandler.ModulesHandler)
	api.GET("/view", empHandler.ViewHandler)

	api.POST("/employees", empHandler.CreateHandler)
	api.POST("/employees/import", empHandler.ImportHandler)
	api.GET("/employees/:emp_no", empHandler.LookupHandler)
	api.PATCH("/employees/:emp_no", empHandler.UpdateHandler)
	api.POST("/employees/:emp_no/modules/:module_id/:action", empHandler.ModuleStatusHandler)
	api.PUT("/employees/:emp_no/modules/:module_id", empHandler.ModuleRowHandler)
	api.DELETE("/employees/:emp_no/modules/:module_id", empHandler.ModuleResetHandler)
	api.GET("/employees/:emp_no/export", empHandler.ExportHandler)

	api.GET("/employees/:emp_no/performance", perfHandler.GridHandler)
	api.PUT("/employees/:emp_no/performance/:day", perfHandler.RecordHandler)
	api.DELETE("/employees/:emp_no/performance/:day", perfHandler.DeleteHandler)
	api.POST("/employees/:emp_no/performance/:day/:action", perfHandler.SignOffHandler)
}

func (a *App) Run() error {
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
