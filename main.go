package main

import (
	"os"
	"os/signal"
	"syscall"

	"ComandaApp/app/config"
	"ComandaApp/app/database"
	"ComandaApp/app/services"
	"ComandaApp/app/websocket"

	"github.com/joho/godotenv"
)

// App holds the wired services of the order server
type App struct {
	LoggerService   *services.LoggerService
	CatalogService  *services.CatalogService
	OrderService    *services.OrderService
	EmployeeService *services.EmployeeService
	ReportsService  *services.ReportsService
	SheetsService   *services.SheetsService
	WhatsAppService *services.WhatsAppService
	WSServer        *websocket.Server
	SyncWorker      *services.SyncWorker
	ReportScheduler *services.ReportScheduler
}

func main() {
	// Initialize logger FIRST to catch all errors
	loggerService := services.NewLoggerService()
	defer loggerService.Close()

	defer func() {
		if r := recover(); r != nil {
			loggerService.LogPanic(r)
			os.Exit(1)
		}
	}()

	loggerService.LogInfo("Application starting", "Comanda order server")

	// Load environment variables from .env file in project root (for development)
	if err := godotenv.Load(".env"); err != nil {
		loggerService.LogWarning(".env file not found, will use config.json if available")
	}

	// Load configuration, creating the default on first run
	cfg, err := loadConfig(loggerService)
	if err != nil {
		loggerService.LogFatal("Could not load or create configuration", err)
	}

	// Connect the main database. DATABASE_URL and DB_* env vars take
	// precedence over config.json for containerised deployments.
	if os.Getenv("DATABASE_URL") != "" || os.Getenv("DB_HOST") != "" {
		err = database.Initialize()
	} else {
		err = database.InitializeWithConfig(cfg)
	}
	if err != nil {
		loggerService.LogFatal("Failed to initialize database", err)
	}

	// Local SQLite store for offline order intake
	localPath := "./data/local.db"
	if cfg.System.DataPath != "" {
		localPath = cfg.System.DataPath + "/local.db"
	}
	if err := database.InitializeLocalDB(localPath); err != nil {
		loggerService.LogWarning("Local database unavailable, offline mode disabled", err.Error())
	}

	app := &App{
		LoggerService:   loggerService,
		CatalogService:  services.NewCatalogService(),
		OrderService:    services.NewOrderService(),
		EmployeeService: services.NewEmployeeService(),
		ReportsService:  services.NewReportsService(),
		SheetsService:   services.NewSheetsService(database.GetDB()),
		WhatsAppService: services.NewWhatsAppService(cfg),
	}

	// WebSocket + REST server for the tablets
	wsPort := os.Getenv("WS_PORT")
	if wsPort == "" {
		wsPort = cfg.System.ServerPort
	}
	if wsPort == "" {
		wsPort = "8080"
	}
	loggerService.LogInfo("Starting WebSocket server", "Port: "+wsPort)
	app.WSServer = websocket.NewServer(":" + wsPort)
	app.WSServer.SetDB(database.GetDB())
	app.WSServer.SetOrderService(app.OrderService)
	app.OrderService.SetWebSocketServer(app.WSServer)

	go func() {
		defer loggerService.RecoverPanic()
		if err := app.WSServer.Start(); err != nil {
			loggerService.LogError("WebSocket server error", err)
		}
	}()

	// Background workers
	app.SyncWorker = services.StartSyncWorker(0)
	app.ReportScheduler = services.StartReportScheduler()

	loggerService.LogInfo("Startup complete")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdown(app)
}

// loadConfig loads config.json, creating the default file on first run
func loadConfig(logger *services.LoggerService) (*config.AppConfig, error) {
	exists, err := config.ConfigExists()
	if err != nil {
		return nil, err
	}

	if !exists {
		logger.LogInfo("First run detected, creating default configuration")
		return config.CreateDefaultConfig()
	}

	return config.LoadConfig()
}

// shutdown stops the workers and closes the databases
func shutdown(app *App) {
	app.LoggerService.LogInfo("Application closing")

	// Send final report to Google Sheets if enabled
	if err := app.SheetsService.SyncNow(); err != nil {
		app.LoggerService.LogWarning("Final report export skipped", err.Error())
	}

	if app.ReportScheduler != nil {
		app.ReportScheduler.Stop()
	}
	if app.SyncWorker != nil {
		app.SyncWorker.Stop()
	}
	if app.WSServer != nil {
		app.WSServer.Stop()
	}

	if err := database.Close(); err != nil {
		app.LoggerService.LogError("Error closing database", err)
	}
	if local := database.GetLocalDB(); local != nil {
		local.Close()
	}

	app.LoggerService.LogInfo("Application shutdown complete")
}
