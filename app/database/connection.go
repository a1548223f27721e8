package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"ComandaApp/app/config"
	"ComandaApp/app/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// buildDSN constructs the database connection string from environment variables
// Priority: DATABASE_URL > individual variables (DB_HOST, DB_PORT, etc.) > defaults
func buildDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		log.Printf("Using DATABASE_URL for database connection")
		return dsn
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "5432"
	}
	if user == "" {
		user = "postgres"
	}
	if password == "" {
		password = "postgres"
	}
	if dbname == "" {
		dbname = "comanda_db"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	log.Printf("Built database connection from individual variables: host=%s port=%s dbname=%s sslmode=%s",
		host, port, dbname, sslmode)

	return dsn
}

// buildDSNFromConfig builds DSN from AppConfig
func buildDSNFromConfig(cfg *config.AppConfig) string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.SSLMode,
	)

	log.Printf("Built database connection from config.json: host=%s port=%d dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Database, cfg.Database.SSLMode)

	return dsn
}

// Initialize sets up the database connection from environment variables
func Initialize() error {
	return InitializeWithConfig(nil)
}

// InitializeWithConfig sets up the database connection with optional AppConfig
func InitializeWithConfig(appConfig *config.AppConfig) error {
	var err error
	var dsn string

	if appConfig != nil {
		dsn = buildDSNFromConfig(appConfig)
	} else {
		dsn = buildDSN()
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	}

	db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := SeedInitialData(); err != nil {
		log.Printf("Warning: failed to seed initial data: %v", err)
	}

	return nil
}

// RunMigrations runs database migrations
func RunMigrations() error {
	err := db.AutoMigrate(
		// Catalog models
		&models.CatalogOption{},

		// Order models
		&models.Order{},
		&models.OrderItem{},
		&models.OrderPayment{},

		// Employee models
		&models.Employee{},

		// Config models
		&models.SheetsConfig{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	createIndexes()

	return nil
}

// createIndexes creates database indexes for better query performance
func createIndexes() {
	db.Exec("CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_order_payments_order_id ON order_payments(order_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_catalog_options_slot ON catalog_options(slot)")
}

// SeedInitialData seeds the catalog with the restaurant's standing menu
// structure. Only missing rows are created; the catalog stays fully
// editable afterwards.
func SeedInitialData() error {
	seed := []models.CatalogOption{
		// Soups. The no-soup markers are catalog rows too, so the wizard
		// can offer them like any other choice.
		{Slot: models.SlotSoup, Name: "Sancocho", DisplayOrder: 1, IsActive: true},
		{Slot: models.SlotSoup, Name: "Ajiaco", DisplayOrder: 2, IsActive: true},
		{Slot: models.SlotSoup, Name: "Sin sopa", DisplayOrder: 98, IsActive: true},
		{Slot: models.SlotSoup, Name: "Solo bandeja", DisplayOrder: 99, IsActive: true},
		{Slot: models.SlotSoup, Name: "Remplazo por Sopa", DisplayOrder: 97, IsActive: true},

		// Principles, including the self-contained combo rices.
		{Slot: models.SlotPrinciple, Name: "Frijoles", DisplayOrder: 1, IsActive: true},
		{Slot: models.SlotPrinciple, Name: "Lentejas", DisplayOrder: 2, IsActive: true},
		{Slot: models.SlotPrinciple, Name: "Arroz con pollo", DisplayOrder: 10, IsActive: true},
		{Slot: models.SlotPrinciple, Name: "Arroz paisa", DisplayOrder: 11, IsActive: true},
		{Slot: models.SlotPrinciple, Name: "Arroz tres carnes", DisplayOrder: 12, IsActive: true},
		{Slot: models.SlotPrinciple, Name: "Remplazo por Principio", DisplayOrder: 99, IsActive: true},

		// Proteins
		{Slot: models.SlotProtein, Name: "Carne asada", DisplayOrder: 1, IsActive: true},
		{Slot: models.SlotProtein, Name: "Pollo", DisplayOrder: 2, IsActive: true},
		{Slot: models.SlotProtein, Name: "Pechuga gratinada", DisplayOrder: 3, IsActive: true},
		{Slot: models.SlotProtein, Name: "Carne gratinada", DisplayOrder: 4, IsActive: true},

		// Breakfast types
		{Slot: models.SlotBreakfastType, Name: "Solo huevos", DisplayOrder: 1, IsActive: true},
		{Slot: models.SlotBreakfastType, Name: "Solo caldo", DisplayOrder: 2, IsActive: true},
		{Slot: models.SlotBreakfastType, Name: "Desayuno completo", DisplayOrder: 3, IsActive: true},
		{Slot: models.SlotBreakfastType, Name: "Moñona", DisplayOrder: 4, IsActive: true},

		// Broths
		{Slot: models.SlotBroth, Name: "Caldo de costilla", DisplayOrder: 1, IsActive: true},
		{Slot: models.SlotBroth, Name: "Caldo de pescado", DisplayOrder: 2, IsActive: true},
		{Slot: models.SlotBroth, Name: "Caldo de pata", DisplayOrder: 3, IsActive: true},
		{Slot: models.SlotBroth, Name: "Caldo de pajarilla", DisplayOrder: 4, IsActive: true},

		// Payment methods
		{Slot: models.SlotPayment, Name: "Efectivo", DisplayOrder: 1, IsActive: true},
		{Slot: models.SlotPayment, Name: "Nequi", DisplayOrder: 2, IsActive: true},
		{Slot: models.SlotPayment, Name: "Daviplata", DisplayOrder: 3, IsActive: true},

		// Additions that need a sub-selection before checkout
		{Slot: models.SlotAddition, Name: "Proteína adicional", Price: 5000, DisplayOrder: 1, IsActive: true},
		{Slot: models.SlotAddition, Name: "Sopa adicional", Price: 3000, DisplayOrder: 2, IsActive: true},
		{Slot: models.SlotAddition, Name: "Principio adicional", Price: 2000, DisplayOrder: 3, IsActive: true},
		{Slot: models.SlotAddition, Name: "Bebida adicional", Price: 2000, DisplayOrder: 4, IsActive: true},
	}

	for _, option := range seed {
		var count int64
		db.Model(&models.CatalogOption{}).
			Where("slot = ? AND name = ?", option.Slot, option.Name).
			Count(&count)
		if count == 0 {
			option.Kind = models.ClassifyOptionKind(option.Name)
			db.Create(&option)
		}
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction executes a function within a database transaction
func Transaction(fn func(*gorm.DB) error) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return db.Transaction(fn)
}
