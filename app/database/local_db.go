package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ComandaApp/app/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LocalDB manages the local SQLite database for offline operations
type LocalDB struct {
	db          *gorm.DB
	isConnected bool
	dbPath      string
}

var localDB *LocalDB

// InitializeLocalDB initializes the local SQLite database
func InitializeLocalDB(dbPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open SQLite connection (CGO-free driver)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})

	if err != nil {
		return fmt.Errorf("failed to connect to local database: %w", err)
	}

	localDB = &LocalDB{
		db:          db,
		isConnected: true,
		dbPath:      dbPath,
	}

	// Run migrations for local tables
	if err := localDB.runMigrations(); err != nil {
		return fmt.Errorf("failed to run local migrations: %w", err)
	}

	return nil
}

// GetLocalDB returns the local database instance
func GetLocalDB() *LocalDB {
	if localDB == nil {
		InitializeLocalDB("./data/local.db")
	}
	return localDB
}

// runMigrations creates necessary tables in local database
func (l *LocalDB) runMigrations() error {
	return l.db.AutoMigrate(
		// Queue table for orders taken while offline
		&LocalOrder{},

		// Cached catalog so the wizard keeps working without the main DB
		&LocalCatalogOption{},

		// Sync status
		&SyncStatus{},
		&SyncLog{},
	)
}

// LocalOrder represents a locally stored order awaiting sync
type LocalOrder struct {
	ID           uint      `gorm:"primaryKey"`
	OrderNumber  string    `gorm:"unique"`
	OrderData    string    `json:"order_data"` // JSON serialized order
	Status       string    `json:"status"`
	IsSynced     bool      `json:"is_synced"`
	SyncAttempts int       `json:"sync_attempts"`
	LastError    string    `json:"last_error"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LocalCatalogOption represents a cached catalog entry
type LocalCatalogOption struct {
	ID         uint      `gorm:"primaryKey"`
	OptionData string    `json:"option_data"`
	LastSynced time.Time `json:"last_synced"`
}

// SyncStatus tracks synchronization status
type SyncStatus struct {
	ID            uint       `gorm:"primaryKey"`
	LastSyncAt    *time.Time `json:"last_sync_at"`
	Status        string     `json:"status"` // "syncing", "completed", "failed"
	PendingOrders int        `json:"pending_orders"`
	LastError     string     `json:"last_error"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SyncLog tracks synchronization history
type SyncLog struct {
	ID         uint      `gorm:"primaryKey"`
	EntityType string    `json:"entity_type"` // "order", "catalog"
	EntityID   uint      `json:"entity_id"`
	Action     string    `json:"action"` // "create", "update", "delete"
	Status     string    `json:"status"` // "success", "failed"
	Error      string    `json:"error"`
	SyncedAt   time.Time `json:"synced_at"`
}

// SaveOrder saves an order locally
func (l *LocalDB) SaveOrder(order *models.Order) error {
	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	localOrder := LocalOrder{
		OrderNumber: order.OrderNumber,
		OrderData:   string(orderJSON),
		Status:      string(order.Status),
		IsSynced:    false,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	return l.db.Create(&localOrder).Error
}

// GetPendingOrders gets orders pending sync
func (l *LocalDB) GetPendingOrders() ([]LocalOrder, error) {
	var orders []LocalOrder
	err := l.db.Where("is_synced = ? AND sync_attempts < ?", false, 3).Find(&orders).Error
	return orders, err
}

// MarkOrderSynced marks an order as synced
func (l *LocalDB) MarkOrderSynced(orderNumber string) error {
	return l.db.Model(&LocalOrder{}).Where("order_number = ?", orderNumber).Update("is_synced", true).Error
}

// RecordSyncFailure bumps the attempt counter and stores the last error
func (l *LocalDB) RecordSyncFailure(orderNumber string, syncErr error) error {
	return l.db.Model(&LocalOrder{}).Where("order_number = ?", orderNumber).Updates(map[string]interface{}{
		"sync_attempts": gorm.Expr("sync_attempts + 1"),
		"last_error":    syncErr.Error(),
		"updated_at":    time.Now(),
	}).Error
}

// CacheCatalog replaces the cached catalog with the given options
func (l *LocalDB) CacheCatalog(options []models.CatalogOption) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&LocalCatalogOption{}).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, o := range options {
			data, err := json.Marshal(o)
			if err != nil {
				return err
			}
			row := LocalCatalogOption{
				ID:         o.ID,
				OptionData: string(data),
				LastSynced: now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CachedCatalog returns the last catalog snapshot saved locally
func (l *LocalDB) CachedCatalog() ([]models.CatalogOption, error) {
	var rows []LocalCatalogOption
	if err := l.db.Find(&rows).Error; err != nil {
		return nil, err
	}

	options := make([]models.CatalogOption, 0, len(rows))
	for _, row := range rows {
		var option models.CatalogOption
		if err := json.Unmarshal([]byte(row.OptionData), &option); err != nil {
			continue
		}
		options = append(options, option)
	}
	return options, nil
}

// UpdateSyncStatus updates sync status
func (l *LocalDB) UpdateSyncStatus(status string, lastError string) error {
	var syncStatus SyncStatus
	l.db.FirstOrCreate(&syncStatus)

	now := time.Now()
	syncStatus.LastSyncAt = &now
	syncStatus.Status = status
	syncStatus.LastError = lastError
	syncStatus.UpdatedAt = now

	var pendingOrders int64
	l.db.Model(&LocalOrder{}).Where("is_synced = ?", false).Count(&pendingOrders)
	syncStatus.PendingOrders = int(pendingOrders)

	return l.db.Save(&syncStatus).Error
}

// GetSyncStatus gets current sync status
func (l *LocalDB) GetSyncStatus() (*SyncStatus, error) {
	var status SyncStatus
	err := l.db.FirstOrCreate(&status).Error
	return &status, err
}

// LogSync logs a sync operation
func (l *LocalDB) LogSync(entityType string, entityID uint, action string, status string, syncError string) {
	entry := SyncLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Status:     status,
		Error:      syncError,
		SyncedAt:   time.Now(),
	}
	l.db.Create(&entry)
}

// ClearSyncedData removes synced data older than specified days
func (l *LocalDB) ClearSyncedData(daysOld int) error {
	cutoffDate := time.Now().AddDate(0, 0, -daysOld)

	if err := l.db.Where("is_synced = ? AND updated_at < ?", true, cutoffDate).Delete(&LocalOrder{}).Error; err != nil {
		return err
	}

	if err := l.db.Where("synced_at < ?", cutoffDate).Delete(&SyncLog{}).Error; err != nil {
		return err
	}

	return nil
}

// GetDB returns the underlying database connection
func (l *LocalDB) GetDB() *gorm.DB {
	return l.db
}

// Close closes the local database connection
func (l *LocalDB) Close() error {
	if l.db != nil {
		sqlDB, err := l.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// IsOfflineMode checks if system is in offline mode
func (l *LocalDB) IsOfflineMode() bool {
	mainDB := GetDB()
	if mainDB == nil {
		return true
	}

	// Try a simple query
	var count int64
	if err := mainDB.Model(&models.CatalogOption{}).Count(&count).Error; err != nil {
		return true
	}

	return false
}

// Transaction executes a function within a database transaction
func (l *LocalDB) Transaction(fn func(*gorm.DB) error) error {
	return l.db.Transaction(fn)
}
