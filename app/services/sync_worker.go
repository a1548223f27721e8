package services

import (
	"encoding/json"
	"log"
	"time"

	"ComandaApp/app/database"
	"ComandaApp/app/models"

	"gorm.io/gorm"
)

// SyncWorker pushes orders queued in the local SQLite database to the
// main database once it is reachable again
type SyncWorker struct {
	mainDB       *gorm.DB
	localDB      *database.LocalDB
	isRunning    bool
	stopChan     chan bool
	syncInterval time.Duration
}

// StartSyncWorker initializes and starts the sync worker
func StartSyncWorker(interval time.Duration) *SyncWorker {
	worker := &SyncWorker{
		mainDB:       database.GetDB(),
		localDB:      database.GetLocalDB(),
		stopChan:     make(chan bool),
		syncInterval: interval,
	}

	if worker.syncInterval <= 0 {
		worker.syncInterval = 2 * time.Minute
	}

	// Ensure local DB is initialised to avoid nil dereference
	if worker.localDB == nil {
		if err := database.InitializeLocalDB("./data/local.db"); err != nil {
			log.Printf("Local DB init failed: %v. Sync worker will not start.", err)
			return nil
		}
		worker.localDB = database.GetLocalDB()
		if worker.localDB == nil {
			log.Println("Local DB is nil after initialisation. Sync worker will not start.")
			return nil
		}
	}

	go worker.run()

	log.Printf("Sync worker started with interval: %v", worker.syncInterval)
	return worker
}

// run is the main sync loop
func (worker *SyncWorker) run() {
	worker.isRunning = true
	ticker := time.NewTicker(worker.syncInterval)
	defer ticker.Stop()

	// Initial sync
	worker.performSync()

	for {
		select {
		case <-ticker.C:
			worker.performSync()
		case <-worker.stopChan:
			log.Println("Sync worker stopped")
			worker.isRunning = false
			return
		}
	}
}

// Stop stops the sync worker
func (worker *SyncWorker) Stop() {
	if worker.isRunning {
		worker.stopChan <- true
	}
}

// performSync pushes pending local orders to the main database
func (worker *SyncWorker) performSync() {
	startTime := time.Now()

	if worker.localDB == nil {
		log.Println("Local DB not initialised. Skipping sync.")
		return
	}

	// The main database being unreachable is the normal offline case
	if worker.localDB.IsOfflineMode() {
		worker.localDB.UpdateSyncStatus("offline", "main database unreachable")
		return
	}

	worker.localDB.UpdateSyncStatus("syncing", "")

	if err := worker.syncOrders(); err != nil {
		log.Printf("Error syncing orders: %v", err)
		worker.localDB.UpdateSyncStatus("failed", err.Error())
		return
	}

	// Clean old synced data
	worker.localDB.ClearSyncedData(7)

	worker.localDB.UpdateSyncStatus("completed", "")
	log.Printf("Synchronization completed in %v", time.Since(startTime))
}

// syncOrders syncs pending orders to the main database
func (worker *SyncWorker) syncOrders() error {
	pendingOrders, err := worker.localDB.GetPendingOrders()
	if err != nil {
		return err
	}

	if len(pendingOrders) == 0 {
		return nil
	}

	log.Printf("Found %d pending orders to sync", len(pendingOrders))

	for _, localOrder := range pendingOrders {
		var order models.Order
		if err := json.Unmarshal([]byte(localOrder.OrderData), &order); err != nil {
			log.Printf("Failed to unmarshal order %s: %v", localOrder.OrderNumber, err)
			worker.localDB.LogSync("order", localOrder.ID, "create", "failed", err.Error())
			continue
		}

		err := worker.mainDB.Transaction(func(tx *gorm.DB) error {
			// The order may have been synced by another device already
			var existingOrder models.Order
			if err := tx.Where("order_number = ?", order.OrderNumber).First(&existingOrder).Error; err == nil {
				order.ID = existingOrder.ID
				return tx.Save(&order).Error
			}

			order.ID = 0
			order.IsSynced = true
			return tx.Create(&order).Error
		})

		if err != nil {
			log.Printf("Failed to sync order %s: %v", localOrder.OrderNumber, err)
			worker.localDB.RecordSyncFailure(localOrder.OrderNumber, err)
			worker.localDB.LogSync("order", localOrder.ID, "create", "failed", err.Error())
			continue
		}

		if err := worker.localDB.MarkOrderSynced(localOrder.OrderNumber); err != nil {
			log.Printf("Failed to mark order %s as synced: %v", localOrder.OrderNumber, err)
			continue
		}

		worker.localDB.LogSync("order", localOrder.ID, "create", "success", "")
		log.Printf("✅ Order %s synced to main database", localOrder.OrderNumber)
	}

	return nil
}
