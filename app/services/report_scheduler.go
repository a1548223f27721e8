package services

import (
	"log"
	"time"

	"ComandaApp/app/database"
)

// ReportScheduler fires the daily Google Sheets export at the configured
// time of day
type ReportScheduler struct {
	sheetsSvc *SheetsService
	stopChan  chan bool
	isRunning bool
}

// StartReportScheduler starts the daily export scheduler
func StartReportScheduler() *ReportScheduler {
	scheduler := &ReportScheduler{
		sheetsSvc: NewSheetsService(database.GetDB()),
		stopChan:  make(chan bool),
	}

	go scheduler.run()
	log.Println("Report scheduler started")
	return scheduler
}

// run checks once a minute whether the configured export time was reached
func (r *ReportScheduler) run() {
	r.isRunning = true
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var lastRunDay string

	for {
		select {
		case <-ticker.C:
			cfg, err := r.sheetsSvc.GetConfig()
			if err != nil || !cfg.IsEnabled || cfg.SyncTime == "" {
				continue
			}

			now := time.Now()
			today := now.Format("2006-01-02")
			if lastRunDay == today {
				continue
			}

			if now.Format("15:04") >= cfg.SyncTime {
				log.Printf("Report scheduler: running daily export (configured for %s)", cfg.SyncTime)
				if err := r.sheetsSvc.SyncNow(); err != nil {
					log.Printf("Report scheduler: export failed: %v", err)
				}
				lastRunDay = today
			}

		case <-r.stopChan:
			log.Println("Report scheduler stopped")
			r.isRunning = false
			return
		}
	}
}

// Stop stops the scheduler
func (r *ReportScheduler) Stop() {
	if r.isRunning {
		r.stopChan <- true
	}
}
