package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ComandaApp/app/models"
	"ComandaApp/app/security"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"gorm.io/gorm"
)

// SheetsService exports daily reports to a Google Sheets spreadsheet via a
// service account
type SheetsService struct {
	db         *gorm.DB
	reportsSvc *ReportsService
}

// NewSheetsService creates a new sheets service
func NewSheetsService(db *gorm.DB) *SheetsService {
	return &SheetsService{
		db:         db,
		reportsSvc: NewReportsService(),
	}
}

// GetConfig retrieves the Sheets configuration, creating a disabled
// default row on first use
func (s *SheetsService) GetConfig() (*models.SheetsConfig, error) {
	var cfg models.SheetsConfig
	result := s.db.First(&cfg)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			cfg = models.SheetsConfig{
				IsEnabled: false,
				SheetName: "Reportes",
				SyncTime:  "22:00",
			}
			if err := s.db.Create(&cfg).Error; err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to get config: %w", result.Error)
		}
	}

	return &cfg, nil
}

// SaveCredentials stores the service account key encrypted at rest
func (s *SheetsService) SaveCredentials(cfg *models.SheetsConfig, serviceAccountJSON string) error {
	encrypted, err := security.Encrypt(serviceAccountJSON)
	if err != nil {
		return fmt.Errorf("could not encrypt credentials: %w", err)
	}
	cfg.PrivateKey = encrypted
	return s.db.Save(cfg).Error
}

// SaveConfig saves the Sheets configuration
func (s *SheetsService) SaveConfig(cfg *models.SheetsConfig) error {
	if cfg.ID == 0 {
		return s.db.Create(cfg).Error
	}
	return s.db.Save(cfg).Error
}

// credentials decrypts the stored service account key
func (s *SheetsService) credentials(cfg *models.SheetsConfig) (string, error) {
	if cfg.PrivateKey == "" {
		return "", fmt.Errorf("no service account credentials configured")
	}
	key, err := security.Decrypt(cfg.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("could not decrypt credentials: %w", err)
	}
	return key, nil
}

// sheetsClient builds an authenticated Sheets API client
func (s *SheetsService) sheetsClient(ctx context.Context, cfg *models.SheetsConfig) (*sheets.Service, error) {
	key, err := s.credentials(cfg)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, []byte(key), sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// TestConnection tests the Google Sheets connection
func (s *SheetsService) TestConnection(cfg *models.SheetsConfig) error {
	if cfg.SpreadsheetID == "" {
		return fmt.Errorf("missing spreadsheet ID")
	}

	ctx := context.Background()
	srv, err := s.sheetsClient(ctx, cfg)
	if err != nil {
		return err
	}

	if _, err := srv.Spreadsheets.Get(cfg.SpreadsheetID).Do(); err != nil {
		return fmt.Errorf("unable to access spreadsheet: %w", err)
	}

	return nil
}

// findExistingRowIndex finds the row index for a specific date, returns -1
// if not found
func (s *SheetsService) findExistingRowIndex(srv *sheets.Service, cfg *models.SheetsConfig, fecha string) (int, error) {
	sheetRange := fmt.Sprintf("%s!A:A", cfg.SheetName)
	resp, err := srv.Spreadsheets.Values.Get(cfg.SpreadsheetID, sheetRange).Do()
	if err != nil {
		return -1, err
	}

	for i, row := range resp.Values {
		if len(row) > 0 {
			if dateStr, ok := row[0].(string); ok && dateStr == fecha {
				return i + 1, nil // sheets are 1-indexed
			}
		}
	}

	return -1, nil
}

// SendReport sends a daily report to Google Sheets, updating the day's
// row if it already exists
func (s *SheetsService) SendReport(cfg *models.SheetsConfig, report *DailyReport) error {
	if !cfg.IsEnabled {
		return fmt.Errorf("Google Sheets integration is disabled")
	}
	if cfg.SpreadsheetID == "" {
		return fmt.Errorf("missing spreadsheet ID")
	}

	ctx := context.Background()
	srv, err := s.sheetsClient(ctx, cfg)
	if err != nil {
		return err
	}

	if err := s.ensureHeaders(srv, cfg); err != nil {
		return fmt.Errorf("failed to ensure headers: %w", err)
	}

	pagosJSON, err := json.Marshal(report.Pagos)
	if err != nil {
		return fmt.Errorf("failed to marshal payments: %w", err)
	}

	row := []interface{}{
		report.Fecha,
		report.VentasTotales,
		report.NumeroOrdenes,
		report.Almuerzos,
		report.Desayunos,
		report.TicketPromedio,
		string(pagosJSON),
	}

	rowIndex, err := s.findExistingRowIndex(srv, cfg, report.Fecha)
	if err != nil {
		return fmt.Errorf("failed to check existing row: %w", err)
	}

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	if rowIndex > 0 {
		sheetRange := fmt.Sprintf("%s!A%d:G%d", cfg.SheetName, rowIndex, rowIndex)
		_, err = srv.Spreadsheets.Values.Update(cfg.SpreadsheetID, sheetRange, valueRange).
			ValueInputOption("USER_ENTERED").
			Do()
		if err != nil {
			return fmt.Errorf("unable to update data: %w", err)
		}
	} else {
		sheetRange := fmt.Sprintf("%s!A:G", cfg.SheetName)
		_, err = srv.Spreadsheets.Values.Append(cfg.SpreadsheetID, sheetRange, valueRange).
			ValueInputOption("USER_ENTERED").
			Do()
		if err != nil {
			return fmt.Errorf("unable to append data: %w", err)
		}
	}

	now := time.Now()
	cfg.LastSyncAt = &now
	cfg.LastSyncError = ""
	s.db.Save(cfg)

	return nil
}

// ensureHeaders ensures the spreadsheet has the correct headers
func (s *SheetsService) ensureHeaders(srv *sheets.Service, cfg *models.SheetsConfig) error {
	sheetRange := fmt.Sprintf("%s!A1:G1", cfg.SheetName)
	resp, err := srv.Spreadsheets.Values.Get(cfg.SpreadsheetID, sheetRange).Do()
	if err != nil {
		return err
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) < 7 {
		headers := []interface{}{
			"fecha",
			"ventas_totales",
			"ordenes",
			"almuerzos",
			"desayunos",
			"ticket_promedio",
			"pagos",
		}

		valueRange := &sheets.ValueRange{
			Values: [][]interface{}{headers},
		}

		_, err := srv.Spreadsheets.Values.Update(cfg.SpreadsheetID, sheetRange, valueRange).
			ValueInputOption("USER_ENTERED").
			Do()

		return err
	}

	return nil
}

// SyncNow generates today's report and sends it
func (s *SheetsService) SyncNow() error {
	cfg, err := s.GetConfig()
	if err != nil {
		return err
	}

	if !cfg.IsEnabled {
		return fmt.Errorf("Google Sheets integration is disabled")
	}

	report, err := s.reportsSvc.GenerateDailyReport(time.Now())
	if err != nil {
		s.recordSyncError(cfg, err)
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if err := s.SendReport(cfg, report); err != nil {
		s.recordSyncError(cfg, err)
		return fmt.Errorf("failed to send report: %w", err)
	}

	return nil
}

func (s *SheetsService) recordSyncError(cfg *models.SheetsConfig, syncErr error) {
	now := time.Now()
	cfg.LastSyncAt = &now
	cfg.LastSyncError = syncErr.Error()
	s.db.Save(cfg)
}
