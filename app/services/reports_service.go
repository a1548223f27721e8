package services

import (
	"fmt"
	"time"

	"ComandaApp/app/database"
	"ComandaApp/app/grouping"
	"ComandaApp/app/models"

	"gorm.io/gorm"
)

// ReportsService aggregates daily sales figures from persisted orders
type ReportsService struct {
	db *gorm.DB
}

// NewReportsService creates a new reports service
func NewReportsService() *ReportsService {
	return &ReportsService{
		db: database.GetDB(),
	}
}

// closedStatuses are the order states that count as revenue
var closedStatuses = []models.OrderStatus{
	models.OrderStatusDelivered,
	models.OrderStatusPaid,
}

// DailyReport is one day of sales, the shape exported to the reports sheet
type DailyReport struct {
	Fecha          string         `json:"fecha"`
	VentasTotales  int            `json:"ventas_totales"`
	NumeroOrdenes  int            `json:"numero_ordenes"`
	Almuerzos      int            `json:"almuerzos"`
	Desayunos      int            `json:"desayunos"`
	TicketPromedio int            `json:"ticket_promedio"`
	Pagos          map[string]int `json:"pagos"` // normalized method -> amount
}

// GenerateDailyReport aggregates the closed orders of one day
func (s *ReportsService) GenerateDailyReport(date time.Time) (*DailyReport, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	report := &DailyReport{
		Fecha: date.Format("2006-01-02"),
		Pagos: make(map[string]int),
	}

	var orders []models.Order
	err := s.db.Preload("Items").Preload("Payments").
		Where("created_at >= ? AND created_at < ?", startOfDay, endOfDay).
		Where("status IN ?", closedStatuses).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	for _, order := range orders {
		report.NumeroOrdenes++
		report.VentasTotales += order.Total

		for _, item := range order.Items {
			switch item.Kind {
			case models.KindLunch:
				report.Almuerzos++
			case models.KindBreakfast:
				report.Desayunos++
			}
		}

		for _, payment := range order.Payments {
			report.Pagos[payment.Method] += payment.Amount
		}
	}

	if report.NumeroOrdenes > 0 {
		report.TicketPromedio = report.VentasTotales / report.NumeroOrdenes
	}

	return report, nil
}

// FormatReport renders a daily report as display text
func (s *ReportsService) FormatReport(report *DailyReport) string {
	text := fmt.Sprintf("Reporte %s\nVentas: %s\nÓrdenes: %d (almuerzos: %d, desayunos: %d)\nTicket promedio: %s\n",
		report.Fecha,
		grouping.FormatMoney(report.VentasTotales),
		report.NumeroOrdenes,
		report.Almuerzos,
		report.Desayunos,
		grouping.FormatMoney(report.TicketPromedio),
	)
	for method, amount := range report.Pagos {
		text += fmt.Sprintf("  %s: %s\n", method, grouping.FormatMoney(amount))
	}
	return text
}

// TopOptions returns the most sold catalog options of a day, decoded from
// the stored line item snapshots
func (s *ReportsService) TopOptions(date time.Time) (map[string]int, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var items []models.OrderItem
	err := s.db.Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", startOfDay, endOfDay).
		Where("orders.status IN ?", closedStatuses).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for i := range items {
		item, err := items[i].LineItem()
		if err != nil {
			continue
		}
		if item.Protein != nil {
			counts[item.Protein.Name]++
		}
		if item.Soup != nil && item.Soup.Kind == models.OptionRegular {
			counts[item.Soup.Name]++
		}
		for _, p := range item.Principles {
			counts[p.Name]++
		}
	}

	return counts, nil
}
