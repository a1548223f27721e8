package services

import (
	"fmt"
	"log"
	"time"

	"ComandaApp/app/database"
	"ComandaApp/app/models"
	"ComandaApp/app/ordering"
	"ComandaApp/app/pricing"
	"ComandaApp/app/websocket"

	"gorm.io/gorm"
)

// OrderService handles order intake and lifecycle
type OrderService struct {
	db          *gorm.DB
	localDB     *database.LocalDB
	employeeSvc *EmployeeService
	wsServer    *websocket.Server
	validation  ordering.Config
}

// NewOrderService creates a new order service
func NewOrderService() *OrderService {
	return &OrderService{
		db:          database.GetDB(),
		localDB:     database.GetLocalDB(),
		employeeSvc: NewEmployeeService(),
		wsServer:    nil, // Will be set later
		validation:  ordering.DefaultConfig(),
	}
}

// SetWebSocketServer sets the WebSocket server instance
func (s *OrderService) SetWebSocketServer(server *websocket.Server) {
	log.Printf("OrderService: Setting WebSocket server (server=%v)", server != nil)
	s.wsServer = server
}

// pricingContext derives the price rules from who is ordering. Staff and
// waiter accounts pay the gratinated protein surcharge; customer channels
// never see it.
func (s *OrderService) pricingContext(employeeID *uint) pricing.Context {
	if employeeID == nil || *employeeID == 0 {
		return pricing.Context{Role: pricing.RoleCustomer}
	}

	employee, err := s.employeeSvc.GetEmployee(*employeeID)
	if err != nil {
		return pricing.Context{Role: pricing.RoleCustomer}
	}

	if employee.Role == "waiter" {
		return pricing.Context{Role: pricing.RoleWaiter}
	}
	if employee.IsStaff() {
		return pricing.Context{Role: pricing.RoleStaff}
	}
	return pricing.Context{Role: pricing.RoleCustomer}
}

// CreateOrder validates, prices and persists a set of line items as a new
// order. The items are snapshotted as JSON so later catalog edits never
// change what was sold.
func (s *OrderService) CreateOrder(order *models.Order, items []models.LineItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order has no items")
	}

	// Checkout validation is the only blocking gate; pricing below is total
	if err := ordering.ValidateOrder(items, s.validation); err != nil {
		return nil, err
	}

	ctx := s.pricingContext(order.EmployeeID)
	totals := pricing.PriceOrder(items, ctx)

	order.OrderNumber = s.generateOrderNumber()
	order.Status = models.OrderStatusPending
	order.IsSynced = false
	order.Total = totals.Total

	order.Items = order.Items[:0]
	for i := range items {
		price := pricing.PriceLineItem(&items[i], ctx)
		snapshot, err := models.NewOrderItem(&items[i], price)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot item %d: %w", i+1, err)
		}
		order.Items = append(order.Items, snapshot)
	}

	order.Payments = order.Payments[:0]
	for method, amount := range totals.Breakdown {
		order.Payments = append(order.Payments, models.OrderPayment{Method: method, Amount: amount})
	}

	// Check if online or offline
	if s.localDB.IsOfflineMode() {
		if err := s.localDB.SaveOrder(order); err != nil {
			return nil, err
		}
		log.Printf("📴 Order %s queued locally (offline mode)", order.OrderNumber)
		return order, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		log.Printf("✅ Order created: %s (ID: %d, total: %d)", order.OrderNumber, order.ID, order.Total)
		return nil
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := s.GetOrder(order.ID)
	if err != nil {
		return nil, err
	}

	s.notifyOrder(websocket.TypeOrderNew, reloaded)

	return reloaded, nil
}

// GetOrder gets an order with its items and payments
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Payments").Preload("Employee").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber gets an order by its order number
func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Payments").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetActiveOrders gets all orders that are not yet delivered or cancelled
func (s *OrderService) GetActiveOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Preload("Payments").
		Where("status IN ?", []models.OrderStatus{
			models.OrderStatusPending,
			models.OrderStatusPreparing,
			models.OrderStatusReady,
		}).
		Order("created_at").
		Find(&orders).Error
	return orders, err
}

// GetOrdersByDate gets all orders created on the given day
func (s *OrderService) GetOrdersByDate(date time.Time) ([]models.Order, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)

	var orders []models.Order
	err := s.db.Preload("Items").Preload("Payments").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at").
		Find(&orders).Error
	return orders, err
}

// UpdateOrderStatus moves an order through its lifecycle
func (s *OrderService) UpdateOrderStatus(id uint, status models.OrderStatus) error {
	result := s.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("order %d not found", id)
	}

	order, err := s.GetOrder(id)
	if err == nil {
		msgType := websocket.TypeOrderUpdate
		if status == models.OrderStatusReady {
			msgType = websocket.TypeOrderReady
		}
		s.notifyOrder(msgType, order)
	}

	return nil
}

// CancelOrder cancels a pending order
func (s *OrderService) CancelOrder(id uint) error {
	order, err := s.GetOrder(id)
	if err != nil {
		return err
	}
	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusPaid {
		return fmt.Errorf("order %s is already closed", order.OrderNumber)
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", id).
		Update("status", models.OrderStatusCancelled).Error; err != nil {
		return err
	}

	order.Status = models.OrderStatusCancelled
	s.notifyOrder(websocket.TypeOrderCancelled, order)
	return nil
}

// LineItems decodes the stored snapshots of an order back into line items
func (s *OrderService) LineItems(order *models.Order) ([]models.LineItem, error) {
	items := make([]models.LineItem, 0, len(order.Items))
	for i := range order.Items {
		item, err := order.Items[i].LineItem()
		if err != nil {
			return nil, fmt.Errorf("order %s item %d: %w", order.OrderNumber, i+1, err)
		}
		items = append(items, *item)
	}
	return items, nil
}

// generateOrderNumber generates a unique order number scoped to the day
func (s *OrderService) generateOrderNumber() string {
	today := time.Now().Format("20060102")

	var count int64
	start := time.Now().Truncate(24 * time.Hour)
	if s.db != nil {
		s.db.Model(&models.Order{}).Where("created_at >= ?", start).Count(&count)
	}

	return fmt.Sprintf("ORD-%s-%04d", today, count+1)
}

// notifyOrder broadcasts an order event to connected clients
func (s *OrderService) notifyOrder(msgType websocket.MessageType, order *models.Order) {
	if s.wsServer == nil {
		return
	}
	s.wsServer.SendOrderEvent(msgType, order)
}
