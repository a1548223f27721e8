package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusPaid      OrderStatus = "paid"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s *OrderStatus) Scan(value interface{}) error {
	*s = OrderStatus(value.(string))
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Order is a submitted customer order: a set of line item snapshots plus
// the totals computed at submission time.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"unique;not null" json:"order_number"`
	Status      OrderStatus `gorm:"index" json:"status"`
	Channel     string      `json:"channel"` // "table", "takeaway"
	TableNumber string      `json:"table_number,omitempty"`
	// Delivery information (optional, for delivery orders)
	CustomerName  string         `json:"customer_name,omitempty"`
	CustomerPhone string         `json:"customer_phone,omitempty"`
	Items         []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	Total         int            `json:"total"`
	Payments      []OrderPayment `gorm:"foreignKey:OrderID" json:"payments"`
	Notes         string         `json:"notes"`
	EmployeeID    *uint          `gorm:"index" json:"employee_id,omitempty"`
	Employee      *Employee      `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Source        string         `json:"source"` // "pos", "waiter_app", "web"
	IsSynced      bool           `gorm:"default:false" json:"is_synced"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// OrderItem stores one line item snapshot. The snapshot JSON is persisted
// verbatim; editing an order later re-resolves option ids against the
// current catalog instead of mutating the stored data.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"index" json:"order_id"`
	Order     *Order    `gorm:"foreignKey:OrderID" json:"-"`
	Kind      MealKind  `json:"kind"`
	ItemData  string    `gorm:"type:text" json:"item_data"` // JSON serialized LineItem
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// LineItem decodes the stored snapshot.
func (oi *OrderItem) LineItem() (*LineItem, error) {
	var item LineItem
	if err := json.Unmarshal([]byte(oi.ItemData), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// NewOrderItem snapshots a line item for storage.
func NewOrderItem(item *LineItem, price int) (OrderItem, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return OrderItem{}, err
	}
	return OrderItem{
		Kind:     item.Kind,
		ItemData: string(data),
		Price:    price,
	}, nil
}

// OrderPayment is one row of the order's payment breakdown, keyed by the
// normalized payment method name.
type OrderPayment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID uint   `gorm:"index" json:"order_id"`
	Method  string `json:"method"`
	Amount  int    `json:"amount"`
}

// SheetsConfig holds the Google Sheets report export settings.
type SheetsConfig struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	IsEnabled     bool       `json:"is_enabled"`
	SpreadsheetID string     `json:"spreadsheet_id"`
	SheetName     string     `json:"sheet_name"`
	PrivateKey    string     `json:"-"`         // service account JSON, encrypted at rest
	SyncTime      string     `json:"sync_time"` // "HH:MM" daily export
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	LastSyncError string     `json:"last_sync_error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
