package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"ComandaApp/app/grouping"
	"ComandaApp/app/models"
	"ComandaApp/app/ordering"
	"ComandaApp/app/pricing"

	"gorm.io/gorm"
)

// OrderCreator interface defines the contract for creating orders.
// This avoids importing the services package directly, breaking the
// import cycle.
type OrderCreator interface {
	CreateOrder(order *models.Order, items []models.LineItem) (*models.Order, error)
	UpdateOrderStatus(id uint, status models.OrderStatus) error
}

// RESTHandlers provides HTTP REST endpoints for the tablets and web clients
type RESTHandlers struct {
	db           *gorm.DB
	server       *Server
	orderService OrderCreator
}

// NewRESTHandlers creates a new REST handlers instance
func NewRESTHandlers(db *gorm.DB, server *Server, orderService OrderCreator) *RESTHandlers {
	return &RESTHandlers{
		db:           db,
		server:       server,
		orderService: orderService,
	}
}

// enableCORS sets the CORS headers shared by all endpoints
func enableCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeValidationError maps checkout validation failures to a structured
// 422 response the wizard can use to focus the offending step.
func writeValidationError(w http.ResponseWriter, err error) bool {
	var missing *ordering.MissingFieldError
	if errors.As(err, &missing) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      "missing_field",
			"item_index": missing.ItemIndex,
			"field":      missing.Field,
		})
		return true
	}

	var unconfigured *ordering.UnconfiguredAdditionError
	if errors.As(err, &unconfigured) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      "unconfigured_addition",
			"item_index": unconfigured.ItemIndex,
			"addition":   unconfigured.Addition,
		})
		return true
	}

	return false
}

// HandleGetCatalog returns the active menu catalog grouped by slot
func (h *RESTHandlers) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	enableCORS(w, "GET")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var options []models.CatalogOption
	if err := h.db.Where("is_active = ?", true).
		Order("slot, display_order, name").
		Find(&options).Error; err != nil {
		log.Printf("REST API: Error fetching catalog: %v", err)
		http.Error(w, "Error fetching catalog", http.StatusInternalServerError)
		return
	}

	response := make(map[models.OptionSlot][]models.CatalogOption)
	for _, option := range options {
		response[option.Slot] = append(response[option.Slot], option)
	}

	log.Printf("REST API: Returning %d catalog options", len(options))
	json.NewEncoder(w).Encode(response)
}

// OrderRequest represents an order submission from a tablet
type OrderRequest struct {
	Channel       string            `json:"channel"`
	TableNumber   string            `json:"table_number,omitempty"`
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Source        string            `json:"source"`
	EmployeeID    *uint             `json:"employee_id,omitempty"`
	Items         []models.LineItem `json:"items"`
}

// HandleOrders routes between GET and POST for /api/orders
func (h *RESTHandlers) HandleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET", "OPTIONS":
		h.HandleGetOrders(w, r)
	case "POST":
		h.HandleCreateOrder(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleGetOrders returns the active orders
func (h *RESTHandlers) HandleGetOrders(w http.ResponseWriter, r *http.Request) {
	enableCORS(w, "GET")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var orders []models.Order
	query := h.db.Preload("Items").Preload("Payments").Order("created_at")

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status IN ?", []models.OrderStatus{
			models.OrderStatusPending,
			models.OrderStatusPreparing,
			models.OrderStatusReady,
		})
	}

	if err := query.Find(&orders).Error; err != nil {
		log.Printf("REST API: Error fetching orders: %v", err)
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(orders)
}

// HandleCreateOrder creates a new order from a tablet
func (h *RESTHandlers) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	enableCORS(w, "POST")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Println("REST API: Creating order")

	var orderReq OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		log.Printf("REST API: Error decoding order: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order := &models.Order{
		Channel:       orderReq.Channel,
		TableNumber:   orderReq.TableNumber,
		CustomerName:  orderReq.CustomerName,
		CustomerPhone: orderReq.CustomerPhone,
		Notes:         orderReq.Notes,
		Source:        orderReq.Source,
		EmployeeID:    orderReq.EmployeeID,
	}

	created, err := h.orderService.CreateOrder(order, orderReq.Items)
	if err != nil {
		if writeValidationError(w, err) {
			return
		}
		log.Printf("REST API: Error creating order: %v", err)
		http.Error(w, "Error creating order", http.StatusInternalServerError)
		return
	}

	log.Printf("REST API: Order %s created", created.OrderNumber)
	writeJSON(w, http.StatusCreated, created)
}

// PreviewRequest asks for the grouped summary and WhatsApp text of a cart
// without submitting it
type PreviewRequest struct {
	Role  string            `json:"role,omitempty"`
	Items []models.LineItem `json:"items"`
}

// HandlePreviewOrder prices and groups a cart, returning the summary and
// the shareable order message
func (h *RESTHandlers) HandlePreviewOrder(w http.ResponseWriter, r *http.Request) {
	enableCORS(w, "POST")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx := pricing.Context{Role: pricing.RoleCustomer}
	if role := pricing.Role(req.Role); role == pricing.RoleStaff || role == pricing.RoleWaiter {
		ctx.Role = role
	}

	groups, err := grouping.GroupLineItems(req.Items)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   "invalid_items",
			"message": err.Error(),
		})
		return
	}

	summary := grouping.RenderGroupSummary(groups, ctx)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":   summary,
		"message":   grouping.BuildMessage(summary),
		"total":     summary.Total,
		"breakdown": summary.Breakdown,
	})
}

// HandleOrderByID handles GET and PATCH for /api/orders/{id}
func (h *RESTHandlers) HandleOrderByID(w http.ResponseWriter, r *http.Request) {
	enableCORS(w, "GET, PATCH")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	if idStr == "" || strings.Contains(idStr, "/") {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case "GET":
		var order models.Order
		if err := h.db.Preload("Items").Preload("Payments").
			First(&order, uint(id)).Error; err != nil {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(order)

	case "PATCH":
		var body struct {
			Status models.OrderStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := h.orderService.UpdateOrderStatus(uint(id), body.Status); err != nil {
			log.Printf("REST API: Error updating order %d: %v", id, err)
			http.Error(w, "Error updating order", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":     id,
			"status": body.Status,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
