package db

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Order statuses, in lifecycle order.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

var ErrOrderNotFound = errors.New("order not found")

// Order is a purchase placed with a vendor after comparing prices.
type Order struct {
	ID             uuid.UUID  `json:"id"`
	OrderNumber    string     `json:"order_number"`
	VendorName     string     `json:"vendor_name"`
	TotalAmount    float64    `json:"total_amount"`
	ShippingFee    float64    `json:"shipping_fee"`
	Status         string     `json:"status"`
	PaymentMethod  string     `json:"payment_method,omitempty"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	OrderDate      time.Time  `json:"order_date"`
	ActualDelivery *time.Time `json:"actual_delivery,omitempty"`
}

// OrderItem is one product line on an order.
type OrderItem struct {
	ProductName string  `json:"product_name"`
	ProductURL  string  `json:"product_url,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// OrderStats aggregates a user's orders by status.
type OrderStats struct {
	Total       int     `json:"total"`
	Pending     int     `json:"pending"`
	Confirmed   int     `json:"confirmed"`
	Shipped     int     `json:"shipped"`
	Delivered   int     `json:"delivered"`
	Cancelled   int     `json:"cancelled"`
	TotalAmount float64 `json:"total_amount"`
}

// ValidOrderStatus reports whether s is one of the known lifecycle states.
func ValidOrderStatus(s string) bool {
	switch strings.ToLower(s) {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// NewOrderNumber builds an "ORD" + 8 timestamp digits + 3 random digits
// identifier, unique enough for human-facing references.
func NewOrderNumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return fmt.Sprintf("ORD%s%03d", millis, rand.Intn(1000))
}

// OrderTotal sums item subtotals plus the shipping fee. Item subtotals are
// recomputed from quantity and unit price, never trusted from input.
func OrderTotal(items []OrderItem, shippingFee float64) float64 {
	total := shippingFee
	for _, item := range items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}

// SummarizeOrders counts orders per status and sums their amounts.
func SummarizeOrders(orders []Order) OrderStats {
	stats := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case OrderPending:
			stats.Pending++
		case OrderConfirmed:
			stats.Confirmed++
		case OrderShipped:
			stats.Shipped++
		case OrderDelivered:
			stats.Delivered++
		case OrderCancelled:
			stats.Cancelled++
		}
		stats.TotalAmount += o.TotalAmount
	}
	return stats
}

// CreateOrder inserts the order row and its items in one batch. The order
// starts pending; the returned order carries the generated id and number.
func (s *Sink) CreateOrder(ctx context.Context, vendorName string, items []OrderItem, shippingFee float64, paymentMethod, notes string) (*Order, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("database not configured")
	}
	if len(items) == 0 {
		return nil, errors.New("order needs at least one item")
	}

	order := &Order{
		ID:            uuid.New(),
		OrderNumber:   NewOrderNumber(time.Now()),
		VendorName:    vendorName,
		TotalAmount:   OrderTotal(items, shippingFee),
		ShippingFee:   shippingFee,
		Status:        OrderPending,
		PaymentMethod: paymentMethod,
		Notes:         notes,
		OrderDate:     time.Now(),
	}

	b := &pgx.Batch{}
	b.Queue(
		`INSERT INTO orders (id, order_number, vendor_name, total_amount, shipping_fee, status, payment_method, notes, order_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		order.ID, order.OrderNumber, order.VendorName, order.TotalAmount,
		order.ShippingFee, order.Status, order.PaymentMethod, order.Notes, order.OrderDate)
	for _, item := range items {
		b.Queue(
			`INSERT INTO order_items (order_id, product_name, product_url, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, item.ProductName, item.ProductURL, item.Quantity,
			item.UnitPrice, float64(item.Quantity)*item.UnitPrice)
	}

	br := s.pool.SendBatch(ctx, b)
	defer br.Close()
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
	}
	return order, nil
}

// ListOrders returns orders newest first, optionally narrowed by status
// and vendor name.
func (s *Sink) ListOrders(ctx context.Context, status, vendorName string) ([]Order, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("database not configured")
	}

	query := `SELECT id, order_number, vendor_name, total_amount, shipping_fee,
	                 status, payment_method, tracking_number, notes, order_date, actual_delivery
	          FROM orders WHERE 1=1`
	var args []any
	if status != "" {
		args = append(args, strings.ToLower(status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if vendorName != "" {
		args = append(args, vendorName)
		query += fmt.Sprintf(" AND vendor_name = $%d", len(args))
	}
	query += " ORDER BY order_date DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		var payment, tracking, notes *string
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.VendorName, &o.TotalAmount,
			&o.ShippingFee, &o.Status, &payment, &tracking, &notes,
			&o.OrderDate, &o.ActualDelivery); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if payment != nil {
			o.PaymentMethod = *payment
		}
		if tracking != nil {
			o.TrackingNumber = *tracking
		}
		if notes != nil {
			o.Notes = *notes
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// OrderItems returns the line items of one order.
func (s *Sink) OrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	if s == nil || s.pool == nil {
		return nil, errors.New("database not configured")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT product_name, COALESCE(product_url, ''), quantity, unit_price, subtotal
		 FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ProductName, &item.ProductURL, &item.Quantity,
			&item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateOrderStatus moves an order through its lifecycle. A delivered
// order gets its actual delivery timestamp set; a tracking number is
// attached when given.
func (s *Sink) UpdateOrderStatus(ctx context.Context, orderNumber, status, trackingNumber string) error {
	if s == nil || s.pool == nil {
		return errors.New("database not configured")
	}
	status = strings.ToLower(status)
	if !ValidOrderStatus(status) {
		return fmt.Errorf("unknown order status %q", status)
	}

	query := `UPDATE orders SET status = $2`
	args := []any{orderNumber, status}
	if trackingNumber != "" {
		args = append(args, trackingNumber)
		query += fmt.Sprintf(", tracking_number = $%d", len(args))
	}
	if status == OrderDelivered {
		query += ", actual_delivery = now()"
	}
	query += " WHERE order_number = $1"

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderNumber)
	}
	return nil
}

// DeleteOrder removes an order and, via the schema's cascade, its items.
func (s *Sink) DeleteOrder(ctx context.Context, orderNumber string) error {
	if s == nil || s.pool == nil {
		return errors.New("database not configured")
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE order_number = $1`, orderNumber)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderNumber)
	}
	return nil
}
