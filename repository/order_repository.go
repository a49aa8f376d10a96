package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zapp/models"
)

const orderColumns = `id, items, total, location, restaurant_id, restaurant_name, email, user_id, status,
accepted_by, zapper_phone, zapper_reg_no, order_date, accepted_at, delivered_at, updated_at`

// OrderRepository stores orders as rows with the item list kept as a JSON column.
type OrderRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new order. The store assigns id, orderDate and updatedAt.
// Status is written as given; an empty status is kept empty.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o == nil {
		return nil, errors.New("order is nil")
	}
	items, err := json.Marshal(itemsOrEmpty(o.Items))
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	id := uuid.NewString()
	now := r.now()
	_, err = r.db.ExecContext(ctx, `INSERT INTO orders (id, items, total, location, restaurant_id, restaurant_name, email, user_id, status,
accepted_by, zapper_phone, zapper_reg_no, order_date, updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, string(items), o.Total, o.Location, o.RestaurantID, o.RestaurantName, o.Email, o.UserID, string(o.Status),
		o.AcceptedBy, o.ZapperPhone, o.ZapperRegNo, now, now)
	if err != nil {
		return nil, err
	}
	o2, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o2 == nil {
		return nil, fmt.Errorf("created order not found: id=%s", id)
	}
	return o2, nil
}

// GetByID fetches an order by its ID. It returns nil, nil when absent.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// ListAll returns every order without pagination.
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders`)
}

// ListByUserID returns the orders placed by userID.
func (r *OrderRepository) ListByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = ?`, userID)
}

// ListByAcceptedBy returns the orders whose acceptedBy equals uid.
func (r *OrderRepository) ListByAcceptedBy(ctx context.Context, uid string) ([]models.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE accepted_by = ?`, uid)
}

// UpdateClaim writes the acceptance fields and sets status to accepted in a single
// statement. It does not look at the current status: a later claim overwrites an earlier one.
func (r *OrderRepository) UpdateClaim(ctx context.Context, id string, f models.ClaimFields) (*models.Order, error) {
	return r.update(ctx, id, `UPDATE orders SET status = ?, accepted_by = ?, accepted_at = ?, zapper_phone = ?, zapper_reg_no = ?, updated_at = ? WHERE id = ?`,
		string(models.OrderStatusAccepted), f.AcceptedBy, f.AcceptedAt.UTC(), f.ZapperPhone, f.ZapperRegNo, r.now(), id)
}

// MarkDelivered sets status to delivered and stamps deliveredAt.
func (r *OrderRepository) MarkDelivered(ctx context.Context, id string, at time.Time) (*models.Order, error) {
	return r.update(ctx, id, `UPDATE orders SET status = ?, delivered_at = ?, updated_at = ? WHERE id = ?`,
		string(models.OrderStatusDelivered), at.UTC(), r.now(), id)
}

// UpdateStatus updates only the status of an order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	return r.update(ctx, id, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, string(status), r.now(), id)
}

// update runs a single-row write and returns the stored snapshot. A missing row
// yields sql.ErrNoRows.
func (r *OrderRepository) update(ctx context.Context, id, query string, args ...any) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, sql.ErrNoRows
	}
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, sql.ErrNoRows
	}
	return o, nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (*models.Order, error) {
	var o models.Order
	var items, status string
	var orderDate, acceptedAt, deliveredAt sql.NullTime
	if err := s.Scan(&o.ID, &items, &o.Total, &o.Location, &o.RestaurantID, &o.RestaurantName, &o.Email, &o.UserID, &status,
		&o.AcceptedBy, &o.ZapperPhone, &o.ZapperRegNo, &orderDate, &acceptedAt, &deliveredAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	if items != "" {
		if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
			return nil, fmt.Errorf("decode items for order %s: %w", o.ID, err)
		}
	}
	o.OrderDate = timePtr(orderDate)
	o.AcceptedAt = timePtr(acceptedAt)
	o.DeliveredAt = timePtr(deliveredAt)
	return &o, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func itemsOrEmpty(items []models.OrderItem) []models.OrderItem {
	if items == nil {
		return []models.OrderItem{}
	}
	return items
}
