package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"zapp/models"
)

// AcceptedOrderRepository appends acceptance audit rows. Rows are never updated.
type AcceptedOrderRepository struct {
	db *sql.DB
}

func NewAcceptedOrderRepository(db *sql.DB) *AcceptedOrderRepository {
	return &AcceptedOrderRepository{db: db}
}

// Create appends a row, assigning its id and acceptedAt when unset.
func (r *AcceptedOrderRepository) Create(ctx context.Context, a *models.AcceptedOrder) (*models.AcceptedOrder, error) {
	if a == nil {
		return nil, errors.New("accepted order is nil")
	}
	out := *a
	out.ID = uuid.NewString()
	if out.AcceptedAt.IsZero() {
		out.AcceptedAt = time.Now().UTC()
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `INSERT INTO accepted_orders (id, orderer_id, orderer_name, accepted_by, order_id, location, amount,
restaurant_name, accepted_at, zapper_phone, zapper_reg_no, read) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		out.ID, out.OrdererID, out.OrdererName, out.AcceptedBy, out.OrderID, out.Location, out.Amount,
		out.RestaurantName, out.AcceptedAt.UTC(), out.ZapperPhone, out.ZapperRegNo, out.Read)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByAcceptedBy returns the rows written by fulfiller uid, newest first.
func (r *AcceptedOrderRepository) ListByAcceptedBy(ctx context.Context, uid string) ([]models.AcceptedOrder, error) {
	return r.list(ctx, `WHERE accepted_by = ? ORDER BY accepted_at DESC`, uid)
}

// ListByOrderID returns every acceptance recorded for orderID, oldest first.
func (r *AcceptedOrderRepository) ListByOrderID(ctx context.Context, orderID string) ([]models.AcceptedOrder, error) {
	return r.list(ctx, `WHERE order_id = ? ORDER BY accepted_at ASC`, orderID)
}

func (r *AcceptedOrderRepository) list(ctx context.Context, where string, args ...any) ([]models.AcceptedOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, orderer_id, orderer_name, accepted_by, order_id, location, amount,
restaurant_name, accepted_at, zapper_phone, zapper_reg_no, read FROM accepted_orders `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.AcceptedOrder
	for rows.Next() {
		var a models.AcceptedOrder
		if err := rows.Scan(&a.ID, &a.OrdererID, &a.OrdererName, &a.AcceptedBy, &a.OrderID, &a.Location, &a.Amount,
			&a.RestaurantName, &a.AcceptedAt, &a.ZapperPhone, &a.ZapperRegNo, &a.Read); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
