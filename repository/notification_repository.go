package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"zapp/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create appends a notification. Nothing deduplicates repeated transitions.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if n == nil {
		return nil, errors.New("notification is nil")
	}
	if n.UserID == "" {
		return nil, errors.New("notification recipient is required")
	}
	out := *n
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now().UTC()
	out.Read = false
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `INSERT INTO notifications (id, user_id, type, message, order_id, accepted_order_id, created_at, read)
VALUES (?,?,?,?,?,?,?,0)`, out.ID, out.UserID, string(out.Type), out.Message, out.OrderID, out.AcceptedOrderID, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser returns notifications addressed to userID, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, type, message, order_id, accepted_order_id, created_at, read
FROM notifications WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var typ string
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Message, &n.OrderID, &n.AcceptedOrderID, &n.CreatedAt, &n.Read); err != nil {
			return nil, err
		}
		n.Type = models.NotificationType(typ)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags the notification as read. Only its recipient may do so; any
// other caller gets sql.ErrNoRows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
