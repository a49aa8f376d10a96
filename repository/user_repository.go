package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"zapp/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates the profile or replaces its mutable fields. createdAt is kept
// from the first write.
func (r *UserRepository) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil || u.ID == "" {
		return nil, errors.New("user id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO users (id, name, email, phone, reg_no, created_at) VALUES (?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, phone = excluded.phone, reg_no = excluded.reg_no`,
		u.ID, u.Name, u.Email, u.Phone, u.RegNo, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, u.ID)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT id, name, email, phone, reg_no, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.RegNo, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
