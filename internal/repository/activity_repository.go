package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

// ActivityRepository хранит локальный журнал действий над заказами.
type ActivityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Add(ctx context.Context, orderID string, action models.OrderAction, outcome, detail string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_activity (id, order_id, action, outcome, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), orderID, string(action), outcome, detail)
	return err
}

func (r *ActivityRepository) ListByOrder(ctx context.Context, orderID string) ([]models.ActivityRow, error) {
	var rows []models.ActivityRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM order_activity WHERE order_id = $1 ORDER BY created_at ASC
	`, orderID)
	return rows, err
}

func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]models.ActivityRow, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.ActivityRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM order_activity ORDER BY created_at DESC LIMIT $1
	`, limit)
	return rows, err
}
