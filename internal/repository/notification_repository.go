package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
)

// NotificationRepository хранит журнал полученных от ноды уведомлений.
type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Add(ctx context.Context, kind, orderID string) (*models.NotificationRow, error) {
	row := models.NotificationRow{
		ID:      uuid.New().String(),
		Kind:    kind,
		OrderID: orderID,
	}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO notifications (id, kind, order_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, row.ID, row.Kind, row.OrderID).Scan(&row.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *NotificationRepository) List(ctx context.Context, limit int) ([]models.NotificationRow, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.NotificationRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM notifications ORDER BY created_at DESC LIMIT $1
	`, limit)
	return rows, err
}

func (r *NotificationRepository) UnreadCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE NOT read`)
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	return err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE NOT read`)
	return err
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}
