package models

import "time"

// ActivityRow — запись локального журнала действий над заказами.
// Журнал ведёт сам шлюз: нода о нём не знает.
type ActivityRow struct {
	ID        string    `db:"id" json:"id"`
	OrderID   string    `db:"order_id" json:"orderId"`
	Action    string    `db:"action" json:"action"`
	Outcome   string    `db:"outcome" json:"outcome"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Исходы действий в журнале активности.
const (
	OutcomeStarted   = "started"
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)
