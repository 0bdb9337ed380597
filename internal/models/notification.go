package models

import "time"

// Виды push-уведомлений ноды, касающихся жизненного цикла заказов.
const (
	NotificationPayment           = "payment"
	NotificationOrder             = "order"
	NotificationOrderCancel       = "orderCancel"
	NotificationOrderConfirmation = "orderConfirmation"
	NotificationRefund            = "refund"
	NotificationOrderFulfillment  = "orderFulfillment"
	NotificationOrderCompletion   = "orderCompletion"
	NotificationDisputeOpen       = "disputeOpen"
	NotificationDisputeClose      = "disputeClose"
	NotificationDisputeUpdate     = "disputeUpdate"
)

// OrderNotificationKinds перечисляет виды уведомлений, обновляющих заказ.
var OrderNotificationKinds = map[string]bool{
	NotificationPayment:           true,
	NotificationOrder:             true,
	NotificationOrderCancel:       true,
	NotificationOrderConfirmation: true,
	NotificationRefund:            true,
	NotificationOrderFulfillment:  true,
	NotificationOrderCompletion:   true,
	NotificationDisputeOpen:       true,
	NotificationDisputeClose:      true,
	NotificationDisputeUpdate:     true,
}

// PushEnvelope — конверт push-сообщения ноды. Полезная нагрузка лежит под
// ключом notification, где ключ — вид уведомления.
type PushEnvelope struct {
	Notification map[string]OrderNotification `json:"notification"`
}

// OrderNotification — тело уведомления о заказе.
type OrderNotification struct {
	OrderID string `json:"orderId"`
}

// NotificationRow — сохранённое уведомление в локальном журнале шлюза.
type NotificationRow struct {
	ID        string    `db:"id" json:"id"`
	Kind      string    `db:"kind" json:"kind"`
	OrderID   string    `db:"order_id" json:"orderId"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
