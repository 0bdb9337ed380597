package models

// OrderAction — команда жизненного цикла заказа, исполняемая нодой.
type OrderAction string

const (
	ActionAccept         OrderAction = "accept"
	ActionReject         OrderAction = "reject"
	ActionCancel         OrderAction = "cancel"
	ActionFulfill        OrderAction = "fulfill"
	ActionRefund         OrderAction = "refund"
	ActionComplete       OrderAction = "complete"
	ActionOpenDispute    OrderAction = "openDispute"
	ActionResolveDispute OrderAction = "resolveDispute"
)

// ValidOrderActions перечисляет все поддерживаемые команды.
var ValidOrderActions = map[OrderAction]bool{
	ActionAccept:         true,
	ActionReject:         true,
	ActionCancel:         true,
	ActionFulfill:        true,
	ActionRefund:         true,
	ActionComplete:       true,
	ActionOpenDispute:    true,
	ActionResolveDispute: true,
}
