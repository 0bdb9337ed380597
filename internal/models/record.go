package models

// RecordKind различает обычный заказ и модераторский кейс в OrderRecord.
type RecordKind string

const (
	RecordKindOrder RecordKind = "order"
	RecordKindCase  RecordKind = "case"
)

// OrderRecord — единое представление заказа либо кейса для слоёв,
// которым безразлично, кто смотрит на сделку. Заполнено ровно одно из
// полей Order/Case, согласно Kind.
type OrderRecord struct {
	Kind  RecordKind `json:"kind"`
	Order *Order     `json:"order,omitempty"`
	Case  *Case      `json:"case,omitempty"`
}

// NewOrderRecord оборачивает обычный заказ.
func NewOrderRecord(o *Order) *OrderRecord {
	return &OrderRecord{Kind: RecordKindOrder, Order: o}
}

// NewCaseRecord оборачивает модераторский кейс.
func NewCaseRecord(c *Case) *OrderRecord {
	return &OrderRecord{Kind: RecordKindCase, Case: c}
}

// IsCase сообщает, что запись — модераторский кейс.
func (r *OrderRecord) IsCase() bool {
	return r != nil && r.Kind == RecordKindCase
}

// ID возвращает идентификатор сделки независимо от вида записи.
func (r *OrderRecord) ID() string {
	switch {
	case r == nil:
		return ""
	case r.Kind == RecordKindCase && r.Case != nil:
		return r.Case.ID
	case r.Order != nil:
		return r.Order.ID
	}
	return ""
}

// State возвращает текущее состояние сделки.
func (r *OrderRecord) State() string {
	switch {
	case r == nil:
		return ""
	case r.Kind == RecordKindCase && r.Case != nil:
		return r.Case.State
	case r.Order != nil:
		return r.Order.State
	}
	return ""
}

// SetState записывает новое состояние в подлежащий документ.
func (r *OrderRecord) SetState(state string) {
	switch {
	case r == nil:
	case r.Kind == RecordKindCase && r.Case != nil:
		r.Case.State = state
	case r.Order != nil:
		r.Order.State = state
	}
}

// FeaturedContract возвращает контракт, по которому строится отображение:
// для заказа — его единственный контракт, для кейса — контракт открывшей
// спор стороны.
func (r *OrderRecord) FeaturedContract() *Contract {
	switch {
	case r == nil:
		return nil
	case r.Kind == RecordKindCase && r.Case != nil:
		return r.Case.FeaturedContract()
	case r.Order != nil:
		return r.Order.Contract
	}
	return nil
}

// HasDispute сообщает, встречался ли спор в жизни сделки. Для кейса это
// всегда так.
func (r *OrderRecord) HasDispute() bool {
	if r.IsCase() {
		return true
	}
	c := r.FeaturedContract()
	return c != nil && c.Dispute != nil
}

// DisputeClaim возвращает текст претензии открывшей спор стороны.
func (r *OrderRecord) DisputeClaim() string {
	switch {
	case r == nil:
		return ""
	case r.Kind == RecordKindCase && r.Case != nil:
		return r.Case.Claim
	}
	if c := r.FeaturedContract(); c != nil && c.Dispute != nil {
		return c.Dispute.Claim
	}
	return ""
}

// DisputeResolution возвращает решение модератора, если оно вынесено.
func (r *OrderRecord) DisputeResolution() *DisputeResolution {
	switch {
	case r == nil:
		return nil
	case r.Kind == RecordKindCase && r.Case != nil:
		if r.Case.Resolution != nil {
			return r.Case.Resolution
		}
	}
	if c := r.FeaturedContract(); c != nil {
		return c.DisputeResolution
	}
	return nil
}
