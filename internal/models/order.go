package models

import (
	"time"
)

// Order описывает одну покупку, отслеживаемую от оплаты до завершения.
// Заказ создаётся нодой; шлюз его только читает и применяет оптимистичные
// локальные изменения до авторитетной перезагрузки.
type Order struct {
	ID                         string        `json:"id"`
	State                      string        `json:"state"`
	Read                       bool          `json:"read"`
	Timestamp                  time.Time     `json:"timestamp"`
	Contract                   *Contract     `json:"contract"`
	PaymentAddressTransactions []Transaction `json:"paymentAddressTransactions"`
	RefundAddressTransaction   *Transaction  `json:"refundAddressTransaction,omitempty"`
}

// Transaction описывает платёж, связанный с адресом оплаты заказа.
// Отрицательное значение — движение средств от покупателя к продавцу.
type Transaction struct {
	Txid          string    `json:"txid"`
	Value         float64   `json:"value"`
	Confirmations int64     `json:"confirmations"`
	Timestamp     time.Time `json:"timestamp"`
}

// BalanceRemaining возвращает недоплаченный остаток по заказу: полная
// стоимость минус сумма входящих платежей на адрес оплаты. Исходящие
// транзакции (отрицательные, вывод средств продавцу) не учитываются.
// Заказ, вышедший из AWAITING_PAYMENT, считается полностью оплаченным.
func (o *Order) BalanceRemaining() float64 {
	if o == nil || o.State != StateAwaitingPayment {
		return 0
	}
	var paid float64
	for _, tx := range o.PaymentAddressTransactions {
		if tx.Value > 0 {
			paid += tx.Value
		}
	}
	return o.Contract.OrderPrice() - paid
}

// Contract — неизменяемые условия покупки плюс вложенные документы,
// фиксирующие вехи жизненного цикла.
type Contract struct {
	Type                    string             `json:"type"`
	BuyerOrder              *BuyerOrder        `json:"buyerOrder"`
	VendorListings          []VendorListing    `json:"vendorListings"`
	VendorOrderConfirmation *OrderConfirmation `json:"vendorOrderConfirmation,omitempty"`
	VendorOrderFulfillment  []OrderFulfillment `json:"vendorOrderFulfillment,omitempty"`
	BuyerOrderCompletion    *OrderCompletion   `json:"buyerOrderCompletion,omitempty"`
	Dispute                 *Dispute           `json:"dispute,omitempty"`
	DisputeResolution       *DisputeResolution `json:"disputeResolution,omitempty"`
}

// BuyerOrder содержит данные заказа со стороны покупателя.
type BuyerOrder struct {
	BuyerID Party        `json:"buyerID"`
	Payment PaymentTerms `json:"payment"`
}

// Party идентифицирует участника сделки.
type Party struct {
	PeerID string `json:"peerID"`
}

// PaymentTerms описывает условия оплаты заказа.
type PaymentTerms struct {
	Amount    float64 `json:"amount"`
	Address   string  `json:"address"`
	Moderator string  `json:"moderator,omitempty"`
}

// VendorListing — данные объявления, из которого сделан заказ.
type VendorListing struct {
	Slug     string `json:"slug"`
	VendorID Party  `json:"vendorID"`
}

// OrderConfirmation появляется после того, как продавец принял заказ.
type OrderConfirmation struct {
	Timestamp      time.Time `json:"timestamp"`
	PaymentAddress string    `json:"paymentAddress"`
}

// OrderFulfillment — одно событие отгрузки (заказ может отгружаться частями).
type OrderFulfillment struct {
	Timestamp        time.Time         `json:"timestamp"`
	Note             string            `json:"note,omitempty"`
	PhysicalDelivery *PhysicalDelivery `json:"physicalDelivery,omitempty"`
	DigitalDelivery  *DigitalDelivery  `json:"digitalDelivery,omitempty"`
}

// PhysicalDelivery — данные отгрузки физического товара.
type PhysicalDelivery struct {
	Shipper        string `json:"shipper,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

// DigitalDelivery — данные выдачи цифрового товара.
type DigitalDelivery struct {
	URL      string `json:"url"`
	Password string `json:"password,omitempty"`
}

// OrderCompletion появляется после того, как покупатель подтвердил получение.
type OrderCompletion struct {
	Timestamp time.Time     `json:"timestamp"`
	Ratings   []OrderRating `json:"ratings,omitempty"`
}

// OrderRating — оценка и отзыв покупателя.
type OrderRating struct {
	Overall int    `json:"overall"`
	Review  string `json:"review,omitempty"`
}

// Dispute появляется после того, как одна из сторон открыла спор.
type Dispute struct {
	Timestamp time.Time `json:"timestamp"`
	Claim     string    `json:"claim"`
	PeerID    string    `json:"peerID,omitempty"`
}

// DisputeResolution появляется после того, как модератор разрешил спор.
type DisputeResolution struct {
	Timestamp  time.Time      `json:"timestamp"`
	ProposedBy string         `json:"proposedBy"`
	Resolution string         `json:"resolution,omitempty"`
	Payout     *DisputePayout `json:"payout,omitempty"`
}

// DisputePayout описывает предложенное модератором разделение средств.
type DisputePayout struct {
	BuyerOutput     *PayoutOutput `json:"buyerOutput,omitempty"`
	VendorOutput    *PayoutOutput `json:"vendorOutput,omitempty"`
	ModeratorOutput *PayoutOutput `json:"moderatorOutput,omitempty"`
}

// PayoutOutput — доля одного участника в выплате.
type PayoutOutput struct {
	Address string  `json:"address"`
	Amount  float64 `json:"amount"`
}

// BuyerID возвращает peerID покупателя из контракта.
func (c *Contract) BuyerID() string {
	if c == nil || c.BuyerOrder == nil {
		return ""
	}
	return c.BuyerOrder.BuyerID.PeerID
}

// VendorID возвращает peerID продавца из контракта.
func (c *Contract) VendorID() string {
	if c == nil || len(c.VendorListings) == 0 {
		return ""
	}
	return c.VendorListings[0].VendorID.PeerID
}

// ModeratorID возвращает peerID модератора, пустая строка для немодерируемых заказов.
func (c *Contract) ModeratorID() string {
	if c == nil || c.BuyerOrder == nil {
		return ""
	}
	return c.BuyerOrder.Payment.Moderator
}

// OrderPrice возвращает полную стоимость заказа.
func (c *Contract) OrderPrice() float64 {
	if c == nil || c.BuyerOrder == nil {
		return 0
	}
	return c.BuyerOrder.Payment.Amount
}

// PaymentAddress возвращает адрес оплаты: адрес из подтверждения продавца,
// если оно уже есть, иначе адрес из заказа покупателя.
func (c *Contract) PaymentAddress() string {
	if c == nil {
		return ""
	}
	if c.VendorOrderConfirmation != nil && c.VendorOrderConfirmation.PaymentAddress != "" {
		return c.VendorOrderConfirmation.PaymentAddress
	}
	if c.BuyerOrder != nil {
		return c.BuyerOrder.Payment.Address
	}
	return ""
}
