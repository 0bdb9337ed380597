package models

// OrderState константы состояний заказа. Значения совпадают с тем,
// что отдаёт нода в поле state.
const (
	StateAwaitingPayment     = "AWAITING_PAYMENT"
	StatePending             = "PENDING"
	StateAwaitingFulfillment = "AWAITING_FULFILLMENT"
	StatePartiallyFulfilled  = "PARTIALLY_FULFILLED"
	StateAwaitingPickup      = "AWAITING_PICKUP"
	StateFulfilled           = "FULFILLED"
	StateCompleted           = "COMPLETED"
	StateDeclined            = "DECLINED"
	StateCanceled            = "CANCELED"
	StateRefunded            = "REFUNDED"
	StateDisputed            = "DISPUTED"
	StateDecided             = "DECIDED"
	StateResolved            = "RESOLVED"
)

// ValidOrderStates список валидных состояний заказа
var ValidOrderStates = map[string]struct{}{
	StateAwaitingPayment:     {},
	StatePending:             {},
	StateAwaitingFulfillment: {},
	StatePartiallyFulfilled:  {},
	StateAwaitingPickup:      {},
	StateFulfilled:           {},
	StateCompleted:           {},
	StateDeclined:            {},
	StateCanceled:            {},
	StateRefunded:            {},
	StateDisputed:            {},
	StateDecided:             {},
	StateResolved:            {},
}

// ContractType константы типов контракта
const (
	ContractTypePhysicalGood = "PHYSICAL_GOOD"
	ContractTypeDigitalGood  = "DIGITAL_GOOD"
	ContractTypeService      = "SERVICE"
)

// ValidContractTypes список валидных типов контракта
var ValidContractTypes = map[string]struct{}{
	ContractTypePhysicalGood: {},
	ContractTypeDigitalGood:  {},
	ContractTypeService:      {},
}

// ParticipantRole константы ролей участников заказа
const (
	RoleBuyer     = "buyer"
	RoleVendor    = "vendor"
	RoleModerator = "moderator"
)

// FeeLevel константы уровней комиссии для трат из кошелька
const (
	FeeLevelPriority = "PRIORITY"
	FeeLevelNormal   = "NORMAL"
	FeeLevelEconomic = "ECONOMIC"
)

// ValidFeeLevels список валидных уровней комиссии
var ValidFeeLevels = map[string]struct{}{
	FeeLevelPriority: {},
	FeeLevelNormal:   {},
	FeeLevelEconomic: {},
}

// ShippingRuleType константы типов правил доставки
const (
	RuleTypeQuantityDiscount         = "QUANTITY_DISCOUNT"
	RuleTypeFlatFeeQuantityRange     = "FLAT_FEE_QUANTITY_RANGE"
	RuleTypeFlatFeeWeightRange       = "FLAT_FEE_WEIGHT_RANGE"
	RuleTypeCombinedShippingAdd      = "COMBINED_SHIPPING_ADD"
	RuleTypeCombinedShippingSubtract = "COMBINED_SHIPPING_SUBTRACT"
)

// ValidShippingRuleTypes список валидных типов правил доставки
var ValidShippingRuleTypes = map[string]struct{}{
	RuleTypeQuantityDiscount:         {},
	RuleTypeFlatFeeQuantityRange:     {},
	RuleTypeFlatFeeWeightRange:       {},
	RuleTypeCombinedShippingAdd:      {},
	RuleTypeCombinedShippingSubtract: {},
}
