package models

// ShippingRule — одно правило расчёта доставки объявления.
// Смысл полей MinRange/MaxRange зависит от типа правила: для весовых
// правил это граммы, для ценовых — сатоши, для количественных — штуки.
type ShippingRule struct {
	MinRange int64 `json:"minRange"`
	MaxRange int64 `json:"maxRange"`
	Price    int64 `json:"price"`
}

// ShippingRuleSet — набор правил одного типа для объявления.
type ShippingRuleSet struct {
	RuleType string         `json:"ruleType"`
	Rules    []ShippingRule `json:"rules"`
}
