// Package shipping — проверка правил расчёта доставки объявления.
package shipping

import (
	"fmt"
	"sort"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

// Типы правил, у которых MinRange/MaxRange задают диапазон и диапазоны
// внутри набора не должны пересекаться.
var rangedRuleTypes = map[string]bool{
	models.RuleTypeFlatFeeQuantityRange: true,
	models.RuleTypeFlatFeeWeightRange:   true,
}

// ValidateRuleSet проверяет набор правил доставки: тип известен, каждое
// правило корректно само по себе, диапазоны не пересекаются.
func ValidateRuleSet(set models.ShippingRuleSet) error {
	vErr := apperror.NewValidationError()

	if _, ok := models.ValidShippingRuleTypes[set.RuleType]; !ok {
		vErr.Add("ruleType", "неизвестный тип правила доставки")
		return vErr
	}
	if len(set.Rules) == 0 {
		vErr.Add("rules", "добавьте хотя бы одно правило")
		return vErr
	}

	for i, rule := range set.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		if rule.Price < 0 {
			vErr.Add(field+".price", "цена не может быть отрицательной")
		}
		if rangedRuleTypes[set.RuleType] {
			if rule.MinRange < 0 {
				vErr.Add(field+".minRange", "нижняя граница не может быть отрицательной")
			}
			if rule.MaxRange < rule.MinRange {
				vErr.Add(field+".maxRange", "верхняя граница меньше нижней")
			}
		}
	}
	if vErr.HasErrors() {
		return vErr
	}

	if rangedRuleTypes[set.RuleType] {
		if overlap := findOverlap(set.Rules); overlap != nil {
			vErr.Add("rules", fmt.Sprintf(
				"диапазоны правил %d и %d пересекаются", overlap[0], overlap[1]))
		}
	}
	return vErr.ErrOrNil()
}

// findOverlap возвращает индексы первой пары правил с пересекающимися
// диапазонами, nil если пересечений нет. Границы считаются включёнными.
func findOverlap(rules []models.ShippingRule) []int {
	type indexed struct {
		index int
		rule  models.ShippingRule
	}
	sorted := make([]indexed, len(rules))
	for i, rule := range rules {
		sorted[i] = indexed{index: i, rule: rule}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].rule.MinRange < sorted[j].rule.MinRange
	})

	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if curr.rule.MinRange <= prev.rule.MaxRange {
			return []int{prev.index, curr.index}
		}
	}
	return nil
}

// PriceFor возвращает цену доставки для значения (веса, количества) по
// набору диапазонных правил. Второй результат ложен, если значение не
// попадает ни в один диапазон.
func PriceFor(set models.ShippingRuleSet, value int64) (int64, bool) {
	if !rangedRuleTypes[set.RuleType] {
		return 0, false
	}
	for _, rule := range set.Rules {
		if value >= rule.MinRange && value <= rule.MaxRange {
			return rule.Price, true
		}
	}
	return 0, false
}
