package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

func quantityRanges(rules ...models.ShippingRule) models.ShippingRuleSet {
	return models.ShippingRuleSet{
		RuleType: models.RuleTypeFlatFeeQuantityRange,
		Rules:    rules,
	}
}

func TestValidateRuleSetAcceptsDisjointRanges(t *testing.T) {
	set := quantityRanges(
		models.ShippingRule{MinRange: 0, MaxRange: 5, Price: 100},
		models.ShippingRule{MinRange: 6, MaxRange: 10, Price: 80},
		models.ShippingRule{MinRange: 11, MaxRange: 100, Price: 50},
	)

	assert.NoError(t, ValidateRuleSet(set))
}

func TestValidateRuleSetRejectsUnknownType(t *testing.T) {
	set := models.ShippingRuleSet{
		RuleType: "PER_KILOMETER",
		Rules:    []models.ShippingRule{{MaxRange: 5, Price: 100}},
	}

	err := ValidateRuleSet(set)

	var vErr *apperror.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "ruleType")
}

func TestValidateRuleSetRequiresRules(t *testing.T) {
	err := ValidateRuleSet(models.ShippingRuleSet{RuleType: models.RuleTypeFlatFeeWeightRange})

	var vErr *apperror.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "rules")
}

func TestValidateRuleSetRejectsBrokenRule(t *testing.T) {
	set := quantityRanges(
		models.ShippingRule{MinRange: 10, MaxRange: 5, Price: -1},
	)

	err := ValidateRuleSet(set)

	var vErr *apperror.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "rules[0].price")
	assert.Contains(t, vErr.Fields, "rules[0].maxRange")
}

func TestValidateRuleSetDetectsOverlap(t *testing.T) {
	set := quantityRanges(
		models.ShippingRule{MinRange: 0, MaxRange: 5, Price: 100},
		models.ShippingRule{MinRange: 4, MaxRange: 10, Price: 80},
	)

	err := ValidateRuleSet(set)

	var vErr *apperror.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "rules")
}

func TestValidateRuleSetTouchingBoundsOverlap(t *testing.T) {
	// Границы включены: 5 принадлежит обоим диапазонам.
	set := quantityRanges(
		models.ShippingRule{MinRange: 0, MaxRange: 5, Price: 100},
		models.ShippingRule{MinRange: 5, MaxRange: 10, Price: 80},
	)

	assert.Error(t, ValidateRuleSet(set))
}

func TestValidateRuleSetDetectsOverlapInUnsortedInput(t *testing.T) {
	set := quantityRanges(
		models.ShippingRule{MinRange: 20, MaxRange: 30, Price: 50},
		models.ShippingRule{MinRange: 0, MaxRange: 10, Price: 100},
		models.ShippingRule{MinRange: 8, MaxRange: 19, Price: 80},
	)

	assert.Error(t, ValidateRuleSet(set))
}

func TestValidateRuleSetNonRangedTypeSkipsRangeChecks(t *testing.T) {
	set := models.ShippingRuleSet{
		RuleType: models.RuleTypeQuantityDiscount,
		Rules: []models.ShippingRule{
			{MinRange: 0, MaxRange: 0, Price: 100},
			{MinRange: 0, MaxRange: 0, Price: 80},
		},
	}

	assert.NoError(t, ValidateRuleSet(set))
}

func TestPriceForPicksMatchingRange(t *testing.T) {
	set := quantityRanges(
		models.ShippingRule{MinRange: 0, MaxRange: 5, Price: 100},
		models.ShippingRule{MinRange: 6, MaxRange: 10, Price: 80},
	)

	price, ok := PriceFor(set, 6)
	assert.True(t, ok)
	assert.Equal(t, int64(80), price)

	price, ok = PriceFor(set, 5)
	assert.True(t, ok)
	assert.Equal(t, int64(100), price)
}

func TestPriceForOutsideRanges(t *testing.T) {
	set := quantityRanges(models.ShippingRule{MinRange: 0, MaxRange: 5, Price: 100})

	_, ok := PriceFor(set, 6)
	assert.False(t, ok)
}

func TestPriceForNonRangedType(t *testing.T) {
	set := models.ShippingRuleSet{
		RuleType: models.RuleTypeCombinedShippingAdd,
		Rules:    []models.ShippingRule{{Price: 100}},
	}

	_, ok := PriceFor(set, 1)
	assert.False(t, ok)
}
