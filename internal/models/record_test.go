package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaseFeaturedContractFollowsOpener(t *testing.T) {
	buyer := &Contract{Type: ContractTypePhysicalGood}
	vendor := &Contract{Type: ContractTypeDigitalGood}

	byBuyer := &Case{BuyerOpened: true, BuyerContract: buyer, VendorContract: vendor}
	byVendor := &Case{BuyerOpened: false, BuyerContract: buyer, VendorContract: vendor}

	assert.Same(t, buyer, byBuyer.FeaturedContract())
	assert.Same(t, vendor, byVendor.FeaturedContract())
}

func TestCaseFeaturedContractFallsBackToOtherSide(t *testing.T) {
	vendor := &Contract{Type: ContractTypeDigitalGood}
	opened := &Case{BuyerOpened: true, VendorContract: vendor}

	assert.Same(t, vendor, opened.FeaturedContract())
}

func TestRecordStateAndID(t *testing.T) {
	orderRecord := NewOrderRecord(&Order{ID: "order-1", State: StatePending})
	caseRecord := NewCaseRecord(&Case{ID: "case-1", State: StateDisputed})

	assert.Equal(t, "order-1", orderRecord.ID())
	assert.Equal(t, StatePending, orderRecord.State())
	assert.False(t, orderRecord.IsCase())

	assert.Equal(t, "case-1", caseRecord.ID())
	assert.Equal(t, StateDisputed, caseRecord.State())
	assert.True(t, caseRecord.IsCase())
}

func TestRecordSetState(t *testing.T) {
	orderRecord := NewOrderRecord(&Order{State: StatePending})
	caseRecord := NewCaseRecord(&Case{State: StateDisputed})

	orderRecord.SetState(StateAwaitingFulfillment)
	caseRecord.SetState(StateResolved)

	assert.Equal(t, StateAwaitingFulfillment, orderRecord.Order.State)
	assert.Equal(t, StateResolved, caseRecord.Case.State)
}

func TestRecordHasDispute(t *testing.T) {
	plain := NewOrderRecord(&Order{Contract: &Contract{}})
	disputed := NewOrderRecord(&Order{Contract: &Contract{Dispute: &Dispute{Claim: "претензия"}}})
	caseRecord := NewCaseRecord(&Case{})

	assert.False(t, plain.HasDispute())
	assert.True(t, disputed.HasDispute())
	assert.True(t, caseRecord.HasDispute())
}

func TestRecordDisputeClaimSource(t *testing.T) {
	fromContract := NewOrderRecord(&Order{
		Contract: &Contract{Dispute: &Dispute{Claim: "из контракта"}},
	})
	fromCase := NewCaseRecord(&Case{
		Claim:         "с кейса",
		BuyerOpened:   true,
		BuyerContract: &Contract{Dispute: &Dispute{Claim: "из контракта"}},
	})

	assert.Equal(t, "из контракта", fromContract.DisputeClaim())
	assert.Equal(t, "с кейса", fromCase.DisputeClaim())
}

func TestRecordDisputeResolutionSource(t *testing.T) {
	caseResolution := &DisputeResolution{Resolution: "решение кейса"}
	contractResolution := &DisputeResolution{Resolution: "решение в контракте"}

	fromCase := NewCaseRecord(&Case{
		Resolution:    caseResolution,
		BuyerOpened:   true,
		BuyerContract: &Contract{DisputeResolution: contractResolution},
	})
	fromCaseContract := NewCaseRecord(&Case{
		BuyerOpened:   true,
		BuyerContract: &Contract{DisputeResolution: contractResolution},
	})
	fromOrder := NewOrderRecord(&Order{
		Contract: &Contract{DisputeResolution: contractResolution},
	})

	assert.Same(t, caseResolution, fromCase.DisputeResolution())
	assert.Same(t, contractResolution, fromCaseContract.DisputeResolution())
	assert.Same(t, contractResolution, fromOrder.DisputeResolution())
}

func TestContractPartyHelpersNilSafe(t *testing.T) {
	var contract *Contract

	assert.Empty(t, contract.BuyerID())
	assert.Empty(t, contract.VendorID())
	assert.Empty(t, contract.ModeratorID())
	assert.Zero(t, contract.OrderPrice())
	assert.Empty(t, contract.PaymentAddress())
}

func TestContractPaymentAddressPrefersConfirmation(t *testing.T) {
	contract := &Contract{
		BuyerOrder: &BuyerOrder{Payment: PaymentTerms{Address: "addr-order"}},
	}
	assert.Equal(t, "addr-order", contract.PaymentAddress())

	contract.VendorOrderConfirmation = &OrderConfirmation{PaymentAddress: "addr-confirmed"}
	assert.Equal(t, "addr-confirmed", contract.PaymentAddress())
}

func TestOrderBalanceRemaining(t *testing.T) {
	order := &Order{
		State:    StateAwaitingPayment,
		Contract: &Contract{BuyerOrder: &BuyerOrder{Payment: PaymentTerms{Amount: 100000}}},
		PaymentAddressTransactions: []Transaction{
			{Txid: "tx-1", Value: 30000},
			{Txid: "tx-2", Value: -5000},
			{Txid: "tx-3", Value: 20000},
		},
	}

	assert.Equal(t, float64(50000), order.BalanceRemaining(),
		"исходящие транзакции не считаются оплатой")

	order.PaymentAddressTransactions = append(order.PaymentAddressTransactions,
		Transaction{Txid: "tx-4", Value: 50000})
	assert.Zero(t, order.BalanceRemaining())
}

func TestOrderBalanceRemainingOutsideAwaitingPayment(t *testing.T) {
	order := &Order{
		State:    StatePending,
		Contract: &Contract{BuyerOrder: &BuyerOrder{Payment: PaymentTerms{Amount: 100000}}},
	}

	assert.Zero(t, order.BalanceRemaining(), "принятый нодой заказ уже оплачен")

	var absent *Order
	assert.Zero(t, absent.BalanceRemaining())
}
