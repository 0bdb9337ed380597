package models

import "time"

// Case — спорный заказ глазами модератора. В отличие от Order, кейс несёт
// две копии контракта (от покупателя и от продавца), из которых валидной
// может быть только одна.
type Case struct {
	ID             string             `json:"id"`
	State          string             `json:"state"`
	Read           bool               `json:"read"`
	Timestamp      time.Time          `json:"timestamp"`
	Claim          string             `json:"claim"`
	BuyerOpened    bool               `json:"buyerOpened"`
	BuyerContract  *Contract          `json:"buyerContract,omitempty"`
	VendorContract *Contract          `json:"vendorContract,omitempty"`
	Resolution     *DisputeResolution `json:"resolution,omitempty"`
}

// FeaturedContract возвращает копию контракта, которую следует показывать:
// контракт стороны, открывшей спор, а при его отсутствии — контракт
// второй стороны.
func (c *Case) FeaturedContract() *Contract {
	if c == nil {
		return nil
	}
	if c.BuyerOpened {
		if c.BuyerContract != nil {
			return c.BuyerContract
		}
		return c.VendorContract
	}
	if c.VendorContract != nil {
		return c.VendorContract
	}
	return c.BuyerContract
}
