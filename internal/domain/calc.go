package domain

import "github.com/shopspring/decimal"

// PlatformFeeRate is the share of a shipment fee kept by the platform.
var PlatformFeeRate = decimal.RequireFromString("0.10")

// SettlementSplit is the platform/carrier division of a shipment fee.
type SettlementSplit struct {
	Fee            Cents `json:"fee"`
	PlatformFee    Cents `json:"platformFee"`
	AmountReleased Cents `json:"amountReleased"`
}

// ComputeSettlement splits fee at PlatformFeeRate. The platform fee is
// rounded to the cent and the carrier gets the remainder, so the two parts
// always add back up to fee. Negative fees are clamped to zero.
func ComputeSettlement(fee Cents) SettlementSplit {
	if fee < 0 {
		fee = 0
	}
	platform := Cents(decimal.NewFromInt(int64(fee)).Mul(PlatformFeeRate).Round(0).IntPart())
	return SettlementSplit{
		Fee:            fee,
		PlatformFee:    platform,
		AmountReleased: fee - platform,
	}
}

// ComputeShipmentFee prices a booking at pricePerKg. A flight without a
// price yields a nil fee; a product too large to store is a validation
// error.
func ComputeShipmentFee(weight Grams, pricePerKg *Cents) (*Cents, error) {
	if pricePerKg == nil {
		return nil, nil
	}
	fee, err := MoneyFromDecimal(weight.Kg().Mul(pricePerKg.Decimal()))
	if err != nil {
		return nil, ValidationError{Field: "itemWeight", Msg: "fee exceeds the maximum amount", Err: err}
	}
	return &fee, nil
}
