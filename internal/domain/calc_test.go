package domain

import "testing"

func TestComputeSettlementSplit(t *testing.T) {
	cases := []struct {
		fee, platform, released Cents
	}{
		{fee: 10000, platform: 1000, released: 9000},
		{fee: 0, platform: 0, released: 0},
		{fee: 5, platform: 1, released: 4},
		{fee: 4, platform: 0, released: 4},
		{fee: 1999, platform: 200, released: 1799},
		{fee: -300, platform: 0, released: 0},
	}
	for _, tc := range cases {
		got := ComputeSettlement(tc.fee)
		if got.PlatformFee != tc.platform || got.AmountReleased != tc.released {
			t.Fatalf("fee %d: got %d/%d, want %d/%d", tc.fee, got.PlatformFee, got.AmountReleased, tc.platform, tc.released)
		}
	}
}

func TestComputeSettlementAddsUp(t *testing.T) {
	for fee := Cents(0); fee <= 25000; fee += 7 {
		s := ComputeSettlement(fee)
		if s.PlatformFee+s.AmountReleased != fee {
			t.Fatalf("fee %d: %d + %d != fee", fee, s.PlatformFee, s.AmountReleased)
		}
		if s.PlatformFee < 0 || s.AmountReleased < 0 {
			t.Fatalf("fee %d: negative part %+v", fee, s)
		}
	}
}

func TestComputeShipmentFee(t *testing.T) {
	if fee, err := ComputeShipmentFee(2500, nil); fee != nil || err != nil {
		t.Fatalf("fee without price should be nil, got %v, %v", fee, err)
	}
	price := Cents(1999) // 19.99 per kg
	fee, err := ComputeShipmentFee(2500, &price)
	if err != nil || fee == nil || *fee != 4998 {
		t.Fatalf("fee = %v, %v, want 49.98", fee, err)
	}
}

func TestComputeShipmentFeeRejectsOverflow(t *testing.T) {
	price := Cents(1 << 62)
	fee, err := ComputeShipmentFee(2000, &price)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got fee %v err %v", fee, err)
	}
	if fee != nil {
		t.Fatalf("fee should be nil on overflow, got %s", fee)
	}
}
