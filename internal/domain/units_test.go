package domain

import (
	"encoding/json"
	"testing"
)

func TestParseKg(t *testing.T) {
	cases := map[string]Grams{"4": 4000, "2.5": 2500, " 0.125 ": 125, "10.000": 10000}
	for in, want := range cases {
		got, err := ParseKg(in)
		if err != nil {
			t.Fatalf("ParseKg(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseKg(%q) = %d, want %d", in, got, want)
		}
	}
	for _, bad := range []string{"abc", "1.0001", ""} {
		if _, err := ParseKg(bad); !IsValidation(err) {
			t.Fatalf("ParseKg(%q): expected ValidationError, got %v", bad, err)
		}
	}
}

func TestUnitsJSON(t *testing.T) {
	var in struct {
		Weight Grams  `json:"w"`
		Price  *Cents `json:"p"`
	}
	if err := json.Unmarshal([]byte(`{"w": 4.5, "p": "12.345"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Weight != 4500 || in.Price == nil || *in.Price != 1235 {
		t.Fatalf("decoded %d / %v", in.Weight, in.Price)
	}

	out, err := json.Marshal(map[string]any{"w": Grams(6000), "p": Cents(9000)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"p":90,"w":6}` {
		t.Fatalf("marshal = %s", out)
	}
	if Cents(9000).String() != "90.00" {
		t.Fatalf("String = %s", Cents(9000).String())
	}
}

func TestMoneyRejectsOutOfRange(t *testing.T) {
	var c Cents
	if err := json.Unmarshal([]byte(`100000000000000000000`), &c); !IsValidation(err) {
		t.Fatalf("expected ValidationError for 1e20, got %v (cents=%d)", err, c)
	}
	if _, err := ParseMoney("-1e18"); !IsValidation(err) {
		t.Fatalf("expected ValidationError for -1e18, got %v", err)
	}
	got, err := ParseMoney("12500.75")
	if err != nil || got != 1250075 {
		t.Fatalf("ParseMoney = %d, %v", got, err)
	}
}

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	err := error(CapacityExceededError{FlightID: 3, RequestedKg: "7"})
	wrapped := DomainError{Code: "booking", Err: err}
	if !IsCapacityExceeded(wrapped) {
		t.Fatalf("IsCapacityExceeded should unwrap DomainError")
	}
	if IsNotFound(wrapped) || IsConflict(wrapped) {
		t.Fatalf("unrelated helpers matched")
	}
	if !IsUnauthorized(UnauthorizedError{}) || !IsForbidden(ForbiddenError{}) || !IsAlreadyDelivered(AlreadyDeliveredError{}) {
		t.Fatalf("type helpers mismatch")
	}
}
