package domain

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// Weights are persisted as integer grams and money as integer cents so the
// conditional decrement and the balance increment stay exact in SQL.

type Grams int64

type Cents int64

var (
	gramsPerKg    = decimal.NewFromInt(1000)
	centsPerUnit  = decimal.NewFromInt(100)
	maxGramsValue = decimal.NewFromInt(1 << 40)
	maxCentsValue = decimal.NewFromInt(1 << 53)
)

// ParseKg converts a kilogram amount ("4", "2.5") to grams.
func ParseKg(s string) (Grams, error) {
	d, err := decimal.NewFromString(string(bytes.TrimSpace([]byte(s))))
	if err != nil {
		return 0, ValidationError{Field: "itemWeight", Msg: "must be a number", Err: err}
	}
	return KgFromDecimal(d)
}

func KgFromDecimal(d decimal.Decimal) (Grams, error) {
	g := d.Mul(gramsPerKg)
	if !g.Equal(g.Truncate(0)) {
		return 0, ValidationError{Field: "itemWeight", Msg: "at most 3 decimal places"}
	}
	if g.GreaterThan(maxGramsValue) {
		return 0, ValidationError{Field: "itemWeight", Msg: "too large"}
	}
	return Grams(g.IntPart()), nil
}

func (g Grams) Kg() decimal.Decimal {
	return decimal.NewFromInt(int64(g)).Div(gramsPerKg)
}

func (g Grams) String() string { return g.Kg().String() }

func (g Grams) MarshalJSON() ([]byte, error) {
	return []byte(g.Kg().String()), nil
}

func (g *Grams) UnmarshalJSON(b []byte) error {
	d, err := decodeJSONDecimal(b)
	if err != nil {
		return err
	}
	v, err := KgFromDecimal(d)
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseMoney converts a currency amount ("100", "12.50") to cents.
func ParseMoney(s string) (Cents, error) {
	d, err := decimal.NewFromString(string(bytes.TrimSpace([]byte(s))))
	if err != nil {
		return 0, ValidationError{Field: "amount", Msg: "must be a number", Err: err}
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal rounds half away from zero to the nearest cent. Amounts
// whose magnitude does not fit MaxCents are rejected.
func MoneyFromDecimal(d decimal.Decimal) (Cents, error) {
	c := d.Mul(centsPerUnit).Round(0)
	if c.Abs().GreaterThan(maxCentsValue) {
		return 0, ValidationError{Field: "amount", Msg: "too large"}
	}
	return Cents(c.IntPart()), nil
}

func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(centsPerUnit)
}

func (c Cents) String() string { return c.Decimal().StringFixed(2) }

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().String()), nil
}

func (c *Cents) UnmarshalJSON(b []byte) error {
	d, err := decodeJSONDecimal(b)
	if err != nil {
		return err
	}
	v, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func decodeJSONDecimal(b []byte) (decimal.Decimal, error) {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if len(b) == 0 || string(b) == "null" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", string(b), err)
	}
	return d, nil
}
