package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is a currency amount with two decimal places on the wire.
type Money struct {
	decimal.Decimal
}

func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

// MustMoney is for constants and tests.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func MoneyFromInt(v int64) Money {
	return Money{Decimal: decimal.NewFromInt(v)}
}

func (m Money) Times(n int) Money {
	return Money{Decimal: m.Decimal.Mul(decimal.NewFromInt(int64(n)))}
}

func (m Money) Plus(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

func (m Money) EqualAmount(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}
