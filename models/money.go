package models

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Money is a fixed-point decimal amount. Every rate, limit and total in the
// billing path uses this type so recomputing a quotation or invoice always
// reproduces the exact same numbers.
type Money struct {
	decimal.Decimal
}

// NewMoney parses a decimal string (e.g. "50.00") into a Money value.
func NewMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money value %q: %w", value, err)
	}
	return Money{Decimal: d}, nil
}

// MoneyFromDecimal wraps an existing decimal.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyFromInt builds a Money from a whole number of currency units.
func MoneyFromInt(v int64) Money {
	return Money{Decimal: decimal.NewFromInt(v)}
}

// MarshalDynamoDBAttributeValue stores the amount as a DynamoDB number so it
// round-trips without binary floating point.
func (m Money) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: m.String()}, nil
}

// UnmarshalDynamoDBAttributeValue restores the amount from either a number or
// a string attribute.
func (m *Money) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	case *types.AttributeValueMemberNULL:
		m.Decimal = decimal.Zero
		return nil
	default:
		return fmt.Errorf("money: unsupported attribute type %T", av)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("money: invalid stored value %q: %w", raw, err)
	}
	m.Decimal = d
	return nil
}
