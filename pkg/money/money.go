// Package money provides the decimal monetary amount used for balances, prices and totals.
//
// Amounts are exact decimals. They are rendered with two decimal places and stored in
// DynamoDB as number (N) attributes.
package money

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of decimal places amounts are rendered with.
const DisplayPlaces = 2

// Amount is an exact decimal monetary value.
type Amount struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// New wraps a decimal.
func New(d decimal.Decimal) Amount { return Amount{d: d} }

// FromInt returns an amount of whole units.
func FromInt(units int64) Amount { return Amount{d: decimal.NewFromInt(units)} }

// Parse parses a decimal string such as "20" or "20.50".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal  { return a.d }
func (a Amount) Add(b Amount) Amount       { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount       { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) MulInt(n int64) Amount     { return Amount{d: a.d.Mul(decimal.NewFromInt(n))} }
func (a Amount) Neg() Amount               { return Amount{d: a.d.Neg()} }
func (a Amount) Cmp(b Amount) int          { return a.d.Cmp(b.d) }
func (a Amount) Equal(b Amount) bool       { return a.d.Equal(b.d) }
func (a Amount) LessThan(b Amount) bool    { return a.d.LessThan(b.d) }
func (a Amount) GreaterThan(b Amount) bool { return a.d.GreaterThan(b.d) }
func (a Amount) IsZero() bool              { return a.d.IsZero() }
func (a Amount) IsNegative() bool          { return a.d.IsNegative() }
func (a Amount) IsPositive() bool          { return a.d.IsPositive() }

// String renders the amount with two decimal places.
func (a Amount) String() string { return a.d.StringFixed(DisplayPlaces) }

// Exact renders the amount without rounding. It is the storage representation.
func (a Amount) Exact() string { return a.d.String() }

// MarshalJSON writes the amount as a JSON number with two decimal places.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both quoted and bare JSON numbers.
func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.d.UnmarshalJSON(b)
}

// MarshalDynamoDBAttributeValue stores the amount as an exact N attribute.
func (a Amount) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: a.Exact()}, nil
}

// UnmarshalDynamoDBAttributeValue reads an N (or legacy S) attribute.
func (a *Amount) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	case *types.AttributeValueMemberNULL:
		a.d = decimal.Zero
		return nil
	default:
		return fmt.Errorf("cannot unmarshal %T into money.Amount", av)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid stored amount %q: %w", raw, err)
	}
	a.d = d
	return nil
}

// Sum adds up amounts.
func Sum(amounts ...Amount) Amount {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
