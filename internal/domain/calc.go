package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var ErrInvalidAmount = errors.New("please enter a valid amount")

// ComputeSubtotal sums quantity × unit price over the named items
func ComputeSubtotal(items []InvoiceItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		if item.IsBlank() {
			continue
		}
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// ComputeTax applies a percentage rate, so 10 means ten percent
func ComputeTax(subtotal, taxRatePercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRatePercent).Div(hundred)
}

func ComputeTotal(subtotal, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax)
}

// ComputePending returns total − paid, never below zero
func ComputePending(total, paid decimal.Decimal) decimal.Decimal {
	pending := total.Sub(paid)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// DeriveStatus is the only place status is decided. It never yields overdue.
func DeriveStatus(total, paid decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// FilterItems drops items without a name, keeping order
func FilterItems(items []InvoiceItem) []InvoiceItem {
	kept := make([]InvoiceItem, 0, len(items))
	for _, item := range items {
		if item.IsBlank() {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// ParseAmountStrict parses a money field. Blank input is zero; anything else
// must be a number. Negative values are clamped to zero.
func ParseAmountStrict(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, nil
	}
	return d, nil
}

// ParseAmount is the lenient form of ParseAmountStrict: garbage becomes 0
func ParseAmount(text string) decimal.Decimal {
	d, err := ParseAmountStrict(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseQuantity keeps the integer part of the parsed amount
func ParseQuantity(text string) int {
	return int(ParseAmount(text).IntPart())
}
