package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeSubtotal_IgnoresBlankItems(t *testing.T) {
	items := []InvoiceItem{
		{Name: "Widget", Quantity: 2, UnitPrice: d("5")},
		{Name: "   ", Quantity: 100, UnitPrice: d("100")},
		{Name: "", Quantity: 3, UnitPrice: d("7")},
		{Name: "Bolt", Quantity: 1, UnitPrice: d("5")},
	}

	got := ComputeSubtotal(items)
	assert.True(t, got.Equal(d("15")), "got %s", got)
}

func TestComputeSubtotal_Empty(t *testing.T) {
	assert.True(t, ComputeSubtotal(nil).IsZero())
}

func TestComputeTax_IsPercentage(t *testing.T) {
	assert.True(t, ComputeTax(d("15"), d("10")).Equal(d("1.5")))
	assert.True(t, ComputeTax(d("200"), d("0")).IsZero())
	assert.True(t, ComputeTax(d("99.99"), d("18")).Equal(d("17.9982")))
}

func TestComputePending_NeverNegative(t *testing.T) {
	tests := []struct {
		total, paid, want string
	}{
		{"16.5", "0", "16.5"},
		{"16.5", "5", "11.5"},
		{"16.5", "16.5", "0"},
		{"16.5", "100", "0"},
		{"0", "0", "0"},
	}

	for _, tt := range tests {
		got := ComputePending(d(tt.total), d(tt.paid))
		assert.False(t, got.IsNegative())
		assert.True(t, got.Equal(d(tt.want)), "total=%s paid=%s got %s", tt.total, tt.paid, got)
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		total string
		paid  string
		want  Status
	}{
		{"nothing paid", "16.5", "0", StatusPending},
		{"part paid", "16.5", "5", StatusPartial},
		{"exactly paid", "16.5", "16.50", StatusPaid},
		{"over paid", "16.5", "20", StatusPaid},
		{"zero total", "0", "0", StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(d(tt.total), d(tt.paid)))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"  ", "0"},
		{"abc", "0"},
		{"12.50", "12.5"},
		{" 7 ", "7"},
		{"-3", "0"},
	}

	for _, tt := range tests {
		got := ParseAmount(tt.in)
		assert.True(t, got.Equal(d(tt.want)), "ParseAmount(%q) = %s", tt.in, got)
	}
}

func TestParseAmountStrict_RejectsGarbage(t *testing.T) {
	_, err := ParseAmountStrict("12abc")
	require.ErrorIs(t, err, ErrInvalidAmount)

	got, err := ParseAmountStrict("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 2, ParseQuantity("2"))
	assert.Equal(t, 2, ParseQuantity("2.9"))
	assert.Equal(t, 0, ParseQuantity("many"))
	assert.Equal(t, 0, ParseQuantity("-4"))
	assert.Equal(t, 0, ParseQuantity(""))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$16.50", FormatMoney("$", d("16.5")))
	assert.Equal(t, "$1,234.50", FormatMoney("$", d("1234.5")))
	assert.Equal(t, "$0.00", FormatMoney("$", decimal.Zero))
	assert.Equal(t, "-$3.10", FormatMoney("$", d("-3.1")))
}

func TestFormatMoney_LargeAmountsKeepCents(t *testing.T) {
	assert.Equal(t, "$12,345,678,901,234,567.89", FormatMoney("$", d("12345678901234567.89")))
	assert.Equal(t, "$123,456,789,012,345,678,901.01", FormatMoney("$", d("123456789012345678901.005")))
}
