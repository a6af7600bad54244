package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney renders an amount with two decimals and thousands separators
func FormatMoney(symbol string, amount decimal.Decimal) string {
	rounded := amount.Round(2)
	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	s := symbol + groupThousands(whole) + "." + frac
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}

// groupThousands inserts separators into a run of digits. Values that fit in
// an int64 go through the locale printer.
func groupThousands(digits string) string {
	n := decimal.RequireFromString(digits)
	if n.LessThanOrEqual(decimal.NewFromInt(1<<63 - 1)) {
		return moneyPrinter.Sprintf("%d", n.IntPart())
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
