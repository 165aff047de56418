package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// VND formats a price the way the catalog is displayed: Vietnamese digit
// grouping followed by the dong sign, e.g. 120.000đ.
func VND(amount decimal.Decimal) string {
	return Format(language.Vietnamese, amount) + "đ"
}

// Format groups digits for the given locale and keeps at most three
// fraction digits.
func Format(tag language.Tag, amount decimal.Decimal) string {
	p := message.NewPrinter(tag)
	return p.Sprint(number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(3)))
}
