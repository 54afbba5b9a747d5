// Package format holds the fixed-locale formatting used on tickets, receipts
// and reports.
package format

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySuffix is appended to every rendered amount.
const CurrencySuffix = "VNĐ"

var (
	grouping = message.NewPrinter(language.English)
	digits   = regexp.MustCompile(`[^0-9.,\-]`)
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// TotalAmount renders amount as a whole number with thousands separators and
// the currency suffix, e.g. "50,000 VNĐ".
func TotalAmount(amount decimal.Decimal) string {
	return grouping.Sprintf("%d %s", amount.Round(0).IntPart(), CurrencySuffix)
}

// Compact renders short labels for dashboards: "950", "1.5K", "2.3M".
func Compact(amount decimal.Decimal) string {
	switch abs := amount.Abs(); {
	case abs.LessThan(thousand):
		return amount.StringFixed(0)
	case abs.LessThan(million):
		return amount.Div(thousand).StringFixed(1) + "K"
	default:
		return amount.Div(million).StringFixed(1) + "M"
	}
}

// ParseVND reads an amount back from a rendered string such as
// "1,250,000 VNĐ" or a plain decimal such as "13332.60". Commas are
// grouping separators and "." is the decimal point. Input without digits
// yields zero.
func ParseVND(s string) decimal.Decimal {
	clean := strings.ReplaceAll(digits.ReplaceAllString(s, ""), ",", "")
	if clean == "" || clean == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Percent renders p with one decimal place, e.g. "8.0%".
func Percent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}
