// Package money renders integer currency amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format prints amount with the digit grouping of tag, prefixed by symbol.
func Format(amount int64, tag language.Tag, symbol string) string {
	p := message.NewPrinter(tag)
	return symbol + " " + p.Sprintf("%d", amount)
}

// Rupiah formats amount the Indonesian way, e.g. 1500000 -> "Rp 1.500.000".
func Rupiah(amount int64) string {
	return Format(amount, language.Indonesian, "Rp")
}
