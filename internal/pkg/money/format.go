// Package money renders integer amounts for display.
package money

import "github.com/dustin/go-humanize"

// Label renders an amount with thousands separators followed by suffix,
// e.g. Label(3500, "원") == "3,500원".
func Label(amount int64, suffix string) string {
	return humanize.Comma(amount) + suffix
}
