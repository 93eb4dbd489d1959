package utils

import (
	"math"
	"strconv"
	"strings"
)

func Round(value float64) float64 {
	return math.Round(value*100) / 100
}

// FormatAmount renders an amount with two decimals and thousands separators,
// prefixed by the currency symbol when one is given.
func FormatAmount(amount float64, symbol string) string {
	neg := amount < 0
	s := strconv.FormatFloat(math.Abs(Round(amount)), 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := symbol + b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}
