package utils

import (
	"time"
)

// Now is swapped in tests.
var Now = time.Now

func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

func FormatDateTime(date time.Time) string {
	if date.IsZero() {
		return "-"
	}
	return date.Format("2006-01-02 15:04")
}
