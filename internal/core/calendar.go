package core

import (
	"fmt"
	"time"
)

// Currency is the single currency the ledger deals in.
const Currency = "₽"

// MonthNames is the fixed month-name table used for display, indexed by
// time.Month-1.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// FormatDate renders a local calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatYearMonth renders a year/month pair as the YYYY-MM bucket key.
func FormatYearMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// MonthTitle renders a YYYY-MM bucket for display, e.g. "May 2024".
// Unparseable buckets are returned unchanged.
func MonthTitle(yearMonth string) string {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return yearMonth
	}
	return fmt.Sprintf("%s %d", MonthNames[int(t.Month())-1], t.Year())
}
