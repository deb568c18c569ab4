package types

import "time"

// Layouts used for the TEXT timestamp columns in the store.
const (
	// DateTimeLayout is second-precision, lexicographically sortable.
	DateTimeLayout = "2006-01-02 15:04:05"

	// DateLayout is the calendar-date form used by day-scoped queries
	// and by the receipt directory layout.
	DateLayout = "2006-01-02"

	// CompactDateLayout appears inside faktur numbers.
	CompactDateLayout = "20060102"

	// FileStampLayout appears in backup and export filenames.
	FileStampLayout = "20060102_150405"
)

// FormatDateTime renders t in the store's timestamp form.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// ParseDateTime parses a store timestamp.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, s, time.Local)
}
