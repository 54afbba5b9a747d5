package format

import (
	"fmt"
	"time"
)

const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04:05"
)

// fallback layouts accepted by ParseDate after DateLayout fails.
var dateLayouts = []string{
	"02-01-2006",
	"2006-01-02",
	"02.01.2006",
	"02/01/06",
	"02-01-06",
}

// Date renders t as dd/MM/yyyy; the zero time renders as "".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DateTime renders t as dd/MM/yyyy HH:mm:ss; the zero time renders as "".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

// ParseDate accepts dd/MM/yyyy and the common variants cashiers type.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}
