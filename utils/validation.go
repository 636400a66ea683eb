package utils

import "time"

const dateLayout = "2006-01-02"

// ParseDate parses an API-surface calendar date. Stay dates are whole days;
// times of day never enter the negotiation engine.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
