package service

import (
	"errors"
	"fmt"
	"time"
)

const monthFormat = "2006-01"

// ErrInvalidMonth is returned when a month argument is not "YYYY-MM".
var ErrInvalidMonth = errors.New("month must be YYYY-MM")

// monthRange resolves a "YYYY-MM" month string to its [start, end)
// interval in the given location.
func monthRange(month string, loc *time.Location) (start, end time.Time, err error) {
	start, err = time.ParseInLocation(monthFormat, month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidMonth, month)
	}
	return start, start.AddDate(0, 1, 0), nil
}

func daysInMonth(start time.Time) int {
	return start.AddDate(0, 1, -1).Day()
}
