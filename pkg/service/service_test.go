package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthRange(t *testing.T) {
	start, end, err := monthRange("2024-02", time.UTC)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err = monthRange("02/2024", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidMonth)
	_, _, err = monthRange("", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		month string
		want  int
	}{
		{"2024-02", 29},
		{"2023-02", 28},
		{"2024-01", 31},
		{"2024-04", 30},
	}
	for _, tt := range tests {
		start, _, err := monthRange(tt.month, time.UTC)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, daysInMonth(start), tt.month)
	}
}
