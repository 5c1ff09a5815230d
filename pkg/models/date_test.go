package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_UsesUTCCalendarDate(t *testing.T) {
	shanghai := time.FixedZone("UTC+8", 8*60*60)
	now := time.Date(2024, 2, 1, 3, 0, 0, 0, shanghai)

	assert.Equal(t, "2024-01-31", Today(now).String())
	assert.Equal(t, "2024-02-01", Today(now.Add(8*time.Hour)).String())
}

func TestDate_ScanKeepsStoredCalendarDate(t *testing.T) {
	var d Date
	stored := time.Date(2024, 1, 21, 0, 0, 0, 0, time.FixedZone("UTC+8", 8*60*60))
	require.NoError(t, d.Scan(stored))
	assert.Equal(t, "2024-01-21", d.String())
}
