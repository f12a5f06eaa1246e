package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualAdvance(t *testing.T) {
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	c := NewManual(start)
	assert.Equal(t, start, c.Now())

	got := c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), got)
	assert.Equal(t, got, c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestDateOfUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Johannesburg")
	require.NoError(t, err)

	// 23:30 UTC is already the next day at UTC+2.
	instant := time.Date(2025, 3, 3, 23, 30, 0, 0, time.UTC)
	day := DateOf(instant, loc)
	assert.Equal(t, 4, day.Day())
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, loc, day.Location())
}

func TestAt(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	got := At(day, 17*time.Hour+30*time.Minute, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 3, 17, 30, 0, 0, time.UTC), got)
}
