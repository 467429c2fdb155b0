package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedVenueZone(t *testing.T) {
	ict := FixedVenueZone(7)
	assert.Equal(t, "ICT", ict.String())

	_, offset := time.Now().In(ict).Zone()
	assert.Equal(t, 7*3600, offset)

	utc2 := FixedVenueZone(2)
	assert.Equal(t, "UTC+2", utc2.String())
}

func TestCombineDateTime(t *testing.T) {
	loc := FixedVenueZone(7)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, loc)

	got, err := CombineDateTime(day, "19:30", loc)
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 19, got.Hour())
	assert.Equal(t, 30, got.Minute())

	_, zoneOffset := got.Zone()
	assert.Equal(t, 7*3600, zoneOffset)

	_, err = CombineDateTime(day, "25:99", loc)
	require.Error(t, err)
}

func TestCustomDateIn(t *testing.T) {
	loc := FixedVenueZone(7)
	d := CustomDate{Time: time.Date(2026, 5, 20, 14, 45, 0, 0, time.UTC)}

	got := d.In(loc)
	assert.Equal(t, 20, got.Day())
	assert.Zero(t, got.Hour())
	assert.Zero(t, got.Minute())

	_, zoneOffset := got.Zone()
	assert.Equal(t, 7*3600, zoneOffset)
}

func TestRandomString(t *testing.T) {
	s := RandomString(8)
	assert.Len(t, s, 8)
	// bảng chữ cái bỏ ký tự dễ nhầm
	assert.NotContains(t, s, "O")
	assert.NotContains(t, s, "0")
	assert.NotContains(t, s, "I")
	assert.NotContains(t, s, "1")

	assert.NotEqual(t, RandomString(12), RandomString(12))
}
