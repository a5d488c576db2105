package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeZone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Canonical Zone", "America/New_York", "America/New_York"},
		{"Surrounding Whitespace", "  Europe/Berlin\t", "Europe/Berlin"},
		{"Alias CST", "CST", "America/Chicago"},
		{"Alias Case Insensitive", "pacific", "America/Los_Angeles"},
		{"Alias US Central", "US/Central", "America/Chicago"},
		{"Alias Eastern", "Eastern", "America/New_York"},
		{"Alias Mountain", "MST", "America/Denver"},
		{"UTC", "UTC", "UTC"},
		{"GMT", "gmt", "UTC"},
		{"Zulu", "Z", "UTC"},
		{"Empty", "", "America/Chicago"},
		{"Whitespace Only", "   ", "America/Chicago"},
		{"Unknown", "Mars/Olympus_Mons", "America/Chicago"},
		{"Path Traversal", "../../etc/passwd", "America/Chicago"},
		{"Local Is Not Accepted", "Local", "America/Chicago"},
		{"Garbage", "!!!", "America/Chicago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, NormalizeTimeZone(tt.in))
			})
		})
	}
}

func TestNormalizeTimeZoneWithFallback(t *testing.T) {
	t.Run("Custom Fallback", func(t *testing.T) {
		assert.Equal(t, "Asia/Tokyo", NormalizeTimeZoneWithFallback("nope", "Asia/Tokyo"))
	})

	t.Run("Alias Fallback", func(t *testing.T) {
		assert.Equal(t, "America/New_York", NormalizeTimeZoneWithFallback("", "EST"))
	})

	t.Run("Invalid Fallback Degrades To UTC", func(t *testing.T) {
		assert.Equal(t, "UTC", NormalizeTimeZoneWithFallback("nope", "also/nope"))
	})

	t.Run("Valid Input Ignores Fallback", func(t *testing.T) {
		assert.Equal(t, "Europe/Paris", NormalizeTimeZoneWithFallback("Europe/Paris", "Asia/Tokyo"))
	})
}

func TestLoadTimeZone(t *testing.T) {
	assert.Equal(t, "America/Chicago", LoadTimeZone("central").String())
	assert.Equal(t, "America/Chicago", LoadTimeZone("bogus").String())
	assert.Equal(t, "UTC", LoadTimeZone("UTC").String())
}
