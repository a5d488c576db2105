package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	t.Run("Valid Times", func(t *testing.T) {
		cases := map[string][2]int{
			"00:00": {0, 0},
			"09:05": {9, 5},
			"23:59": {23, 59},
			" 14:30 ": {14, 30},
		}
		for input, want := range cases {
			h, m, err := ParseClock(input)
			require.NoError(t, err, input)
			assert.Equal(t, want[0], h, input)
			assert.Equal(t, want[1], m, input)
		}
	})

	t.Run("Invalid Times", func(t *testing.T) {
		for _, input := range []string{"", "9:00", "24:00", "25:99", "12:60", "12:00:00", "ab:cd", "12.30", "+9:00", "-1:30", "09:+5", " 9: 30"} {
			_, _, err := ParseClock(input)
			assert.Error(t, err, "expected %q to be rejected", input)
		}
	})
}

func TestValidateStructCustomTags(t *testing.T) {
	type slot struct {
		Day   string `validate:"required,weekday"`
		Start string `validate:"required,hhmm"`
	}

	assert.NoError(t, ValidateStruct(slot{Day: "Monday", Start: "09:00"}))
	assert.Error(t, ValidateStruct(slot{Day: "funday", Start: "09:00"}))
	assert.Error(t, ValidateStruct(slot{Day: "monday", Start: "9am"}))
}
