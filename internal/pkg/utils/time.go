package utils

import (
	"fmt"
	"strings"
)

// ParseClock parses a strict 24-hour "HH:MM" string into hour and minute.
func ParseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	h, ok := twoDigits(parts[0])
	if !ok {
		return 0, 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	m, ok := twoDigits(parts[1])
	if !ok {
		return 0, 0, fmt.Errorf("time %q has an invalid minute", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("time %q is out of range", s)
	}
	return h, m, nil
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
