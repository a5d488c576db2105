package availability

import (
	"clinic-portal-service/internal/pkg/constvars"
	"strings"
	"time"
	_ "time/tzdata"
)

const utcZone = "UTC"

var timeZoneAliases = map[string]string{
	"cst":         "America/Chicago",
	"cdt":         "America/Chicago",
	"central":     "America/Chicago",
	"us/central":  "America/Chicago",
	"est":         "America/New_York",
	"edt":         "America/New_York",
	"eastern":     "America/New_York",
	"us/eastern":  "America/New_York",
	"mst":         "America/Denver",
	"mdt":         "America/Denver",
	"mountain":    "America/Denver",
	"us/mountain": "America/Denver",
	"pst":         "America/Los_Angeles",
	"pdt":         "America/Los_Angeles",
	"pacific":     "America/Los_Angeles",
	"us/pacific":  "America/Los_Angeles",
	"utc":         utcZone,
	"gmt":         utcZone,
	"z":           utcZone,
	"etc/utc":     utcZone,
}

// NormalizeTimeZone returns a loadable IANA zone name for tz, falling back to America/Chicago.
func NormalizeTimeZone(tz string) string {
	return NormalizeTimeZoneWithFallback(tz, constvars.AvailabilityDefaultTimeZone)
}

// NormalizeTimeZoneWithFallback is NormalizeTimeZone with a caller-chosen fallback. An unusable
// fallback degrades to UTC. It never panics.
func NormalizeTimeZoneWithFallback(tz, fallback string) string {
	if zone, ok := resolveZone(tz); ok {
		return zone
	}
	if zone, ok := resolveZone(fallback); ok {
		return zone
	}
	return utcZone
}

// ResolveTimeZone reports the IANA name tz maps to, without any fallback.
func ResolveTimeZone(tz string) (string, bool) {
	return resolveZone(tz)
}

// LoadTimeZone returns the location of the normalized zone name.
func LoadTimeZone(tz string) *time.Location {
	loc, err := time.LoadLocation(NormalizeTimeZone(tz))
	if err != nil {
		return time.UTC
	}
	return loc
}

func resolveZone(tz string) (zone string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			zone, ok = "", false
		}
	}()

	tz = strings.TrimSpace(tz)
	if tz == "" || len(tz) > 64 {
		return "", false
	}
	if alias, found := timeZoneAliases[strings.ToLower(tz)]; found {
		return alias, true
	}
	// time.LoadLocation treats "Local" as the host zone, which is not a stable identifier
	if strings.EqualFold(tz, "local") {
		return "", false
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", false
	}
	return loc.String(), true
}
