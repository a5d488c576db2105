package availability

import (
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/utils"
	"fmt"
	"time"
)

// clock holds a local wall time (hour and minute).
type clock struct {
	H int
	M int
}

func (c clock) minutes() int {
	return c.H*60 + c.M
}

func (c clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.H, c.M)
}

// dayWindow defines an inclusive start and exclusive end wall-clock window for a single day.
type dayWindow struct {
	Start clock
	End   clock
}

func parseClock(s string) (clock, error) {
	h, m, err := utils.ParseClock(s)
	if err != nil {
		return clock{}, err
	}
	return clock{H: h, M: m}, nil
}

func parseWindow(startTime, endTime string) (dayWindow, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return dayWindow{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := parseClock(endTime)
	if err != nil {
		return dayWindow{}, fmt.Errorf("invalid end time: %w", err)
	}
	if start.minutes() >= end.minutes() {
		return dayWindow{}, fmt.Errorf("start >= end (%s >= %s)", start, end)
	}
	return dayWindow{Start: start, End: end}, nil
}

// atClock builds the wall-clock instant c on the date of day in loc. ok is false when the
// wall-clock time does not exist in loc (spring-forward gap) and time.Date had to normalize it.
func atClock(day time.Time, c clock, loc *time.Location) (time.Time, bool) {
	y, mo, dd := day.Date()
	t := time.Date(y, mo, dd, c.H, c.M, 0, 0, loc)
	if t.Hour() != c.H || t.Minute() != c.M {
		return t, false
	}
	return t, true
}

// PastSlotPolicy decides what happens to a same-day slot whose start has already passed.
type PastSlotPolicy string

const (
	// PastSlotRollForward anchors the series one week later so the window keeps its full length.
	PastSlotRollForward PastSlotPolicy = constvars.PastSlotPolicyRollForward
	// PastSlotExclude keeps today's anchor and drops only the elapsed week-0 instance.
	PastSlotExclude PastSlotPolicy = constvars.PastSlotPolicyExclude
)

// ParsePastSlotPolicy returns the policy for s, defaulting to roll_forward.
func ParsePastSlotPolicy(s string) PastSlotPolicy {
	if PastSlotPolicy(s) == PastSlotExclude {
		return PastSlotExclude
	}
	return PastSlotRollForward
}

// skip reasons reported to metrics
const (
	skipUnknownWeekday = "unknown_weekday"
	skipInvalidTime    = "invalid_time"
	skipNonexistent    = "nonexistent_time"
	skipElapsed        = "elapsed"
)
