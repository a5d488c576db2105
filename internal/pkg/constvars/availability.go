package constvars

const (
	AvailabilityDefaultTimeZone    = "America/Chicago"
	AvailabilityDefaultWeeksToShow = 8
	AvailabilityMaxWeeksToShow     = 52
	AvailabilityEventTitle         = "Available"
	AvailabilityEventColor         = "#4caf50"
	AppointmentEventColor          = "#1e88e5"
	CalendarEventDefaultColor      = "#8e24aa"
)

const (
	PastSlotPolicyRollForward = "roll_forward"
	PastSlotPolicyExclude     = "exclude"
)

const (
	AvailabilityWarmLockKey      = "availability:warm:leader"
	CacheKeyCalendarPrefix       = "calendar:"
	CacheKeyPatternPrefix        = "availability:"
	CacheKeyClientsPrefix        = "clients:"
	CacheKeyAssessmentsPrefix    = "assessments:"
	CacheKeyUsersPrefix          = "users:"
	CacheKeyCalendarEventsPrefix = "calendar_events:"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)
