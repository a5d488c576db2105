package responses

import (
	"clinic-portal-service/internal/app/models"
	"time"
)

type Calendar struct {
	ClinicianID string                 `json:"clinician_id"`
	TimeZone    string                 `json:"time_zone"`
	WeeksToShow int                    `json:"weeks_to_show"`
	From        time.Time              `json:"from"`
	To          time.Time              `json:"to"`
	Events      []models.CalendarEvent `json:"events"`
	GeneratedAt time.Time              `json:"generated_at"`
}
