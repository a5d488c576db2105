package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"

	// Availability messages
	GetWeeklyAvailabilitySuccessfully      = "get weekly availability successfully"
	UpsertWeeklyAvailabilitySuccessMessage = "weekly availability updated successfully"
	GetCalendarSuccessfully                = "get calendar successfully"
	GetAvailabilityExceptionsSuccessfully  = "get availability exceptions successfully"
	CreateAvailabilityExceptionSuccess     = "availability exception created successfully"
	DeleteAvailabilityExceptionSuccess     = "availability exception deleted successfully"

	// Client messages
	GetClientsSuccessfully     = "get clients successfully"
	GetClientSuccessfully      = "get client successfully"
	CreateClientSuccessMessage = "client created successfully"
	UpdateClientSuccessMessage = "client updated successfully"
	DeleteClientSuccessMessage = "client deleted successfully"

	// Appointment messages
	GetAppointmentsSuccessfully     = "get appointments successfully"
	GetAppointmentSuccessfully      = "get appointment successfully"
	CreateAppointmentSuccessMessage = "appointment created successfully"
	UpdateAppointmentSuccessMessage = "appointment updated successfully"
	DeleteAppointmentSuccessMessage = "appointment deleted successfully"

	// Calendar event messages
	GetCalendarEventsSuccessfully     = "get calendar events successfully"
	CreateCalendarEventSuccessMessage = "calendar event created successfully"
	UpdateCalendarEventSuccessMessage = "calendar event updated successfully"
	DeleteCalendarEventSuccessMessage = "calendar event deleted successfully"

	// Assessment messages
	GetAssessmentsSuccessfully     = "get assessments successfully"
	GetAssessmentSuccessfully      = "get assessment successfully"
	CreateAssessmentSuccessMessage = "assessment created successfully"
	UpdateAssessmentSuccessMessage = "assessment updated successfully"
	DeleteAssessmentSuccessMessage = "assessment deleted successfully"

	// User messages
	GetProfileSuccessMessage    = "get profile successfully"
	UpdateProfileSuccessMessage = "profile updated successfully"

	// Document messages
	GetDocumentsSuccessfully           = "get documents successfully"
	GetDocumentSuccessfully            = "get document successfully"
	GenerateDocumentSuccessMessage     = "document generated successfully"
	QueueDocumentSuccessMessage        = "document queued for generation"
	GetDocumentDownloadURLSuccessfully = "get document download url successfully"
	DeleteDocumentSuccessMessage       = "document deleted successfully"

	// Diagnostics messages
	DiagnosticsHealthyMessage   = "all checks passed"
	DiagnosticsUnhealthyMessage = "one or more checks failed"
)
