package constvars

const (
	URLParamID          = "id"
	URLParamClinicianID = "clinicianID"
	URLParamExceptionID = "exceptionID"
)

const (
	URLQueryParamPage                = "page"
	URLQueryParamPageSize            = "page_size"
	URLQueryParamSearch              = "search"
	URLQueryParamStatus              = "status"
	URLQueryParamClientID            = "client_id"
	URLQueryParamClinicianID         = "clinician_id"
	URLQueryParamTemplate            = "template"
	URLQueryParamInstrument          = "instrument"
	URLQueryParamFrom                = "from"
	URLQueryParamTo                  = "to"
	URLQueryParamTimeZone            = "tz"
	URLQueryParamWeeks               = "weeks"
	URLQueryParamIncludeAppointments = "include_appointments"
)
