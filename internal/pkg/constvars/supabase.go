package constvars

// Supabase tables addressed through PostgREST
const (
	TableClients                = "clients"
	TableAppointments           = "appointments"
	TableCalendarEvents         = "calendar_events"
	TableDocuments              = "documents"
	TableAssessments            = "assessments"
	TableUsers                  = "users"
	TableClinicianAvailability  = "clinician_availability"
	TableAvailabilityExceptions = "availability_exceptions"
)

const (
	SupabaseRestPath     = "/rest/v1/"
	SupabaseRealtimePath = "/realtime/v1/websocket"
	SupabaseSchemaPublic = "public"
)

const (
	PreferReturnRepresentation = "return=representation"
	PreferMergeDuplicates      = "resolution=merge-duplicates,return=representation"
	PreferCountExact           = "count=exact"
)

// PostgREST / Postgres error codes that map to non-5xx responses
const (
	PostgrestCodeNoRows          = "PGRST116"
	PostgresCodeInsufficientPriv = "42501"
	PostgresCodeUniqueViolation  = "23505"
	PostgresCodeForeignKey       = "23503"
	PostgresCodeCheckViolation   = "23514"
)
