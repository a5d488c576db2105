package constvars

// Validation messages, keyed by the validator tag
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"uuid":     "must be a valid uuid",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"oneof":    "must be one of %s",
	"gtfield":  "must be after %s",
	"hhmm":     "must be a 24-hour HH:MM time",
	"weekday":  "must be a weekday name (monday..sunday)",
	"datetime": "must be a valid date",
	"url":      "must be a valid URL",
}

// Validation tags whose message embeds the tag parameter
var TagsWithParams = map[string]bool{
	"min":     true,
	"max":     true,
	"oneof":   true,
	"gtfield": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientResourceNotFound              = "the requested data was not found"
	ErrClientResourceConflict              = "the data conflicts with an existing record"
	ErrClientTooManyRequests               = "too many requests, please try again later"
	ErrClientUpstreamUnavailable           = "the data service is temporarily unavailable"
	ErrClientDocumentNotReady              = "the document is still being generated"
)

// Error messages for developers
const (
	ErrDevInvalidInput                = "invalid input"
	ErrDevValidationFailed            = "validation failed"
	ErrDevCannotParseJSON             = "cannot parse JSON"
	ErrDevCannotMarshalJSON           = "cannot marshal JSON"
	ErrDevURLParamIDValidationFailed  = "URL param '%s' validation failed"
	ErrDevQueryParamValidationFailed  = "query param '%s' validation failed"
	ErrDevCreateHTTPRequest           = "failed to create HTTP request"
	ErrDevSendHTTPRequest             = "failed to send HTTP request"
	ErrDevServerProcess               = "server failed to process the request"
	ErrDevServerDeadlineExceeded      = "server deadline exceeded"
	ErrDevAuthTokenMissing            = "authorization token missing"
	ErrDevAuthTokenInvalidOrExpired   = "authorization token invalid or expired"
	ErrDevRoleTypeDoesntMatch         = "role type doesn't match"
	ErrDevRateLimited                 = "rate limit exceeded for %s"
	ErrDevRequestQueueClosed          = "request queue is closed"
	ErrDevSupabaseRequest             = "supabase request to %s failed"
	ErrDevSupabaseDecodeResponse      = "failed to decode supabase response from %s"
	ErrDevSupabaseNotFound            = "no %s row matched"
	ErrDevSupabaseForbidden           = "row level security rejected access to %s"
	ErrDevSupabaseConflict            = "conflicting %s row"
	ErrDevRedisGetNoData              = "failed to get data from redis with key %s"
	ErrDevRedisSetData                = "failed to set data to redis"
	ErrDevRedisDeleteData             = "failed to delete data from redis"
	ErrDevRedisIncrementValue         = "failed to increment value in redis"
	ErrDevRedisScanKeys               = "failed to scan keys in redis"
	ErrDevRedisUnlock                 = "failed to unlock redis lock"
	ErrDevMinioFailedToCreateObject   = "failed to create object in bucket %s"
	ErrDevMinioFailedToPresignObject  = "failed to presign object in bucket %s"
	ErrDevMinioFailedToRemoveObject   = "failed to remove object in bucket %s"
	ErrDevRabbitMQPublishMessage      = "failed to publish message to queue %s"
	ErrDevRenderDocument              = "failed to render %s document"
	ErrDevUnknownDocumentTemplate     = "unknown document template %s"
	ErrDevAvailabilityPatternInvalid  = "weekly availability pattern invalid"
	ErrDevAvailabilityExceptionFormat = "availability exception invalid"
	ErrDevDocumentNotReady            = "document %s is not ready"
)
