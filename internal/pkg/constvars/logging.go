package constvars

const (
	LoggingRequestIDKey         = "request_id"
	LoggingDataKey              = "data"
	LoggingQueryParamsKey       = "query_params"
	LoggingResponseKey          = "response"
	LoggingMethodKey            = "method"
	LoggingEndpointKey          = "endpoint"
	LoggingRemoteAddrKey        = "remote_addr"
	LoggingUserAgentKey         = "user_agent"
	LoggingQueryKey             = "query"
	LoggingStatusCodeKey        = "status_code"
	LoggingDurationKey          = "duration"
	LoggingSuccessKey           = "success"
	LoggingErrorTypeKey         = "error_type"
	LoggingUserIDKey            = "user_id"
	LoggingClinicianIDKey       = "clinician_id"
	LoggingClientIDKey          = "client_id"
	LoggingSlotIDKey            = "slot_id"
	LoggingWeekdayKey           = "weekday"
	LoggingTimeZoneKey          = "time_zone"
	LoggingWeeksToShowKey       = "weeks_to_show"
	LoggingEventCountKey        = "event_count"
	LoggingTableKey             = "table"
	LoggingChannelKey           = "channel"
	LoggingRedisKey             = "redis_key"
	LoggingCacheKey             = "cache_key"
	LoggingLockValueKey         = "lock_value"
	LoggingLockExpirationKey    = "lock_expiration"
	LoggingAttemptKey           = "attempt"
	LoggingPriorityKey          = "priority"
	LoggingBucketNameKey        = "bucket_name"
	LoggingObjectNameKey        = "object_name"
	LoggingQueueNameKey         = "queue_name"
	LoggingDocumentIDKey        = "document_id"
	LoggingLockExpectedValueKey = "lock_expected_value"
	LoggingResourceKey          = "resource"
	LoggingTemplateKey          = "template"
	LoggingRetryAfterKey        = "retry_after"
	LoggingJobIDKey             = "job_id"
	LoggingExceptionIDKey       = "exception_id"
	LoggingAppointmentIDKey     = "appointment_id"
	LoggingAssessmentIDKey      = "assessment_id"
	LoggingCalendarEventIDKey   = "calendar_event_id"
	LoggingDeliveryTagKey       = "delivery_tag"
	LoggingChangeTypeKey        = "change_type"
	LoggingErrorKey             = "error"
)
