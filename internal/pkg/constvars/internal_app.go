package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_AUTH_USER_KEY            ContextKey = "auth_user"
	CONTEXT_REQUEST_PRIORITY_KEY     ContextKey = "request_priority"
)

const (
	REQUEST_ID_PREFIX = "CLNPRTL_SVC_"
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
)

const (
	RoleClient    = "client"
	RoleClinician = "clinician"
	RoleAdmin     = "admin"
)

// Results of the redis compare-and-act scripts.
const (
	RedisCompareMismatch int64 = -1
	RedisCompareMissing  int64 = 0
	RedisCompareMatched  int64 = 1
)
