package config

import "time"

type InternalConfig struct {
	App          App
	Availability AppAvailability
	Cache        AppCache
	RequestQueue AppRequestQueue
	RateLimit    AppRateLimit
	Realtime     AppRealtime
	Documents    AppDocuments
}

type App struct {
	Env                        string
	Port                       string
	Version                    string
	Address                    string
	EndpointPrefix             string
	FrontendDomain             string
	MaxRequests                int
	MaxTimeRequestsPerSeconds  int
	ShutdownTimeoutInSeconds   int
	RequestBodyLimitInMegabyte int
}

type AppAvailability struct {
	DefaultWeeks    int
	DefaultTimeZone string
	PastSlotPolicy  string
	// WarmCronSpec schedules the calendar cache warmer (e.g., "@hourly")
	WarmCronSpec  string
	WarmLockTTL   time.Duration
	WarmWeeks     int
	WorkerEnabled bool
}

type AppCache struct {
	Enabled bool
}

type AppRequestQueue struct {
	MaxConcurrency int
	MaxRetries     int
	BaseBackoff    time.Duration
	MaxBackoff     time.Duration
}

type AppRateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

type AppRealtime struct {
	Enabled           bool
	HeartbeatInterval time.Duration
	MaxBackoff        time.Duration
}

type AppDocuments struct {
	ClinicName                 string
	MaxRetry                   int
	RenderLimitPerHour         int
	PresignedURLExpiryInMinute int
	AsyncEnabled               bool
	ConsumerPrefetch           int
	ConsumerPollInterval       time.Duration
}
