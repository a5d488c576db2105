package config

import (
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/utils"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
			VHost:    utils.GetEnvString("RABBITMQ_VHOST", "/"),
		},
		Minio: Minio{
			Endpoint:   utils.GetEnvString("MINIO_ENDPOINT", "localhost:9000"),
			Region:     utils.GetEnvString("MINIO_REGION", "us-east-1"),
			AccessKey:  utils.GetEnvString("MINIO_ACCESS_KEY", ""),
			SecretKey:  utils.GetEnvString("MINIO_SECRET_KEY", ""),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "documents"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Supabase: Supabase{
			URL:            utils.GetEnvString("SUPABASE_URL", "http://localhost:54321"),
			AnonKey:        utils.GetEnvString("SUPABASE_ANON_KEY", ""),
			ServiceRoleKey: utils.GetEnvString("SUPABASE_SERVICE_ROLE_KEY", ""),
			JWTSecret:      utils.GetEnvString("SUPABASE_JWT_SECRET", ""),
			Schema:         utils.GetEnvString("SUPABASE_SCHEMA", "public"),
			RequestTimeout: utils.GetEnvInt("SUPABASE_REQUEST_TIMEOUT_IN_SECONDS", 15),
		},
		Chrome: Chrome{
			ExecPath:       utils.GetEnvString("CHROME_EXEC_PATH", ""),
			Headless:       utils.GetEnvBool("CHROME_HEADLESS", true),
			NoSandbox:      utils.GetEnvBool("CHROME_NO_SANDBOX", true),
			RenderTimeout:  utils.GetEnvInt("CHROME_RENDER_TIMEOUT_IN_SECONDS", 30),
			RemoteDebugURL: utils.GetEnvString("CHROME_REMOTE_DEBUG_URL", ""),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:                       utils.GetEnvString("APP_PORT", "8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "0.0.0.0"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			FrontendDomain:             utils.GetEnvString("APP_FRONTEND_DOMAIN", "http://localhost:3000"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			ShutdownTimeoutInSeconds:   utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
		},
		Availability: AppAvailability{
			DefaultWeeks:    utils.GetEnvInt("AVAILABILITY_DEFAULT_WEEKS", constvars.AvailabilityDefaultWeeksToShow),
			DefaultTimeZone: utils.GetEnvString("AVAILABILITY_DEFAULT_TIMEZONE", constvars.AvailabilityDefaultTimeZone),
			PastSlotPolicy:  utils.GetEnvString("AVAILABILITY_PAST_SLOT_POLICY", constvars.PastSlotPolicyRollForward),
			WarmCronSpec:    utils.GetEnvString("AVAILABILITY_WARM_CRON_SPEC", "@hourly"),
			WarmLockTTL:     utils.GetEnvDuration("AVAILABILITY_WARM_LOCK_TTL", 10*time.Minute),
			WarmWeeks:       utils.GetEnvInt("AVAILABILITY_WARM_WEEKS", constvars.AvailabilityDefaultWeeksToShow),
			WorkerEnabled:   utils.GetEnvBool("AVAILABILITY_WORKER_ENABLED", true),
		},
		Cache: AppCache{
			Enabled: utils.GetEnvBool("CACHE_ENABLED", true),
		},
		RequestQueue: AppRequestQueue{
			MaxConcurrency: utils.GetEnvInt("REQUEST_QUEUE_MAX_CONCURRENCY", 6),
			MaxRetries:     utils.GetEnvInt("REQUEST_QUEUE_MAX_RETRIES", 3),
			BaseBackoff:    utils.GetEnvDuration("REQUEST_QUEUE_BASE_BACKOFF", 200*time.Millisecond),
			MaxBackoff:     utils.GetEnvDuration("REQUEST_QUEUE_MAX_BACKOFF", 5*time.Second),
		},
		RateLimit: AppRateLimit{
			RequestsPerSecond: utils.GetEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
			Burst:             utils.GetEnvInt("RATE_LIMIT_BURST", 20),
		},
		Realtime: AppRealtime{
			Enabled:           utils.GetEnvBool("REALTIME_ENABLED", true),
			HeartbeatInterval: utils.GetEnvDuration("REALTIME_HEARTBEAT_INTERVAL", 30*time.Second),
			MaxBackoff:        utils.GetEnvDuration("REALTIME_MAX_BACKOFF", 30*time.Second),
		},
		Documents: AppDocuments{
			ClinicName:                 utils.GetEnvString("DOCUMENTS_CLINIC_NAME", "Clinic Portal"),
			MaxRetry:                   utils.GetEnvInt("DOCUMENTS_MAX_RETRY", 3),
			RenderLimitPerHour:         utils.GetEnvInt("DOCUMENTS_RENDER_LIMIT_PER_HOUR", 30),
			PresignedURLExpiryInMinute: utils.GetEnvInt("DOCUMENTS_PRESIGNED_URL_EXPIRY_IN_MINUTE", 15),
			AsyncEnabled:               utils.GetEnvBool("DOCUMENTS_ASYNC_ENABLED", true),
			ConsumerPrefetch:           utils.GetEnvInt("DOCUMENTS_CONSUMER_PREFETCH", 5),
			ConsumerPollInterval:       utils.GetEnvDuration("DOCUMENTS_CONSUMER_POLL_INTERVAL", 2*time.Second),
		},
	}
}
