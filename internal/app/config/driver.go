package config

type (
	DriverConfig struct {
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
		Supabase Supabase
		Chrome   Chrome
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
		VHost    string
	}
	// Minio points at the S3-compatible endpoint of Supabase Storage.
	Minio struct {
		Endpoint   string
		Region     string
		AccessKey  string
		SecretKey  string
		BucketName string
		UseSSL     bool
	}
	Supabase struct {
		URL            string
		AnonKey        string
		ServiceRoleKey string
		JWTSecret      string
		Schema         string
		RequestTimeout int
	}
	Chrome struct {
		ExecPath       string
		Headless       bool
		NoSandbox      bool
		RenderTimeout  int
		RemoteDebugURL string
	}
)
