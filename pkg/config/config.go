package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DBDriver                string
	PostgresConnStr         string
	SQLitePath              string
	MongoURI                string
	MongoDatabase           string
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	JWTSecret               string
	AuthProvider            string
	FirebaseCredentialsPath string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PublicURL string
	S3AccessKey string
	S3SecretKey string
	MediaRoot   string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	ShortLinkBase string
	RateLimit     float64
}

// Load reads the configuration from the environment, loading a .env file first when one exists.
func Load() *Config {
	// A missing .env is fine: the environment may already be populated.
	_ = godotenv.Load()

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		DBDriver:                getEnv("DB_DRIVER", DriverPostgres),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		SQLitePath:              getEnv("SQLITE_PATH", "./foodhelper.db"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "foodhelper"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RedisDB:                 getEnvInt("REDIS_DB", 0),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		AuthProvider:            getEnv("AUTH_PROVIDER", AuthJWT),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		S3Bucket:                getEnv("S3_BUCKET", ""),
		S3Region:                getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:              getEnv("S3_ENDPOINT", ""),
		S3PublicURL:             getEnv("S3_PUBLIC_URL", ""),
		S3AccessKey:             getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:             getEnv("S3_SECRET_KEY", ""),
		MediaRoot:               getEnv("MEDIA_ROOT", "./media"),
		SMTPHost:                getEnv("SMTP_HOST", ""),
		SMTPPort:                getEnvInt("SMTP_PORT", 587),
		SMTPUser:                getEnv("SMTP_USER", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:                getEnv("SMTP_FROM", "noreply@foodhelper.local"),
		ShortLinkBase:           getEnv("SHORT_LINK_BASE", "http://localhost:8080"),
		RateLimit:               getEnvFloat("RATE_LIMIT", 20),
	}
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverPostgres:
		if c.PostgresConnStr == "" {
			errs = append(errs, errors.New("POSTGRES_CONN_STR environment variable not set"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH environment variable not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI environment variable not set"))
	}

	switch c.AuthProvider {
	case AuthJWT:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET environment variable not set"))
		}
	case AuthFirebase:
		if c.FirebaseCredentialsPath == "" {
			errs = append(errs, errors.New("FIREBASE_CREDENTIALS_PATH environment variable not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider))
	}

	if c.S3Bucket != "" && c.S3PublicURL == "" {
		errs = append(errs, errors.New("S3_PUBLIC_URL is required when S3_BUCKET is set"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("RATE_LIMIT must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}
