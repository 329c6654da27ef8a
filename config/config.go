package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret      string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	DBNameTest     string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	MinioHost      string
	MinioPort      string
	MinioUsername  string
	MinioPassword  string
	BucketName     string
	BucketNameTest string
	RabbitMQURL    string

	MaxUploadBytes int64

	// Defaults applied to anonymous uploads. Anonymous files must keep at
	// least one bound so nothing is hosted indefinitely.
	AnonymousTTL          time.Duration
	AnonymousMaxDownloads int
	MaxTTL                time.Duration

	SweepInterval  time.Duration
	AuditRetention time.Duration

	StorageRetryMax      int
	StorageRetryBase     time.Duration
	ReclaimPrefetch      int
	ReclaimConcurrency   int
	ReclaimRate          float64
	ReclaimBurst         int
	ReclaimRetryMax      int
	ReclaimRetryDelays   []time.Duration
	DownloadEventEnabled bool

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	SMTPTLS      bool
	SMTPStartTLS bool
}

var AppConfig Config

// getEnv returns the environment value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDurationList(key string, defaultValue []time.Duration) []time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := time.ParseDuration(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// InitConfig loads configuration from the environment (and .env when present).
func InitConfig() {
	_ = godotenv.Load()

	rabbitHost := getEnv("RABBITMQ_HOST", "localhost")
	rabbitPort := getEnv("RABBITMQ_PORT", "5672")
	rabbitUser := getEnv("RABBITMQ_USER", "guest")
	rabbitPass := getEnv("RABBITMQ_PASSWORD", "guest")
	rabbitVhost := getEnv("RABBITMQ_VHOST", "/")
	rabbitURL := getEnv("RABBITMQ_URL", "")
	if rabbitURL == "" {
		rabbitURL = fmt.Sprintf(
			"amqp://%s:%s@%s:%s/%s",
			url.PathEscape(rabbitUser),
			url.PathEscape(rabbitPass),
			rabbitHost,
			rabbitPort,
			url.PathEscape(rabbitVhost),
		)
	}
	retryDelays := getEnvDurationList(
		"RECLAIM_RETRY_DELAYS",
		[]time.Duration{10 * time.Second, 30 * time.Second, 2 * time.Minute, 10 * time.Minute},
	)
	AppConfig = Config{
		JWTSecret:      getEnv("JWT_SECRET", "l=ax+b"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "root"),
		DBPass:         getEnv("DB_PASS", "root"),
		DBName:         getEnv("DB_NAME", "swiftshare"),
		DBNameTest:     getEnv("DB_NAME_TEST", "swiftshare_test"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        0,
		MinioHost:      getEnv("MINIO_HOST", "localhost"),
		MinioPort:      getEnv("MINIO_PORT", "9000"),
		MinioUsername:  getEnv("MINIO_USERNAME", "minioadmin"),
		MinioPassword:  getEnv("MINIO_PASSWORD", "minioadmin"),
		BucketName:     getEnv("BUCKET_NAME", "swiftshare"),
		BucketNameTest: getEnv("BUCKET_NAME_TEST", "swiftshare-test"),
		RabbitMQURL:    rabbitURL,

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 100*1024*1024),

		AnonymousTTL:          getEnvDuration("ANON_TTL", 5*time.Minute),
		AnonymousMaxDownloads: getEnvInt("ANON_MAX_DOWNLOADS", 3),
		MaxTTL:                getEnvDuration("MAX_TTL", 7*24*time.Hour),

		SweepInterval:  getEnvDuration("SWEEP_INTERVAL", 60*time.Second),
		AuditRetention: getEnvDuration("AUDIT_RETENTION", 72*time.Hour),

		StorageRetryMax:      getEnvInt("STORAGE_RETRY_MAX", 3),
		StorageRetryBase:     getEnvDuration("STORAGE_RETRY_BASE", 100*time.Millisecond),
		ReclaimPrefetch:      getEnvInt("RECLAIM_PREFETCH", 8),
		ReclaimConcurrency:   getEnvInt("RECLAIM_CONCURRENCY", 4),
		ReclaimRate:          getEnvFloat("RECLAIM_RATE", 8),
		ReclaimBurst:         getEnvInt("RECLAIM_BURST", 16),
		ReclaimRetryMax:      getEnvInt("RECLAIM_RETRY_MAX", 4),
		ReclaimRetryDelays:   retryDelays,
		DownloadEventEnabled: getEnvBool("DOWNLOAD_EVENTS", true),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", ""),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPass:     getEnv("SMTP_PASS", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPTLS:      getEnvBool("SMTP_TLS", false),
		SMTPStartTLS: getEnvBool("SMTP_STARTTLS", false),
	}
}
