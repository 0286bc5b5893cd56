package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ✅ Default remote backend (the CodeChella API this console fronts)
var DefaultBackendURL = "https://codechella-backend.onrender.com"

type Config struct {
	Port string

	// Remote CodeChella backend
	BackendBaseURL string
	LoginTimeout   time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret   string
	JWTAccessTTLHours int

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Kafka Config
	KafkaBrokers           string
	KafkaNotificationTopic string

	// Token-at-rest encryption key (hex, 32 bytes decoded)
	SessionSealKey string

	// Role-watch / stream intervals
	RoleWatchInterval  time.Duration
	StatusPageInterval time.Duration
	StreamPollFallback time.Duration
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_HOURS"))
	if accessTTL == 0 {
		accessTTL = 12
	}
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	backendURL := os.Getenv("BACKEND_BASE_URL")
	if backendURL == "" {
		backendURL = DefaultBackendURL
	}

	return &Config{
		Port: os.Getenv("PORT"),

		BackendBaseURL: backendURL,
		LoginTimeout:   durationEnv("LOGIN_TIMEOUT_SECONDS", 15*time.Second),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTAccessSecret:   os.Getenv("JWT_ACCESS_SECRET"),
		JWTAccessTTLHours: accessTTL,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers:           os.Getenv("KAFKA_BROKERS"),
		KafkaNotificationTopic: envOr("KAFKA_NOTIFICATION_TOPIC", "console.notifications"),

		SessionSealKey: os.Getenv("SESSION_SEAL_KEY"),

		RoleWatchInterval:  durationEnv("ROLE_WATCH_INTERVAL_SECONDS", 10*time.Second),
		StatusPageInterval: durationEnv("STATUS_PAGE_INTERVAL_SECONDS", 5*time.Second),
		StreamPollFallback: durationEnv("STREAM_POLL_FALLBACK_SECONDS", 5*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
