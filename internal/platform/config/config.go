package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL          time.Duration
	SessionRotateWindow time.Duration
	SessionRetention    time.Duration

	SweepInterval       time.Duration
	SweepLockKey        string
	SweepLockTTLSeconds int

	ObjectStoreEndpoint  string
	ObjectStoreAccessKey string
	ObjectStoreSecretKey string
	ObjectStoreBucket    string
	ObjectStoreRegion    string
	ObjectStoreUseSSL    bool
	UploadURLExpiry      time.Duration

	CookieSecure bool
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:             getEnv("API_PORT", "8080"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "user"),
		DBPassword:          getEnv("DB_PASSWORD", "password"),
		DBName:              getEnv("DB_NAME", "alumnet_db"),
		DBSslMode:           getEnv("DB_SSLMODE", "disable"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		SessionTTL:          time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 168)) * time.Hour,
		SessionRotateWindow: time.Duration(getEnvAsInt("SESSION_ROTATE_WINDOW_HOURS", 48)) * time.Hour,
		SessionRetention:    time.Duration(getEnvAsInt("SESSION_RETENTION_HOURS", 720)) * time.Hour,
		SweepInterval:       time.Duration(getEnvAsInt("SESSION_SWEEP_INTERVAL_MINUTES", 15)) * time.Minute,
		SweepLockKey:        getEnv("SESSION_SWEEP_LOCK_KEY", "session_sweep_lock"),
		SweepLockTTLSeconds: getEnvAsInt("SESSION_SWEEP_LOCK_TTL_SECONDS", 300),

		ObjectStoreEndpoint:  getEnv("OBJECT_STORE_ENDPOINT", "localhost:9000"),
		ObjectStoreAccessKey: getEnv("OBJECT_STORE_ACCESS_KEY", "minioadmin"),
		ObjectStoreSecretKey: getEnv("OBJECT_STORE_SECRET_KEY", "minioadmin"),
		ObjectStoreBucket:    getEnv("OBJECT_STORE_BUCKET", "alumnet-media"),
		ObjectStoreRegion:    getEnv("OBJECT_STORE_REGION", "us-east-1"),
		ObjectStoreUseSSL:    getEnvAsBool("OBJECT_STORE_USE_SSL", false),
		UploadURLExpiry:      time.Duration(getEnvAsInt("UPLOAD_URL_EXPIRY_MINUTES", 60)) * time.Minute,

		CookieSecure: getEnvAsBool("COOKIE_SECURE", true),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}
