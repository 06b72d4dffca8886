package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var loadEnv sync.Once

// Config returns the value of an environment key, loading .env on first use.
func Config(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			logrus.Debug("no .env file, using process environment")
		}
	})
	return os.Getenv(key)
}

type AppConfig struct {
	Port string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins string
	HotelTZ     *time.Location

	AdmissionGuard    string
	StatusTransitions string
	OverlapConstraint bool
	ReactivationCheck bool

	RateLimitMax    int
	RateLimitWindow time.Duration

	LogLevel  string
	LogFormat string

	AdminEmail    string
	AdminPassword string
}

// DefaultCORSOrigins covers the local frontends.
const DefaultCORSOrigins = "http://localhost:5173,http://localhost:3000,http://localhost:5174"

const (
	GuardLock = "lock"
	GuardNone = "none"

	TransitionsPermissive = "permissive"
	TransitionsStrict     = "strict"
)

func Load() *AppConfig {
	cfg := &AppConfig{
		Port:              getEnv("PORT", "5000"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnvInt("DB_PORT", 5432),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", "hotel_booking"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		CORSOrigins:       getEnv("CORS_ORIGINS", DefaultCORSOrigins),
		AdmissionGuard:    getEnvOneOf("BOOKING_ADMISSION_GUARD", GuardLock, GuardLock, GuardNone),
		StatusTransitions: getEnvOneOf("BOOKING_STATUS_TRANSITIONS", TransitionsPermissive, TransitionsPermissive, TransitionsStrict),
		OverlapConstraint: getEnvBool("BOOKING_OVERLAP_CONSTRAINT", false),
		ReactivationCheck: getEnvBool("BOOKING_REACTIVATION_CHECK", false),
		RateLimitMax:      getEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
	}

	tzName := getEnv("HOTEL_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		logrus.WithError(err).WithField("timezone", tzName).Warn("invalid HOTEL_TIMEZONE, falling back to UTC")
		loc = time.UTC
	}
	cfg.HotelTZ = loc

	return cfg
}

func getEnv(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := Config(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid integer %q, using %d", v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := Config(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid boolean %q, using %t", v, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := Config(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithField("key", key).Warnf("invalid duration %q, using %s", v, fallback)
		return fallback
	}
	return d
}

func getEnvOneOf(key, fallback string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(Config(key)))
	if v == "" {
		return fallback
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	logrus.WithField("key", key).Warnf("unknown value %q, using %q", v, fallback)
	return fallback
}
