package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string

	// Booking API the client talks to
	APIBaseURL string
	APITimeout time.Duration

	// Signed-in user, supplied by the host application
	AuthToken     string
	UserID        string
	UserName      string
	UserAvatarURL string

	// Screen defaults
	ProviderID string
	Platform   string
	Timezone   string

	// Stub booking API
	StubPort      string
	StubStore     string
	StubOpenHour  int
	StubCloseHour int
	// Comma separated; "*" allows any origin
	StubAllowedOrigins []string
	// Requests per second per IP, 0 disables
	StubRateLimit int
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3333"), "/"),
		APITimeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),

		AuthToken:     getEnv("AUTH_TOKEN", ""),
		UserID:        getEnv("USER_ID", ""),
		UserName:      getEnv("USER_NAME", ""),
		UserAvatarURL: getEnv("USER_AVATAR_URL", ""),

		ProviderID: getEnv("PROVIDER_ID", ""),
		Platform:   strings.ToLower(strings.TrimSpace(getEnv("PLATFORM", "ios"))),
		Timezone:   getEnv("TIMEZONE", "Local"),

		StubPort:           getEnv("STUB_PORT", "3333"),
		StubStore:          strings.ToLower(strings.TrimSpace(getEnv("STUB_STORE", "memory"))),
		StubOpenHour:       getEnvAsInt("STUB_OPEN_HOUR", 8),
		StubCloseHour:      getEnvAsInt("STUB_CLOSE_HOUR", 17),
		StubAllowedOrigins: getEnvAsList("STUB_ALLOWED_ORIGINS", []string{"*"}),
		StubRateLimit:      getEnvAsInt("STUB_RATE_LIMIT", 0),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
	}
}

// Location resolves the configured timezone. Unknown names fall back to the
// process local zone.
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
