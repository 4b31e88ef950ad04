package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings normalizes flag values
	"time"    // time parses duration settings

	"github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// DefaultDBName is used when DB_NAME is not set.
const DefaultDBName = "disaster_relief"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Nothing is strictly required: a missing MONGO_URI
// leaves the store unconfigured and the camp endpoint answers 500 until the
// process is restarted with one.
type Config struct {
	Env       string // application environment (e.g. "development", "production")
	Port      string // HTTP port to listen on
	MongoURI  string // MongoDB connection string (optional)
	DBName    string // database holding the camps collection
	LogLevel  string // echo logger level
	BodyLimit string // maximum accepted request body, echo size syntax ("1M")
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Events    EventsConfig
}

// EventsConfig controls the camp.created notifications sent to RabbitMQ.
// Publishing is enabled whenever a broker URL is present.
type EventsConfig struct {
	URL             string // amqp:// broker URL
	Queue           string // durable queue receiving camp.created events
	ConsumerEnabled bool   // run the audit consumer inside this process
	LogDir          string // directory the consumer appends camps.log to
}

// StoreConfigured reports whether a document store connection string was provided.
func (c Config) StoreConfigured() bool {
	return strings.TrimSpace(c.MongoURI) != ""
}

// Enabled reports whether camp events should be published.
func (e EventsConfig) Enabled() bool {
	return e.URL != ""
}

// Load reads configuration values from a .env file (when present) and the
// process environment and returns a Config.  Optional values fall back to
// defaults so a bare `go run ./cmd/server` starts on port 8000.
func Load() Config {
	_ = godotenv.Load() // a missing .env is fine; real env vars win anyway

	return Config{
		Env:       envStr("APP_ENV", "development"), // environment label
		Port:      envStr("PORT", "8000"),           // port to bind the HTTP server
		MongoURI:  os.Getenv("MONGO_URI"),           // empty disables the store
		DBName:    envStr("DB_NAME", DefaultDBName), // database name
		LogLevel:  envStr("LOG_LEVEL", "info"),      // logger verbosity
		BodyLimit: envStr("BODY_LIMIT", "1M"),       // request body cap
		RateLimit: LoadRateLimitConfig(),
		Redis:     LoadRedisConfig(),
		Events:    LoadEventsConfig(),
	}
}

// LoadEventsConfig reads the broker settings.  RABBITMQ_URL takes precedence
// over AMQP_URL.
func LoadEventsConfig() EventsConfig {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	return EventsConfig{
		URL:             url,
		Queue:           envStr("CAMP_EVENTS_QUEUE", "camp.created"),
		ConsumerEnabled: envBool("CAMP_CONSUMER_ENABLED", false),
		LogDir:          envStr("CAMP_LOG_DIR", "logs"),
	}
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
