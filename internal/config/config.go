package config // package config loads application configuration from environment variables

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, durations for
// timeouts and TTLs.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	DBUser           string        // database username
	DBPass           string        // database password (optional)
	DBHost           string        // database host address
	DBPort           string        // database port number
	DBName           string        // database name
	TicketSecret     string        // secret used to sign submission tickets
	TicketTTL        time.Duration // how long a committed order may wait for payment
	SessionTTL       time.Duration // inactivity bound for a booking session
	SubmitTimeout    time.Duration // bound on the booking persistence call
	SweepInterval    time.Duration // how often expired sessions are evicted
	AMQPURL          string        // RabbitMQ URL (optional; eventing disabled when empty)
	BookingEventsOn  bool          // whether to run the booking.created consumer
	BrowseCacheTTL   time.Duration // response cache TTL for browse endpoints
	RateLimitPerMin  int           // per-client request budget per minute (0 disables)
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		TicketSecret:    must("TICKET_SECRET"),
		TicketTTL:       dur("TICKET_TTL", 15*time.Minute),
		SessionTTL:      dur("SESSION_TTL", time.Hour),
		SubmitTimeout:   dur("SUBMIT_TIMEOUT", 10*time.Second),
		SweepInterval:   dur("SESSION_SWEEP_INTERVAL", time.Minute),
		AMQPURL:         os.Getenv("RABBITMQ_URL"),
		BookingEventsOn: boolean("BOOKING_EVENTS_ENABLED", true),
		BrowseCacheTTL:  dur("BROWSE_CACHE_TTL", 30*time.Second),
		RateLimitPerMin: integer("RATE_LIMIT_PER_MIN", 120),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logrus.Fatalf("missing required env var: %s", key)
	}
	return v
}

// dur reads an optional duration variable, falling back to the default
// on absence or parse failure.
func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}

// integer reads an optional int variable with a default.
func integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

// boolean reads an optional bool variable with a default.
func boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Fatalf("invalid bool for %s: %q", key, v)
	}
	return b
}
