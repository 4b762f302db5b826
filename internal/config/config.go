package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in the
// application: strings for identifiers and secrets, ints for timeouts.
type Config struct {
	Env              string // application environment (e.g. "dev", "prod")
	Port             string // HTTP port to listen on
	DBUser           string // database username
	DBPass           string // database password (optional)
	DBHost           string // database host address
	DBPort           string // database port number
	DBName           string // database name
	DBMaxOpenConns   int    // connection pool ceiling
	DBMaxIdleConns   int    // idle connections kept in the pool
	DBConnLifetimeM  int    // connection lifetime in minutes
	JWTSecret        string // secret used to verify JWTs
	GatewayKeyID     string // payment gateway API key id (empty disables the gateway)
	GatewayKeySecret string // payment gateway API key secret
	GatewayBaseURL   string // payment gateway base URL override (optional)
	GatewayTimeoutS  int    // payment gateway HTTP timeout in seconds
	RabbitURL        string // RabbitMQ connection URL (empty disables queue publishing)
	LogLevel         string // zerolog level name (debug/info/warn/error)
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. The payment gateway
// and RabbitMQ settings are optional: when unset the corresponding features
// degrade (free-event flows keep working without a gateway, cancellation
// audit messages are skipped without a broker).
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),      // environment (dev/test/prod)
		Port:             must("APP_PORT"),     // port to bind the HTTP server
		DBUser:           must("DB_USER"),      // database user
		DBPass:           os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:           must("DB_HOST"),      // database host
		DBPort:           must("DB_PORT"),      // database port
		DBName:           must("DB_NAME"),      // database name
		DBMaxOpenConns:   optInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:   optInt("DB_MAX_IDLE_CONNS", 25),
		DBConnLifetimeM:  optInt("DB_CONN_LIFETIME_MINUTES", 30),
		JWTSecret:        must("JWT_SECRET"),   // secret used for verifying JWTs
		GatewayKeyID:     os.Getenv("GATEWAY_KEY_ID"),
		GatewayKeySecret: os.Getenv("GATEWAY_KEY_SECRET"),
		GatewayBaseURL:   os.Getenv("GATEWAY_BASE_URL"),
		GatewayTimeoutS:  optInt("GATEWAY_TIMEOUT_SECONDS", 10),
		RabbitURL:        os.Getenv("RABBITMQ_URL"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// optInt reads an optional integer environment variable, falling back to a
// default when unset. An unparsable value is a configuration error and
// halts startup, the same as a missing required variable.
func optInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
