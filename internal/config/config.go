package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses cache TTL durations

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints and durations
// for limits and lifetimes.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Host             string        // address the TCP listener binds to
	Port             string        // port the TCP listener binds to
	DBUser           string        // database username
	DBPass           string        // database password (optional)
	DBHost           string        // database host address
	DBPort           string        // database port number
	DBName           string        // database name
	RabbitURL        string        // AMQP broker URL (optional; events disabled when empty)
	ScheduleCacheTTL time.Duration // lifetime of the cached schedule response
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when it
// exists.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}
	return Config{
		Env:              getenv("APP_ENV", "dev"),              // environment (dev/test/prod)
		Host:             getenv("LISTEN_HOST", "127.0.0.1"),    // loopback only by default
		Port:             getenv("LISTEN_PORT", "8888"),         // port the desktop client dials
		DBUser:           must("DB_USER"),                       // database user
		DBPass:           os.Getenv("DB_PASS"),                  // database password (empty allowed)
		DBHost:           must("DB_HOST"),                       // database host
		DBPort:           must("DB_PORT"),                       // database port
		DBName:           must("DB_NAME"),                       // database name
		RabbitURL:        os.Getenv("RABBITMQ_URL"),             // broker URL (empty disables events)
		ScheduleCacheTTL: getdur("SCHEDULE_CACHE_TTL", 30*time.Second),
	}
}

// Addr returns the host:port endpoint the listener binds to.
func (c Config) Addr() string { return c.Host + ":" + c.Port }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
