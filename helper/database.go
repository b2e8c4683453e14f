package helper

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the connection parameters for Postgres.
type DatabaseConfiguration struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Schema   string
	SSLMode  string
}

// NewDatabaseConfiguration reads the connection parameters from the
// environment, loading a .env file first if one is present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	_ = godotenv.Load()

	config := &DatabaseConfiguration{}
	missing := []string{}

	lookup := func(key string) string {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			missing = append(missing, key)
		}
		return value
	}

	config.Host = lookup("DB_HOST")
	config.Port = lookup("DB_PORT")
	config.Database = lookup("DB_DATABASE")
	config.Username = lookup("DB_USERNAME")
	config.Password = lookup("DB_PASSWORD")
	config.Schema = lookup("DB_SCHEMA")

	config.SSLMode = os.Getenv("DB_SSL_MODE")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return config, nil
}

// Database wraps a named sql.DB connection with its logger.
type Database struct {
	Name     string
	Instance *sql.DB
	Logger   *slog.Logger
}

// NewDatabase opens a connection to Postgres and pings it until it is
// reachable. It panics if the database cannot be reached, so callers can
// assume a usable connection.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s search_path=%s sslmode=%s",
		config.Host,
		config.Port,
		config.Username,
		config.Password,
		config.Database,
		config.Schema,
		config.SSLMode,
	)

	instance, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Panicf("error opening database connection: %v", err)
	}

	for i := 0; i < 10; i++ {
		err = instance.Ping()
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		log.Panicf("error pinging database: %v", err)
	}

	logger.Info(
		"Connected to database",
		slog.String("name", name),
		slog.String("host", config.Host),
		slog.String("port", config.Port),
		slog.String("database", config.Database),
	)

	return &Database{
		Name:     name,
		Instance: instance,
		Logger:   logger,
	}
}

// NewTestDatabase creates a database connection that only logs errors.
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	opts := PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelError,
		},
	}
	logger := slog.New(NewPrettyHandler(os.Stdout, opts))
	return NewDatabase("test", config, logger)
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	return d.Instance.Close()
}
