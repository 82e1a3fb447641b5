package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"barberflow_backend/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

var DB *sql.DB

// Config holds the connection parameters for the PostgreSQL database.
type Config struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SchemaPath string
}

// ConfigFromEnv builds a Config from environment variables with local
// development defaults.
func ConfigFromEnv() Config {
	return Config{
		Host:       utils.Getenv("DB_HOST", "localhost"),
		Port:       utils.Getenv("DB_PORT", "5432"),
		User:       utils.Getenv("DB_USER", "barberflow_user"),
		Password:   utils.Getenv("DB_PASSWORD", "barberflow_password"),
		Name:       utils.Getenv("DB_NAME", "barberflow_db"),
		SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
		SchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),
	}
}

// InitDB opens the connection pool, verifies connectivity and applies
// the schema file when one is configured.
func InitDB(cfg Config) error {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}

	DB.SetMaxOpenConns(utils.GetenvInt("DB_MAX_OPEN_CONNS", 25))
	DB.SetMaxIdleConns(utils.GetenvInt("DB_MAX_IDLE_CONNS", 5))
	DB.SetConnMaxLifetime(time.Duration(utils.GetenvInt("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute)

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("Connected to database")

	if err = applySchema(DB, cfg.SchemaPath); err != nil {
		return err
	}
	return nil
}

// applySchema reads and executes the schema file. The statements are
// written to be idempotent, so reapplying on startup is safe.
func applySchema(db *sql.DB, schemaPath string) error {
	if schemaPath == "" {
		log.Debug().Msg("No schema path provided, skipping schema application")
		return nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}

	if _, err = db.Exec(string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	log.Info().Str("path", schemaPath).Msg("Database schema applied")
	return nil
}

// GetDB returns the database connection pool.
func GetDB() *sql.DB {
	return DB
}
