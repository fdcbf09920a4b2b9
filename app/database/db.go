package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gLogger "gorm.io/gorm/logger"

	"github.com/joefazee/settle/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver      string `env:"DB_DRIVER" env-default:"postgres"`
	Host        string `env:"DB_HOST"`
	Port        string `env:"DB_PORT" env-default:"5432"`
	User        string `env:"DB_USER"`
	Password    string `env:"DB_PASSWORD"`
	Database    string `env:"DB_NAME"`
	// Path is the sqlite database file; ":memory:" keeps it in process
	Path        string `env:"DB_PATH" env-default:"settle.db"`
	UseSSL      bool   `env:"DB_SSL_MODE"`
	LogQuery    bool   `env:"DB_LOG_QUERY"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" env-default:"false"`
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" || c.Password == "" || c.Database == "" || c.User == "" {
			return models.ErrDatabaseCredentialNotConfigured
		}
	case DriverSQLite:
		if c.Path == "" {
			return models.ErrDatabaseCredentialNotConfigured
		}
	default:
		return models.ErrInvalidDatabaseDriver
	}
	return nil
}

func (c *Config) dialector() gorm.Dialector {
	if c.Driver == DriverSQLite {
		return sqlite.Open(c.Path)
	}

	sslMode := "disable"
	if c.UseSSL {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Database, c.Port, sslMode)
	return postgres.Open(dsn)
}

func New(c *Config) (*gorm.DB, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := &gorm.Config{}
	if !c.LogQuery {
		cfg.Logger = gLogger.Discard
	}

	db, err := gorm.Open(c.dialector(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	if c.Driver == DriverSQLite {
		// sqlite serializes writers; one connection keeps row locks meaningful
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if c.AutoMigrate {
		if err := db.AutoMigrate(models.AllModels()...); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	return db, nil
}
