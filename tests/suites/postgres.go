// Package suites provides testify suites backed by disposable infrastructure.
package suites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const (
	postgresImage = "postgres:17.5-alpine3.21"
	postgresPort  = "5432/tcp"
)

// settleTables lists every table the migrations create, children first.
var settleTables = []string{"liquidity_positions", "positions", "markets", "transfers", "accounts"}

// PostgresContainer is a throwaway database for one suite.
type PostgresContainer struct {
	testcontainers.Container
	DSN string
}

// StartPostgres boots a container and waits until it answers queries.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	dsn := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://settle:settle@%s:%s/settle_test?sslmode=disable", host, port.Port())
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{postgresPort},
			Cmd:          []string{"postgres", "-c", "fsync=off"},
			Env: map[string]string{
				"POSTGRES_DB":       "settle_test",
				"POSTGRES_USER":     "settle",
				"POSTGRES_PASSWORD": "settle",
			},
			WaitingFor: wait.ForSQL(postgresPort, "postgres", dsn).
				WithStartupTimeout(60 * time.Second).
				WithQuery("SELECT 1"),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		return nil, fmt.Errorf("container port: %w", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn(host, port)}, nil
}

// PostgresSuite migrates a fresh database once and empties every settle table
// before each test. Embed it and use DB.
type PostgresSuite struct {
	suite.Suite
	Container *PostgresContainer
	DB        *gorm.DB
	SQLDB     *sql.DB

	// MigrationsPath defaults to the migrations directory next to go.mod
	MigrationsPath string
}

func (s *PostgresSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping postgres integration tests in short mode")
	}

	ctx := context.Background()
	container, err := StartPostgres(ctx)
	s.Require().NoError(err)
	s.Container = container

	if s.MigrationsPath == "" {
		s.MigrationsPath = findMigrations()
	}
	s.Require().NotEmpty(s.MigrationsPath, "migrations directory not found")
	s.Require().NoError(s.migrate())

	s.connect(ctx)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.SQLDB != nil {
		_ = s.SQLDB.Close()
	}
	if s.Container != nil {
		_ = s.Container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	s.Truncate()
}

// Truncate empties every settle table.
func (s *PostgresSuite) Truncate() {
	if s.DB == nil {
		return
	}
	stmt := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(settleTables, ", "))
	s.Require().NoError(s.DB.Exec(stmt).Error)
}

// Count returns the number of rows in table.
func (s *PostgresSuite) Count(table string) int64 {
	var n int64
	s.Require().NoError(s.DB.Table(table).Count(&n).Error)
	return n
}

func (s *PostgresSuite) connect(ctx context.Context) {
	sqlDB, err := sql.Open("postgres", s.Container.DSN)
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	s.Require().NoError(sqlDB.PingContext(pingCtx))

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	s.SQLDB = sqlDB
	s.DB = db
}

func (s *PostgresSuite) migrate() error {
	m, err := migrate.New("file://"+s.MigrationsPath, s.Container.DSN)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func findMigrations() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			dir := filepath.Join(wd, "migrations")
			if _, err := os.Stat(dir); err != nil {
				return ""
			}
			return dir
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return ""
		}
		wd = parent
	}
}
