package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kapu/osint-footprint-go/internal/constants"
	"github.com/kapu/osint-footprint-go/internal/util"
	"github.com/kapu/osint-footprint-go/pkg/errors"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresService owns the connection pool of the report archive.
type PostgresService struct {
	db     *sql.DB
	logger *zap.Logger
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN renders the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Database)
}

// NewPostgresService opens the pool and fails unless the server answers within the
// ping timeout.
func NewPostgresService(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*PostgresService, error) {
	logger = util.OrNop(logger)

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.NewStoreError("failed to open postgres", "open", err)
	}
	db.SetMaxOpenConns(constants.DatabaseConfig.MaxOpenConns)
	db.SetMaxIdleConns(constants.DatabaseConfig.MaxIdleConns)
	db.SetConnMaxLifetime(constants.DatabaseConfig.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, constants.DatabaseConfig.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.NewStoreError("failed to ping postgres", "ping", err)
	}

	logger.Info("Report archive connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database))

	return &PostgresService{db: db, logger: logger}, nil
}

func (ps *PostgresService) GetDB() *sql.DB {
	return ps.db
}

func (ps *PostgresService) Close() error {
	if ps.db == nil {
		return nil
	}
	if err := ps.db.Close(); err != nil {
		ps.logger.Warn("Failed to close report archive", zap.Error(err))
		return err
	}
	return nil
}
