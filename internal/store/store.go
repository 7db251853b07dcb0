// Package store runs ad hoc verification queries against the application
// database. Each query opens its own pool and closes it before returning, so
// a scenario never holds a connection between steps.
package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-e2e/internal/config"
)

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Close()
}

// Connector opens a pool for a connection string.
type Connector func(ctx context.Context, connString string) (DBPool, error)

// Decrypter recovers the plain database password from its stored form.
type Decrypter interface {
	Decrypt(encoded string) (string, error)
}

// Row is one result row keyed by column name.
type Row = map[string]interface{}

// Store queries the database described by its configuration.
type Store struct {
	cfg     config.DatabaseConfig
	secrets Decrypter
	connect Connector
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithConnector replaces the pgxpool connector, mainly for tests.
func WithConnector(c Connector) Option {
	return func(s *Store) { s.connect = c }
}

// New creates a store. The password in cfg is decrypted with secrets on every
// connection.
func New(cfg config.DatabaseConfig, secrets Decrypter, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		cfg:     cfg,
		secrets: secrets,
		connect: connectPool,
		log:     logger.Named("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func connectPool(ctx context.Context, connString string) (DBPool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// ConnString builds the connection URL with the decrypted password.
func (s *Store) ConnString() (string, error) {
	password, err := s.secrets.Decrypt(s.cfg.Password)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt database password: %w", err)
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(s.cfg.User, password),
		Host:   s.cfg.Server,
		Path:   "/" + s.cfg.Name,
	}
	if s.cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {s.cfg.SSLMode}}.Encode()
	}
	return u.String(), nil
}

// Query connects, runs sql and returns every row. The pool is closed before
// Query returns, whatever the outcome.
func (s *Store) Query(ctx context.Context, sql string, args ...interface{}) ([]Row, error) {
	pool, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		pool.Close()
		s.log.Info("Pool is closed.")
	}()

	s.log.Info("Query requested.", zap.String("query", sql))
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		s.log.Error("Error executing query.", zap.String("query", sql), zap.Error(err))
		return nil, fmt.Errorf("database query execution failed: %w", err)
	}
	result, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		s.log.Error("Error reading query result.", zap.String("query", sql), zap.Error(err))
		return nil, fmt.Errorf("database query execution failed: %w", err)
	}
	return result, nil
}

func (s *Store) open(ctx context.Context) (DBPool, error) {
	connString, err := s.ConnString()
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	pool, err := s.connect(ctx, connString)
	if err != nil {
		s.log.Error("Database connection failed.", zap.Error(err))
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		s.log.Error("Database connection failed.", zap.Error(err))
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	s.log.Info("Database connection is successful.", zap.String("server", s.cfg.Server), zap.String("database", s.cfg.Name))
	return pool, nil
}
