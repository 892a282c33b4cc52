// Package clickhouse records every committed order event in a ClickHouse table for
// analytics.
package clickhouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderhub/internal/adapters/out/events"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const table = "order_events"

type Config struct {
	Addr     string
	Database string
	Username string
	Password string
}

// execer is the part of driver.Conn the recorder uses.
type execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// Recorder is a ports.EventHandler appending one row per event.
type Recorder struct {
	conn     driver.Conn
	exec     execer
	database string
	logger   *slog.Logger
}

var _ ports.EventHandler = (*Recorder)(nil)

// NewRecorder opens the connection and checks it with a ping.
func NewRecorder(ctx context.Context, cfg Config, logger *slog.Logger) (*Recorder, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		DialTimeout:  10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = conn.Ping(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	r := newRecorder(conn, cfg.Database, logger)
	r.conn = conn
	return r, nil
}

func newRecorder(exec execer, database string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		exec:     exec,
		database: database,
		logger:   logger.With("component", "clickhouse_recorder"),
	}
}

// EnsureSchema creates the events table when it does not exist.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			event_id     String,
			event_name   LowCardinality(String),
			order_id     String,
			occurred_at  DateTime64(3, 'UTC'),
			payload      String
		) ENGINE = MergeTree
		ORDER BY (order_id, occurred_at)
	`, r.table())

	if err := r.exec.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", r.table(), err)
	}
	return nil
}

func (r *Recorder) Handle(ctx context.Context, event kernel.DomainEvent) error {
	env := events.NewEnvelope(event)
	payload, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.Name, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (event_id, event_name, order_id, occurred_at, payload)
		VALUES (?, ?, ?, ?, ?)
	`, r.table())

	if err = r.exec.Exec(ctx, query, env.ID, env.Name, env.AggregateID, env.OccurredAt, string(payload)); err != nil {
		return fmt.Errorf("record %s for order %s: %w", env.Name, env.AggregateID, err)
	}
	return nil
}

func (r *Recorder) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

func (r *Recorder) table() string {
	if r.database == "" {
		return table
	}
	return r.database + "." + table
}
