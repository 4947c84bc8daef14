package clickhouse

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/usecase"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/golang-migrate/migrate/v4"
	clickmigrations "github.com/golang-migrate/migrate/v4/database/clickhouse"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Options configures the ClickHouse connection.
type Options struct {
	Addr     string
	Database string
	Username string
	Password string
}

var _ usecase.EventSink = (*EventSink)(nil)

// EventSink writes click events to the click_events table, one acknowledged
// insert per event.
type EventSink struct {
	db *sql.DB
}

// NewEventSink wraps an open ClickHouse database.
func NewEventSink(db *sql.DB) *EventSink {
	return &EventSink{db: db}
}

// Open connects to ClickHouse and checks the connection.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	db := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		DialTimeout: 30 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded ClickHouse migrations.
func RunMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	dbDriver, err := clickmigrations.WithInstance(db, &clickmigrations.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "clickhouse", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

const insertClickEvent = `INSERT INTO click_events (
	timestamp, identity_hash, click_id, link_id, alias_link_id, domain, key, url,
	ip, continent, country, region, city, latitude, longitude, edge_region,
	device, device_vendor, device_model, browser, browser_version, engine, engine_version,
	os, os_version, cpu_architecture, ua, bot, qr, referer, referer_url
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Append inserts event and returns once ClickHouse committed it.
func (s *EventSink) Append(ctx context.Context, event domain.ClickEvent) error {
	args, err := eventArgs(event)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertClickEvent)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, args...); err != nil {
		return fmt.Errorf("failed to insert click event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit click event: %w", err)
	}
	return nil
}

// eventArgs returns the insert arguments in column order.
func eventArgs(e domain.ClickEvent) ([]any, error) {
	ts, err := time.Parse(domain.TimestampLayout, e.Timestamp)
	if err != nil {
		ts, err = time.Parse(time.RFC3339Nano, e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp %q: %v", domain.ErrInvalidEvent, e.Timestamp, err)
		}
	}

	return []any{
		ts.UTC(), e.IdentityHash, e.ClickID, e.LinkID, e.AliasLinkID, e.Domain, e.Key, e.URL,
		e.IP, e.Continent, e.Country, e.Region, e.City, e.Latitude, e.Longitude, e.EdgeRegion,
		e.Device, e.DeviceVendor, e.DeviceModel, e.Browser, e.BrowserVersion, e.Engine, e.EngineVersion,
		e.OS, e.OSVersion, e.CPUArchitecture, e.UA, boolToUInt8(e.Bot), boolToUInt8(e.QR), e.Referer, e.RefererURL,
	}, nil
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Ping reports whether ClickHouse is reachable.
func (s *EventSink) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
