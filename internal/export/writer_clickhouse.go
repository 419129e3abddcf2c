package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/rmhman/illumio2algosec/internal/config"
	"github.com/rmhman/illumio2algosec/internal/model"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS traffic_export (
    ExportedAt  DateTime,
    SrcIP       String,
    SrcName     String,
    DstIP       String,
    DstName     String,
    Service     String,
    ServiceName String,
    AppName     String
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(ExportedAt)
ORDER BY (AppName, ExportedAt);
`

// ClickHouseWriter keeps a history of exports in a ClickHouse table so past
// runs stay queryable after the CSV file has been handed off.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter connects to ClickHouse and ensures the export table
// exists.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (*ClickHouseWriter, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &ClickHouseWriter{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

func (w *ClickHouseWriter) Name() string { return "clickhouse" }

// Write batch-inserts the export rows, all stamped with the same export time.
func (w *ClickHouseWriter) Write(rows []model.ExportRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO traffic_export")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	exportedAt := time.Now().UTC()
	for _, row := range rows {
		err = batch.Append(
			exportedAt,
			row.SrcIP,
			row.SrcName,
			row.DstIP,
			row.DstName,
			row.Service,
			row.ServiceName,
			row.AppName,
		)
		if err != nil {
			return fmt.Errorf("failed to append row to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote %d rows to ClickHouse", len(rows))
	return nil
}

// Close releases the ClickHouse connection.
func (w *ClickHouseWriter) Close() error {
	return w.conn.Close()
}
