package export

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"github.com/rmhman/illumio2algosec/internal/config"
	"github.com/rmhman/illumio2algosec/internal/model"
)

// NATSWriter publishes each export row as a JSON message, so downstream
// consumers can pick up the export without touching the CSV file.
type NATSWriter struct {
	nc      *nats.Conn
	subject string
}

// NewNATSWriter connects to the configured NATS server.
func NewNATSWriter(cfg config.NATSConfig) (*NATSWriter, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &NATSWriter{nc: nc, subject: cfg.Subject}, nil
}

func (w *NATSWriter) Name() string { return "nats:" + w.subject }

// Write publishes one message per row and flushes the connection.
func (w *NATSWriter) Write(rows []model.ExportRow) error {
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal export row: %w", err)
		}
		if err := w.nc.Publish(w.subject, data); err != nil {
			return fmt.Errorf("failed to publish export row: %w", err)
		}
	}
	if err := w.nc.Flush(); err != nil {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}
	log.Printf("Published %d rows to NATS subject '%s'", len(rows), w.subject)
	return nil
}

// Close drains and closes the NATS connection.
func (w *NATSWriter) Close() {
	if w.nc != nil {
		w.nc.Drain()
	}
}
