package model

// Writer defines a generic interface for delivering a finalized export to a
// destination (CSV file, ClickHouse table, NATS subject, ...).
type Writer interface {
	// Write persists the full, already deduplicated row set.
	Write(rows []ExportRow) error

	// Name identifies the destination in log output.
	Name() string
}
