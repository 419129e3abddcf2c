package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rmhman/illumio2algosec/internal/model"
)

// Header is the fixed column set expected by the AlgoSec import.
var Header = []string{
	"Source IP", "Source Name", "Destination IP", "Destination Name",
	"Service", "Service Name", "Application Name",
}

// CSVWriter writes the export to a CSV file, replacing any existing file at
// the same path.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer targeting the given file path.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Name() string { return "csv:" + w.path }

// Write creates (or truncates) the destination file and writes the header
// followed by every row. A destination that cannot be opened or written
// surfaces as an IOError.
func (w *CSVWriter) Write(rows []model.ExportRow) error {
	file, err := os.Create(w.path)
	if err != nil {
		return &model.IOError{Msg: fmt.Sprintf("cannot open %s for writing", w.path), Err: err}
	}

	if err := WriteRows(file, rows); err != nil {
		file.Close()
		return &model.IOError{Msg: fmt.Sprintf("failed to write %s", w.path), Err: err}
	}
	if err := file.Close(); err != nil {
		return &model.IOError{Msg: fmt.Sprintf("failed to write %s", w.path), Err: err}
	}

	log.Printf("Wrote %d rows to %s", len(rows), w.path)
	return nil
}

// WriteRows serializes the header and rows as CSV to any destination.
// encoding/csv handles quoting for fields containing the delimiter, quotes
// or newlines.
func WriteRows(dst io.Writer, rows []model.ExportRow) error {
	cw := csv.NewWriter(dst)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		t := row.Tuple()
		if err := cw.Write(t[:]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
