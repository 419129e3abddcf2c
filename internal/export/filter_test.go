package export

import (
	"testing"

	"github.com/rmhman/illumio2algosec/internal/model"
)

func validRow() model.ExportRow {
	return model.ExportRow{
		SrcIP: "10.0.0.1", SrcName: "web-1",
		DstIP: "10.0.0.2", DstName: "db-1",
		Service: "5432", ServiceName: "postgres", AppName: "db",
	}
}

func TestAccept(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.ExportRow)
		want   bool
	}{
		{"fully populated", func(r *model.ExportRow) {}, true},
		{"empty source name", func(r *model.ExportRow) { r.SrcName = "" }, false},
		{"empty destination name", func(r *model.ExportRow) { r.DstName = "" }, false},
		{"empty service", func(r *model.ExportRow) { r.Service = "" }, false},
		{"service port zero", func(r *model.ExportRow) { r.Service = "0" }, false},
		{"empty app name", func(r *model.ExportRow) { r.AppName = "" }, false},
		{"unknown app name", func(r *model.ExportRow) { r.AppName = UnknownApp }, false},
		{"empty service name is fine", func(r *model.ExportRow) { r.ServiceName = "" }, true},
	}

	for _, c := range cases {
		row := validRow()
		c.mutate(&row)
		if got := Accept(row); got != c.want {
			t.Errorf("%s: Accept = %v, want %v", c.name, got, c.want)
		}
	}
}
