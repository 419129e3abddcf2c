package export

import (
	"fmt"
	"log"

	"github.com/rmhman/illumio2algosec/internal/config"
	"github.com/rmhman/illumio2algosec/internal/model"
)

// Sinks builds the optional writers enabled in the config. The returned
// cleanup func closes whatever connections were opened and is safe to call
// after a partial failure.
func Sinks(cfg config.SinksConfig) ([]model.Writer, func(), error) {
	var writers []model.Writer
	var closers []func()

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.ClickHouse.Enabled {
		ch, err := NewClickHouseWriter(cfg.ClickHouse)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("clickhouse sink: %w", err)
		}
		writers = append(writers, ch)
		closers = append(closers, func() { ch.Close() })
		log.Println("ClickHouse sink enabled")
	}

	if cfg.NATS.Enabled {
		nw, err := NewNATSWriter(cfg.NATS)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("nats sink: %w", err)
		}
		writers = append(writers, nw)
		closers = append(closers, nw.Close)
		log.Println("NATS sink enabled")
	}

	return writers, cleanup, nil
}
