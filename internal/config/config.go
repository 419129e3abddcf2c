package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrafficConfig defines a single named traffic query from the config file.
// Selector strings use the "key=value" form and are resolved against the PCE
// label catalog when the query is executed.
type TrafficConfig struct {
	StartDate           string   `yaml:"start_date"`
	EndDate             string   `yaml:"end_date"`
	IncludeSources      []string `yaml:"include_sources"`
	IncludeDestinations []string `yaml:"include_destinations"`
	ExcludeSources      []string `yaml:"exclude_sources"`
	ExcludeDestinations []string `yaml:"exclude_destinations"`
	PolicyDecisions     []string `yaml:"policy_decisions"`
}

// ClickHouseConfig holds the connection settings for the optional ClickHouse
// export sink.
type ClickHouseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// NATSConfig holds the connection settings for the optional NATS export sink.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// SMTPConfig holds the settings for the optional run-summary email.
type SMTPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// SinksConfig groups the optional destinations that receive the export in
// addition to the CSV file.
type SinksConfig struct {
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	NATS       NATSConfig       `yaml:"nats"`
	SMTP       SMTPConfig       `yaml:"smtp"`
}

// Config is the top-level configuration struct for the exporter.
type Config struct {
	TrafficConfigs map[string]TrafficConfig `yaml:"traffic_configs"`
	Sinks          SinksConfig              `yaml:"sinks"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
