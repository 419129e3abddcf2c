package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rmhman/illumio2algosec/internal/config"
	"github.com/rmhman/illumio2algosec/internal/export"
	"github.com/rmhman/illumio2algosec/internal/notification"
	"github.com/rmhman/illumio2algosec/internal/pce"
	"github.com/rmhman/illumio2algosec/internal/query"
)

type options struct {
	pceFQDN       string
	pceOrg        int
	pcePort       int
	pceAPIKey     string
	pceAPISecret  string
	outputFile    string
	queryFile     string
	trafficConfig string
	algosecLabel  string
	labelConcat   string
	insecure      bool
	verbose       bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.pceFQDN, "pce-fqdn", envOr("PCE_FQDN", ""), "PCE FQDN name")
	flag.IntVar(&opts.pceOrg, "pce-org", envOrInt("PCE_ORG", 1), "PCE Org Id")
	flag.IntVar(&opts.pcePort, "pce-port", envOrInt("PCE_PORT", 9443), "PCE Port")
	flag.StringVar(&opts.pceAPIKey, "pce-api-key", envOr("PCE_API_KEY", ""), "PCE API Key")
	flag.StringVar(&opts.pceAPISecret, "pce-api-secret", envOr("PCE_API_SECRET", ""), "PCE API secret")
	flag.StringVar(&opts.outputFile, "output-file", "illumio-algosec-export.csv", "Output CSV file")
	flag.StringVar(&opts.queryFile, "query-file", "traffic-config.yaml", "Query configuration file")
	flag.StringVar(&opts.trafficConfig, "traffic-config", "default", "Traffic configuration name")
	flag.StringVar(&opts.algosecLabel, "algosec-label", "app", "Illumio labels for the AlgoSec app name, comma separated, e.g. \"app\" or \"app,env\"")
	flag.StringVar(&opts.algosecLabel, "a", "app", "shorthand for -algosec-label")
	flag.StringVar(&opts.labelConcat, "label-concat", "-", "String for concatenating label values")
	flag.StringVar(&opts.labelConcat, "c", "-", "shorthand for -label-concat")
	flag.BoolVar(&opts.insecure, "insecure", false, "Skip TLS certificate verification")
	flag.BoolVar(&opts.verbose, "verbose", false, "Verbose output")
	flag.BoolVar(&opts.verbose, "v", false, "shorthand for -verbose")
	flag.Parse()
	return opts
}

func main() {
	opts := parseFlags()
	if opts.pceFQDN == "" {
		log.Fatalf("PCE FQDN is required (set --pce-fqdn or PCE_FQDN)")
	}

	ctx := context.Background()

	// 1. Connect to the PCE and validate credentials
	client := pce.NewClient(opts.pceFQDN, opts.pceOrg, opts.pcePort, opts.pceAPIKey, opts.pceAPISecret, opts.insecure)
	if err := client.CheckConnection(ctx); err != nil {
		log.Fatalf("Connection to PCE failed: %v", err)
	}
	log.Println("Connection to PCE successful.")

	// 2. Fetch the label catalog used for selector resolution and app names
	if err := client.FetchLabels(ctx); err != nil {
		log.Fatalf("Failed to fetch labels: %v", err)
	}

	// 3. Load the query configuration and build the criteria
	cfg, err := config.LoadConfig(opts.queryFile)
	if err != nil {
		log.Fatalf("Failed to load query configuration: %v", err)
	}

	labelKeys := strings.Split(opts.algosecLabel, ",")
	criteria, err := query.Build(cfg.TrafficConfigs, opts.trafficConfig, labelKeys)
	if err != nil {
		log.Fatalf("Failed to build traffic query: %v", err)
	}

	// 4. Execute the traffic query
	flows, err := client.TrafficFlows(ctx, criteria)
	if err != nil {
		log.Fatalf("Traffic query failed: %v", err)
	}
	log.Printf("Number of records retrieved from PCE: %d", len(flows))

	// 5. Run the transformation pipeline
	pipeline := export.NewPipeline(criteria.AppLabelKeys, opts.labelConcat)
	rows, stats := pipeline.Run(flows)
	if opts.verbose {
		log.Printf("Pipeline stats: retrieved=%d rejected=%d duplicates=%d exported=%d",
			stats.Retrieved, stats.Rejected, stats.Duplicates, stats.Exported)
	}

	// 6. Write the CSV, then feed any optional sinks
	csvWriter := export.NewCSVWriter(opts.outputFile)
	if err := csvWriter.Write(rows); err != nil {
		log.Fatalf("CSV export failed: %v", err)
	}
	log.Printf("Final record count after filtering and deduplication: %d", len(rows))

	sinks, cleanup, err := export.Sinks(cfg.Sinks)
	if err != nil {
		log.Fatalf("Failed to initialize export sinks: %v", err)
	}
	defer cleanup()

	for _, sink := range sinks {
		if err := sink.Write(rows); err != nil {
			log.Fatalf("Sink %s failed: %v", sink.Name(), err)
		}
	}

	// 7. Optional run-summary notification
	if cfg.Sinks.SMTP.Enabled {
		notifier := notification.NewEmailNotifier(cfg.Sinks.SMTP)
		subject := fmt.Sprintf("Illumio export complete (%d rows)", len(rows))
		body := fmt.Sprintf("Traffic configuration: %s\nRecords retrieved: %d\nRows rejected: %d\nDuplicates removed: %d\nRows exported: %d\nOutput file: %s\n",
			opts.trafficConfig, stats.Retrieved, stats.Rejected, stats.Duplicates, stats.Exported, opts.outputFile)
		if err := notifier.Send(subject, body); err != nil {
			log.Printf("Failed to send summary notification: %v", err)
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
