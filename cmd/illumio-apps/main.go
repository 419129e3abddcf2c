package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/rmhman/illumio2algosec/internal/pce"
)

// illumio-apps lists every "app" label value in the org, one per line. The
// listing runs as an async PCE job so it works on orgs with large catalogs.
func main() {
	fqdn := flag.String("pce-fqdn", envOr("PCE_FQDN", ""), "PCE FQDN name")
	org := flag.Int("pce-org", envOrInt("PCE_ORG", 1), "PCE Org Id")
	port := flag.Int("pce-port", envOrInt("PCE_PORT", 9443), "PCE Port")
	apiKey := flag.String("pce-api-key", envOr("PCE_API_KEY", ""), "PCE API Key")
	apiSecret := flag.String("pce-api-secret", envOr("PCE_API_SECRET", ""), "PCE API secret")
	outputFile := flag.String("output-file", "IllumioApps.txt", "Output file")
	insecure := flag.Bool("insecure", false, "Skip TLS certificate verification")
	flag.Parse()

	if *fqdn == "" {
		log.Fatalf("PCE FQDN is required (set --pce-fqdn or PCE_FQDN)")
	}

	ctx := context.Background()

	client := pce.NewClient(*fqdn, *org, *port, *apiKey, *apiSecret, *insecure)
	if err := client.CheckConnection(ctx); err != nil {
		log.Fatalf("Connection to PCE failed: %v", err)
	}

	values, err := client.AppLabelValues(ctx)
	if err != nil {
		log.Fatalf("Failed to list app labels: %v", err)
	}

	file, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *outputFile, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, v := range values {
		w.WriteString(v)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to write %s: %v", *outputFile, err)
	}

	log.Printf("Application names have been written to %s", *outputFile)
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
