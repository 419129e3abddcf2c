// pcesim is a development stand-in for a PCE. It serves a small canned label
// catalog and traffic-flow result set over the same async-job API shape the
// exporter consumes, behind a throwaway self-signed certificate, so the
// exporter can be exercised end to end with --insecure and no real PCE.
package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"flag"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type label struct {
	Href  string `json:"href"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

var catalog = []label{
	{Href: "/orgs/1/labels/1", Key: "app", Value: "web"},
	{Href: "/orgs/1/labels/2", Key: "app", Value: "db"},
	{Href: "/orgs/1/labels/3", Key: "env", Value: "prod"},
	{Href: "/orgs/1/labels/4", Key: "env", Value: "dev"},
	{Href: "/orgs/1/labels/5", Key: "loc", Value: "dc1"},
}

// flows is raw JSON so the simulator stays decoupled from the exporter's
// internal types. It includes a record without a destination workload, a
// port-0 record and an exact duplicate to exercise the pipeline's edge cases.
const flows = `[
  {"src":{"ip":"10.0.0.1","workload":{"hostname":"web-1","labels":[{"href":"/orgs/1/labels/1"},{"href":"/orgs/1/labels/3"}]}},
   "dst":{"ip":"10.0.0.2","workload":{"hostname":"db-1","labels":[{"href":"/orgs/1/labels/2"},{"href":"/orgs/1/labels/3"}]}},
   "service":{"port":5432,"proto":6,"service_name":"postgres"},"policy_decision":"potentially_blocked"},
  {"src":{"ip":"10.0.0.1","workload":{"hostname":"web-1","labels":[{"href":"/orgs/1/labels/1"},{"href":"/orgs/1/labels/3"}]}},
   "dst":{"ip":"10.0.0.2","workload":{"hostname":"db-1","labels":[{"href":"/orgs/1/labels/2"},{"href":"/orgs/1/labels/3"}]}},
   "service":{"port":5432,"proto":6,"service_name":"postgres"},"policy_decision":"blocked"},
  {"src":{"ip":"10.0.0.3"},
   "dst":{"ip":"10.0.0.2","workload":{"hostname":"db-1","labels":[{"href":"/orgs/1/labels/2"}]}},
   "service":{"port":0,"proto":1},"policy_decision":"blocked"},
  {"src":{"ip":"10.0.0.4","workload":{"hostname":"batch-1","labels":[{"href":"/orgs/1/labels/5"}]}},
   "dst":{"ip":"10.0.0.1","workload":{"hostname":"web-1","labels":[{"href":"/orgs/1/labels/1"},{"href":"/orgs/1/labels/3"}]}},
   "service":{"port":443,"proto":6,"service_name":"https"},"policy_decision":"potentially_blocked"}
]`

func main() {
	listen := flag.String("listen", ":9443", "Listen address")
	flag.Parse()

	r := mux.NewRouter()
	r.HandleFunc("/api/v2/orgs/{org}/labels", labelsHandler).Methods("GET")
	r.HandleFunc("/api/v2/orgs/{org}/traffic_flows/async_queries", trafficQueryHandler).Methods("POST")
	r.HandleFunc("/api/v2/jobs/{name}", jobStatusHandler).Methods("GET")
	r.HandleFunc("/api/v2/jobs/{name}/download", jobDownloadHandler).Methods("GET")

	cert, err := selfSignedCert()
	if err != nil {
		log.Fatalf("Failed to generate certificate: %v", err)
	}

	server := &http.Server{
		Addr:      *listen,
		Handler:   r,
		TLSConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
	}

	log.Printf("pcesim listening on %s", *listen)
	log.Fatal(server.ListenAndServeTLS("", ""))
}

func labelsHandler(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Prefer"), "respond-async") {
		w.Header().Set("Location", "/jobs/labels")
		w.WriteHeader(http.StatusAccepted)
		return
	}

	out := catalog
	if key := r.URL.Query().Get("key"); key != "" {
		out = nil
		for _, l := range catalog {
			if l.Key == key {
				out = append(out, l)
			}
		}
	}
	writeJSON(w, out)
}

func trafficQueryHandler(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	log.Printf("Accepted traffic query %v from %s", body["query_name"], r.RemoteAddr)

	w.Header().Set("Location", "/jobs/traffic")
	w.WriteHeader(http.StatusAccepted)
}

func jobStatusHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	writeJSON(w, map[string]interface{}{
		"status": "done",
		"result": map[string]string{"href": "/jobs/" + name + "/download"},
	})
}

func jobDownloadHandler(w http.ResponseWriter, r *http.Request) {
	switch mux.Vars(r)["name"] {
	case "labels":
		var apps []label
		for _, l := range catalog {
			if l.Key == "app" {
				apps = append(apps, l)
			}
		}
		writeJSON(w, apps)
	case "traffic":
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(flows))
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// selfSignedCert generates an ephemeral certificate for localhost.
func selfSignedCert() (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "pcesim"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(24 * time.Hour),
		DNSNames:     []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}

	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}, nil
}
