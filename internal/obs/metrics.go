package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EntitlementDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillbox_entitlement_decisions_total",
			Help: "Entitlement evaluations by outcome.",
		},
		[]string{"decision"},
	)

	DownloadsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skillbox_downloads_recorded_total",
		Help: "Download events appended after successful URL minting.",
	})

	AccessRequestsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skillbox_access_requests_submitted_total",
		Help: "Access requests accepted by the ledger.",
	})

	AccessRequestsDecided = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillbox_access_requests_decided_total",
			Help: "Access request decisions by terminal status.",
		},
		[]string{"status"},
	)
)

// Init registers the metrics with the default registry. Call once at startup;
// the counters work unregistered in tests.
func Init() {
	prometheus.MustRegister(
		EntitlementDecisions,
		DownloadsRecorded,
		AccessRequestsSubmitted,
		AccessRequestsDecided,
	)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
