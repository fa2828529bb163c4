package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ImportRows counts processed spreadsheet rows by outcome.
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aforo_import_rows_total",
		Help: "Spreadsheet rows processed by the import pipeline, by result",
	}, []string{"result"})

	// ImportJobs counts pipeline invocations by mode and final job state.
	ImportJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aforo_import_jobs_total",
		Help: "Import pipeline invocations, by mode and resulting job state",
	}, []string{"mode", "estado"})

	// ImportDuration observes commit-phase wall-clock duration in seconds.
	ImportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aforo_import_duration_seconds",
		Help:    "Wall-clock duration of import commit phases",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
	})
)

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
