package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/catalogiq/catalog-service/internal/mapping"
)

var (
	// filesParsed tracks processed files by format and outcome.
	filesParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_files_parsed_total",
		Help: "Total number of catalog files processed by kind and status",
	}, []string{"kind", "status"})

	// rowsParsed tracks valid output records.
	rowsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_rows_parsed_total",
		Help: "Total number of valid records produced",
	})

	// mappingPassHits tracks which detection pass resolved each field.
	mappingPassHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_mapping_pass_hits_total",
		Help: "Column mappings resolved, by target field and detection pass",
	}, []string{"field", "pass"})

	// parseDuration tracks per-file parse latency.
	parseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_parse_duration_seconds",
		Help:    "Time taken to parse one catalog file by kind",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	}, []string{"kind"})
)

func recordFileParsed(kind, status string) {
	filesParsed.WithLabelValues(kind, status).Inc()
}

func recordRowsParsed(n int) {
	rowsParsed.Add(float64(n))
}

func recordMappingPass(field string, pass mapping.Pass) {
	mappingPassHits.WithLabelValues(field, string(pass)).Inc()
}

func recordParseDuration(kind string, d time.Duration) {
	parseDuration.WithLabelValues(kind).Observe(d.Seconds())
}
