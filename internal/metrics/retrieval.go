package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval pipeline metrics.
var (
	IngestedDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdocs",
			Name:      "ingested_documents_total",
			Help:      "Total number of ingested documents",
		},
		[]string{"status"}, // "ok" / "skipped"
	)

	IngestedChunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "askdocs",
			Name:      "ingested_chunks_total",
			Help:      "Total number of indexed text chunks",
		},
	)

	ContextTokens = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "askdocs",
			Name:      "context_tokens",
			Help:      "Token count of assembled query contexts",
			Buckets:   []float64{64, 128, 256, 512, 1024, 2048, 4096, 8192},
		},
	)

	ContextChunks = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "askdocs",
			Name:      "context_chunks",
			Help:      "Number of chunks in assembled query contexts",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		},
	)

	RemovedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "askdocs",
			Name:      "removed_records_total",
			Help:      "Total records removed per collection",
		},
		[]string{"collection"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers pipeline metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestedDocumentsTotal)
	prometheus.MustRegister(IngestedChunksTotal)
	prometheus.MustRegister(ContextTokens)
	prometheus.MustRegister(ContextChunks)
	prometheus.MustRegister(RemovedRecordsTotal)
	retrievalMetricsRegistered = true
}
