package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recognizer and evaluation Prometheus metrics.
var (
	RecognizeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dimtol",
			Name:      "recognize_total",
			Help:      "Dimension callouts processed, by recognized format (\"none\" when unrecognized)",
		},
		[]string{"format"},
	)

	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dimtol",
			Name:      "evaluations_total",
			Help:      "Measured-value evaluations, by verdict",
		},
		[]string{"verdict"}, // "compliant" / "out_of_tolerance"
	)

	SnapshotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dimtol",
			Name:      "snapshots_total",
			Help:      "Autosave snapshots written, by trigger",
		},
		[]string{"trigger"}, // "interval" / "shutdown" / "manual"
	)
)

// RegisterCoreMetrics registers the recognizer and evaluation metrics.
// Called explicitly from main (no init()).
func RegisterCoreMetrics() {
	prometheus.MustRegister(RecognizeTotal)
	prometheus.MustRegister(EvaluationsTotal)
	prometheus.MustRegister(SnapshotsTotal)
}
