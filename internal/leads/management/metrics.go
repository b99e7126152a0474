package management

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var leadMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lead_mutations_total",
		Help: "Total number of successful lead mutations",
	},
	[]string{"operation"},
)

func recordMutation(operation string) {
	leadMutations.WithLabelValues(operation).Inc()
}
