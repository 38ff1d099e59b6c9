package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var entriesTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "audit_entries_total",
		Help: "Number of audit entries, differentiated by outcome.",
	},
	[]string{"outcome"},
)

const (
	outcomeWritten  = "written"
	outcomeFailed   = "failed"
	outcomeDropped  = "dropped"
	outcomeRejected = "rejected"
)
