package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisionsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "permission_decisions_total",
		Help: "Number of permission gate decisions, differentiated by operation and result.",
	},
	[]string{"operation", "result"},
)

const (
	opCheck    = "check"
	opCheckAny = "check_any"
	opCheckAll = "check_all"

	resultAllowed         = "allowed"
	resultDenied          = "denied"
	resultError           = "error"
	resultUnauthenticated = "unauthenticated"
)

func observe(op string, d Decision) {
	result := resultDenied

	switch {
	case d.Allowed:
		result = resultAllowed
	case d.Err == nil:
	case d.Err == ErrUnauthenticated: //nolint:errorlint // sentinel is returned unwrapped
		result = resultUnauthenticated
	default:
		result = resultError
	}

	decisionsTotal.WithLabelValues(op, result).Inc()
}
