package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lookupsTotal = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "permission_cache_lookups_total",
		Help: "Number of permission cache lookups, differentiated by kind and result.",
	},
	[]string{"kind", "result"},
)

const (
	kindRole   = "role"
	kindTenant = "tenant"

	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)
