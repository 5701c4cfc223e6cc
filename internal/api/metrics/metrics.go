// Package metrics holds the custom Prometheus metrics of the customer API.
// HTTP request metrics come from the echoprometheus middleware; these cover
// the business events on top of it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "customers"

// CustomersRegisteredTotal counts successful self-registrations.
var CustomersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registered_total",
		Help:      "Total number of customers registered.",
	},
)

var CustomersUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updated_total",
		Help:      "Total number of customer updates applied.",
	},
)

var CustomersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deleted_total",
		Help:      "Total number of customers deleted.",
	},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success" or "failure" (bad credentials only)
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LockWaitDuration measures how long write paths wait for their key locks.
// Label:
//   - backend: "local" or "redis"
var LockWaitDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lock_wait_seconds",
		Help:      "Time spent acquiring customer/email key locks.",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
	},
	[]string{"backend"},
)
