// Package metrics registers the Prometheus collectors the application
// exports on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts engine operations served over the API, labeled
	// by operation name.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kasa",
		Name:      "operations_total",
		Help:      "Engine operations served, by operation.",
	}, []string{"op"})

	// OperationErrors counts operations that failed with a business or
	// storage error.
	OperationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kasa",
		Name:      "operation_errors_total",
		Help:      "Engine operations that returned an error, by operation.",
	}, []string{"op"})

	// AlarmNotifications counts notifications the alarm scanner fired.
	AlarmNotifications = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kasa",
		Name:      "alarm_notifications_total",
		Help:      "Alarm notifications delivered.",
	})
)
