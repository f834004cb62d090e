// Package metrics defines and registers all custom Prometheus metrics for
// the commerce SOAP endpoint. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time and
// are exposed through GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cumroad"

// SoapRequestsTotal counts dispatched envelopes.
// Labels:
//   - operation: the resolved operation name, or "unknown" when the envelope
//     could not be decoded
//   - outcome: "success" or "fault"
var SoapRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "soap_requests_total",
		Help:      "Total number of SOAP envelopes dispatched.",
	},
	[]string{"operation", "outcome"},
)

// SoapFaultsTotal counts faults by their stable service code.
// Label:
//   - code: the ServiceFault code (e.g. "ValidationError", "NotFound")
var SoapFaultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "soap_faults_total",
		Help:      "Total number of SOAP faults returned, by fault code.",
	},
	[]string{"code"},
)

// SoapRequestDuration measures envelope handling time end-to-end, from raw
// body read to encoded response.
// Label:
//   - operation: the resolved operation name, or "unknown"
var SoapRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "soap_request_duration_seconds",
		Help:      "Duration of SOAP envelope dispatch from decode to encode.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
