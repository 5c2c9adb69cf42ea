// Package metrics wires counters and gauges for packets, decode errors,
// and supervisor operations against a fresh Prometheus registry, so tests
// constructing multiple Metrics instances never hit a duplicate
// registration panic against the global default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every instrument the responder/supervisor layer reports
// through.
type Metrics struct {
	registry *prometheus.Registry

	packetsTotal       *prometheus.CounterVec
	decodeErrorsTotal  *prometheus.CounterVec
	supervisorOpsTotal *prometheus.CounterVec
	devicesRunning     prometheus.Gauge
}

// New constructs and registers every instrument against a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.packetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snmpfleet_packets_total",
			Help: "Total SNMP packets handled, by device and PDU kind.",
		},
		[]string{"device_id", "pdu_type"},
	)

	m.decodeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snmpfleet_decode_errors_total",
			Help: "Total BER decode and encode failures, by device and reason.",
		},
		[]string{"device_id", "reason"},
	)

	m.supervisorOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snmpfleet_supervisor_operations_total",
			Help: "Total supervisor start/stop operations, by outcome.",
		},
		[]string{"outcome"},
	)

	m.devicesRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "snmpfleet_devices_running",
			Help: "Number of devices with an active responder.",
		},
	)

	m.registry.MustRegister(m.packetsTotal, m.decodeErrorsTotal, m.supervisorOpsTotal, m.devicesRunning)
	return m
}

// Registry returns the registry to serve over /metrics via promhttp.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecordPacket(deviceID, pduType string) {
	m.packetsTotal.WithLabelValues(deviceID, pduType).Inc()
}

func (m *Metrics) RecordDecodeError(deviceID, reason string) {
	m.decodeErrorsTotal.WithLabelValues(deviceID, reason).Inc()
}

func (m *Metrics) RecordSupervisorOutcome(outcome string) {
	m.supervisorOpsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetDevicesRunning(n int) {
	m.devicesRunning.Set(float64(n))
}
