package infra

import (
	"strconv"

	"outbound-dispatcher/outbound/dispatch/domain"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	descLaneRequests = prometheus.NewDesc(
		"dispatch_lane_requests_total",
		"Number of transport calls completed on each lane.",
		[]string{"lane"}, nil,
	)
	descLaneSucceeded = prometheus.NewDesc(
		"dispatch_lane_succeeded_requests_total",
		"Number of successful transport calls on each lane.",
		[]string{"lane"}, nil,
	)
	descLaneFailed = prometheus.NewDesc(
		"dispatch_lane_failed_requests_total",
		"Number of failed transport calls on each lane.",
		[]string{"lane"}, nil,
	)
	descInFlight = prometheus.NewDesc(
		"dispatch_lanes_in_flight",
		"Number of lanes currently held.",
		nil, nil,
	)
	descCapacity = prometheus.NewDesc(
		"dispatch_lanes_capacity",
		"Total number of lanes.",
		nil, nil,
	)
)

type laneCollector struct {
	ledger domain.TraceLedger
	pool   domain.LanePool
}

var _ prometheus.Collector = &laneCollector{}

// NewLaneCollector expõe o snapshot do ledger e o estado do pool como métricas.
// Os valores são lidos no momento do scrape; nada é duplicado.
func NewLaneCollector(ledger domain.TraceLedger, pool domain.LanePool) prometheus.Collector {
	return &laneCollector{ledger: ledger, pool: pool}
}

func (c *laneCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descLaneRequests
	ch <- descLaneSucceeded
	ch <- descLaneFailed
	ch <- descInFlight
	ch <- descCapacity
}

func (c *laneCollector) Collect(ch chan<- prometheus.Metric) {
	if c.pool != nil {
		ch <- prometheus.MustNewConstMetric(descInFlight, prometheus.GaugeValue, float64(c.pool.InFlight()))
		ch <- prometheus.MustNewConstMetric(descCapacity, prometheus.GaugeValue, float64(c.pool.Capacity()))
	}
	if c.ledger == nil {
		return
	}

	for _, r := range c.ledger.Snapshot() {
		lane := strconv.FormatUint(uint64(r.LaneID), 10)
		ch <- prometheus.MustNewConstMetric(descLaneRequests, prometheus.CounterValue, float64(r.RequestsCount), lane)
		ch <- prometheus.MustNewConstMetric(descLaneSucceeded, prometheus.CounterValue, float64(r.SucceededRequestsCount), lane)
		ch <- prometheus.MustNewConstMetric(descLaneFailed, prometheus.CounterValue, float64(r.FailedRequestsCount()), lane)
	}
}
