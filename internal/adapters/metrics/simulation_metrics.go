package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	appsim "github.com/andrescamacho/factorysim-go/internal/application/simulation"
	"github.com/andrescamacho/factorysim-go/internal/domain/facility"
	domain "github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// SimulationMetricsCollector tracks the state of every live session
type SimulationMetricsCollector struct {
	eventsTotal    *prometheus.CounterVec
	cycle          *prometheus.GaugeVec
	buildings      *prometheus.GaugeVec
	queueDepth     *prometheus.GaugeVec
	inFlight       *prometheus.GaugeVec
	dronesInFlight *prometheus.GaugeVec

	mu    sync.Mutex
	known map[string][]string // session id to building names with a queue depth series
}

func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "events_total",
				Help:      "Simulation events published, by kind",
			},
			[]string{"kind"},
		),
		cycle: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "cycle",
				Help:      "Current time step of each session",
			},
			[]string{"session_id"},
		),
		buildings: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "buildings",
				Help:      "Buildings in each session",
			},
			[]string{"session_id"},
		),
		queueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "queue_depth",
				Help:      "Requests queued at each building",
			},
			[]string{"session_id", "building"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "deliveries_in_flight",
				Help:      "Ground deliveries on the roads of each session",
			},
			[]string{"session_id"},
		),
		dronesInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "simulation",
				Name:      "drones_in_flight",
				Help:      "Drones carrying or returning in each session",
			},
			[]string{"session_id"},
		),
		known: make(map[string][]string),
	}
}

// Register registers all simulation metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	return register(c.eventsTotal, c.cycle, c.buildings, c.queueDepth, c.inFlight, c.dronesInFlight)
}

func (c *SimulationMetricsCollector) ObserveEvent(sessionID string, e facility.Event) {
	c.eventsTotal.WithLabelValues(string(e.Kind)).Inc()
}

// ObserveSimulation refreshes the gauges of a session. Buildings that are gone lose their series.
func (c *SimulationMetricsCollector) ObserveSimulation(sessionID string, s *domain.Simulation) {
	c.cycle.WithLabelValues(sessionID).Set(float64(s.Cycle()))

	buildings := s.Buildings()
	c.buildings.WithLabelValues(sessionID).Set(float64(len(buildings)))

	deliveries, drones := 0, 0
	names := make([]string, 0, len(buildings))
	for _, b := range buildings {
		names = append(names, b.Name())
		c.queueDepth.WithLabelValues(sessionID, b.Name()).Set(float64(len(b.Requests())))
		deliveries += len(b.Deliveries())
		if port, ok := b.DronePort(); ok {
			for _, d := range port.Drones() {
				if d.InUse() {
					drones++
				}
			}
		}
	}
	c.inFlight.WithLabelValues(sessionID).Set(float64(deliveries))
	c.dronesInFlight.WithLabelValues(sessionID).Set(float64(drones))

	c.mu.Lock()
	defer c.mu.Unlock()
	current := make(map[string]bool, len(names))
	for _, n := range names {
		current[n] = true
	}
	for _, old := range c.known[sessionID] {
		if !current[old] {
			c.queueDepth.DeleteLabelValues(sessionID, old)
		}
	}
	c.known[sessionID] = names
}

// Forget drops every series of a deleted session
func (c *SimulationMetricsCollector) Forget(sessionID string) {
	c.cycle.DeleteLabelValues(sessionID)
	c.buildings.DeleteLabelValues(sessionID)
	c.inFlight.DeleteLabelValues(sessionID)
	c.dronesInFlight.DeleteLabelValues(sessionID)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range c.known[sessionID] {
		c.queueDepth.DeleteLabelValues(sessionID, name)
	}
	delete(c.known, sessionID)
}

var _ appsim.Observer = (*SimulationMetricsCollector)(nil)

// Cycle returns the cycle gauge of a session
func (c *SimulationMetricsCollector) Cycle(sessionID string) prometheus.Gauge {
	return c.cycle.WithLabelValues(sessionID)
}

func (c *SimulationMetricsCollector) QueueDepth(sessionID, building string) prometheus.Gauge {
	return c.queueDepth.WithLabelValues(sessionID, building)
}

func (c *SimulationMetricsCollector) QueueDepthVec() *prometheus.GaugeVec {
	return c.queueDepth
}

func (c *SimulationMetricsCollector) DeliveriesInFlight(sessionID string) prometheus.Gauge {
	return c.inFlight.WithLabelValues(sessionID)
}

func (c *SimulationMetricsCollector) Events(kind facility.EventKind) prometheus.Counter {
	return c.eventsTotal.WithLabelValues(string(kind))
}
