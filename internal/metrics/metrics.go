package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace          = "docstruct"
	SubsystemBuild     = "build"
	SubsystemPipeline  = "pipeline"
	StructureTypeLabel = "structure_type"
	StatusLabel        = "status"
)

// Metrics records structure build activity on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	buildsTotal   *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	treeNodes     *prometheus.HistogramVec
	linesTotal    prometheus.Counter
	tablesTotal   prometheus.Counter
	queueDepth    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.buildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemBuild,
		Name:      "total",
		Help:      "Documents processed, by structure type and final job status.",
	}, []string{StructureTypeLabel, StatusLabel})
	m.registry.MustRegister(m.buildsTotal)

	m.buildDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: SubsystemBuild,
		Name:      "duration_seconds",
		Help:      "Time to build a structure from decoded lines.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{StructureTypeLabel})
	m.registry.MustRegister(m.buildDuration)

	m.treeNodes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: SubsystemBuild,
		Name:      "tree_nodes",
		Help:      "Nodes in each built tree, root included.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{StructureTypeLabel})
	m.registry.MustRegister(m.treeNodes)

	m.linesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemPipeline,
		Name:      "lines_total",
		Help:      "Input lines decoded.",
	})
	m.registry.MustRegister(m.linesTotal)

	m.tablesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: SubsystemPipeline,
		Name:      "tables_total",
		Help:      "Table placeholders spliced into documents.",
	})
	m.registry.MustRegister(m.tablesTotal)

	m.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: SubsystemPipeline,
		Name:      "queue_depth",
		Help:      "Jobs waiting for a worker.",
	})
	m.registry.MustRegister(m.queueDepth)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBuild records a successful build.
func (m *Metrics) ObserveBuild(structureType string, elapsed time.Duration, nodes int) {
	m.buildDuration.WithLabelValues(structureType).Observe(elapsed.Seconds())
	m.treeNodes.WithLabelValues(structureType).Observe(float64(nodes))
}

// IncrementBuilds counts a finished job.
func (m *Metrics) IncrementBuilds(structureType, status string) {
	m.buildsTotal.WithLabelValues(structureType, status).Inc()
}

func (m *Metrics) AddInput(lines, tables int) {
	m.linesTotal.Add(float64(lines))
	m.tablesTotal.Add(float64(tables))
}

func (m *Metrics) SetQueueDepth(n int) {
	m.queueDepth.Set(float64(n))
}

// WriteTextfile writes the registry in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
