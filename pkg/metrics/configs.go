package metrics

// Default port for the metrics server if none is specified.
const DefaultMetricsAddress = ":9090"

// Config defines the configuration for the Prometheus metrics server.
type Config struct {
	// Address is the network address where the metrics HTTP server listens,
	// e.g. ":9090" or "127.0.0.1:9100". Default: ":9090".
	Address string `yaml:"address" envconfig:"DBKIT_METRICS_ADDRESS"`

	// EnableDefaultCollectors controls whether the built-in Go runtime and
	// process collectors are registered automatically.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"DBKIT_METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// ServiceName is attached as a common label to every metric.
	ServiceName string `yaml:"service_name" envconfig:"DBKIT_METRICS_SERVICE_NAME"`
}
