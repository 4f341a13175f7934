package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

type Config struct {
	// Level selects the minimum level that is emitted.
	// Unknown values fall back to INFO.
	Level string `yaml:"level" envconfig:"DBKIT_LOGGER_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" envconfig:"DBKIT_LOGGER_SERVICE_NAME"`
}
