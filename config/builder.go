package config

// BuilderConfig controls how a builder runs entity pipelines.
//
// Example JSON:
//
//	{
//	  "observer": "slog",
//	  "max_workers": 4
//	}
type BuilderConfig struct {
	// Observer names the observer implementation ("noop", "slog", ...)
	Observer string `json:"observer"`

	// MaxWorkers bounds how many entity pipelines run at once (0 = one per entity)
	MaxWorkers int `json:"max_workers"`
}

// DefaultBuilderConfig returns the slog observer and one pipeline goroutine
// per entity.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Observer:   "slog",
		MaxWorkers: 0,
	}
}

func (c *BuilderConfig) Merge(source *BuilderConfig) {
	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.MaxWorkers > 0 {
		c.MaxWorkers = source.MaxWorkers
	}
}

// ServerConfig configures the fixture RPC server.
type ServerConfig struct {
	Addr        string `json:"addr"`
	MetricsPath string `json:"metrics_path"`

	// MaxCount caps the fixtures built by a single request
	MaxCount int `json:"max_count"`
}

// DefaultServerConfig listens on :8080, exposes metrics at /metrics and
// builds at most 1000 fixtures per request.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        ":8080",
		MetricsPath: "/metrics",
		MaxCount:    1000,
	}
}

func (c *ServerConfig) Merge(source *ServerConfig) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}

	if source.MetricsPath != "" {
		c.MetricsPath = source.MetricsPath
	}

	if source.MaxCount > 0 {
		c.MaxCount = source.MaxCount
	}
}
