package dataflow

// Option configures the behavior of pipeline stages.
type Option func(*config)

type config struct {
	workers int
	// errorHandler sees every failed item. Returning true drops the item and
	// keeps going.
	errorHandler func(error) bool
}

func buildConfig(opts []Option) *config {
	cfg := &config{workers: 1}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// WithWorkers sets the number of concurrent workers for a stage.
// Default is 1 (sequential).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h func(error) bool) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}
