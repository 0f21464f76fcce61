package terse

import (
	"runtime"
)

type options struct {
	workers          int
	logger           *Logger
	metricsCollector MetricsCollector
	resolver         Resolver
	bytesPerSec      int
	minio            MinIOConfig
}

// Option configures a Runner.
type Option func(*options)

func defaultOptions() options {
	return options{
		workers:          runtime.GOMAXPROCS(0),
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// WithWorkers limits the number of jobs that run at the same time.
//
// If n <= 0, GOMAXPROCS is used.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithLogger sets the logger used for job, load, save and command events.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets a custom metrics collector for monitoring.
//
// Example:
//
//	mc := &terse.BasicMetricsCollector{}
//	r := terse.NewRunner(terse.WithMetricsCollector(mc))
//	// ... run jobs ...
//	stats := mc.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResolver replaces the resolver that maps job locations to stores.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithRateLimit throttles every store opened by the default resolver to
// bytesPerSec. Zero disables throttling.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *options) {
		o.bytesPerSec = bytesPerSec
	}
}

// WithMinIO configures the client used for minio:// locations.
func WithMinIO(cfg MinIOConfig) Option {
	return func(o *options) {
		o.minio = cfg
	}
}
