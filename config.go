package executor

import (
	"time"
)

// Config settable from the environment
type Config struct {
	// Sets logging level to `debug` when true, `info` otherwise
	Debug bool `default:"false" split_words:"true"`
	// Directory under which service state (hooks, logs, config) lives
	ServicesRoot string `default:"/var/lib/lifecycle/svc" split_words:"true"`
	// Delay between sending TERM and KILL signals to the service process tree
	KillPolicyGracePeriod time.Duration `default:"5s" split_words:"true"`
	// Interval between health check hook runs
	HealthCheckInterval time.Duration `default:"30s" split_words:"true"`
	// Maximum random jitter added to every health check interval to avoid
	// synchronized checks across services
	HealthCheckJitter time.Duration `default:"5s" split_words:"true"`
	// Number of consecutive failed health checks after which the service is
	// considered failed and shut down
	MaxHealthCheckFailures int `default:"3" split_words:"true"`
	// Number of state messages to keep in buffer
	StateUpdateBufferSize int `default:"1024" split_words:"true"`
	// Timeout for attempts to deliver messages in buffer
	StateUpdateWaitTimeout time.Duration `default:"5s" split_words:"true"`

	// SentryDSN is an address used for sending logs to Sentry
	SentryDSN string `split_words:"true"`
}
