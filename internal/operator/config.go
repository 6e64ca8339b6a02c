package operator

import (
	"os"
	"strconv"
	"time"
)

// OperatorConfig holds configuration for the operator loaded from environment variables.
type OperatorConfig struct {
	// RequeueDelaySeconds is the delay in seconds before requeueing when
	// resources aren't ready.
	RequeueDelaySeconds int

	// InvalidSpecRequeueSeconds is the slow-retry delay for validation
	// failures that only an external edit can resolve.
	InvalidSpecRequeueSeconds int

	// MaxConcurrentReconciles bounds the worker pool per controller. Each
	// aggregate key is still reconciled by at most one worker at a time.
	MaxConcurrentReconciles int

	// BackoffBaseSeconds is the initial retry delay for failed reconciliations.
	BackoffBaseSeconds float64

	// BackoffMaxSeconds caps the exponential retry delay.
	BackoffMaxSeconds float64

	// ProbeBackingStore enables pinging the Redis state store during
	// MCPServer reconciliation and reporting a BackingStoreReady condition.
	ProbeBackingStore bool
}

// LoadOperatorConfig loads operator configuration from environment variables.
func LoadOperatorConfig() *OperatorConfig {
	return &OperatorConfig{
		RequeueDelaySeconds:       getEnvIntOrDefault("REQUEUE_DELAY_SECONDS", RequeueDelayNotReady),
		InvalidSpecRequeueSeconds: getEnvIntOrDefault("INVALID_SPEC_REQUEUE_SECONDS", RequeueDelayInvalidSpec),
		MaxConcurrentReconciles:   getEnvIntOrDefault("MAX_CONCURRENT_RECONCILES", 4),
		BackoffBaseSeconds:        getEnvFloatOrDefault("BACKOFF_BASE_SECONDS", 0.5),
		BackoffMaxSeconds:         getEnvFloatOrDefault("BACKOFF_MAX_SECONDS", 300),
		ProbeBackingStore:         getEnvBoolOrDefault("PROBE_BACKING_STORE", false),
	}
}

// RequeueDelay returns the not-ready requeue delay as a duration.
func (c *OperatorConfig) RequeueDelay() time.Duration {
	return time.Duration(c.RequeueDelaySeconds) * time.Second
}

// InvalidSpecRequeue returns the validation-failure requeue delay as a duration.
func (c *OperatorConfig) InvalidSpecRequeue() time.Duration {
	return time.Duration(c.InvalidSpecRequeueSeconds) * time.Second
}

// BackoffBase returns the initial retry delay as a duration.
func (c *OperatorConfig) BackoffBase() time.Duration {
	return time.Duration(c.BackoffBaseSeconds * float64(time.Second))
}

// BackoffMax returns the retry delay cap as a duration.
func (c *OperatorConfig) BackoffMax() time.Duration {
	return time.Duration(c.BackoffMaxSeconds * float64(time.Second))
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
