package node

import (
	"testing"
	"time"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/sirupsen/logrus"
)

// Config ...
type Config struct {
	// RetryInterval is the period between two flushes of the retry ledger.
	RetryInterval time.Duration `mapstructure:"retry-interval"`
	// RetryJitter adds a random delay in [0, RetryJitter) to each period.
	RetryJitter time.Duration `mapstructure:"retry-jitter"`
	// RetryWindow is the number of in-flight ids remembered per obligation.
	RetryWindow int `mapstructure:"retry-window"`
	Logger      *logrus.Logger
}

// NewConfig ...
func NewConfig(retryInterval time.Duration,
	retryJitter time.Duration,
	retryWindow int,
	logger *logrus.Logger) *Config {

	return &Config{
		RetryInterval: retryInterval,
		RetryJitter:   retryJitter,
		RetryWindow:   retryWindow,
		Logger:        logger,
	}
}

// DefaultConfig ...
func DefaultConfig() *Config {
	logger := logrus.New()
	logger.Level = logrus.DebugLevel

	return &Config{
		RetryInterval: 500 * time.Millisecond,
		RetryJitter:   0,
		RetryWindow:   DefaultRetryWindow,
		Logger:        logger,
	}
}

// TestConfig returns a config with a short retry interval and a logger that
// writes to t.Log.
func TestConfig(t testing.TB) *Config {
	config := DefaultConfig()
	config.RetryInterval = 20 * time.Millisecond
	config.Logger = common.NewTestLogger(t, logrus.DebugLevel)
	return config
}
