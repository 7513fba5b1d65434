package config

import (
	"io"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/node"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultInfoLogFile receives info-level entries when LogDir is set.
	DefaultInfoLogFile = "murmur_info.log"

	// DefaultDebugLogFile receives debug-level entries when LogDir is set.
	DefaultDebugLogFile = "murmur_debug.log"
)

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultServiceAddr   = "127.0.0.1:8000"
	DefaultNoService     = true
	DefaultRetryInterval = 500 * time.Millisecond
	DefaultRetryJitter   = 0 * time.Millisecond
	DefaultRetryWindow   = node.DefaultRetryWindow
)

// Config contains all the configuration properties of a murmur node.
type Config struct {
	// DataDir is the directory searched for an optional murmur.toml (or
	// .json, .yaml) configuration file.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogDir, when set, additionally writes info and debug entries to files
	// in this directory.
	LogDir string `mapstructure:"log-dir"`

	// RetryInterval is the time between two resends of unacknowledged
	// broadcasts.
	RetryInterval time.Duration `mapstructure:"retry-interval"`

	// RetryJitter adds a random delay, up to this value, to every
	// RetryInterval.
	RetryJitter time.Duration `mapstructure:"retry-jitter"`

	// RetryWindow is the number of resent message ids per obligation whose
	// acknowledgement is still accepted.
	RetryWindow int `mapstructure:"retry-window"`

	// NoService disables the HTTP service.
	NoService bool `mapstructure:"no-service"`

	// ServiceAddr is the address:port of the optional HTTP service, which
	// exposes /stats and /metrics.
	ServiceAddr string `mapstructure:"service-listen"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:       DefaultDataDir(),
		LogLevel:      DefaultLogLevel,
		ServiceAddr:   DefaultServiceAddr,
		NoService:     DefaultNoService,
		RetryInterval: DefaultRetryInterval,
		RetryJitter:   DefaultRetryJitter,
		RetryWindow:   DefaultRetryWindow,
	}

	return config
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// Logger returns a formatted logrus Entry, with prefix set to "murmur". The
// logger writes to stderr since stdout carries the protocol.
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = c.newLogger(os.Stderr)
	}
	return c.logger.WithField("prefix", "murmur")
}

func (c *Config) newLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.Out = out
	logger.Level = LogLevel(c.LogLevel)
	logger.Formatter = new(prefixed.TextFormatter)

	if c.LogDir == "" {
		return logger
	}

	if err := os.MkdirAll(c.LogDir, 0700); err != nil {
		logger.WithError(err).Warn("Failed to create log directory, using stderr only")
		return logger
	}

	pathMap := lfshook.PathMap{}

	infoFile := filepath.Join(c.LogDir, DefaultInfoLogFile)
	if f, err := os.OpenFile(infoFile, os.O_CREATE|os.O_WRONLY, 0666); err != nil {
		logger.Infof("Failed to open %s, using stderr only", infoFile)
	} else {
		f.Close()
		pathMap[logrus.InfoLevel] = infoFile
	}

	debugFile := filepath.Join(c.LogDir, DefaultDebugLogFile)
	if f, err := os.OpenFile(debugFile, os.O_CREATE|os.O_WRONLY, 0666); err != nil {
		logger.Infof("Failed to open %s, using stderr only", debugFile)
	} else {
		f.Close()
		pathMap[logrus.DebugLevel] = debugFile
	}

	logger.Hooks.Add(lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{},
	))

	return logger
}

// NodeConfig returns the configuration of the node event loop.
func (c *Config) NodeConfig() *node.Config {
	return node.NewConfig(
		c.RetryInterval,
		c.RetryJitter,
		c.RetryWindow,
		c.Logger().Logger,
	)
}

// DefaultDataDir return the default directory name for top-level murmur
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Murmur")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Murmur")
		} else {
			return filepath.Join(home, ".murmur")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
