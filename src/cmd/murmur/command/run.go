package command

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mosaicnetworks/murmur/src/murmur"
	"github.com/mosaicnetworks/murmur/src/node"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var _config = NewDefaultCLIConfig()

//NewRunCmd returns the command that starts a murmur node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run node",
		PreRunE: loadConfig,
		RunE:    runMurmur,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runMurmur(cmd *cobra.Command, args []string) error {
	engine := murmur.NewMurmur(&_config.Murmur, os.Stdin, os.Stdout)

	if err := engine.Init(); err != nil {
		_config.Murmur.Logger().Error("Cannot initialize engine:", err)
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		_config.Murmur.Logger().Debug("Reacting to signal - Shutdown")
		engine.Node.Shutdown()
	}()

	if err := engine.Run(); err != nil {
		if node.IsError(err, node.ProtocolViolation) {
			_config.Murmur.Logger().WithError(err).Error("Aborting on protocol violation")
		}
		return err
	}

	return nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", _config.Murmur.DataDir, "Top-level directory for configuration")
	cmd.Flags().String("log", _config.Murmur.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-dir", _config.Murmur.LogDir, "Also write info and debug logs to files in this directory")

	// Retries
	cmd.Flags().Duration("retry-interval", _config.Murmur.RetryInterval, "Time between resends of unacknowledged broadcasts")
	cmd.Flags().Duration("retry-jitter", _config.Murmur.RetryJitter, "Random extra delay added to each retry interval")
	cmd.Flags().Int("retry-window", _config.Murmur.RetryWindow, "Number of resent ids per broadcast whose ack is still accepted")

	// Service
	cmd.Flags().Bool("no-service", _config.Murmur.NoService, "Disable HTTP service")
	cmd.Flags().StringP("service-listen", "s", _config.Murmur.ServiceAddr, "Listen IP:Port for HTTP service")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	if used := viper.ConfigFileUsed(); used != "" {
		_config.Murmur.Logger().Debugf("Using config file: %s", used)
	}

	_config.Murmur.Logger().WithFields(logrus.Fields{
		"murmur.DataDir":       _config.Murmur.DataDir,
		"murmur.LogLevel":      _config.Murmur.LogLevel,
		"murmur.LogDir":        _config.Murmur.LogDir,
		"murmur.RetryInterval": _config.Murmur.RetryInterval,
		"murmur.RetryJitter":   _config.Murmur.RetryJitter,
		"murmur.RetryWindow":   _config.Murmur.RetryWindow,
		"murmur.NoService":     _config.Murmur.NoService,
		"murmur.ServiceAddr":   _config.Murmur.ServiceAddr,
	}).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// MURMUR_RETRY_INTERVAL overrides --retry-interval, and so on
	viper.SetEnvPrefix("murmur")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/murmur.toml (.json, .yaml also work)
	viper.SetConfigName("murmur")               // name of config file (without extension)
	viper.AddConfigPath(_config.Murmur.DataDir) // search root directory

	// If a config file is found, read it in. Do not touch the logger before
	// the second unmarshal: it is built once, from the settings it first sees.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}
