package command

import (
	"github.com/mosaicnetworks/murmur/src/config"
)

//CLIConfig contains configuration for the Run command
type CLIConfig struct {
	Murmur config.Config `mapstructure:",squash"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Murmur: *config.NewDefaultConfig(),
	}
}
