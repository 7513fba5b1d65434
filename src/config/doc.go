// Package config defines the configuration for a murmur node.
//
// Regardless of how murmur is started, directly from Go code or as a
// standalone process from the command line, it uses the Config object defined
// in this package to store and forward configuration options. The command
// line reads the same options from flags, from MURMUR_* environment variables,
// and from an optional murmur.toml (or .json, .yaml) file in Config.DataDir.
//
// Standard output is reserved for protocol messages, so logs always go to
// standard error. When Config.LogDir is set, info and debug entries are also
// written to murmur_info.log and murmur_debug.log in that directory.
package config
