package command

import (
	"github.com/spf13/cobra"
)

//RootCmd is the root command for murmur
var RootCmd = &cobra.Command{
	Use:              "murmur",
	Short:            "murmur gossip node",
	Long:             "murmur is a node of a simulated cluster. It reads protocol messages on stdin, one JSON object per line, and writes its replies on stdout.",
	TraverseChildren: true,
}
