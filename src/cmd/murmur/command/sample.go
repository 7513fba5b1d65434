package command

import (
	"fmt"

	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/spf13/cobra"
)

var (
	sampleNodeID  string
	sampleNodeIDs []string
)

// NewSampleCmd produces a command that prints an example init message, in
// the format expected on stdin.
func NewSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print an example init message",
		RunE:  sample,
	}

	cmd.Flags().StringVar(&sampleNodeID, "node-id", "n1", "Node id assigned by the message")
	cmd.Flags().StringSliceVar(&sampleNodeIDs, "node-ids", []string{"n1", "n2", "n3"}, "Every node id of the cluster")

	return cmd
}

func sample(cmd *cobra.Command, args []string) error {
	env := message.NewEnvelope("c1", sampleNodeID, message.Init{
		MsgID:   1,
		NodeID:  sampleNodeID,
		NodeIDs: sampleNodeIDs,
	})

	out, err := message.NewCodec().EncodeIndent(env)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
