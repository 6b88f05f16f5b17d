package cmd

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay the block files and print the verdict for each block",
	RunE:  replayRun,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func replayRun(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	report := func(num uint64, block database.Block, err error) {
		if err != nil {
			fmt.Fprintf(w, "block %d: %s: REJECTED: %s\n", num, block.Hash, err)
			return
		}
		fmt.Fprintf(w, "block %d: %s: ACCEPTED\n", num, block.Hash)
	}

	n, err := loadNode(report)
	if err != nil {
		return err
	}

	tip := n.bc.MaxHeightBlock()
	fmt.Fprintf(w, "tip: %s: height[%d]: retained[%d]: pending[%d]\n", tip.Hash, n.bc.MaxHeight(), n.bc.Retained(), n.bc.PendingCount())

	return nil
}
