package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Print the pending transactions a block on top of the max height block would include",
	RunE:  selectRun,
}

func init() {
	rootCmd.AddCommand(selectCmd)
}

func selectRun(cmd *cobra.Command, args []string) error {
	n, err := loadNode(nil)
	if err != nil {
		return err
	}

	candidates := n.bc.Candidates()

	w := cmd.OutOrStdout()
	pool := n.bc.MaxHeightUTXOPool()

	for _, tx := range candidates {
		fee, _ := pool.Fee(tx)
		fmt.Fprintf(w, "tx: %s: fee[%d]\n", tx.Hash, fee)
	}
	fmt.Fprintf(w, "strategy[%s]: pending[%d]: selected[%d]\n", strategy, n.bc.PendingCount(), len(candidates))

	return nil
}
