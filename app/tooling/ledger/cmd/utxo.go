package cmd

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var utxoCmd = &cobra.Command{
	Use:   "utxo",
	Short: "Print the unspent outputs after the max height block",
	RunE:  utxoRun,
}

func init() {
	rootCmd.AddCommand(utxoCmd)
}

func utxoRun(cmd *cobra.Command, args []string) error {
	n, err := loadNode(nil)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	pool := n.bc.MaxHeightUTXOPool()

	for _, op := range pool.Outpoints() {
		out, _ := pool.Get(op)
		fmt.Fprintf(w, "%s: value[%d]: owner[%s]\n", op, out.Value, hexutil.Encode(out.Owner))
	}

	total, ok := pool.Total()
	if !ok {
		return errors.New("total value overflows")
	}
	fmt.Fprintf(w, "outputs[%d]: total[%d]\n", pool.Len(), total)

	return nil
}
