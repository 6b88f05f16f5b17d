package cmd

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database/storage"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var mineAccount string

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Write a block on top of the max height block with the pending transactions",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&mineAccount, "account", "a", "zblock/accounts/miner.ecdsa", "Path to the private key paid by the coinbase.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.LoadECDSA(mineAccount)
	if err != nil {
		return err
	}

	n, err := loadNode(nil)
	if err != nil {
		return err
	}

	candidates := n.bc.Candidates()

	block := database.NewBlock(n.bc.MaxHeightBlock().Hash, signature.PublicKeyBytes(&privateKey.PublicKey), n.gen.MiningReward)
	for _, tx := range candidates {
		block.AddTransaction(tx)
	}
	block.Finalize()

	if err := n.disk.Write(storage.NewBlockData(n.last+1, block)); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "block %d: %s: height[%d]: trans[%d]: coinbase[%s]\n", n.last+1, block.Hash, n.bc.MaxHeight()+1, len(block.Trans), block.Coinbase.Hash)

	return nil
}
