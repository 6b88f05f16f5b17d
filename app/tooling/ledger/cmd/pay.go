package cmd

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database/storage"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	payAccount string
	prevTxHash string
	prevIndex  uint32
	to         string
	value      int64
	change     int64
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Sign a payment and add it to the pending transactions file",
	RunE:  payRun,
}

func init() {
	rootCmd.AddCommand(payCmd)
	payCmd.Flags().StringVarP(&payAccount, "account", "a", "zblock/accounts/miner.ecdsa", "Path to the private key owning the output.")
	payCmd.Flags().StringVarP(&prevTxHash, "prev", "p", "", "Hash of the transaction holding the output to spend.")
	payCmd.Flags().Uint32VarP(&prevIndex, "index", "i", 0, "Index of the output to spend.")
	payCmd.Flags().StringVarP(&to, "to", "t", "", "Public key of the receiver.")
	payCmd.Flags().Int64VarP(&value, "value", "v", 0, "Value to send.")
	payCmd.Flags().Int64Var(&change, "change", 0, "Value paid back to the account.")
	payCmd.MarkFlagRequired("prev")
	payCmd.MarkFlagRequired("to")
}

func payRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.LoadECDSA(payAccount)
	if err != nil {
		return err
	}

	var prev database.Hash
	if err := prev.UnmarshalText([]byte(prevTxHash)); err != nil {
		return fmt.Errorf("prev: %w", err)
	}

	receiver, err := hexutil.Decode(to)
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}

	var tx database.Tx
	tx.AddInput(prev, prevIndex)
	tx.AddOutput(value, receiver)
	if change > 0 {
		tx.AddOutput(change, signature.PublicKeyBytes(&privateKey.PublicKey))
	}

	if err := tx.Sign(0, privateKey); err != nil {
		return err
	}
	tx.Finalize()

	txs, err := readTxs()
	if err != nil {
		return err
	}

	if err := storage.WriteTxs(txsPath, append(txs, tx)); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "tx:", tx.Hash)

	return nil
}
