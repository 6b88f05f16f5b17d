// Package cmd contains the ledger app commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/utxochain/foundation/blockchain/chain"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database/storage"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/mempool/selector"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var (
	genesisPath string
	blocksPath  string
	txsPath     string
	cutoffAge   int
	strategy    string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", "zblock/genesis.json", "Path to the genesis file.")
	rootCmd.PersistentFlags().StringVarP(&blocksPath, "blocks", "b", "zblock/blocks", "Path to the directory with block files.")
	rootCmd.PersistentFlags().StringVarP(&txsPath, "txs", "x", "zblock/txs.json", "Path to the pending transactions file.")
	rootCmd.PersistentFlags().IntVarP(&cutoffAge, "cutoff", "c", -1, "Cutoff age, negative uses the genesis file value.")
	rootCmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", selector.StrategyFee, "Select strategy for pending transactions.")
}

var rootCmd = &cobra.Command{
	Use:          "ledger",
	Short:        "Build and inspect a chain of block files",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// =============================================================================

// node holds a chain rebuilt from the files on disk.
type node struct {
	gen  genesis.Genesis
	bc   *chain.BlockChain
	disk *storage.Disk
	last uint64
}

// verdict is called with the outcome of every block file that is replayed.
type verdict func(num uint64, block database.Block, err error)

// loadNode constructs the chain described by the genesis file, adds the
// pending transactions and feeds it every block file on disk.
func loadNode(report verdict) (*node, error) {
	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return nil, fmt.Errorf("loading genesis: %w", err)
	}

	age := gen.CutoffAge
	if cutoffAge >= 0 {
		age = cutoffAge
	}
	chain.SetCutoffAge(age)

	bc, err := chain.New(chain.Config{
		Genesis:        gen.Block(),
		Verifier:       signature.Secp256k1{},
		SelectStrategy: strategy,
	})
	if err != nil {
		return nil, err
	}

	// Pending transactions go first so the blocks that include them take
	// them out of the pool.
	txs, err := readTxs()
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		bc.AddTransaction(tx)
	}

	disk, err := storage.NewDisk(blocksPath)
	if err != nil {
		return nil, err
	}

	iter := disk.ForEach()
	for !iter.Done() {
		blockData, ok, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		block, err := storage.ToDatabaseBlock(blockData)
		if err == nil {
			err = bc.ProcessBlock(block)
		}

		if report != nil {
			report(blockData.Number, block, err)
		}
	}

	n := node{
		gen:  gen,
		bc:   bc,
		disk: disk,
		last: iter.Current(),
	}

	return &n, nil
}

// readTxs reads the pending transactions file. A missing file holds no
// transactions.
func readTxs() ([]database.Tx, error) {
	txs, err := storage.ReadTxs(txsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	return txs, nil
}
