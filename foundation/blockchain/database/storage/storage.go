// Package storage handles all the lower level support for reading and writing
// blocks and pending transactions to disk.
package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/validate"
)

// BlockData represents what is serialized to disk. The number is the
// position in which the block was written and has no meaning to the chain.
type BlockData struct {
	Number        uint64        `json:"number" validate:"gt=0"`
	Hash          database.Hash `json:"hash" validate:"required"`
	PrevBlockHash database.Hash `json:"prev_block_hash" validate:"required"`
	Coinbase      database.Tx   `json:"coinbase"`
	Trans         []database.Tx `json:"trans"`
}

// NewBlockData constructs a block that can be serialized to disk.
func NewBlockData(num uint64, block database.Block) BlockData {
	return BlockData{
		Number:        num,
		Hash:          block.Hash,
		PrevBlockHash: block.PrevBlockHash,
		Coinbase:      block.Coinbase,
		Trans:         block.Trans,
	}
}

// ToDatabaseBlock converts a storage block into a database block.
func ToDatabaseBlock(blockData BlockData) (database.Block, error) {
	if err := validate.Check(blockData); err != nil {
		return database.Block{}, fmt.Errorf("block %d: %w", blockData.Number, err)
	}

	block := database.Block{
		Hash:          blockData.Hash,
		PrevBlockHash: blockData.PrevBlockHash,
		Coinbase:      blockData.Coinbase,
		Trans:         blockData.Trans,
	}

	return block, nil
}

// =============================================================================

// ReadTxs reads a JSON array of pending transactions from the file.
func ReadTxs(path string) ([]database.Tx, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var txs []database.Tx
	if err := json.NewDecoder(f).Decode(&txs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return txs, nil
}

// WriteTxs writes the transactions to the file as a JSON array.
func WriteTxs(path string, txs []database.Tx) error {
	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
