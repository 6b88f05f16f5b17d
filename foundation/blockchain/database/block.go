package database

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
)

// Block represents a group of transactions batched together on top of a
// previous block. The coinbase transaction pays the block reward and is not
// part of Trans.
type Block struct {
	Hash          Hash `json:"hash"`
	PrevBlockHash Hash `json:"prev_block_hash"` // Bitcoin: Hash of the previous block in the chain.
	Coinbase      Tx   `json:"coinbase"`        // Bitcoin: Transaction paying the block reward.
	Trans         []Tx `json:"trans"`
}

// NewBlock constructs a block on top of the block identified by prevBlockHash
// with a coinbase paying reward to the owner. The genesis block uses ZeroHash.
func NewBlock(prevBlockHash Hash, owner []byte, reward int64) Block {
	return Block{
		PrevBlockHash: prevBlockHash,
		Coinbase:      NewCoinbaseTx(reward, owner),
	}
}

// AddTransaction appends the transaction to the block.
func (b *Block) AddTransaction(tx Tx) {
	b.Trans = append(b.Trans, tx)
}

// Finalize assigns the hash of the block. It must be called once every
// transaction has been added.
func (b *Block) Finalize() {

	// Hashing a header made of transaction hashes and not the whole block.
	// The transactions carry their own content hash.
	txHashes := make([]Hash, len(b.Trans))
	for i, tx := range b.Trans {
		txHashes[i] = tx.Hash
	}

	header := struct {
		PrevBlockHash Hash   `json:"prev_block_hash"`
		Coinbase      Hash   `json:"coinbase"`
		Trans         []Hash `json:"trans"`
	}{
		PrevBlockHash: b.PrevBlockHash,
		Coinbase:      b.Coinbase.Hash,
		Trans:         txHashes,
	}

	b.Hash = signature.Hash(header)
}

// IsGenesis reports whether the block claims to be a genesis block.
func (b Block) IsGenesis() bool {
	return b.PrevBlockHash.IsZero()
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("%s:prev[%s]:trans[%d]", b.Hash, b.PrevBlockHash, len(b.Trans))
}
