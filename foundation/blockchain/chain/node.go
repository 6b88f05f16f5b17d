package chain

import (
	"slices"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// Node pairs a block with the set of unspent outputs that results from
// applying it, coinbase included. A Node is never modified once constructed.
type Node struct {
	block  database.Block
	pool   *utxo.Set
	height uint64
}

// newNode constructs a node that takes ownership of the pool.
func newNode(block database.Block, pool *utxo.Set, height uint64) *Node {
	block.Trans = slices.Clone(block.Trans)

	return &Node{
		block:  block,
		pool:   pool,
		height: height,
	}
}

// Block returns the block held by the node.
func (n *Node) Block() database.Block {
	return n.block
}

// UTXOPool returns a copy of the unspent outputs after the block.
func (n *Node) UTXOPool() *utxo.Set {
	return n.pool.Clone()
}

// Height returns the height of the block. The genesis block has height 0.
func (n *Node) Height() uint64 {
	return n.height
}

// =============================================================================

// withCoinbase adds the coinbase output of the block to the pool.
func withCoinbase(pool *utxo.Set, block database.Block) *utxo.Set {
	cb := block.Coinbase
	pool.Add(utxo.Outpoint{TxHash: cb.Hash, Index: 0}, cb.Outputs[0])

	return pool
}
