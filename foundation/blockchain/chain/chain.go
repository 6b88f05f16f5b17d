// Package chain maintains a bounded window of the block chain. It validates
// new blocks against the unspent outputs of their parent, tracks the block
// with the maximum height, and forgets blocks that fall too far behind it.
package chain

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/ledger"
	"github.com/ardanlabs/utxochain/foundation/blockchain/mempool"
	"github.com/ardanlabs/utxochain/foundation/blockchain/mempool/selector"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// DefaultCutoffAge is the default number of blocks below the maximum height
// at which a new block may still attach to an older branch.
const DefaultCutoffAge = 10

var cutoffAge atomic.Int64

func init() {
	cutoffAge.Store(DefaultCutoffAge)
}

// CutoffAge returns the current cutoff age.
func CutoffAge() int {
	return int(cutoffAge.Load())
}

// SetCutoffAge changes the cutoff age used by every chain. It is read on each
// call to AddBlock. Negative values are treated as zero.
func SetCutoffAge(age int) {
	cutoffAge.Store(int64(max(age, 0)))
}

// =============================================================================

// Set of error variables for rejected blocks.
var (
	ErrGenesisExists       = errors.New("genesis block already exists")
	ErrUnknownParent       = errors.New("parent block is unknown or pruned")
	ErrInvalidCoinbase     = errors.New("block coinbase is not a coinbase transaction")
	ErrInvalidTransactions = errors.New("block contains invalid transactions")
	ErrBelowCutoff         = errors.New("block height is at or below the cutoff")
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the chain. An empty
// SelectStrategy orders candidates by arrival.
type Config struct {
	Genesis        database.Block
	Verifier       signature.Verifier
	SelectStrategy string
	EvHandler      EventHandler
}

// BlockChain manages the retained chain nodes, the node of maximum height,
// and the pool of transactions not yet included in a block. Every method is
// safe for concurrent use and each one is applied atomically.
type BlockChain struct {
	mu sync.Mutex

	nodes    map[database.Hash]*Node
	heights  map[uint64][]database.Hash
	highest  *Node
	mempool  *mempool.Mempool
	verifier signature.Verifier

	evHandler EventHandler
}

// New constructs a chain holding only the genesis block. The genesis block
// is trusted and not validated.
func New(cfg Config) (*BlockChain, error) {
	if cfg.Verifier == nil {
		return nil, errors.New("signature verifier is required")
	}

	if !cfg.Genesis.Coinbase.IsCoinbase() {
		return nil, ErrInvalidCoinbase
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	strategy := cfg.SelectStrategy
	if strategy == "" {
		strategy = selector.StrategyArrival
	}

	mp, err := mempool.NewWithStrategy(strategy)
	if err != nil {
		return nil, err
	}

	genesis := newNode(cfg.Genesis, withCoinbase(utxo.New(), cfg.Genesis), 0)

	bc := BlockChain{
		nodes:     map[database.Hash]*Node{cfg.Genesis.Hash: genesis},
		heights:   map[uint64][]database.Hash{0: {cfg.Genesis.Hash}},
		highest:   genesis,
		mempool:   mp,
		verifier:  cfg.Verifier,
		evHandler: ev,
	}

	ev("chain: New: genesis[%s]: strategy[%s]", cfg.Genesis.Hash, strategy)

	return &bc, nil
}

// MaxHeightBlock returns the block of maximum height.
func (bc *BlockChain) MaxHeightBlock() database.Block {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	return bc.highest.Block()
}

// MaxHeightUTXOPool returns a copy of the unspent outputs after the block of
// maximum height. This is the pool for building a new block on top of it.
func (bc *BlockChain) MaxHeightUTXOPool() *utxo.Set {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	return bc.highest.UTXOPool()
}

// MaxHeight returns the height of the block of maximum height.
func (bc *BlockChain) MaxHeight() uint64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	return bc.highest.Height()
}

// Retained returns the number of blocks currently held by the chain.
func (bc *BlockChain) Retained() int {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	return len(bc.nodes)
}

// Node returns the retained node for the specified block hash.
func (bc *BlockChain) Node(hash database.Hash) (*Node, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	n, exists := bc.nodes[hash]
	return n, exists
}

// AddTransaction adds a transaction to the pool of pending transactions.
func (bc *BlockChain) AddTransaction(tx database.Tx) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	n := bc.mempool.Upsert(tx)

	bc.evHandler("chain: AddTransaction: tx[%s]: pending[%d]", tx.Hash, n)
}

// TransactionPool returns a copy of the pending transactions in the order
// they were submitted.
func (bc *BlockChain) TransactionPool() []database.Tx {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	return bc.mempool.Copy()
}

// PendingCount returns the number of pending transactions.
func (bc *BlockChain) PendingCount() int {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	return bc.mempool.Count()
}

// Candidates returns the pending transactions that can be included together
// in a new block on top of the block of maximum height, attempted in the
// order defined by the select strategy of the chain.
func (bc *BlockChain) Candidates() []database.Tx {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	pool := bc.highest.pool
	h := ledger.NewTxHandler(pool, bc.verifier)

	return h.HandleTxs(bc.mempool.PickBest(pool, -1))
}

// AddBlock adds the block to the chain if it is valid. For validity, the
// block must build on a retained block, all of its transactions must be
// valid together against the parent's unspent outputs, and its height must
// be greater than the maximum height minus the cutoff age.
func (bc *BlockChain) AddBlock(block database.Block) bool {
	return bc.ProcessBlock(block) == nil
}

// ProcessBlock performs the work of AddBlock and reports the reason a block
// is rejected. A rejected block leaves the chain unchanged. A block that is
// already retained is accepted again without changing the chain.
func (bc *BlockChain) ProcessBlock(block database.Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if node, exists := bc.nodes[block.Hash]; exists && !block.IsGenesis() {
		bc.removePending(block)
		bc.evHandler("chain: ProcessBlock: blk[%s]: height[%d]: already retained", block.Hash, node.height)
		return nil
	}

	node, err := bc.validateBlock(block)
	if err != nil {
		bc.evHandler("chain: ProcessBlock: blk[%s]: REJECTED: %s", block.Hash, err)
		return err
	}

	bc.nodes[block.Hash] = node
	bc.heights[node.height] = append(bc.heights[node.height], block.Hash)

	// Ties keep the block that arrived first.
	if node.height > bc.highest.height {
		bc.highest = node
		bc.prune()
	}

	bc.removePending(block)

	bc.evHandler("chain: ProcessBlock: blk[%s]: height[%d]: max[%d]: retained[%d]", block.Hash, node.height, bc.highest.height, len(bc.nodes))

	return nil
}

// =============================================================================

// validateBlock checks the block against its parent and returns the node
// that results from applying it.
func (bc *BlockChain) validateBlock(block database.Block) (*Node, error) {
	if block.IsGenesis() {
		return nil, ErrGenesisExists
	}

	parent, exists := bc.nodes[block.PrevBlockHash]
	if !exists {
		return nil, fmt.Errorf("%w: prev[%s]", ErrUnknownParent, block.PrevBlockHash)
	}

	height := parent.height + 1
	floor := int64(bc.highest.height) - int64(CutoffAge())
	if int64(height) <= floor {
		return nil, fmt.Errorf("%w: height[%d]: floor[%d]", ErrBelowCutoff, height, floor)
	}

	if !block.Coinbase.IsCoinbase() || block.Coinbase.Outputs[0].Value < 0 {
		return nil, ErrInvalidCoinbase
	}

	h := ledger.NewTxHandler(parent.pool, bc.verifier)
	accepted := h.HandleTxs(block.Trans)
	if len(accepted) != len(block.Trans) {
		return nil, fmt.Errorf("%w: accepted[%d]: trans[%d]", ErrInvalidTransactions, len(accepted), len(block.Trans))
	}

	return newNode(block, withCoinbase(h.UTXOPool(), block), height), nil
}

// removePending drops the transactions of the block from the pending pool.
func (bc *BlockChain) removePending(block database.Block) {
	hashes := make([]database.Hash, len(block.Trans))
	for i, tx := range block.Trans {
		hashes[i] = tx.Hash
	}
	bc.mempool.Delete(hashes...)
}

// prune drops every node that can no longer be the parent of a new block.
// A parent at height p is only accepted while p+1 > max-cutoff, so nodes
// below max-cutoff are unreachable from now on since the maximum height
// never decreases.
func (bc *BlockChain) prune() {
	floor := int64(bc.highest.height) - int64(CutoffAge())

	for height, hashes := range bc.heights {
		if int64(height) >= floor {
			continue
		}

		for _, hash := range hashes {
			delete(bc.nodes, hash)
		}
		delete(bc.heights, height)

		bc.evHandler("chain: prune: height[%d]: blocks[%d]", height, len(hashes))
	}
}
