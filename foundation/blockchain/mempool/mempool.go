// Package mempool maintains the pool of submitted transactions that are not
// yet included in any block of the chain.
package mempool

import (
	"sort"
	"sync"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/mempool/selector"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// entry keeps the submission sequence with the transaction so the pool can
// be returned in arrival order.
type entry struct {
	seq uint64
	tx  database.Tx
}

// Mempool represents a cache of transactions organized by transaction hash.
// Membership has no bearing on validity.
type Mempool struct {
	pool     map[database.Hash]entry
	seq      uint64
	mu       sync.RWMutex
	selectFn selector.Func
}

// NewWithStrategy constructs a new mempool with specified sort strategy.
func NewWithStrategy(strategy string) (*Mempool, error) {
	selectFn, err := selector.Retrieve(strategy)
	if err != nil {
		return nil, err
	}

	mp := Mempool{
		pool:     make(map[database.Hash]entry),
		selectFn: selectFn,
	}

	return &mp, nil
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool. A replaced
// transaction keeps its original position.
func (mp *Mempool) Upsert(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	e, exists := mp.pool[tx.Hash]
	if !exists {
		mp.seq++
		e.seq = mp.seq
	}
	e.tx = tx

	mp.pool[tx.Hash] = e

	return len(mp.pool)
}

// Delete removes the transactions with the specified hashes from the mempool.
// Unknown hashes are ignored.
func (mp *Mempool) Delete(hashes ...database.Hash) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, hash := range hashes {
		delete(mp.pool, hash)
	}
}

// Copy returns a copy of the pending transactions in arrival order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	entries := make([]entry, 0, len(mp.pool))
	for _, e := range mp.pool {
		entries = append(entries, e)
	}
	mp.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	txs := make([]database.Tx, len(entries))
	for i, e := range entries {
		txs[i] = e.tx
	}

	return txs
}

// PickBest uses the configured sort strategy to return the pending
// transactions in the order a block builder should attempt them against the
// specified pool. Receiving -1 for howMany returns every transaction.
func (mp *Mempool) PickBest(pool *utxo.Set, howMany int) []database.Tx {
	txs := mp.selectFn(pool, mp.Copy())

	if howMany >= 0 && howMany < len(txs) {
		txs = txs[:howMany]
	}

	return txs
}
