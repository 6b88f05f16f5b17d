// Package selector provides different transaction ordering algorithms used
// to decide which candidate transactions are attempted first.
package selector

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// List of different select strategies.
const (
	StrategyArrival = "arrival"
	StrategyFee     = "fee"
)

// Map of different select strategies with functions.
var strategies = map[string]Func{
	StrategyArrival: arrivalSelect,
	StrategyFee:     FeeSelect,
}

// Func defines a function that takes a set of candidate transactions and
// returns them in the order they should be attempted based on the functions
// strategy. The pool is the unspent output set the batch will be validated
// against. A Func must return a new slice and leave the candidates untouched.
type Func func(pool *utxo.Set, txs []database.Tx) []database.Tx

// Retrieve returns the specified select strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// arrivalSelect returns the transactions in the order they were provided.
var arrivalSelect = func(pool *utxo.Set, txs []database.Tx) []database.Tx {
	final := make([]database.Tx, len(txs))
	copy(final, txs)

	return final
}
