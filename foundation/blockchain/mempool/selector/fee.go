package selector

import (
	"sort"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// FeeSelect returns the transactions with the best fee first. The fee is
// computed against the pool as it stands before the batch is applied.
var FeeSelect Func = func(pool *utxo.Set, txs []database.Tx) []database.Tx {

	/*
		A: in[25]         out[20]  fee 5
		B: in[A:0]        out[10]  fee ?
		C: in[10]         out[10]  fee 0
		D: in[25]         out[15]  fee 10
	*/

	// Compute the fee of every transaction once. A transaction spending an
	// output that is not in the pool yet has no fee and is split out.
	var resolved []feeTx
	var unresolved []database.Tx
	for _, tx := range txs {
		fee, ok := pool.Fee(tx)
		if !ok {
			unresolved = append(unresolved, tx)
			continue
		}
		resolved = append(resolved, feeTx{tx: tx, fee: fee})
	}

	/*
		resolved:   A(5), C(0), D(10)
		unresolved: B
	*/

	// Sort the resolved transactions by fee. Transactions with the same fee
	// keep the order they were provided in.
	sort.Stable(byFee(resolved))

	/*
		D(10), A(5), C(0), B
	*/

	final := make([]database.Tx, 0, len(txs))
	for _, ft := range resolved {
		final = append(final, ft.tx)
	}
	final = append(final, unresolved...)

	return final
}

// =============================================================================

// feeTx pairs a transaction with its fee.
type feeTx struct {
	tx  database.Tx
	fee int64
}

// byFee provides sorting support by the transaction fee value.
type byFee []feeTx

// Len returns the number of transactions in the list.
func (bf byFee) Len() int {
	return len(bf)
}

// Less helps to sort the list by fee in decending order to pick the
// transactions that provide the best reward.
func (bf byFee) Less(i, j int) bool {
	return bf[i].fee > bf[j].fee
}

// Swap moves transactions in the order of the fee value.
func (bf byFee) Swap(i, j int) {
	bf[i], bf[j] = bf[j], bf[i]
}
