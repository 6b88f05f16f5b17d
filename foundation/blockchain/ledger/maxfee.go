package ledger

import (
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/mempool/selector"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// MaxFeeTxHandler attempts the candidates of a batch in descending fee order
// before delegating to a TxHandler. This biases the accepted subset toward
// a higher total fee without guaranteeing the best possible subset.
type MaxFeeTxHandler struct {
	handler  *TxHandler
	selectFn selector.Func
}

// NewMaxFeeTxHandler constructs a fee ordered handler whose current set of
// unspent outputs is a copy of the specified pool.
func NewMaxFeeTxHandler(pool *utxo.Set, verifier signature.Verifier) *MaxFeeTxHandler {
	return &MaxFeeTxHandler{
		handler:  NewTxHandler(pool, verifier),
		selectFn: selector.FeeSelect,
	}
}

// IsValidTx reports whether the transaction can be applied to the current
// set of unspent outputs.
func (h *MaxFeeTxHandler) IsValidTx(tx database.Tx) bool {
	return h.handler.IsValidTx(tx)
}

// HandleTxs orders the batch by fee computed against the set as it stands
// before the batch, then selects and applies a mutually valid subset.
func (h *MaxFeeTxHandler) HandleTxs(txs []database.Tx) []database.Tx {
	return h.handler.HandleTxs(h.selectFn(h.handler.pool, txs))
}

// UTXOPool returns a copy of the handler's current set of unspent outputs.
func (h *MaxFeeTxHandler) UTXOPool() *utxo.Set {
	return h.handler.UTXOPool()
}
