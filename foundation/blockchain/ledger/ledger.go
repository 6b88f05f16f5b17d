// Package ledger validates transactions against a set of unspent outputs and
// selects a mutually valid subset from a batch of candidates.
package ledger

import (
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// TxHandler maintains a private set of unspent outputs and applies the
// transactions it accepts to that set.
type TxHandler struct {
	pool     *utxo.Set
	verifier signature.Verifier
}

// NewTxHandler constructs a handler whose current set of unspent outputs is
// a copy of the specified pool. The caller's pool is never modified.
func NewTxHandler(pool *utxo.Set, verifier signature.Verifier) *TxHandler {
	if pool == nil {
		pool = utxo.New()
	}

	return &TxHandler{
		pool:     pool.Clone(),
		verifier: verifier,
	}
}

// UTXOPool returns a copy of the handler's current set of unspent outputs.
func (h *TxHandler) UTXOPool() *utxo.Set {
	return h.pool.Clone()
}

// IsValidTx reports whether the transaction can be applied to the current
// set of unspent outputs:
//
//  1. every outpoint claimed by an input is unspent,
//  2. every input signature verifies against the owner of the claimed output,
//  3. no outpoint is claimed more than once,
//  4. every output value is non-negative,
//  5. the input sum is at least the output sum.
//
// A transaction without inputs passes the first three rules trivially, so
// the fifth rule only accepts it when it pays nothing.
func (h *TxHandler) IsValidTx(tx database.Tx) bool {
	return h.inputsUnspent(tx) &&
		h.signaturesValid(tx) &&
		claimedOnce(tx) &&
		outputsNonNegative(tx) &&
		h.inputsCoverOutputs(tx)
}

// HandleTxs receives an unordered batch of candidate transactions, checks
// each one for correctness, applies the valid ones to the current set, and
// returns them in the order they were accepted. A candidate that is invalid
// in one pass is retried in the next pass as long as the previous pass
// accepted something, so a transaction spending the output of another
// candidate is accepted once its producer is.
func (h *TxHandler) HandleTxs(txs []database.Tx) []database.Tx {
	accepted := []database.Tx{}

	pending := txs
	for len(pending) > 0 {
		var deferred []database.Tx
		progress := false

		for _, tx := range pending {
			if !h.IsValidTx(tx) {
				deferred = append(deferred, tx)
				continue
			}

			h.pool.ApplyTx(tx)
			accepted = append(accepted, tx)
			progress = true
		}

		if !progress {
			break
		}
		pending = deferred
	}

	return accepted
}

// =============================================================================

// inputsUnspent checks every claimed outpoint is in the current set.
func (h *TxHandler) inputsUnspent(tx database.Tx) bool {
	return h.pool.HasInputs(tx)
}

// signaturesValid checks every input is signed by the owner of the output
// it claims. It must run after inputsUnspent.
func (h *TxHandler) signaturesValid(tx database.Tx) bool {
	if h.verifier == nil {
		return false
	}

	for i, in := range tx.Inputs {
		out, exists := h.pool.Get(utxo.Outpoint{TxHash: in.PrevTxHash, Index: in.OutputIndex})
		if !exists || len(in.Signature) == 0 {
			return false
		}

		if !h.verifier.Verify(out.Owner, tx.RawDataToSign(i), in.Signature) {
			return false
		}
	}

	return true
}

// inputsCoverOutputs checks the fee of the transaction is not negative.
// It must run after inputsUnspent.
func (h *TxHandler) inputsCoverOutputs(tx database.Tx) bool {
	fee, ok := h.pool.Fee(tx)
	return ok && fee >= 0
}

// claimedOnce checks no outpoint is claimed by more than one input.
func claimedOnce(tx database.Tx) bool {
	seen := make(map[utxo.Outpoint]struct{}, len(tx.Inputs))
	for _, op := range utxo.Outpoints(tx) {
		if _, exists := seen[op]; exists {
			return false
		}
		seen[op] = struct{}{}
	}

	return true
}

// outputsNonNegative checks every output value is zero or more.
func outputsNonNegative(tx database.Tx) bool {
	for _, out := range tx.Outputs {
		if out.Value < 0 {
			return false
		}
	}

	return true
}
