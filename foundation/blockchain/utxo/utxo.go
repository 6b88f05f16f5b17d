// Package utxo maintains the set of unspent transaction outputs that
// represents the spendable value at a given position in the chain.
package utxo

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
)

// Outpoint identifies an output by the hash of the transaction that created
// it and the index of the output in that transaction.
type Outpoint struct {
	TxHash database.Hash `json:"tx_hash"`
	Index  uint32        `json:"index"`
}

// String implements the fmt.Stringer interface for logging.
func (op Outpoint) String() string {
	return fmt.Sprintf("%s:%d", op.TxHash, op.Index)
}

// compare orders outpoints by hash and then index.
func (op Outpoint) compare(other Outpoint) int {
	if c := bytes.Compare(op.TxHash[:], other.TxHash[:]); c != 0 {
		return c
	}

	switch {
	case op.Index < other.Index:
		return -1
	case op.Index > other.Index:
		return 1
	}

	return 0
}

// Outpoints returns the outpoints claimed by the inputs of the transaction
// in input order.
func Outpoints(tx database.Tx) []Outpoint {
	ops := make([]Outpoint, len(tx.Inputs))
	for i, in := range tx.Inputs {
		ops[i] = Outpoint{TxHash: in.PrevTxHash, Index: in.OutputIndex}
	}

	return ops
}

// =============================================================================

// Set represents a collection of unspent outputs indexed by their outpoint.
// A Set is not safe for concurrent use.
type Set struct {
	m map[Outpoint]database.Output
}

// New constructs an empty set.
func New() *Set {
	return &Set{
		m: make(map[Outpoint]database.Output),
	}
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	clone := Set{
		m: make(map[Outpoint]database.Output, len(s.m)),
	}

	for op, out := range s.m {
		clone.m[op] = out
	}

	return &clone
}

// Len returns the number of unspent outputs in the set.
func (s *Set) Len() int {
	return len(s.m)
}

// Add inserts the output at the specified outpoint.
func (s *Set) Add(op Outpoint, out database.Output) {
	s.m[op] = out
}

// Remove deletes the output at the specified outpoint.
func (s *Set) Remove(op Outpoint) {
	delete(s.m, op)
}

// Get returns the output at the specified outpoint.
func (s *Set) Get(op Outpoint) (database.Output, bool) {
	out, exists := s.m[op]
	return out, exists
}

// Contains reports whether the outpoint is unspent.
func (s *Set) Contains(op Outpoint) bool {
	_, exists := s.m[op]
	return exists
}

// Outpoints returns every outpoint in the set ordered by hash and index.
func (s *Set) Outpoints() []Outpoint {
	ops := make([]Outpoint, 0, len(s.m))
	for op := range s.m {
		ops = append(ops, op)
	}

	slices.SortFunc(ops, Outpoint.compare)

	return ops
}

// Total returns the sum of the values held in the set. The boolean is false
// when the sum overflows.
func (s *Set) Total() (int64, bool) {
	var total int64
	for _, out := range s.m {
		var ok bool
		if total, ok = Add(total, out.Value); !ok {
			return 0, false
		}
	}

	return total, true
}

// =============================================================================

// HasInputs reports whether every outpoint claimed by the transaction is
// unspent in the set.
func (s *Set) HasInputs(tx database.Tx) bool {
	for _, in := range tx.Inputs {
		if !s.Contains(Outpoint{TxHash: in.PrevTxHash, Index: in.OutputIndex}) {
			return false
		}
	}

	return true
}

// InputSum returns the sum of the values claimed by the transaction. The
// boolean is false when a claimed outpoint is not in the set or the sum
// overflows.
func (s *Set) InputSum(tx database.Tx) (int64, bool) {
	var sum int64
	for _, in := range tx.Inputs {
		out, exists := s.Get(Outpoint{TxHash: in.PrevTxHash, Index: in.OutputIndex})
		if !exists {
			return 0, false
		}

		var ok bool
		if sum, ok = Add(sum, out.Value); !ok {
			return 0, false
		}
	}

	return sum, true
}

// Fee returns the input sum minus the output sum of the transaction. The
// boolean is false when the fee can't be computed against this set.
func (s *Set) Fee(tx database.Tx) (int64, bool) {
	in, ok := s.InputSum(tx)
	if !ok {
		return 0, false
	}

	out, ok := OutputSum(tx)
	if !ok {
		return 0, false
	}

	switch {
	case out < 0 && in > math.MaxInt64+out:
		return 0, false
	case out > 0 && in < math.MinInt64+out:
		return 0, false
	}

	return in - out, true
}

// ApplyTx removes the outpoints claimed by the transaction and adds its
// outputs keyed by the transaction hash. The caller is responsible for
// validating the transaction first.
func (s *Set) ApplyTx(tx database.Tx) {
	for _, in := range tx.Inputs {
		s.Remove(Outpoint{TxHash: in.PrevTxHash, Index: in.OutputIndex})
	}

	for i, out := range tx.Outputs {
		s.Add(Outpoint{TxHash: tx.Hash, Index: uint32(i)}, out)
	}
}

// String implements the fmt.Stringer interface for logging. The outputs
// are sorted for determinism.
func (s *Set) String() string {
	ops := s.Outpoints()

	strs := make([]string, len(ops))
	for i, op := range ops {
		strs[i] = fmt.Sprintf("(%s) => %d", op, s.m[op].Value)
	}

	return fmt.Sprintf("[ %s ]", strings.Join(strs, ", "))
}

// =============================================================================

// OutputSum returns the sum of the output values of the transaction. The
// boolean is false when the sum overflows.
func OutputSum(tx database.Tx) (int64, bool) {
	var sum int64
	for _, out := range tx.Outputs {
		var ok bool
		if sum, ok = Add(sum, out.Value); !ok {
			return 0, false
		}
	}

	return sum, true
}

// Add returns a+b. The boolean is false when the addition overflows.
func Add(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, false
	}

	return c, true
}
