package utxo_test

import (
	"math"
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

var (
	bill = []byte("bill")
	jill = []byte("jill")
)

// =============================================================================

func Test_Set(t *testing.T) {
	t.Log("Given the need to manage unspent outputs.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen applying a transaction to a cloned set.", testID)
		{
			coinbase := database.NewCoinbaseTx(25, bill)
			op := utxo.Outpoint{TxHash: coinbase.Hash, Index: 0}

			set := utxo.New()
			set.Add(op, coinbase.Outputs[0])

			var tx database.Tx
			tx.AddInput(coinbase.Hash, 0)
			tx.AddOutput(10, jill)
			tx.AddOutput(12, bill)
			tx.Finalize()

			fee, ok := set.Fee(tx)
			if !ok || fee != 3 {
				t.Logf("\t%s\tTest %d:\tgot: %d %v", failed, testID, fee, ok)
				t.Logf("\t%s\tTest %d:\texp: %d %v", failed, testID, 3, true)
				t.Fatalf("\t%s\tTest %d:\tShould compute the fee of the transaction.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould compute the fee of the transaction.", success, testID)

			clone := set.Clone()
			clone.ApplyTx(tx)

			if !set.Contains(op) || set.Len() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not change the original set.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not change the original set.", success, testID)

			if clone.Contains(op) {
				t.Fatalf("\t%s\tTest %d:\tShould remove the claimed outpoint.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould remove the claimed outpoint.", success, testID)

			if clone.Len() != 2 {
				t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, clone.Len())
				t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, 2)
				t.Fatalf("\t%s\tTest %d:\tShould add every output.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould add every output.", success, testID)

			out, exists := clone.Get(utxo.Outpoint{TxHash: tx.Hash, Index: 1})
			if !exists || out.Value != 12 || string(out.Owner) != "bill" {
				t.Fatalf("\t%s\tTest %d:\tShould key outputs by transaction hash and index.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould key outputs by transaction hash and index.", success, testID)

			total, ok := clone.Total()
			if !ok || total != 22 {
				t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, total)
				t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, 22)
				t.Fatalf("\t%s\tTest %d:\tShould total the set.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould total the set.", success, testID)

			if _, ok := clone.Fee(tx); ok {
				t.Fatalf("\t%s\tTest %d:\tShould not compute a fee once the inputs are spent.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not compute a fee once the inputs are spent.", success, testID)

			ops := clone.Outpoints()
			if len(ops) != 2 || ops[0].Index != 0 || ops[1].Index != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould get the outpoints in order.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get the outpoints in order.", success, testID)

			if clone.String() != clone.Clone().String() {
				t.Fatalf("\t%s\tTest %d:\tShould get a deterministic string.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get a deterministic string.", success, testID)
		}
	}
}

func Test_Add(t *testing.T) {
	type table struct {
		name string
		a    int64
		b    int64
		sum  int64
		ok   bool
	}

	tt := []table{
		{name: "basic", a: 10, b: 15, sum: 25, ok: true},
		{name: "negative", a: 10, b: -15, sum: -5, ok: true},
		{name: "zero", a: math.MaxInt64, b: 0, sum: math.MaxInt64, ok: true},
		{name: "overflow", a: math.MaxInt64, b: 1, ok: false},
		{name: "underflow", a: math.MinInt64, b: -1, ok: false},
	}

	t.Log("Given the need to add values without overflow.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				sum, ok := utxo.Add(tst.a, tst.b)
				if ok != tst.ok || sum != tst.sum {
					t.Logf("\t%s\tTest %d:\tgot: %d %v", failed, testID, sum, ok)
					t.Logf("\t%s\tTest %d:\texp: %d %v", failed, testID, tst.sum, tst.ok)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right sum.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right sum.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_OutputSumOverflow(t *testing.T) {
	var tx database.Tx
	tx.AddOutput(math.MaxInt64, bill)
	tx.AddOutput(1, bill)

	if _, ok := utxo.OutputSum(tx); ok {
		t.Fatalf("Should detect an overflowing output sum.")
	}
}
