package mempool_test

import (
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/mempool"
	"github.com/ardanlabs/utxochain/foundation/blockchain/mempool/selector"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func tran(source database.Tx, value int64) database.Tx {
	var tx database.Tx
	tx.AddInput(source.Hash, 0)
	tx.AddOutput(value, []byte("to"))
	tx.Finalize()

	return tx
}

func TestCRUD(t *testing.T) {
	coinbases := []database.Tx{
		database.NewCoinbaseTx(25, []byte("bill")),
		database.NewCoinbaseTx(25, []byte("jill")),
		database.NewCoinbaseTx(25, []byte("pavel")),
		database.NewCoinbaseTx(25, []byte("ed")),
	}

	pool := utxo.New()
	for _, cb := range coinbases {
		pool.Add(utxo.Outpoint{TxHash: cb.Hash}, cb.Outputs[0])
	}

	type table struct {
		name string
		txs  []database.Tx
		best []database.Tx
	}

	txs := []database.Tx{
		tran(coinbases[0], 15),
		tran(coinbases[1], 20),
		tran(coinbases[2], 0),
		tran(coinbases[3], 15),
	}

	tt := []table{
		{
			name: "basic",
			txs:  txs,
			best: []database.Tx{txs[2], txs[0], txs[3], txs[1]},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp, err := mempool.NewWithStrategy(selector.StrategyFee)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct mempool: %v", failed, testID, err)
					}

					for _, tx := range tst.txs {
						mp.Upsert(tx)
						t.Logf("\t%s\tTest %d:\tShould be able to add new transaction: %s", success, testID, tx)
					}

					if n := mp.Upsert(tst.txs[0]); n != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould not add a transaction twice, got %d.", failed, testID, n)
					}
					t.Logf("\t%s\tTest %d:\tShould not add a transaction twice.", success, testID)

					for i, tx := range mp.Copy() {
						if tx.Hash != tst.txs[i].Hash {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx.Hash)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.txs[i].Hash)
							t.Fatalf("\t%s\tTest %d:\tShould get back the arrival order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back the arrival order.", success, testID)

					for i, tx := range mp.PickBest(pool, -1) {
						if tx.Hash != tst.best[i].Hash {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tx.Hash)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.best[i].Hash)
							t.Fatalf("\t%s\tTest %d:\tShould get back the right fee order.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right fee order.", success, testID)

					if n := len(mp.PickBest(pool, 2)); n != 2 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to limit the selection, got %d.", failed, testID, n)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to limit the selection.", success, testID)

					mp.Delete(tst.txs[1].Hash, tst.txs[2].Hash, database.ZeroHash)
					if mp.Count() != 2 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to remove transactions by hash.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to remove transactions by hash.", success, testID)

					copied := mp.Copy()
					if copied[0].Hash != tst.txs[0].Hash || copied[1].Hash != tst.txs[3].Hash {
						t.Fatalf("\t%s\tTest %d:\tShould keep the arrival order after a removal.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould keep the arrival order after a removal.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestUnknownStrategy(t *testing.T) {
	if _, err := mempool.NewWithStrategy("tip"); err == nil {
		t.Fatalf("Should not be able to construct a mempool with an unknown strategy.")
	}
}
