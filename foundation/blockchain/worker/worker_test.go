package worker_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/chain"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database/storage"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ardanlabs/utxochain/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Worker(t *testing.T) {
	genesis := database.NewBlock(database.ZeroHash, []byte("genesis"), database.CoinbaseValue)
	genesis.Finalize()

	first := database.NewBlock(genesis.Hash, []byte("miner"), database.CoinbaseValue)
	first.Finalize()

	second := database.NewBlock(first.Hash, []byte("miner"), database.CoinbaseValue)
	second.Finalize()

	orphan := database.NewBlock(database.BytesToHash([]byte("unknown")), []byte("miner"), database.CoinbaseValue)
	orphan.Finalize()

	t.Log("Given the need to ingest block files as they are written.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen running the worker over a block directory.", testID)
		{
			bc, err := chain.New(chain.Config{Genesis: genesis, Verifier: signature.Secp256k1{}})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the chain: %v", failed, testID, err)
			}

			disk, err := storage.NewDisk(filepath.Join(t.TempDir(), "blocks"))
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the disk: %v", failed, testID, err)
			}

			if err := disk.Write(storage.NewBlockData(1, first)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write block 1: %v", failed, testID, err)
			}
			if err := disk.Write(storage.NewBlockData(2, orphan)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write block 2: %v", failed, testID, err)
			}

			synced := make(chan worker.Status, 10)
			w, err := worker.Run(worker.Config{
				Chain:     bc,
				Disk:      disk,
				Interval:  10 * time.Millisecond,
				EvHandler: func(v string, args ...any) { t.Logf(v, args...) },
				OnSync: func(s worker.Status) {
					select {
					case synced <- s:
					default:
					}
				},
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to start the worker: %v", failed, testID, err)
			}
			defer w.Shutdown()

			status := <-synced
			if status.Last != 2 || status.Accepted != 1 || status.Rejected != 1 || status.Height != 1 || status.Tip != first.Hash {
				t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, status)
				t.Fatalf("\t%s\tTest %d:\tShould sync the files already on disk.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould sync the files already on disk.", success, testID)

			if err := disk.Write(storage.NewBlockData(3, second)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write block 3: %v", failed, testID, err)
			}

			timeout := time.After(5 * time.Second)
			for {
				select {
				case status = <-synced:
				case <-timeout:
					t.Fatalf("\t%s\tTest %d:\tShould pick up the new block file.", failed, testID)
				}

				if status.Last == 3 {
					break
				}
			}

			if status.Height != 2 || status.Tip != second.Hash || status.Retained != 3 {
				t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, status)
				t.Fatalf("\t%s\tTest %d:\tShould pick up the new block file.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould pick up the new block file.", success, testID)
		}
	}
}
