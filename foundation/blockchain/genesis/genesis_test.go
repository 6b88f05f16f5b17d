package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/chain"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ardanlabs/utxochain/foundation/validate"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "genesis.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("\t%s\tShould be able to write the genesis file: %v", failed, err)
	}

	return path
}

func Test_Load(t *testing.T) {
	pk, err := crypto.HexToECDSA("fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959")
	if err != nil {
		t.Fatalf("Should be able to load private key: %s", err)
	}
	owner := hexutil.Encode(signature.PublicKeyBytes(&pk.PublicKey))

	t.Log("Given the need to load a genesis file.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling a file with defaults.", testID)
		{
			path := writeFile(t, `{"date": "2026-01-01T00:00:00Z", "owner": "`+owner+`"}`)

			g, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

			if g.CutoffAge != chain.DefaultCutoffAge || g.MiningReward != database.CoinbaseValue {
				t.Fatalf("\t%s\tTest %d:\tShould apply the default values.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould apply the default values.", success, testID)

			block := g.Block()
			if !block.IsGenesis() || !block.Coinbase.IsCoinbase() || block.Hash.IsZero() {
				t.Fatalf("\t%s\tTest %d:\tShould build a finalized genesis block.", failed, testID)
			}
			if block.Coinbase.Outputs[0].Value != database.CoinbaseValue || hexutil.Encode(block.Coinbase.Outputs[0].Owner) != owner {
				t.Fatalf("\t%s\tTest %d:\tShould pay the reward to the owner.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould build a finalized genesis block.", success, testID)

			if g.Block().Hash != block.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould build the same block every time.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould build the same block every time.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen handling a file with overrides.", testID)
		{
			path := writeFile(t, `{"date": "2026-01-01T00:00:00Z", "cutoff_age": 3, "mining_reward": 50, "owner": "`+owner+`"}`)

			g, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
			}

			if g.CutoffAge != 3 || g.MiningReward != 50 || g.Block().Coinbase.Outputs[0].Value != 50 {
				t.Fatalf("\t%s\tTest %d:\tShould use the values in the file.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould use the values in the file.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen handling an invalid file.", testID)
		{
			path := writeFile(t, `{"date": "2026-01-01T00:00:00Z", "mining_reward": -1, "owner": "0x0401"}`)

			_, err := genesis.Load(path)
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest %d:\tShould get back field errors: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back field errors.", success, testID)

			fields := validate.GetFieldErrors(err).Fields()
			if _, exists := fields["owner"]; !exists {
				t.Fatalf("\t%s\tTest %d:\tShould reject a short owner key.", failed, testID)
			}
			if _, exists := fields["mining_reward"]; !exists {
				t.Fatalf("\t%s\tTest %d:\tShould reject a negative reward.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the invalid fields.", success, testID)

			if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail on a missing file.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould fail on a missing file.", success, testID)
		}
	}
}
