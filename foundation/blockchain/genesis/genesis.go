// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/chain"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/validate"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time     `json:"date" validate:"required"`
	CutoffAge    int           `json:"cutoff_age" validate:"gte=0"`     // How far below the max height a block may still attach.
	MiningReward int64         `json:"mining_reward" validate:"gte=0"`  // Value paid by the genesis coinbase.
	Owner        hexutil.Bytes `json:"owner" validate:"required,len=65"` // Uncompressed public key paid by the genesis coinbase.
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Genesis{
		CutoffAge:    chain.DefaultCutoffAge,
		MiningReward: database.CoinbaseValue,
	}
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	if err := validate.Check(genesis); err != nil {
		return Genesis{}, fmt.Errorf("validating %s: %w", path, err)
	}

	return genesis, nil
}

// Block constructs the finalized genesis block described by the file.
func (g Genesis) Block() database.Block {
	block := database.NewBlock(database.ZeroHash, g.Owner, g.MiningReward)
	block.Finalize()

	return block
}
