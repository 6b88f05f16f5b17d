// Package database provides the core data model for the blockchain: hashes,
// transactions with their inputs and outputs, and blocks.
package database

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HashLength is the number of bytes in a hash.
const HashLength = 32

// CoinbaseValue is the reward paid by the coinbase transaction of every block.
const CoinbaseValue int64 = 25

// ZeroHash represents the null hash. The genesis block is the only block
// allowed to carry it as its previous block hash.
var ZeroHash Hash

// =============================================================================

// Hash represents the content hash of a transaction or a block. Hashes are
// assigned by the finalization step and never recomputed by the chain.
type Hash [HashLength]byte

// BytesToHash converts the specified bytes into a hash. If b is larger than
// a hash, b is cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)

	return h
}

// IsZero reports whether the hash is the null hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Bytes returns a copy of the hash as a slice.
func (h Hash) Bytes() []byte {
	return bytes.Clone(h[:])
}

// String implements the fmt.Stringer interface for logging.
func (h Hash) String() string {
	return hexutil.Encode(h[:])
}

// MarshalText implements the encoding.TextMarshaler interface.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(hexutil.Encode(h[:])), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (h *Hash) UnmarshalText(input []byte) error {
	b, err := hexutil.Decode(string(input))
	if err != nil {
		return err
	}

	if len(b) != HashLength {
		return fmt.Errorf("invalid hash length, got %d, exp %d", len(b), HashLength)
	}

	copy(h[:], b)
	return nil
}
