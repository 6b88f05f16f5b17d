// Package signature provides helper functions for handling the blockchain
// signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Verifier represents the signature oracle used to check that an input was
// signed by the owner of the output it claims. Implementations must be
// deterministic and free of side effects.
type Verifier interface {
	Verify(publicKey []byte, message []byte, sig []byte) bool
}

// VerifyFunc adapts an ordinary function into a Verifier.
type VerifyFunc func(publicKey []byte, message []byte, sig []byte) bool

// Verify calls f(publicKey, message, sig).
func (f VerifyFunc) Verify(publicKey []byte, message []byte, sig []byte) bool {
	return f(publicKey, message, sig)
}

// =============================================================================

// Hash returns a unique hash for the value.
func Hash(value any) [32]byte {
	data, err := json.Marshal(value)
	if err != nil {
		return [32]byte{}
	}

	return sha256.Sum256(data)
}

// HashString returns the hash for the value as a hex-encoded string.
func HashString(value any) string {
	hash := Hash(value)
	return hexutil.Encode(hash[:])
}

// Sign uses the specified private key to sign the message. The signature is
// returned in the 65 byte [R|S|V] format.
func Sign(message []byte, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, errors.New("private key is required")
	}

	// Prepare the data for signing.
	data := stamp(message)

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return nil, err
	}

	// Check the signature can be verified by the public key we will publish.
	if !crypto.VerifySignature(crypto.FromECDSAPub(&privateKey.PublicKey), data, sig[:crypto.RecoveryIDOffset]) {
		return nil, errors.New("invalid signature")
	}

	return sig, nil
}

// PublicKeyBytes returns the uncompressed encoding of the public key. This is
// the form an output records as its owner.
func PublicKeyBytes(publicKey *ecdsa.PublicKey) []byte {
	return crypto.FromECDSAPub(publicKey)
}

// =============================================================================

// Secp256k1 verifies signatures produced by Sign over the secp256k1 curve.
type Secp256k1 struct{}

// Verify implements the Verifier interface. Both the 64 byte [R|S] and the
// 65 byte [R|S|V] forms are accepted.
func (Secp256k1) Verify(publicKey []byte, message []byte, sig []byte) bool {
	switch len(sig) {
	case crypto.SignatureLength:
		sig = sig[:crypto.RecoveryIDOffset]
	case crypto.RecoveryIDOffset:
	default:
		return false
	}

	if len(publicKey) == 0 {
		return false
	}

	return crypto.VerifySignature(publicKey, stamp(message), sig)
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this message with
// the ledger stamp embedded into the final hash.
func stamp(message []byte) []byte {

	// Hash the message into a 32 byte array. This will provide
	// a data length consistency with all data.
	msgHash := crypto.Keccak256(message)

	// This stamp is used so signatures we produce when signing data
	// are always unique to this ledger.
	stamp := []byte("\x19Ledger Signed Message:\n32")

	// Hash the stamp and msgHash together in a final 32 byte array
	// that represents the data.
	return crypto.Keccak256(stamp, msgHash)
}
