package database

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Output represents value paid to the owner of a public key.
type Output struct {
	Value int64         `json:"value"` // Bitcoin: Amount paid to the owner.
	Owner hexutil.Bytes `json:"owner"` // Uncompressed public key of the owner allowed to spend this output.
}

// Input claims a prior output and carries the signature that proves the
// claim.
type Input struct {
	PrevTxHash  Hash          `json:"prev_tx_hash"` // Bitcoin: Hash of the transaction holding the claimed output.
	OutputIndex uint32        `json:"output_index"` // Bitcoin: Index of the claimed output in that transaction.
	Signature   hexutil.Bytes `json:"signature"`    // Signature over RawDataToSign for this input's position.
}

// =============================================================================

// Tx represents a transfer of value. A transaction with no inputs and exactly
// one output is a coinbase transaction.
type Tx struct {
	Hash    Hash     `json:"hash"`
	Inputs  []Input  `json:"inputs"`
	Outputs []Output `json:"outputs"`
}

// NewCoinbaseTx constructs and finalizes the coinbase transaction paying
// value to the owner.
func NewCoinbaseTx(value int64, owner []byte) Tx {
	var tx Tx
	tx.AddOutput(value, owner)
	tx.Finalize()

	return tx
}

// AddInput appends a claim on the output at index of the transaction
// identified by prevTxHash.
func (tx *Tx) AddInput(prevTxHash Hash, index uint32) {
	tx.Inputs = append(tx.Inputs, Input{PrevTxHash: prevTxHash, OutputIndex: index})
}

// AddOutput appends an output paying value to the owner.
func (tx *Tx) AddOutput(value int64, owner []byte) {
	tx.Outputs = append(tx.Outputs, Output{Value: value, Owner: bytes.Clone(owner)})
}

// Sign uses the specified private key to sign the input at index.
func (tx *Tx) Sign(index int, privateKey *ecdsa.PrivateKey) error {
	if index < 0 || index >= len(tx.Inputs) {
		return fmt.Errorf("input index %d out of range, inputs %d", index, len(tx.Inputs))
	}

	sig, err := signature.Sign(tx.RawDataToSign(index), privateKey)
	if err != nil {
		return err
	}

	tx.Inputs[index].Signature = sig
	return nil
}

// Finalize assigns the content hash of the transaction. It must be called
// once the inputs, outputs, and signatures are in place.
func (tx *Tx) Finalize() {
	content := struct {
		Inputs  []Input  `json:"inputs"`
		Outputs []Output `json:"outputs"`
	}{
		Inputs:  tx.Inputs,
		Outputs: tx.Outputs,
	}

	tx.Hash = signature.Hash(content)
}

// IsCoinbase reports whether the transaction is a coinbase transaction.
func (tx Tx) IsCoinbase() bool {
	return len(tx.Inputs) == 0 && len(tx.Outputs) == 1
}

// RawDataToSign returns the bytes the input at index signs. It covers the
// outpoint claimed by that input followed by every output. Signatures are
// never part of the data.
func (tx Tx) RawDataToSign(index int) []byte {
	if index < 0 || index >= len(tx.Inputs) {
		return nil
	}

	var buf bytes.Buffer

	in := tx.Inputs[index]
	buf.Write(in.PrevTxHash[:])
	binary.Write(&buf, binary.BigEndian, in.OutputIndex)

	for _, out := range tx.Outputs {
		binary.Write(&buf, binary.BigEndian, out.Value)
		binary.Write(&buf, binary.BigEndian, uint32(len(out.Owner)))
		buf.Write(out.Owner)
	}

	return buf.Bytes()
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:in[%d]:out[%d]", tx.Hash, len(tx.Inputs), len(tx.Outputs))
}
