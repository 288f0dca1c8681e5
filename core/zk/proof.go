package zk

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"brc20v2-ledger/core/model"
)

// Proof is opaque to the ledger beyond ProofGenerator.Verify.
type Proof struct {
	Scheme        string        `json:"scheme"`
	StatementHash common.Hash   `json:"statement_hash"`
	Data          hexutil.Bytes `json:"data"`
}

// ProofGenerator is the seam a real proving backend plugs into.
type ProofGenerator interface {
	Generate(statement Statement, witness Witness) (Proof, error)
	Verify(statement Statement, proof Proof) bool
}

const HashScheme = "sha256-placeholder"

// HashProver is the deterministic reference generator. The proof is
// sha256(statement || witness) and Verify only re-derives the statement hash,
// so it says nothing about whether the witness is honest. It is not a
// zero-knowledge proof.
type HashProver struct{}

func (HashProver) Generate(statement Statement, witness Witness) (Proof, error) {
	statementBytes := statement.Canonical()
	if statementBytes == nil {
		return Proof{}, fmt.Errorf("statement for %s is not encodable", statement.Token)
	}
	proofHash := model.Sha256(statementBytes, witness.Canonical())
	return Proof{
		Scheme:        HashScheme,
		StatementHash: model.Sha256(statementBytes),
		Data:          proofHash.Bytes(),
	}, nil
}

func (HashProver) Verify(statement Statement, proof Proof) bool {
	if proof.Scheme != HashScheme {
		return false
	}
	return proof.StatementHash == model.Sha256(statement.Canonical())
}

// ProofHash returns Data as a digest for schemes that produce one.
func (p Proof) ProofHash() common.Hash {
	return common.BytesToHash(p.Data)
}
