package zk

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"brc20v2-ledger/core/model"
)

// Statement is the public claim a proof attests to.
type Statement struct {
	Operation  model.OperationKind `json:"operation"`
	Token      string              `json:"token"`
	From       *common.Hash        `json:"from"`
	To         *common.Hash        `json:"to"`
	Amount     model.Amount        `json:"amount"`
	MerkleRoot common.Hash         `json:"merkle_root"`
}

// Witness is the private input a real prover would consume.
type Witness struct {
	FromBalance model.Amount `json:"from_balance"`
	ToBalance   model.Amount `json:"to_balance"`
}

// Canonical is the byte encoding both parties hash. Field order is fixed by
// the struct definition.
func (s Statement) Canonical() []byte {
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return b
}

func (w Witness) Canonical() []byte {
	b, err := json.Marshal(w)
	if err != nil {
		return nil
	}
	return b
}
