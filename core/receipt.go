package core

import (
	"github.com/ethereum/go-ethereum/common"

	"brc20v2-ledger/core/model"
	"brc20v2-ledger/core/zk"
)

// TransitionReceipt is everything a caller gets back from one applied
// operation. It is a value copy; nothing in it aliases ledger state.
type TransitionReceipt struct {
	Ticker      string        `json:"ticker"`
	MerkleRoot  common.Hash   `json:"merkle_root"`
	Proof       zk.Proof      `json:"proof"`
	Inscription model.Payload `json:"inscription"`
	StateHash   common.Hash   `json:"state_hash"`
}
