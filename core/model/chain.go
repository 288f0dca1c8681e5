package model

import (
	"github.com/ethereum/go-ethereum/common"
)

// RelayRecord is a root commitment observed on the settlement chain.
type RelayRecord struct {
	TxHash   common.Hash    `json:"tx_hash"`
	Block    uint64         `json:"block"`
	Relayer  common.Address `json:"relayer"`
	Root     common.Hash    `json:"root"`
	Calldata []byte         `json:"calldata"`
	Status   uint64         `json:"status"`
}
