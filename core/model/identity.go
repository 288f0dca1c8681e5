package model

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
)

// IdentityCommitment keys a ledger account. The commitment is a one-way hash
// of the external identifier and carries no secret material.
type IdentityCommitment struct {
	ID         string      `json:"id"`
	Commitment common.Hash `json:"commitment"`
}

func NewIdentityCommitment(id string) IdentityCommitment {
	return IdentityCommitment{
		ID:         id,
		Commitment: Sha256([]byte(id)),
	}
}

// Compare orders identities by commitment bytes.
func (i IdentityCommitment) Compare(other IdentityCommitment) int {
	return bytes.Compare(i.Commitment[:], other.Commitment[:])
}

func (i IdentityCommitment) Equal(other IdentityCommitment) bool {
	return i.Commitment == other.Commitment
}

func (i IdentityCommitment) String() string {
	return i.ID + "@" + common.Bytes2Hex(i.Commitment[:8])
}
