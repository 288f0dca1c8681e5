package model

import (
	"github.com/ethereum/go-ethereum/common"
)

// HashLeaf commits to one account:
// sha256(commitment || balance || locked_balance || has_vesting), amounts as
// 16-byte big-endian.
func HashLeaf(identity IdentityCommitment, account *AccountState) common.Hash {
	balance := account.Balance.Bytes16()
	locked := account.LockedBalance.Bytes16()
	flag := []byte{0}
	if account.Vesting != nil {
		flag[0] = 1
	}
	return Sha256(identity.Commitment[:], balance[:], locked[:], flag)
}

func hashPair(left, right common.Hash) common.Hash {
	return Sha256(left[:], right[:])
}

// EmptyRoot is the commitment of a token with no accounts.
var EmptyRoot = Sha256()

// MerkleRoot folds leaves pairwise. A trailing odd node is hashed with itself,
// never promoted.
func MerkleRoot(leaves []common.Hash) common.Hash {
	if len(leaves) == 0 {
		return EmptyRoot
	}
	level := append([]common.Hash(nil), leaves...)
	for len(level) > 1 {
		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			right := level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hashPair(level[i], right))
		}
		level = next
	}
	return level[0]
}

// MerkleProof is the sibling path from one leaf to the root. Left[i] is set
// when Siblings[i] sits to the left of the running hash.
type MerkleProof struct {
	Index    int           `json:"index"`
	Siblings []common.Hash `json:"siblings"`
	Left     []bool        `json:"left"`
}

func BuildMerkleProof(leaves []common.Hash, index int) MerkleProof {
	proof := MerkleProof{Index: index}
	if index < 0 || index >= len(leaves) {
		return proof
	}
	level := append([]common.Hash(nil), leaves...)
	pos := index
	for len(level) > 1 {
		var sibling common.Hash
		left := pos%2 == 1
		if left {
			sibling = level[pos-1]
		} else if pos+1 < len(level) {
			sibling = level[pos+1]
		} else {
			sibling = level[pos]
		}
		proof.Siblings = append(proof.Siblings, sibling)
		proof.Left = append(proof.Left, left)

		next := make([]common.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			right := level[i]
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hashPair(level[i], right))
		}
		level = next
		pos /= 2
	}
	return proof
}

func VerifyMerkleProof(leaf common.Hash, proof MerkleProof, root common.Hash) bool {
	if len(proof.Siblings) != len(proof.Left) {
		return false
	}
	acc := leaf
	for i, sibling := range proof.Siblings {
		if proof.Left[i] {
			acc = hashPair(sibling, acc)
		} else {
			acc = hashPair(acc, sibling)
		}
	}
	return acc == root
}
