package model

import (
	"crypto/sha256"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

func Keccak256(data string) string {
	hasher := sha3.NewLegacyKeccak256()

	hasher.Write([]byte(data))

	hash := hasher.Sum(nil)

	return fmt.Sprintf("%x", hash)
}

// Sha256 hashes the concatenation of parts.
func Sha256(parts ...[]byte) common.Hash {
	hasher := sha256.New()
	for _, p := range parts {
		hasher.Write(p)
	}
	var out common.Hash
	copy(out[:], hasher.Sum(nil))
	return out
}
