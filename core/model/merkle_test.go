package model

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leavesOf(n int) []common.Hash {
	leaves := make([]common.Hash, n)
	for i := range leaves {
		leaves[i] = Sha256([]byte(fmt.Sprintf("leaf-%d", i)))
	}
	return leaves
}

func TestMerkleRootShape(t *testing.T) {
	assert.Equal(t, common.HexToHash("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"), MerkleRoot(nil))

	l := leavesOf(3)
	assert.Equal(t, l[0], MerkleRoot(l[:1]))
	single := BuildMerkleProof(l[:1], 0)
	assert.Empty(t, single.Siblings)
	assert.True(t, VerifyMerkleProof(l[0], single, MerkleRoot(l[:1])))
	assert.Equal(t, hashPair(l[0], l[1]), MerkleRoot(l[:2]))
	assert.Equal(t, hashPair(hashPair(l[0], l[1]), hashPair(l[2], l[2])), MerkleRoot(l))
}

func TestMerkleProofs(t *testing.T) {
	for n := 1; n <= 9; n++ {
		leaves := leavesOf(n)
		root := MerkleRoot(leaves)
		for i := range leaves {
			proof := BuildMerkleProof(leaves, i)
			assert.True(t, VerifyMerkleProof(leaves[i], proof, root), "n=%d i=%d", n, i)
			assert.False(t, VerifyMerkleProof(Sha256([]byte("other")), proof, root), "n=%d i=%d", n, i)
		}
	}
}

func TestTokenStateOrderingAndRoot(t *testing.T) {
	token := NewTokenState(TokenDefinition{Ticker: "ORD", MaxSupply: NewAmount(1000), MintLimit: NewAmount(1000)})
	ids := []string{"carol", "alice", "bob", "dave"}
	for i, id := range ids {
		token.Upsert(NewIdentityCommitment(id)).Balance = NewAmount(uint64(i + 1))
	}

	var prev *IdentityCommitment
	token.Range(func(identity IdentityCommitment, _ AccountState) bool {
		if prev != nil {
			assert.Equal(t, -1, prev.Compare(identity))
		}
		p := identity
		prev = &p
		return true
	})

	other := NewTokenState(token.Definition)
	for i := len(ids) - 1; i >= 0; i-- {
		other.Upsert(NewIdentityCommitment(ids[i])).Balance = NewAmount(uint64(i + 1))
	}
	assert.Equal(t, token.MerkleRoot(), other.MerkleRoot())
	assert.Equal(t, NewAmount(10), token.SumBalances())

	before := token.MerkleRoot()
	token.Lookup(NewIdentityCommitment("bob")).Balance = Amount{}
	assert.NotEqual(t, before, token.MerkleRoot())
	assert.Equal(t, 3, token.Holders())
	assert.Equal(t, 4, token.Len())
}

func TestTokenStateInclusionProof(t *testing.T) {
	token := NewTokenState(TokenDefinition{Ticker: "ORD"})
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		token.Upsert(NewIdentityCommitment(id)).Balance = NewAmount(7)
	}
	root := token.MerkleRoot()

	carol := NewIdentityCommitment("c")
	proof, ok := token.InclusionProof(carol)
	require.True(t, ok)
	account := token.Lookup(carol)
	assert.True(t, VerifyMerkleProof(HashLeaf(carol, account), proof, root))

	forged := account.Clone()
	forged.Balance = NewAmount(8)
	assert.False(t, VerifyMerkleProof(HashLeaf(carol, forged), proof, root))

	_, ok = token.InclusionProof(NewIdentityCommitment("zed"))
	assert.False(t, ok)
}

func TestTokenStateRollbackAndClone(t *testing.T) {
	token := NewTokenState(TokenDefinition{Ticker: "ORD"})
	alice := NewIdentityCommitment("alice")
	bob := NewIdentityCommitment("bob")
	token.Upsert(alice).Balance = NewAmount(5)
	root := token.MerkleRoot()

	token.Upsert(bob).Balance = NewAmount(1)
	token.Rollback(bob, nil)
	assert.Equal(t, 1, token.Len())
	assert.Equal(t, root, token.MerkleRoot())

	prev := token.Lookup(alice).Clone()
	token.Lookup(alice).Balance = NewAmount(9)
	token.Rollback(alice, prev)
	assert.Equal(t, root, token.MerkleRoot())

	c := token.Clone()
	c.Lookup(alice).Balance = NewAmount(1)
	acc, ok := token.Account(alice)
	require.True(t, ok)
	assert.Equal(t, NewAmount(5), acc.Balance)
}

func TestTokenInfoProgress(t *testing.T) {
	token := NewTokenState(TokenDefinition{Ticker: "ORD", MaxSupply: NewAmount(1000), MintLimit: NewAmount(1000), Decimals: 8})
	token.Upsert(NewIdentityCommitment("alice")).Balance = NewAmount(250)
	token.TotalSupply = NewAmount(250)

	info := token.Info()
	assert.Equal(t, int32(250000), info.Progress)
	assert.Equal(t, int32(1), info.Holders)
	assert.Equal(t, uint8(8), info.Precision)

	token.TotalSupply = NewAmount(1000)
	assert.Equal(t, int32(ProgressScale), token.Info().Progress)
}
