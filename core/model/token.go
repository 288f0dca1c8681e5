package model

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/slices"
)

type TokenDefinition struct {
	Ticker    string `json:"tick"`
	MaxSupply Amount `json:"max"`
	MintLimit Amount `json:"lim"`
	Decimals  uint8  `json:"dec"`
	Soulbound bool   `json:"soulbound"`
}

type accountEntry struct {
	identity IdentityCommitment
	state    *AccountState
}

// TokenState holds one token's supply and accounts. Accounts are kept in
// ascending commitment order so leaves and iteration are deterministic.
//
// TotalSupply always equals the sum of account balances; mutators keep it in
// step at every credit and debit.
type TokenState struct {
	Definition  TokenDefinition
	TotalSupply Amount

	// Bookkeeping outside the commitment.
	Transactions uint64
	CompletedAt  uint64

	accounts []accountEntry
}

func NewTokenState(definition TokenDefinition) *TokenState {
	return &TokenState{Definition: definition}
}

func (t *TokenState) search(identity IdentityCommitment) (int, bool) {
	return slices.BinarySearchFunc(t.accounts, identity, func(e accountEntry, target IdentityCommitment) int {
		return e.identity.Compare(target)
	})
}

// Lookup returns the live account for identity, or nil.
func (t *TokenState) Lookup(identity IdentityCommitment) *AccountState {
	if idx, ok := t.search(identity); ok {
		return t.accounts[idx].state
	}
	return nil
}

// Account returns a copy of the account for identity.
func (t *TokenState) Account(identity IdentityCommitment) (AccountState, bool) {
	if acc := t.Lookup(identity); acc != nil {
		return *acc.Clone(), true
	}
	return AccountState{}, false
}

// Upsert returns the live account for identity, creating a zero account on
// first use.
func (t *TokenState) Upsert(identity IdentityCommitment) *AccountState {
	idx, ok := t.search(identity)
	if ok {
		return t.accounts[idx].state
	}
	entry := accountEntry{identity: identity, state: &AccountState{}}
	t.accounts = slices.Insert(t.accounts, idx, entry)
	return entry.state
}

// Rollback puts identity's account back to prev. A nil prev removes an
// account that did not exist before the change being undone.
func (t *TokenState) Rollback(identity IdentityCommitment, prev *AccountState) {
	idx, ok := t.search(identity)
	switch {
	case ok && prev == nil:
		t.accounts = slices.Delete(t.accounts, idx, idx+1)
	case ok:
		t.accounts[idx].state = prev
	case prev != nil:
		t.accounts = slices.Insert(t.accounts, idx, accountEntry{identity: identity, state: prev})
	}
}

func (t *TokenState) Len() int { return len(t.accounts) }

// Range visits accounts in commitment order until fn returns false.
func (t *TokenState) Range(fn func(identity IdentityCommitment, account AccountState) bool) {
	for _, e := range t.accounts {
		if !fn(e.identity, *e.state.Clone()) {
			return
		}
	}
}

// Holders counts accounts with a non-zero balance.
func (t *TokenState) Holders() int {
	n := 0
	for _, e := range t.accounts {
		if !e.state.Balance.IsZero() {
			n++
		}
	}
	return n
}

// SumBalances recomputes the supply from scratch. Used for verification only.
func (t *TokenState) SumBalances() Amount {
	var sum Amount
	for _, e := range t.accounts {
		sum = sum.Add(e.state.Balance)
	}
	return sum
}

func (t *TokenState) Leaves() []common.Hash {
	leaves := make([]common.Hash, 0, len(t.accounts))
	for _, e := range t.accounts {
		leaves = append(leaves, HashLeaf(e.identity, e.state))
	}
	return leaves
}

func (t *TokenState) MerkleRoot() common.Hash {
	return MerkleRoot(t.Leaves())
}

// InclusionProof builds the sibling path for identity's leaf.
func (t *TokenState) InclusionProof(identity IdentityCommitment) (MerkleProof, bool) {
	idx, ok := t.search(identity)
	if !ok {
		return MerkleProof{}, false
	}
	return BuildMerkleProof(t.Leaves(), idx), true
}

// StateHash fingerprints ticker, supply, cap and root.
func (t *TokenState) StateHash(root common.Hash) common.Hash {
	supply := t.TotalSupply.Bytes16()
	maxSupply := t.Definition.MaxSupply.Bytes16()
	return Sha256([]byte(t.Definition.Ticker), supply[:], maxSupply[:], root[:])
}

func (t *TokenState) Clone() *TokenState {
	c := *t
	c.accounts = make([]accountEntry, len(t.accounts))
	for i, e := range t.accounts {
		c.accounts[i] = accountEntry{identity: e.identity, state: e.state.Clone()}
	}
	return &c
}

type accountJSON struct {
	Identity IdentityCommitment `json:"identity"`
	AccountState
}

func (t *TokenState) MarshalJSON() ([]byte, error) {
	accounts := make([]accountJSON, 0, len(t.accounts))
	for _, e := range t.accounts {
		accounts = append(accounts, accountJSON{Identity: e.identity, AccountState: *e.state})
	}
	return json.Marshal(struct {
		Definition   TokenDefinition `json:"definition"`
		TotalSupply  Amount          `json:"total_supply"`
		Transactions uint64          `json:"transactions"`
		CompletedAt  uint64          `json:"completed_at,omitempty"`
		Accounts     []accountJSON   `json:"accounts"`
	}{t.Definition, t.TotalSupply, t.Transactions, t.CompletedAt, accounts})
}
