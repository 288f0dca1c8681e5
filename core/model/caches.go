package model

import "github.com/holiman/uint256"

// ProgressScale is the denominator of TokenInfo.Progress.
const ProgressScale = 1000000

// TokenInfo is a read-only summary of a token.
type TokenInfo struct {
	Tick        string `json:"tick"`
	Precision   uint8  `json:"precision"`
	Max         Amount `json:"max"`
	Limit       Amount `json:"limit"`
	Minted      Amount `json:"minted"`
	Soulbound   bool   `json:"soulbound"`
	Progress    int32  `json:"progress"`
	Holders     int32  `json:"holders"`
	Trxs        uint64 `json:"trxs"`
	Accounts    int    `json:"accounts"`
	CompletedAt uint64 `json:"completed_at,omitempty"`
}

func (t *TokenState) Info() TokenInfo {
	info := TokenInfo{
		Tick:        t.Definition.Ticker,
		Precision:   t.Definition.Decimals,
		Max:         t.Definition.MaxSupply,
		Limit:       t.Definition.MintLimit,
		Minted:      t.TotalSupply,
		Soulbound:   t.Definition.Soulbound,
		Holders:     int32(t.Holders()),
		Trxs:        t.Transactions,
		Accounts:    t.Len(),
		CompletedAt: t.CompletedAt,
	}
	if t.TotalSupply.Cmp(t.Definition.MaxSupply) >= 0 {
		info.Progress = ProgressScale
	} else if !t.Definition.MaxSupply.IsZero() {
		info.Progress = int32(progressOf(t.TotalSupply, t.Definition.MaxSupply))
	}
	return info
}

// progressOf is minted*ProgressScale/capacity, computed in 256 bits.
func progressOf(minted, capacity Amount) uint64 {
	var scaled uint256.Int
	scaled.Mul(&minted.v, uint256.NewInt(ProgressScale))
	scaled.Div(&scaled, &capacity.v)
	return scaled.Uint64()
}
