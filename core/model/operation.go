package model

type OperationKind string

const (
	OperationDeploy     OperationKind = "deploy"
	OperationMint       OperationKind = "mint"
	OperationMintVested OperationKind = "mint_vested"
	OperationTransfer   OperationKind = "transfer"
	OperationSoulbound  OperationKind = "soulbound"
)

// Operation is the closed set of ledger intents. Every variant carries enough
// data to be replayed and to render its inscription body.
type Operation interface {
	Kind() OperationKind
	Ticker() string
	body() interface{}
}

type Deploy struct {
	Definition TokenDefinition
}

type Mint struct {
	Tick   string
	To     IdentityCommitment
	Amount Amount
}

// MintVested mints Amount and locks it under the curve described by
// Vesting. Vesting.TotalLocked is ignored; the grant is always Amount.
type MintVested struct {
	Tick    string
	To      IdentityCommitment
	Amount  Amount
	Vesting VestingSchedule
}

type Transfer struct {
	Tick   string
	From   IdentityCommitment
	To     IdentityCommitment
	Amount Amount
}

type SetSoulbound struct {
	Tick      string
	Soulbound bool
}

func (Deploy) Kind() OperationKind       { return OperationDeploy }
func (Mint) Kind() OperationKind         { return OperationMint }
func (MintVested) Kind() OperationKind   { return OperationMintVested }
func (Transfer) Kind() OperationKind     { return OperationTransfer }
func (SetSoulbound) Kind() OperationKind { return OperationSoulbound }

func (op Deploy) Ticker() string       { return op.Definition.Ticker }
func (op Mint) Ticker() string         { return op.Tick }
func (op MintVested) Ticker() string   { return op.Tick }
func (op Transfer) Ticker() string     { return op.Tick }
func (op SetSoulbound) Ticker() string { return op.Tick }

// Grant is the vesting schedule actually attached by the mint.
func (op MintVested) Grant() VestingSchedule {
	grant := op.Vesting
	grant.TotalLocked = op.Amount
	return grant
}

type deployBody struct {
	Max       Amount `json:"max"`
	Lim       Amount `json:"lim"`
	Dec       uint8  `json:"dec"`
	Soulbound bool   `json:"soulbound"`
}

type mintBody struct {
	To  string `json:"to"`
	Amt Amount `json:"amt"`
}

type vestingBody struct {
	Start    uint64 `json:"start"`
	Cliff    uint64 `json:"cliff"`
	Duration uint64 `json:"duration"`
}

type mintVestedBody struct {
	To      string      `json:"to"`
	Amt     Amount      `json:"amt"`
	Vesting vestingBody `json:"vesting"`
}

type transferBody struct {
	From string `json:"from"`
	To   string `json:"to"`
	Amt  Amount `json:"amt"`
}

type soulboundBody struct {
	Soulbound bool `json:"soulbound"`
}

func (op Deploy) body() interface{} {
	return deployBody{
		Max:       op.Definition.MaxSupply,
		Lim:       op.Definition.MintLimit,
		Dec:       op.Definition.Decimals,
		Soulbound: op.Definition.Soulbound,
	}
}

func (op Mint) body() interface{} {
	return mintBody{To: op.To.ID, Amt: op.Amount}
}

func (op MintVested) body() interface{} {
	return mintVestedBody{
		To:  op.To.ID,
		Amt: op.Amount,
		Vesting: vestingBody{
			Start:    op.Vesting.StartTime,
			Cliff:    op.Vesting.CliffSeconds,
			Duration: op.Vesting.DurationSeconds,
		},
	}
}

func (op Transfer) body() interface{} {
	return transferBody{From: op.From.ID, To: op.To.ID, Amt: op.Amount}
}

func (op SetSoulbound) body() interface{} {
	return soulboundBody{Soulbound: op.Soulbound}
}
