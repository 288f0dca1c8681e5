package core

// Rules are optional protocol limits. The zero value accepts everything the
// ledger can represent.
type Rules struct {
	// MaxTickerLength bounds the ticker in bytes and requires a non-empty one.
	// Zero means unlimited.
	MaxTickerLength int
	// MaxDecimals is only checked when non-zero.
	MaxDecimals uint8
	// RejectZeroAmounts refuses zero caps on deploy and zero-amount mints and
	// transfers.
	RejectZeroAmounts bool
}

func DefaultRules() Rules {
	return Rules{}
}

// StrictRules are the limits an inscription indexer applies to deploys.
func StrictRules() Rules {
	return Rules{
		MaxTickerLength:   18,
		MaxDecimals:       18,
		RejectZeroAmounts: true,
	}
}
