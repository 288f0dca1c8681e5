package model

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/holiman/uint256"
)

// Amount is an unsigned token quantity. Ledger balances never exceed
// MaxAmount (2^128-1); the wider backing integer lets a sum of two amounts be
// reported exactly when it overflows a supply cap.
type Amount struct {
	v uint256.Int
}

var (
	ErrAmountSyntax = errors.New("amount is not a decimal integer")
	ErrAmountRange  = errors.New("amount exceeds 128 bits")

	// MaxAmount is the largest quantity representable in the ledger.
	MaxAmount = maxAmount()
)

func maxAmount() Amount {
	var a Amount
	a.v.Lsh(uint256.NewInt(1), 128)
	a.v.Sub(&a.v, uint256.NewInt(1))
	return a
}

func NewAmount(x uint64) Amount {
	var a Amount
	a.v.SetUint64(x)
	return a
}

// ParseAmount parses a base-10 string. Signs, fractions and values above
// MaxAmount are rejected.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Amount{}, ErrAmountSyntax
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		if errors.Is(err, uint256.ErrBig256Range) {
			return Amount{}, ErrAmountRange
		}
		return Amount{}, ErrAmountSyntax
	}
	a := Amount{v: *v}
	if a.Cmp(MaxAmount) > 0 {
		return Amount{}, ErrAmountRange
	}
	return a, nil
}

func (a Amount) IsZero() bool { return a.v.IsZero() }

func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

func (a Amount) Lt(b Amount) bool { return a.v.Lt(&b.v) }

// InRange reports whether a fits in 128 bits.
func (a Amount) InRange() bool { return a.Cmp(MaxAmount) <= 0 }

// Add returns the exact sum. The result may exceed MaxAmount; the 256-bit
// wraparound case saturates at the top of the backing integer.
func (a Amount) Add(b Amount) Amount {
	var z Amount
	if _, overflow := z.v.AddOverflow(&a.v, &b.v); overflow {
		z.v.SetAllOne()
	}
	return z
}

// SaturatingAdd returns a+b clamped to MaxAmount.
func (a Amount) SaturatingAdd(b Amount) Amount {
	z := a.Add(b)
	if z.Cmp(MaxAmount) > 0 {
		return MaxAmount
	}
	return z
}

// SaturatingSub returns a-b clamped to zero.
func (a Amount) SaturatingSub(b Amount) Amount {
	var z Amount
	if _, underflow := z.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}
	}
	return z
}

// MulDiv returns a*num/den rounded down. A zero den yields zero.
func (a Amount) MulDiv(num, den uint64) Amount {
	if den == 0 {
		return Amount{}
	}
	var z Amount
	if _, overflow := z.v.MulOverflow(&a.v, uint256.NewInt(num)); overflow {
		z.v.SetAllOne()
	}
	z.v.Div(&z.v, uint256.NewInt(den))
	return z
}

// Min returns the smaller of a and b.
func (a Amount) Min(b Amount) Amount {
	if b.Lt(a) {
		return b
	}
	return a
}

// Bytes16 is the 16-byte big-endian encoding used in commitments. Values
// above MaxAmount are truncated to their low 128 bits.
func (a Amount) Bytes16() [16]byte {
	full := a.v.Bytes32()
	var out [16]byte
	copy(out[:], full[16:])
	return out
}

func (a Amount) String() string { return a.v.Dec() }

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// UnmarshalJSON accepts a quoted decimal or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		return a.UnmarshalText([]byte(text))
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrAmountSyntax
	}
	return a.UnmarshalText([]byte(n.String()))
}
