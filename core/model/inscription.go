package model

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ProtocolName    = "brc-20-v2"
	ContentTypeJSON = "application/json"
)

var (
	ErrorNoProtocol    = errors.New("not a brc-20-v2 inscription")
	ErrorDecode        = errors.New("decode error")
	ErrorUnknownOp     = errors.New("unknown operation")
	ErrorEmptyTick     = errors.New("empty tick")
	ErrorNoRootInBody  = errors.New("inscription carries no root")
	ErrorMalformedRoot = errors.New("malformed root")
)

// Payload is the content handed to an inscription publisher.
type Payload struct {
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// Envelope is the JSON document inscribed for every applied operation.
type Envelope struct {
	P    string          `json:"p"`
	Op   OperationKind   `json:"op"`
	Tick string          `json:"tick"`
	Body json.RawMessage `json:"body"`
	Root string          `json:"root,omitempty"`
}

// NewEnvelope renders op. Root is left empty.
func NewEnvelope(op Operation) (Envelope, error) {
	body, err := json.Marshal(op.body())
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		P:    ProtocolName,
		Op:   op.Kind(),
		Tick: op.Ticker(),
		Body: body,
	}, nil
}

// NewPayload renders op together with the root it produced.
func NewPayload(op Operation, root common.Hash) (Payload, error) {
	env, err := NewEnvelope(op)
	if err != nil {
		return Payload{}, err
	}
	env.Root = common.Bytes2Hex(root[:])
	content, err := json.Marshal(env)
	if err != nil {
		return Payload{}, err
	}
	return Payload{ContentType: ContentTypeJSON, Body: content}, nil
}

func DecodeEnvelope(content []byte) (Envelope, error) {
	var env Envelope
	trimmed := strings.TrimSpace(string(content))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env, ErrorDecode
	}
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrorDecode, err)
	}
	if strings.ToLower(strings.TrimSpace(env.P)) != ProtocolName {
		return env, ErrorNoProtocol
	}
	env.Tick = strings.TrimSpace(env.Tick)
	if env.Tick == "" {
		return env, ErrorEmptyTick
	}
	return env, nil
}

// RecordedRoot returns the root carried by the envelope.
func (e Envelope) RecordedRoot() (common.Hash, error) {
	if e.Root == "" {
		return common.Hash{}, ErrorNoRootInBody
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(e.Root, "0x"))
	if err != nil || len(raw) != common.HashLength {
		return common.Hash{}, ErrorMalformedRoot
	}
	return common.BytesToHash(raw), nil
}

// Operation decodes the body back into the operation it was rendered from.
func (e Envelope) Operation() (Operation, error) {
	decode := func(v interface{}) error {
		if err := json.Unmarshal(e.Body, v); err != nil {
			return fmt.Errorf("%w: %s body: %v", ErrorDecode, e.Op, err)
		}
		return nil
	}

	switch e.Op {
	case OperationDeploy:
		var b deployBody
		if err := decode(&b); err != nil {
			return nil, err
		}
		return Deploy{Definition: TokenDefinition{
			Ticker:    e.Tick,
			MaxSupply: b.Max,
			MintLimit: b.Lim,
			Decimals:  b.Dec,
			Soulbound: b.Soulbound,
		}}, nil
	case OperationMint:
		var b mintBody
		if err := decode(&b); err != nil {
			return nil, err
		}
		return Mint{Tick: e.Tick, To: NewIdentityCommitment(b.To), Amount: b.Amt}, nil
	case OperationMintVested:
		var b mintVestedBody
		if err := decode(&b); err != nil {
			return nil, err
		}
		return MintVested{
			Tick:   e.Tick,
			To:     NewIdentityCommitment(b.To),
			Amount: b.Amt,
			Vesting: VestingSchedule{
				StartTime:       b.Vesting.Start,
				CliffSeconds:    b.Vesting.Cliff,
				DurationSeconds: b.Vesting.Duration,
				TotalLocked:     b.Amt,
			},
		}, nil
	case OperationTransfer:
		var b transferBody
		if err := decode(&b); err != nil {
			return nil, err
		}
		return Transfer{
			Tick:   e.Tick,
			From:   NewIdentityCommitment(b.From),
			To:     NewIdentityCommitment(b.To),
			Amount: b.Amt,
		}, nil
	case OperationSoulbound:
		var b soulboundBody
		if err := decode(&b); err != nil {
			return nil, err
		}
		return SetSoulbound{Tick: e.Tick, Soulbound: b.Soulbound}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrorUnknownOp, e.Op)
}

// ParseInscription decodes inscribed content into the operation it carries
// and the root recorded with it.
func ParseInscription(content []byte) (Operation, common.Hash, error) {
	env, err := DecodeEnvelope(content)
	if err != nil {
		return nil, common.Hash{}, err
	}
	root, err := env.RecordedRoot()
	if err != nil {
		return nil, common.Hash{}, err
	}
	op, err := env.Operation()
	if err != nil {
		return nil, common.Hash{}, err
	}
	return op, root, nil
}
