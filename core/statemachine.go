package core

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"brc20v2-ledger/core/model"
	"brc20v2-ledger/core/zk"
)

// StateMachine applies operations to the token states it owns. It does no
// locking; callers serialize access (see Ledger).
type StateMachine struct {
	rules  Rules
	tokens map[string]*model.TokenState
}

func NewStateMachine(rules Rules) *StateMachine {
	return &StateMachine{
		rules:  rules,
		tokens: make(map[string]*model.TokenState),
	}
}

// ApplyOperation validates and applies op at timestamp, proves the transition
// with prover and returns the receipt. On any error the ledger is left exactly
// as it was before the call.
func (sm *StateMachine) ApplyOperation(op model.Operation, prover zk.ProofGenerator, timestamp uint64) (TransitionReceipt, error) {
	return sm.apply(op, prover, timestamp, nil)
}

// apply is ApplyOperation with an extra acceptance check on the finished
// receipt; a check error rolls the operation back like any other failure.
func (sm *StateMachine) apply(op model.Operation, prover zk.ProofGenerator, timestamp uint64, check func(TransitionReceipt) error) (TransitionReceipt, error) {
	if op == nil {
		return TransitionReceipt{}, &model.InvalidOperationError{Reason: "nil operation"}
	}
	if prover == nil {
		return TransitionReceipt{}, &model.ProofVerificationFailedError{Reason: "no proof generator configured"}
	}

	ticker := op.Ticker()
	logrus.Debugf("apply %s %s at %d", op.Kind(), ticker, timestamp)

	var (
		undo func()
		err  error
	)
	switch o := op.(type) {
	case model.Deploy:
		undo, err = sm.deploy(o.Definition)
	case model.Mint:
		undo, err = sm.mint(o.Tick, o.To, o.Amount, nil, timestamp)
	case model.MintVested:
		grant := o.Grant()
		undo, err = sm.mint(o.Tick, o.To, o.Amount, &grant, timestamp)
	case model.Transfer:
		undo, err = sm.transfer(o.Tick, o.From, o.To, o.Amount, timestamp)
	case model.SetSoulbound:
		undo, err = sm.setSoulbound(o.Tick, o.Soulbound)
	default:
		err = &model.InvalidOperationError{Reason: fmt.Sprintf("unsupported operation %T", op)}
	}
	if err != nil {
		logrus.Warnf("%s %s rejected: %v (%s)", op.Kind(), ticker, err, model.CodeOf(err))
		return TransitionReceipt{}, err
	}

	receipt, err := sm.seal(op, sm.tokens[ticker], prover, timestamp)
	if err == nil && check != nil {
		err = check(receipt)
	}
	if err != nil {
		undo()
		logrus.Errorf("%s %s rolled back: %v", op.Kind(), ticker, err)
		return TransitionReceipt{}, err
	}

	logrus.Infof("%s %s applied, root %x", op.Kind(), ticker, receipt.MerkleRoot)
	return receipt, nil
}

// seal derives the commitments, proves and self-verifies the transition and
// renders the inscription payload.
func (sm *StateMachine) seal(op model.Operation, token *model.TokenState, prover zk.ProofGenerator, timestamp uint64) (TransitionReceipt, error) {
	root := token.MerkleRoot()
	statement, witness := zkInputs(op, token, root, timestamp)

	proof, err := prover.Generate(statement, witness)
	if err != nil {
		return TransitionReceipt{}, &model.ProofVerificationFailedError{Reason: "generate: " + err.Error()}
	}
	if !prover.Verify(statement, proof) {
		return TransitionReceipt{}, &model.ProofVerificationFailedError{Reason: "proof generator failed to verify its own proof"}
	}

	payload, err := model.NewPayload(op, root)
	if err != nil {
		return TransitionReceipt{}, &model.InvalidOperationError{Reason: "render inscription: " + err.Error()}
	}

	return TransitionReceipt{
		Ticker:      token.Definition.Ticker,
		MerkleRoot:  root,
		Proof:       proof,
		Inscription: payload,
		StateHash:   token.StateHash(root),
	}, nil
}

func (sm *StateMachine) deploy(definition model.TokenDefinition) (func(), error) {
	if _, exists := sm.tokens[definition.Ticker]; exists {
		return nil, &model.TokenAlreadyExistsError{Ticker: definition.Ticker}
	}
	if err := sm.checkDefinition(definition); err != nil {
		return nil, err
	}

	sm.tokens[definition.Ticker] = model.NewTokenState(definition)
	return func() { delete(sm.tokens, definition.Ticker) }, nil
}

func (sm *StateMachine) checkDefinition(definition model.TokenDefinition) error {
	rules := sm.rules
	switch {
	case !definition.MaxSupply.InRange() || !definition.MintLimit.InRange():
		return &model.InvalidOperationError{Reason: "supply fields must fit in 128 bits"}
	case rules.MaxTickerLength > 0 && definition.Ticker == "":
		return &model.InvalidOperationError{Reason: "empty tick"}
	case rules.MaxTickerLength > 0 && len(definition.Ticker) > rules.MaxTickerLength:
		return &model.InvalidOperationError{Reason: fmt.Sprintf("tick %q longer than %d bytes", definition.Ticker, rules.MaxTickerLength)}
	case rules.RejectZeroAmounts && definition.MaxSupply.IsZero():
		return &model.InvalidOperationError{Reason: "max supply must be positive"}
	case rules.RejectZeroAmounts && definition.MintLimit.IsZero():
		return &model.InvalidOperationError{Reason: "mint limit must be positive"}
	case rules.MaxDecimals > 0 && definition.Decimals > rules.MaxDecimals:
		return &model.InvalidOperationError{Reason: fmt.Sprintf("decimals %d above %d", definition.Decimals, rules.MaxDecimals)}
	}
	return nil
}

// mint credits amount to the recipient. With a grant the amount is also
// locked under the grant's curve. Every check runs before the first write.
func (sm *StateMachine) mint(ticker string, to model.IdentityCommitment, amount model.Amount, grant *model.VestingSchedule, timestamp uint64) (func(), error) {
	token, exists := sm.tokens[ticker]
	if !exists {
		return nil, &model.TokenNotFoundError{Ticker: ticker}
	}
	if sm.rules.RejectZeroAmounts && amount.IsZero() {
		return nil, &model.InvalidOperationError{Reason: "mint amount must be positive"}
	}
	if token.Definition.MintLimit.Lt(amount) {
		return nil, &model.MintLimitExceededError{
			Limit:     token.Definition.MintLimit,
			Requested: amount,
		}
	}
	attemptedTotal := token.TotalSupply.Add(amount)
	if token.Definition.MaxSupply.Lt(attemptedTotal) {
		return nil, &model.MaxSupplyExceededError{
			MaxSupply:      token.Definition.MaxSupply,
			AttemptedTotal: attemptedTotal,
		}
	}

	var prev *model.AccountState
	if existing := token.Lookup(to); existing != nil {
		prev = existing.Clone()
	}
	if grant != nil {
		current := prev
		if current == nil {
			current = &model.AccountState{}
		}
		if err := current.CheckVesting(*grant); err != nil {
			return nil, err
		}
	}

	prevSupply, prevTrxs, prevCompleted := token.TotalSupply, token.Transactions, token.CompletedAt
	undo := func() {
		token.Rollback(to, prev)
		token.TotalSupply, token.Transactions, token.CompletedAt = prevSupply, prevTrxs, prevCompleted
	}

	account := token.Upsert(to)
	account.Balance = account.Balance.SaturatingAdd(amount)
	if grant != nil {
		if err := account.ApplyVesting(*grant); err != nil {
			undo()
			return nil, err
		}
	}
	token.TotalSupply = attemptedTotal
	token.Transactions++
	if token.CompletedAt == 0 && token.TotalSupply.Cmp(token.Definition.MaxSupply) == 0 {
		token.CompletedAt = timestamp
	}
	return undo, nil
}

// transfer moves amount of raw balance. Spendability is judged on the
// sender's available balance, so vested locks cannot be moved.
func (sm *StateMachine) transfer(ticker string, from, to model.IdentityCommitment, amount model.Amount, timestamp uint64) (func(), error) {
	token, exists := sm.tokens[ticker]
	if !exists {
		return nil, &model.TokenNotFoundError{Ticker: ticker}
	}
	if token.Definition.Soulbound {
		return nil, &model.SoulboundTransferDeniedError{Ticker: ticker}
	}
	if sm.rules.RejectZeroAmounts && amount.IsZero() {
		return nil, &model.InvalidOperationError{Reason: "transfer amount must be positive"}
	}

	sender := token.Lookup(from)
	var available model.Amount
	if sender != nil {
		available = sender.AvailableBalance(timestamp)
	}
	if available.Lt(amount) {
		return nil, &model.InsufficientBalanceError{
			Available: available,
			Required:  amount,
		}
	}

	prevTrxs := token.Transactions
	token.Transactions++
	// Nothing moves, so no account is touched or created.
	if amount.IsZero() {
		return func() { token.Transactions = prevTrxs }, nil
	}

	prevSender := sender.Clone()
	var prevReceiver *model.AccountState
	if existing := token.Lookup(to); existing != nil {
		prevReceiver = existing.Clone()
	}

	// A self-transfer debits and credits the same account.
	sender.Balance = sender.Balance.SaturatingSub(amount)
	receiver := token.Upsert(to)
	receiver.Balance = receiver.Balance.SaturatingAdd(amount)

	return func() {
		token.Rollback(to, prevReceiver)
		token.Rollback(from, prevSender)
		token.Transactions = prevTrxs
	}, nil
}

func (sm *StateMachine) setSoulbound(ticker string, soulbound bool) (func(), error) {
	token, exists := sm.tokens[ticker]
	if !exists {
		return nil, &model.TokenNotFoundError{Ticker: ticker}
	}
	prev := token.Definition.Soulbound
	token.Definition.Soulbound = soulbound
	return func() { token.Definition.Soulbound = prev }, nil
}

func zkInputs(op model.Operation, token *model.TokenState, root common.Hash, timestamp uint64) (zk.Statement, zk.Witness) {
	statement := zk.Statement{
		Operation:  op.Kind(),
		Token:      token.Definition.Ticker,
		MerkleRoot: root,
	}
	var witness zk.Witness

	availableOf := func(identity model.IdentityCommitment) model.Amount {
		if account := token.Lookup(identity); account != nil {
			return account.AvailableBalance(timestamp)
		}
		return model.Amount{}
	}

	switch o := op.(type) {
	case model.Mint:
		to := o.To.Commitment
		statement.To, statement.Amount = &to, o.Amount
		witness.ToBalance = availableOf(o.To)
	case model.MintVested:
		to := o.To.Commitment
		statement.To, statement.Amount = &to, o.Amount
		witness.ToBalance = availableOf(o.To)
	case model.Transfer:
		from, to := o.From.Commitment, o.To.Commitment
		statement.From, statement.To, statement.Amount = &from, &to, o.Amount
		witness.FromBalance = availableOf(o.From)
		witness.ToBalance = availableOf(o.To)
	}
	return statement, witness
}

// Token returns a copy of ticker's state.
func (sm *StateMachine) Token(ticker string) (*model.TokenState, bool) {
	token, exists := sm.tokens[ticker]
	if !exists {
		return nil, false
	}
	return token.Clone(), true
}

func (sm *StateMachine) Info(ticker string) (model.TokenInfo, bool) {
	token, exists := sm.tokens[ticker]
	if !exists {
		return model.TokenInfo{}, false
	}
	return token.Info(), true
}

// Tickers lists deployed tickers in ascending order.
func (sm *StateMachine) Tickers() []string {
	tickers := maps.Keys(sm.tokens)
	slices.Sort(tickers)
	return tickers
}
