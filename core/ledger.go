package core

import (
	"errors"
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"brc20v2-ledger/core/model"
	"brc20v2-ledger/core/zk"
)

var (
	ErrSequenceMismatch = errors.New("inscription number not match")
	ErrReplayDiverged   = errors.New("replayed root differs from recorded root")
	ErrUnknownNumber    = errors.New("no journal entry with that number")
)

// Ledger serializes access to a StateMachine and keeps the journal of every
// applied operation in inscription order. It is safe for concurrent use.
type Ledger struct {
	mu      deadlock.RWMutex
	machine *StateMachine
	prover  zk.ProofGenerator
	journal []model.Inscription
}

func NewLedger(rules Rules, prover zk.ProofGenerator) *Ledger {
	return &Ledger{
		machine: NewStateMachine(rules),
		prover:  prover,
	}
}

// Apply applies op and appends its payload to the journal.
func (l *Ledger) Apply(op model.Operation, timestamp uint64) (TransitionReceipt, model.Inscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	receipt, err := l.machine.ApplyOperation(op, l.prover, timestamp)
	if err != nil {
		return TransitionReceipt{}, model.Inscription{}, err
	}
	entry := model.Inscription{
		Number:      uint64(len(l.journal)),
		Timestamp:   timestamp,
		ContentType: receipt.Inscription.ContentType,
		Content:     string(receipt.Inscription.Body),
	}
	l.journal = append(l.journal, entry)
	return receipt, entry, nil
}

// MarkPublished records the medium identifier a publisher returned for the
// journal entry number.
func (l *Ledger) MarkPublished(number uint64, hash string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if number >= uint64(len(l.journal)) {
		return fmt.Errorf("%w: %d", ErrUnknownNumber, number)
	}
	l.journal[number].Hash = hash
	return nil
}

// Replay re-applies journal entries recorded elsewhere, in order, and checks
// each resulting root against the root the entry carries. Entries must
// continue this ledger's numbering.
func (l *Ledger) Replay(entries []model.Inscription) ([]TransitionReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	receipts := make([]TransitionReceipt, 0, len(entries))
	for _, entry := range entries {
		latest := uint64(len(l.journal))
		if entry.Number != latest {
			logrus.Warn("inscription number not match, latest: ", latest, ", current: ", entry.Number)
			return receipts, fmt.Errorf("%w: expected %d, got %d", ErrSequenceMismatch, latest, entry.Number)
		}

		op, recorded, err := model.ParseInscription([]byte(entry.Content))
		if err != nil {
			return receipts, fmt.Errorf("inscription %d: %w", entry.Number, err)
		}

		receipt, err := l.machine.apply(op, l.prover, entry.Timestamp, func(r TransitionReceipt) error {
			if r.MerkleRoot != recorded {
				return fmt.Errorf("%w: recorded %x, replayed %x", ErrReplayDiverged, recorded, r.MerkleRoot)
			}
			return nil
		})
		if err != nil {
			return receipts, fmt.Errorf("inscription %d: %w", entry.Number, err)
		}

		l.journal = append(l.journal, entry)
		receipts = append(receipts, receipt)
		logrus.Infof("replayed inscription %d %s %s", entry.Number, op.Kind(), op.Ticker())
	}
	return receipts, nil
}

// Journal returns a copy of the journal.
func (l *Ledger) Journal() []model.Inscription {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]model.Inscription(nil), l.journal...)
}

func (l *Ledger) Token(ticker string) (*model.TokenState, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.machine.Token(ticker)
}

func (l *Ledger) Info(ticker string) (model.TokenInfo, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.machine.Info(ticker)
}

func (l *Ledger) Tickers() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.machine.Tickers()
}
