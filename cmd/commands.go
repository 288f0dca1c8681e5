package main

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"brc20v2-ledger/chain"
	"brc20v2-ledger/core"
	"brc20v2-ledger/core/model"
	"brc20v2-ledger/core/zk"
)

// opRequest is one line of an operations file: an envelope without a root,
// applied at Timestamp.
type opRequest struct {
	Timestamp uint64          `json:"timestamp"`
	Op        json.RawMessage `json:"op"`
}

func rules() core.Rules {
	return core.Rules{
		MaxTickerLength:   cfg.Protocol.MaxTickerLength,
		MaxDecimals:       cfg.Protocol.MaxDecimals,
		RejectZeroAmounts: cfg.Protocol.RejectZeroAmounts,
	}
}

func newApplyCmd() *cobra.Command {
	var (
		opsPath     string
		journalPath string
		publish     string
		relay       bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply an operations file and write the resulting journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("publish") {
				cfg.Protocol.Publisher = publish
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runApply(ctx, opsPath, journalPath, relay)
		},
	}
	cmd.Flags().StringVar(&opsPath, "ops", "", "operations file")
	cmd.Flags().StringVar(&journalPath, "journal", "journal.json", "journal output file")
	cmd.Flags().StringVar(&publish, "publish", "", "publisher: none, calldata or ord")
	cmd.Flags().BoolVar(&relay, "relay", false, "commit every root to the settlement contract")
	_ = cmd.MarkFlagRequired("ops")
	return cmd
}

func runApply(ctx context.Context, opsPath, journalPath string, relay bool) error {
	var requests []opRequest
	if err := readJSON(opsPath, &requests); err != nil {
		return err
	}

	var (
		client   *chain.BlockchainClient
		settle   *chain.SettlementRelay
		inscribe chain.Publisher
	)
	if cfg.Ethereum.Enabled {
		var chainID *big.Int
		if cfg.Ethereum.ChainID != 0 {
			chainID = new(big.Int).SetUint64(cfg.Ethereum.ChainID)
		}
		var err error
		client, err = chain.NewBlockchainClient(cfg.Ethereum.RPCURL, cfg.Ethereum.PrivateKey, chainID, cfg.Ethereum.GasLimit)
		if err != nil {
			return err
		}
		settle = chain.NewSettlementRelay(client, common.HexToAddress(cfg.Ethereum.Contract))
	} else if relay {
		return errors.New("--relay requires ethereum.enabled")
	}
	switch cfg.Protocol.Publisher {
	case "calldata":
		inscribe = chain.NewCalldataPublisher(client)
	case "ord":
		inscribe = &chain.OrdPublisher{
			Binary:  cfg.Bitcoin.OrdBinary,
			Chain:   cfg.Bitcoin.Network,
			RPCURL:  cfg.Bitcoin.RPCURL,
			FeeRate: cfg.Bitcoin.FeeRate,
		}
	}

	ledger := core.NewLedger(rules(), zk.HashProver{})
	applied, rejected := 0, 0
	for i, req := range requests {
		op, err := decodeRequest(req)
		if err != nil {
			logrus.Warnf("operation %d skipped: %v", i, err)
			rejected++
			continue
		}
		receipt, entry, err := ledger.Apply(op, req.Timestamp)
		if err != nil {
			logrus.Warnf("operation %d rejected: %v (%s)", i, err, model.CodeOf(err))
			rejected++
			continue
		}
		applied++

		if inscribe != nil {
			id, err := inscribe.Publish(ctx, receipt.Inscription)
			if err != nil {
				return errors.Wrapf(err, "publish inscription %d", entry.Number)
			}
			if err := ledger.MarkPublished(entry.Number, id); err != nil {
				return err
			}
		}
		if relay {
			txHash, err := settle.SubmitRoot(ctx, receipt.StateHash, receipt.Inscription.Body)
			if err != nil {
				return err
			}
			record, err := settle.WaitCommitted(ctx, txHash)
			if err != nil {
				return err
			}
			logrus.Infof("inscription %d committed in block %d by %s", entry.Number, record.Block, record.Relayer.Hex())
		}
	}
	logrus.Infof("applied %d operations, rejected %d", applied, rejected)

	return writeJSON(journalPath, ledger.Journal())
}

// decodeRequest decodes the operation and checks that its inscription will
// fit the configured size once a root is attached.
func decodeRequest(req opRequest) (model.Operation, error) {
	env, err := model.DecodeEnvelope(req.Op)
	if err != nil {
		return nil, err
	}
	op, err := env.Operation()
	if err != nil {
		return nil, err
	}
	payload, err := model.NewPayload(op, common.Hash{})
	if err != nil {
		return nil, err
	}
	if len(payload.Body) > cfg.Protocol.MaxInscriptionBytes {
		return nil, errors.Errorf("inscription of %d bytes exceeds %d", len(payload.Body), cfg.Protocol.MaxInscriptionBytes)
	}
	return op, nil
}

func newReplayCmd() *cobra.Command {
	var journalPath string
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a journal and check every recorded root",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, receipts, err := replayJournal(journalPath)
			if err != nil {
				return err
			}
			for _, ticker := range ledger.Tickers() {
				token, _ := ledger.Token(ticker)
				root := token.MerkleRoot()
				logrus.Infof("%s supply %s root %x state %x", ticker, token.TotalSupply, root, token.StateHash(root))
			}
			logrus.Infof("replayed %d inscriptions", len(receipts))
			return nil
		},
	}
	cmd.Flags().StringVar(&journalPath, "journal", "journal.json", "journal file")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var (
		journalPath string
		tick        string
		accounts    bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print token state rebuilt from a journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, _, err := replayJournal(journalPath)
			if err != nil {
				return err
			}
			tickers := ledger.Tickers()
			if tick != "" {
				tickers = []string{tick}
			}

			out := make([]interface{}, 0, len(tickers))
			for _, ticker := range tickers {
				if accounts {
					token, ok := ledger.Token(ticker)
					if !ok {
						return &model.TokenNotFoundError{Ticker: ticker}
					}
					out = append(out, token)
					continue
				}
				info, ok := ledger.Info(ticker)
				if !ok {
					return &model.TokenNotFoundError{Ticker: ticker}
				}
				out = append(out, info)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&journalPath, "journal", "journal.json", "journal file")
	cmd.Flags().StringVar(&tick, "tick", "", "only this ticker")
	cmd.Flags().BoolVar(&accounts, "accounts", false, "include every account")
	return cmd
}

func replayJournal(path string) (*core.Ledger, []core.TransitionReceipt, error) {
	var entries []model.Inscription
	if err := readJSON(path, &entries); err != nil {
		return nil, nil, err
	}
	ledger := core.NewLedger(rules(), zk.HashProver{})
	receipts, err := ledger.Replay(entries)
	if err != nil {
		return nil, nil, err
	}
	return ledger, receipts, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	return errors.Wrapf(json.Unmarshal(data, v), "decode %s", path)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}
