package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"brc20v2-ledger/core/model"
	"brc20v2-ledger/utils/generics/must"
)

const RelayABIJson = `[{"inputs":[{"internalType":"bytes32","name":"root","type":"bytes32"},{"internalType":"bytes","name":"data","type":"bytes"}],"name":"commitRoot","outputs":[],"stateMutability":"nonpayable","type":"function"},{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"relayer","type":"address"},{"indexed":true,"internalType":"bytes32","name":"root","type":"bytes32"},{"indexed":false,"internalType":"bytes","name":"data","type":"bytes"}],"name":"RootCommitted","type":"event"}]`

var (
	RelayABI = must.Must(abi.JSON(strings.NewReader(RelayABIJson)))

	RootCommittedEventName = "RootCommitted"
	TopicRootCommitted     = "0x" + model.Keccak256("RootCommitted(address,bytes32,bytes)")

	ErrNoCommitEvent = errors.New("receipt has no RootCommitted event")
	ErrTxReverted    = errors.New("relay transaction reverted")
)

// SettlementRelay commits ledger roots to a contract on an EVM chain.
type SettlementRelay struct {
	client   *BlockchainClient
	contract common.Address
}

func NewSettlementRelay(client *BlockchainClient, contract common.Address) *SettlementRelay {
	return &SettlementRelay{client: client, contract: contract}
}

// PackCommitRoot encodes commitRoot(root, calldata).
func PackCommitRoot(root common.Hash, calldata []byte) ([]byte, error) {
	return RelayABI.Pack("commitRoot", [32]byte(root), calldata)
}

// SubmitRoot sends root (a Merkle root or state hash) with arbitrary
// calldata and returns the transaction hash.
func (r *SettlementRelay) SubmitRoot(ctx context.Context, root common.Hash, calldata []byte) (common.Hash, error) {
	input, err := PackCommitRoot(root, calldata)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "pack commitRoot")
	}
	txHash, err := r.client.SendData(ctx, r.contract, input)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "relay root %s", root.Hex())
	}
	logrus.Infof("relayed root %s in tx %s", root.Hex(), txHash.Hex())
	return txHash, nil
}

// WaitCommitted waits for txHash and decodes the commitment it emitted.
func (r *SettlementRelay) WaitCommitted(ctx context.Context, txHash common.Hash) (*model.RelayRecord, error) {
	receipt, err := r.client.WaitReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, errors.Wrapf(ErrTxReverted, "tx %s", txHash.Hex())
	}
	return ParseCommitReceipt(receipt, r.contract)
}

// ParseCommitReceipt finds the RootCommitted log emitted by contract.
func ParseCommitReceipt(receipt *types.Receipt, contract common.Address) (*model.RelayRecord, error) {
	for _, log := range receipt.Logs {
		if len(log.Topics) == 0 || log.Topics[0].Hex() != TopicRootCommitted || log.Address != contract {
			continue
		}
		eventData, err := ParseEventLog(RelayABI, RootCommittedEventName, log)
		if err != nil {
			logrus.Warnf("unpack event %s error: %s", RootCommittedEventName, err)
			continue
		}

		record := &model.RelayRecord{
			TxHash: receipt.TxHash,
			Status: receipt.Status,
		}
		if receipt.BlockNumber != nil {
			record.Block = receipt.BlockNumber.Uint64()
		}
		if relayer, ok := eventData["relayer"].(common.Hash); ok {
			record.Relayer = common.BytesToAddress(relayer[:])
		}
		if root, ok := eventData["root"].(common.Hash); ok {
			record.Root = root
		}
		if data, ok := eventData["data"].([]byte); ok {
			record.Calldata = data
		}
		return record, nil
	}
	return nil, errors.Wrapf(ErrNoCommitEvent, "tx %s", receipt.TxHash.Hex())
}

func ParseEventLog(parsedAbi abi.ABI, eventName string, logData *types.Log) (map[string]interface{}, error) {
	event, exists := parsedAbi.Events[eventName]
	if !exists {
		return nil, fmt.Errorf("event '%s' not found", eventName)
	}

	eventData := make(map[string]interface{})
	if err := parsedAbi.UnpackIntoMap(eventData, eventName, logData.Data); err != nil {
		return nil, fmt.Errorf("failed to unpack event data: %w", err)
	}

	indexed := make([]abi.Argument, 0, len(event.Inputs))
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(logData.Topics)-1 < len(indexed) {
		return nil, fmt.Errorf("event '%s' has %d topics, want %d", eventName, len(logData.Topics)-1, len(indexed))
	}
	for i, arg := range indexed {
		eventData[arg.Name] = logData.Topics[i+1]
	}

	return eventData, nil
}
