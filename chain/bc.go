package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Backend is the subset of ethclient.Client the relay and publishers use.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// BlockchainClient signs and sends transactions from one key.
type BlockchainClient struct {
	backend  Backend
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	gasLimit uint64

	PollInterval time.Duration
}

// NewBlockchainClient dials ethURL. privateKeyHex may carry a 0x prefix. A
// nil chainID is fetched from the node on first use; a zero gasLimit means
// every transaction is estimated.
func NewBlockchainClient(ethURL, privateKeyHex string, chainID *big.Int, gasLimit uint64) (*BlockchainClient, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	client, err := ethclient.Dial(ethURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", ethURL)
	}
	return NewBlockchainClientWithBackend(client, key, chainID, gasLimit), nil
}

func NewBlockchainClientWithBackend(backend Backend, key *ecdsa.PrivateKey, chainID *big.Int, gasLimit uint64) *BlockchainClient {
	return &BlockchainClient{
		backend:      backend,
		key:          key,
		from:         crypto.PubkeyToAddress(key.PublicKey),
		chainID:      chainID,
		gasLimit:     gasLimit,
		PollInterval: 3 * time.Second,
	}
}

func (bc *BlockchainClient) Address() common.Address {
	return bc.from
}

// SendData signs and sends a zero-value legacy transaction carrying data.
func (bc *BlockchainClient) SendData(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	if bc.chainID == nil {
		chainID, err := bc.backend.ChainID(ctx)
		if err != nil {
			return common.Hash{}, errors.Wrap(err, "chain id")
		}
		bc.chainID = chainID
	}
	nonce, err := bc.backend.PendingNonceAt(ctx, bc.from)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "pending nonce")
	}
	gasPrice, err := bc.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "gas price")
	}
	gas := bc.gasLimit
	if gas == 0 {
		gas, err = bc.backend.EstimateGas(ctx, ethereum.CallMsg{From: bc.from, To: &to, Data: data})
		if err != nil {
			return common.Hash{}, errors.Wrap(err, "estimate gas")
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    new(big.Int),
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(bc.chainID), bc.key)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "sign transaction")
	}
	if err := bc.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, errors.Wrapf(err, "send transaction %s", signed.Hash().Hex())
	}
	logrus.Infof("sent tx %s nonce %d to %s, %d bytes", signed.Hash().Hex(), nonce, to.Hex(), len(data))
	return signed.Hash(), nil
}

// WaitReceipt polls until txHash is mined or ctx ends.
func (bc *BlockchainClient) WaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(bc.PollInterval)
	defer ticker.Stop()
	for {
		receipt, err := bc.backend.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			logrus.Errorf("TransactionReceipt %s err: %v", txHash.Hex(), err)
			return nil, errors.Wrapf(err, "receipt %s", txHash.Hex())
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
