package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/chainsafe/near-eth-transfer/pkg/config"
	"github.com/chainsafe/near-eth-transfer/pkg/ethereum/contracts"
)

// ErrNoSigner is returned by DepositToNear when no private key is configured.
var ErrNoSigner = errors.New("no signing key configured")

// Client represents an Ethereum client
type Client struct {
	config  *config.EthereumConfig
	client  *ethclient.Client
	chainID *big.Int
	logger  *zap.Logger

	privateKey *ecdsa.PrivateKey
	address    common.Address

	custodian *contracts.EthCustodian
}

// NewClient creates a new Ethereum client
func NewClient(ctx context.Context, cfg *config.EthereumConfig, logger *zap.Logger) (*Client, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Ethereum RPC: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	custodian, err := contracts.NewEthCustodian(common.HexToAddress(cfg.CustodianAddress), client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to load custodian contract: %w", err)
	}

	c := &Client{
		config:    cfg,
		client:    client,
		chainID:   chainID,
		logger:    logger,
		custodian: custodian,
	}

	if cfg.PrivateKey != "" {
		privateKey, err := crypto.HexToECDSA(cfg.PrivateKey)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to load private key: %w", err)
		}
		c.privateKey = privateKey
		c.address = crypto.PubkeyToAddress(privateKey.PublicKey)
	}

	logger.Info("Connected to Ethereum",
		zap.String("chain_id", chainID.String()),
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("custodian_contract", custodian.Address().Hex()),
		zap.Bool("can_sign", c.privateKey != nil))

	return c, nil
}

// Close closes the Ethereum client
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Backend exposes the underlying client for contract bindings.
func (c *Client) Backend() bind.ContractBackend { return c.client }

// CustodianABI returns the parsed custodian ABI.
func (c *Client) CustodianABI() abi.ABI { return c.custodian.ABI() }

// ChainID returns the chain id reported by the node.
func (c *Client) ChainID(ctx context.Context) (int64, error) {
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain id: %w", err)
	}
	return id.Int64(), nil
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return n, nil
}

// NonceAt returns the number of transactions sent by account as of block (nil for latest).
func (c *Client) NonceAt(ctx context.Context, account string, block *big.Int) (uint64, error) {
	return c.client.NonceAt(ctx, common.HexToAddress(account), block)
}

// BlockTransactions returns the transactions of block number with their senders recovered.
func (c *Client) BlockTransactions(ctx context.Context, number uint64) ([]Transaction, error) {
	block, err := c.client.BlockByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return nil, err
	}

	signer := types.LatestSignerForChainID(c.chainID)
	txs := make([]Transaction, 0, len(block.Transactions()))
	for _, tx := range block.Transactions() {
		from, err := types.Sender(signer, tx)
		if err != nil {
			c.logger.Debug("Skipping transaction with unrecoverable sender",
				zap.String("tx_hash", tx.Hash().Hex()),
				zap.Error(err))
			continue
		}
		txs = append(txs, toTransaction(tx, from, number))
	}
	return txs, nil
}

// TransactionReceipt returns the receipt of hash, or nil while it is not mined.
func (c *Client) TransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	receipt, err := c.client.TransactionReceipt(ctx, common.HexToHash(hash))
	if errors.Is(err, goethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt for %s: %w", hash, err)
	}
	return &Receipt{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		Succeeded:   receipt.Status == types.ReceiptStatusSuccessful,
	}, nil
}

// FilterEvents returns the decoded logs of event emitted by address in [fromBlock, toBlock].
func (c *Client) FilterEvents(ctx context.Context, address string, contractABI abi.ABI, event string, fromBlock, toBlock uint64) ([]Event, error) {
	ev, ok := contractABI.Events[event]
	if !ok {
		return nil, fmt.Errorf("event %s not found in ABI", event)
	}

	logs, err := c.client.FilterLogs(ctx, goethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{common.HexToAddress(address)},
		Topics:    [][]common.Hash{{ev.ID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter %s logs: %w", event, err)
	}

	var indexed abi.Arguments
	for _, input := range ev.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}

	events := make([]Event, 0, len(logs))
	for _, l := range logs {
		args := make(map[string]any)
		if len(l.Data) > 0 {
			if err := contractABI.UnpackIntoMap(args, event, l.Data); err != nil {
				return nil, fmt.Errorf("failed to unpack %s log %s: %w", event, l.TxHash.Hex(), err)
			}
		}
		if len(l.Topics) > 1 {
			if err := abi.ParseTopicsIntoMap(args, indexed, l.Topics[1:]); err != nil {
				return nil, fmt.Errorf("failed to parse %s topics %s: %w", event, l.TxHash.Hex(), err)
			}
		}
		events = append(events, Event{
			Name:        event,
			Address:     l.Address.Hex(),
			TxHash:      l.TxHash.Hex(),
			BlockNumber: l.BlockNumber,
			LogIndex:    l.Index,
			Args:        args,
		})
	}
	return events, nil
}

// GetTransactor returns a transaction signer
func (c *Client) GetTransactor(ctx context.Context) (*bind.TransactOpts, error) {
	if c.privateKey == nil {
		return nil, ErrNoSigner
	}

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	auth.GasLimit = c.config.GasLimit

	if c.config.MaxGasPrice != "" {
		maxGasPrice, ok := new(big.Int).SetString(c.config.MaxGasPrice, 10)
		if !ok {
			return nil, fmt.Errorf("invalid max gas price %q", c.config.MaxGasPrice)
		}

		gasPrice, err := c.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}

		if gasPrice.Cmp(maxGasPrice) > 0 {
			c.logger.Warn("Suggested gas price exceeds maximum",
				zap.String("suggested", gasPrice.String()),
				zap.String("max", maxGasPrice.String()))
			auth.GasPrice = maxGasPrice
		} else {
			auth.GasPrice = gasPrice
		}
	}

	return auth, nil
}

// DepositToNear broadcasts custodian.depositToNear(recipient, fee) carrying
// amount wei. It returns as soon as the transaction is accepted by the node.
func (c *Client) DepositToNear(ctx context.Context, recipient string, fee, amount *big.Int) (*LockSubmission, error) {
	auth, err := c.GetTransactor(ctx)
	if err != nil {
		return nil, err
	}
	auth.Value = amount

	tx, err := c.custodian.DepositToNear(auth, recipient, fee)
	if err != nil {
		return nil, fmt.Errorf("failed to submit lock transaction: %w", err)
	}

	c.logger.Info("Lock transaction submitted",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("recipient", recipient),
		zap.String("amount", amount.String()),
		zap.Uint64("nonce", tx.Nonce()))

	return &LockSubmission{
		Hash:  tx.Hash().Hex(),
		From:  c.address.Hex(),
		To:    c.custodian.Address().Hex(),
		Nonce: tx.Nonce(),
		Input: hexutil.Encode(tx.Data()),
	}, nil
}

func toTransaction(tx *types.Transaction, from common.Address, block uint64) Transaction {
	var to string
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	return Transaction{
		Hash:        tx.Hash().Hex(),
		From:        from.Hex(),
		To:          to,
		Nonce:       tx.Nonce(),
		Data:        hexutil.Encode(tx.Data()),
		Value:       tx.Value(),
		BlockNumber: block,
	}
}
