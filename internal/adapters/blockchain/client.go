package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/warpstake/wsdeploy/internal/domain"
	"github.com/warpstake/wsdeploy/internal/usecase"
)

// ImplementationSlot is the ERC-1967 storage slot holding a proxy's implementation,
// bytes32(uint256(keccak256("eip1967.proxy.implementation")) - 1)
var ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")

const erc20MetadataABI = `[
	{"type": "function", "name": "symbol", "inputs": [], "outputs": [{"name": "", "type": "string"}], "stateMutability": "view"},
	{"type": "function", "name": "decimals", "inputs": [], "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view"}
]`

var erc20ABI = mustParseABI(erc20MetadataABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Connector dials JSON-RPC endpoints with ethclient
type Connector struct {
	log *slog.Logger
}

// NewConnector creates a new Connector
func NewConnector(log *slog.Logger) *Connector {
	return &Connector{log: log.With("component", "ChainConnector")}
}

// Dial connects to rpcURL
func (c *Connector) Dial(ctx context.Context, rpcURL string) (usecase.ChainClient, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	c.log.Debug("connected", "rpc", rpcURL)
	return &Client{eth: client, log: c.log}, nil
}

// Client implements ChainClient on top of ethclient
type Client struct {
	eth *ethclient.Client
	log *slog.Logger
}

// ChainID returns the chain id reported by the node
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return id.Uint64(), nil
}

// BalanceAt returns the latest balance of account in wei
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance of %s: %w", account.Hex(), err)
	}
	return balance, nil
}

// TokenMetadata reads symbol() and decimals() of an ERC-20 token
func (c *Client) TokenMetadata(ctx context.Context, token common.Address) (*domain.TokenMetadata, error) {
	var symbol string
	if err := c.call(ctx, token, "symbol", &symbol); err != nil {
		return nil, err
	}
	var decimals uint8
	if err := c.call(ctx, token, "decimals", &decimals); err != nil {
		return nil, err
	}
	return &domain.TokenMetadata{Symbol: symbol, Decimals: decimals}, nil
}

func (c *Client) call(ctx context.Context, to common.Address, method string, out any) error {
	data, err := erc20ABI.Pack(method)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("%s() on %s failed: %w", method, to.Hex(), err)
	}
	if len(result) == 0 {
		return fmt.Errorf("%s() on %s returned no data (not an ERC-20 contract?)", method, to.Hex())
	}

	if err := erc20ABI.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to decode %s() of %s: %w", method, to.Hex(), err)
	}
	return nil
}

// ImplementationAddress reads the ERC-1967 implementation slot of proxy
func (c *Client) ImplementationAddress(ctx context.Context, proxy common.Address) (common.Address, error) {
	value, err := c.eth.StorageAt(ctx, proxy, ImplementationSlot, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read implementation slot of %s: %w", proxy.Hex(), err)
	}
	return common.BytesToAddress(value), nil
}

// DeployProxy deploys the implementation, then an ERC1967Proxy pointing at it
// whose constructor calls the initializer. Each transaction is waited for.
func (c *Client) DeployProxy(ctx context.Context, req usecase.DeployProxyRequest) (*usecase.DeployProxyResult, error) {
	progress := req.Progress
	if progress == nil {
		progress = usecase.NopProgress{}
	}

	implABI, err := req.Implementation.ParsedABI()
	if err != nil {
		return nil, err
	}
	implCode, err := req.Implementation.CreationCode()
	if err != nil {
		return nil, err
	}
	proxyABI, err := req.Proxy.ParsedABI()
	if err != nil {
		return nil, err
	}
	proxyCode, err := req.Proxy.CreationCode()
	if err != nil {
		return nil, err
	}

	initCalldata, err := implABI.Pack(req.Initializer, req.InitArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s calldata: %w", req.Initializer, err)
	}

	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(req.Key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	applyOverrides(auth, req.Overrides)

	result := &usecase.DeployProxyResult{}

	progress.OnProgress(ctx, usecase.ProgressEvent{Stage: "implementation", Message: fmt.Sprintf("Deploying %s implementation...", req.Implementation.Name), Spinner: true})
	implAddr, implTx, _, err := bind.DeployContract(auth, *implABI, implCode, c.eth)
	if err != nil {
		progress.OnProgress(ctx, usecase.ProgressEvent{Stage: "implementation"})
		return nil, fmt.Errorf("failed to deploy %s implementation: %w", req.Implementation.Name, err)
	}
	c.log.Debug("implementation sent", "tx", implTx.Hash().Hex(), "address", implAddr.Hex())
	implReceipt, err := c.waitMined(ctx, implTx, "implementation", progress)
	if err != nil {
		return nil, err
	}
	result.Implementation = implAddr
	result.ImplementationTx = implTx.Hash()
	result.GasUsed += implReceipt.GasUsed

	if auth.Nonce != nil {
		auth.Nonce = new(big.Int).Add(auth.Nonce, big.NewInt(1))
	}

	progress.OnProgress(ctx, usecase.ProgressEvent{Stage: "proxy", Message: fmt.Sprintf("Deploying %s(%s)...", req.Proxy.Name, implAddr.Hex()), Spinner: true})
	proxyAddr, proxyTx, _, err := bind.DeployContract(auth, *proxyABI, proxyCode, c.eth, implAddr, initCalldata)
	if err != nil {
		progress.OnProgress(ctx, usecase.ProgressEvent{Stage: "proxy"})
		return nil, fmt.Errorf("failed to deploy %s: %w", req.Proxy.Name, err)
	}
	c.log.Debug("proxy sent", "tx", proxyTx.Hash().Hex(), "address", proxyAddr.Hex())
	proxyReceipt, err := c.waitMined(ctx, proxyTx, "proxy", progress)
	if err != nil {
		return nil, err
	}
	result.Proxy = proxyAddr
	result.ProxyTx = proxyTx.Hash()
	result.GasUsed += proxyReceipt.GasUsed

	return result, nil
}

func (c *Client) waitMined(ctx context.Context, tx *types.Transaction, stage string, progress usecase.ProgressSink) (*types.Receipt, error) {
	progress.OnProgress(ctx, usecase.ProgressEvent{Stage: stage, Message: fmt.Sprintf("Waiting for %s tx %s...", stage, tx.Hash().Hex()), Spinner: true})
	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	progress.OnProgress(ctx, usecase.ProgressEvent{Stage: stage})
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s tx %s: %w", stage, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%s tx %s reverted", stage, tx.Hash().Hex())
	}
	progress.Info(fmt.Sprintf("%s mined in block %s (gas used %d)", stage, receipt.BlockNumber, receipt.GasUsed))
	return receipt, nil
}

// Close closes the underlying connection
func (c *Client) Close() {
	c.eth.Close()
}

// applyOverrides copies ethOptions from the deploy config onto the transactor
func applyOverrides(auth *bind.TransactOpts, overrides *domain.TxOverrides) {
	if overrides == nil {
		return
	}
	if overrides.GasLimit != nil {
		auth.GasLimit = overrides.GasLimit.Uint64()
	}
	if overrides.GasPrice != nil {
		auth.GasPrice = new(big.Int).Set(overrides.GasPrice.ToInt())
	}
	if overrides.MaxFeePerGas != nil {
		auth.GasFeeCap = new(big.Int).Set(overrides.MaxFeePerGas.ToInt())
	}
	if overrides.MaxPriorityFeePerGas != nil {
		auth.GasTipCap = new(big.Int).Set(overrides.MaxPriorityFeePerGas.ToInt())
	}
	if overrides.Nonce != nil {
		auth.Nonce = new(big.Int).Set(overrides.Nonce.ToInt())
	}
}

// Ensure the adapters implement the ports
var _ usecase.ChainConnector = (*Connector)(nil)
var _ usecase.ChainClient = (*Client)(nil)
