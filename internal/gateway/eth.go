package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/gateway/signer"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

type Options struct {
	PollInterval  time.Duration
	GasMultiplier float64
}

func DefaultOptions() Options {
	return Options{
		PollInterval:  2 * time.Second,
		GasMultiplier: 1.2,
	}
}

// EthGateway is the ethclient-backed Gateway. One instance serves one owner
// account against one RPC endpoint.
type EthGateway struct {
	client   *ethclient.Client
	txSigner signer.Signer
	chainID  *big.Int
	opts     Options
	erc20    abi.ABI
}

func Dial(ctx context.Context, rpcURL string, txSigner signer.Signer, opts Options) (*EthGateway, error) {
	if txSigner == nil {
		return nil, clierr.New(clierr.CodeSigner, "missing signer")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.GasMultiplier <= 1 {
		opts.GasMultiplier = 1.2
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUnavailable, "connect rpc", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, clierr.Wrap(clierr.CodeUnavailable, "read chain id", err)
	}
	erc20, err := abi.JSON(strings.NewReader(registry.ERC20MinimalABI))
	if err != nil {
		client.Close()
		return nil, clierr.Wrap(clierr.CodeInternal, "parse erc20 abi", err)
	}
	return &EthGateway{
		client:   client,
		txSigner: txSigner,
		chainID:  chainID,
		opts:     opts,
		erc20:    erc20,
	}, nil
}

func (g *EthGateway) Owner() common.Address {
	return g.txSigner.Address()
}

func (g *EthGateway) ChainID() *big.Int {
	return new(big.Int).Set(g.chainID)
}

func (g *EthGateway) Close() {
	g.client.Close()
}

func (g *EthGateway) BalanceOf(ctx context.Context, token registry.Token) (*big.Int, error) {
	if token.Native {
		balance, err := g.client.BalanceAt(ctx, g.Owner(), nil)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeUnavailable, "read ether balance", err)
		}
		return balance, nil
	}
	calldata, err := g.erc20.Pack("balanceOf", g.Owner())
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "pack balanceOf", err)
	}
	raw, err := g.CallView(ctx, common.HexToAddress(token.Address), calldata)
	if err != nil {
		return nil, err
	}
	return g.unpackUint(raw, "balanceOf")
}

func (g *EthGateway) Allowance(ctx context.Context, token, spender common.Address) (*big.Int, error) {
	calldata, err := g.erc20.Pack("allowance", g.Owner(), spender)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "pack allowance", err)
	}
	raw, err := g.CallView(ctx, token, calldata)
	if err != nil {
		return nil, err
	}
	return g.unpackUint(raw, "allowance")
}

func (g *EthGateway) CallView(ctx context.Context, to common.Address, calldata []byte) ([]byte, error) {
	msg := ethereum.CallMsg{From: g.Owner(), To: &to, Data: calldata}
	raw, err := g.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUnavailable, "contract view call", err)
	}
	return raw, nil
}

func (g *EthGateway) Submit(ctx context.Context, to common.Address, calldata []byte, value *big.Int) (Pending, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	msg := ethereum.CallMsg{From: g.Owner(), To: &to, Value: value, Data: calldata}

	gasLimit, err := g.client.EstimateGas(ctx, msg)
	if err != nil {
		return Pending{}, clierr.Wrap(clierr.CodeExecutionFailed, "estimate gas", err)
	}
	gasLimit = uint64(float64(gasLimit) * g.opts.GasMultiplier)

	tipCap, err := g.client.SuggestGasTipCap(ctx)
	if err != nil {
		tipCap = big.NewInt(2_000_000_000) // 2 gwei fallback
	}
	header, err := g.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return Pending{}, clierr.Wrap(clierr.CodeUnavailable, "fetch latest header", err)
	}
	baseFee := header.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(1_000_000_000)
	}
	feeCap := new(big.Int).Mul(baseFee, big.NewInt(2))
	feeCap.Add(feeCap, tipCap)

	nonce, err := g.client.PendingNonceAt(ctx, g.Owner())
	if err != nil {
		return Pending{}, clierr.Wrap(clierr.CodeUnavailable, "fetch nonce", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   g.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &to,
		Value:     value,
		Data:      calldata,
	})
	signed, err := g.txSigner.SignTx(g.chainID, tx)
	if err != nil {
		return Pending{}, clierr.Wrap(clierr.CodeSigner, "sign transaction", err)
	}
	if err := g.client.SendTransaction(ctx, signed); err != nil {
		return Pending{}, clierr.Wrap(clierr.CodeUnavailable, "broadcast transaction", err)
	}
	return Pending{TxHash: signed.Hash()}, nil
}

func (g *EthGateway) AwaitConfirmation(ctx context.Context, pending Pending, timeout time.Duration) (Confirmation, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(g.opts.PollInterval)
	defer ticker.Stop()
	for {
		receipt, err := g.client.TransactionReceipt(waitCtx, pending.TxHash)
		if err == nil && receipt != nil {
			return Confirmation{
				TxHash:    pending.TxHash.Hex(),
				Succeeded: receipt.Status == types.ReceiptStatusSuccessful,
			}, nil
		}
		// Transient polling failures are retried until the ceiling.
		select {
		case <-waitCtx.Done():
			// A caller abort is not the ambiguous-timeout case.
			if ctx.Err() != nil {
				return Confirmation{TxHash: pending.TxHash.Hex()}, clierr.Wrap(clierr.CodeInternal, "confirmation wait aborted", ctx.Err())
			}
			return Confirmation{TxHash: pending.TxHash.Hex()}, clierr.Wrap(clierr.CodeConfirmationTimeout, "timed out waiting for receipt", waitCtx.Err())
		case <-ticker.C:
		}
	}
}

// TransactionStatus re-queries a transaction after an ambiguous timeout. The
// second return is false while the transaction is still unknown to the chain.
func (g *EthGateway) TransactionStatus(ctx context.Context, txHash string) (Confirmation, bool, error) {
	hash := common.HexToHash(strings.TrimSpace(txHash))
	receipt, err := g.client.TransactionReceipt(ctx, hash)
	if err == nil && receipt != nil {
		return Confirmation{
			TxHash:    hash.Hex(),
			Succeeded: receipt.Status == types.ReceiptStatusSuccessful,
		}, true, nil
	}
	if errors.Is(err, ethereum.NotFound) {
		return Confirmation{}, false, nil
	}
	return Confirmation{}, false, clierr.Wrap(clierr.CodeUnavailable, "query transaction receipt", err)
}

func (g *EthGateway) unpackUint(raw []byte, method string) (*big.Int, error) {
	values, err := g.erc20.Unpack(method, raw)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, fmt.Sprintf("unpack %s result", method), err)
	}
	out, ok := values[0].(*big.Int)
	if !ok {
		return nil, clierr.New(clierr.CodeInternal, fmt.Sprintf("%s returned a non-uint value", method))
	}
	return out, nil
}
