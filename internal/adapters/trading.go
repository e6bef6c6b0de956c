package adapters

import (
	"math/big"
	"strings"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/intent"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

var tradingABI = mustABI(registry.TradingEngineABI)

// BuildTradingCall packs a buy or sell against the USDC-quoted engine.
// minAmountOut is the slippage floor computed from a fresh quote.
func BuildTradingCall(in intent.Intent, amountBaseUnits, minAmountOut *big.Int) (Call, error) {
	if amountBaseUnits == nil || amountBaseUnits.Sign() <= 0 {
		return Call{}, clierr.New(clierr.CodeInternal, "trading call requires a positive base-unit amount")
	}
	if minAmountOut == nil || minAmountOut.Sign() < 0 {
		return Call{}, clierr.New(clierr.CodeInternal, "trading call requires a minimum output")
	}
	symbol := strings.ToUpper(in.Token.Symbol)

	var (
		calldata []byte
		err      error
	)
	switch in.Operation {
	case intent.OpBuy:
		calldata, err = tradingABI.Pack("buyToken", symbol, amountBaseUnits, minAmountOut)
	case intent.OpSell:
		calldata, err = tradingABI.Pack("sellToken", symbol, amountBaseUnits, minAmountOut)
	default:
		return Call{}, clierr.New(clierr.CodeUnroutableOperation, "operation "+string(in.Operation)+" is not a trading operation")
	}
	if err != nil {
		return Call{}, clierr.Wrap(clierr.CodeInternal, "pack trading calldata", err)
	}
	return Call{To: ContractFor(KindTrading), Calldata: calldata, Value: big.NewInt(0)}, nil
}

// BuildExpectedOutputCall packs the engine's getExpectedOutput view used for
// slippage floors. isBuy follows the engine's convention: true when spending
// USDC for the token.
func BuildExpectedOutputCall(symbol string, amountBaseUnits *big.Int, isBuy bool) (Call, error) {
	calldata, err := tradingABI.Pack("getExpectedOutput", strings.ToUpper(symbol), amountBaseUnits, isBuy)
	if err != nil {
		return Call{}, clierr.Wrap(clierr.CodeInternal, "pack getExpectedOutput calldata", err)
	}
	return Call{To: ContractFor(KindTrading), Calldata: calldata, Value: big.NewInt(0)}, nil
}

// ParseExpectedOutput unpacks the getExpectedOutput result.
func ParseExpectedOutput(raw []byte) (*big.Int, error) {
	values, err := tradingABI.Unpack("getExpectedOutput", raw)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "unpack getExpectedOutput result", err)
	}
	out, ok := values[0].(*big.Int)
	if !ok {
		return nil, clierr.New(clierr.CodeInternal, "getExpectedOutput returned a non-uint value")
	}
	return out, nil
}
