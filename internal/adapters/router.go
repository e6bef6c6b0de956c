package adapters

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/intent"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

var routerABI = mustABI(registry.RouterABI)

// BuildRouterSendCall packs the router's generic command(string) entry point
// for a plain send. The router consumes the DSL text itself, so the intent
// must already carry the resolved (non-"all") amount: the command must echo
// what will actually move. Native-ether sends attach the amount as msg.value.
func BuildRouterSendCall(in intent.Intent, amountBaseUnits *big.Int) (Call, error) {
	if in.Operation != intent.OpSend {
		return Call{}, clierr.New(clierr.CodeUnroutableOperation, "operation "+string(in.Operation)+" is not a send")
	}
	if in.AmountIsMax {
		return Call{}, clierr.New(clierr.CodeInternal, "router call requires a resolved amount, not the all sentinel")
	}
	calldata, err := routerABI.Pack("command", in.Command())
	if err != nil {
		return Call{}, clierr.Wrap(clierr.CodeInternal, "pack router command calldata", err)
	}
	return Call{To: ContractFor(KindRouter), Calldata: calldata, Value: nativeValue(in, amountBaseUnits)}, nil
}

// BuildRouterSwapCall packs the router's explicit swap entry point, which
// carries the slippage floor the generic command string cannot express.
// An empty recipient swaps to the owner.
func BuildRouterSwapCall(in intent.Intent, amountBaseUnits, minAmountOut *big.Int, owner common.Address) (Call, error) {
	if in.Operation != intent.OpSwap {
		return Call{}, clierr.New(clierr.CodeUnroutableOperation, "operation "+string(in.Operation)+" is not a swap")
	}
	if amountBaseUnits == nil || amountBaseUnits.Sign() <= 0 {
		return Call{}, clierr.New(clierr.CodeInternal, "swap requires a positive base-unit amount")
	}
	if minAmountOut == nil || minAmountOut.Sign() < 0 {
		return Call{}, clierr.New(clierr.CodeInternal, "swap requires a minimum output")
	}
	recipient := owner
	if in.Recipient != "" {
		recipient = common.HexToAddress(in.Recipient)
	}
	calldata, err := routerABI.Pack("swap",
		common.HexToAddress(in.Token.Address),
		common.HexToAddress(in.TokenOut.Address),
		amountBaseUnits,
		minAmountOut,
		recipient,
	)
	if err != nil {
		return Call{}, clierr.Wrap(clierr.CodeInternal, "pack router swap calldata", err)
	}
	return Call{To: ContractFor(KindRouter), Calldata: calldata, Value: nativeValue(in, amountBaseUnits)}, nil
}

// BuildRouterQuoteCall packs the router's expected-output view for swap
// slippage floors.
func BuildRouterQuoteCall(in intent.Intent, amountBaseUnits *big.Int) (Call, error) {
	calldata, err := routerABI.Pack("getExpectedOutput",
		common.HexToAddress(in.Token.Address),
		common.HexToAddress(in.TokenOut.Address),
		amountBaseUnits,
	)
	if err != nil {
		return Call{}, clierr.Wrap(clierr.CodeInternal, "pack router quote calldata", err)
	}
	return Call{To: ContractFor(KindRouter), Calldata: calldata, Value: big.NewInt(0)}, nil
}

// ParseRouterQuote unpacks the getExpectedOutput result.
func ParseRouterQuote(raw []byte) (*big.Int, error) {
	values, err := routerABI.Unpack("getExpectedOutput", raw)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInternal, "unpack router quote result", err)
	}
	out, ok := values[0].(*big.Int)
	if !ok {
		return nil, clierr.New(clierr.CodeInternal, "router quote returned a non-uint value")
	}
	return out, nil
}

func nativeValue(in intent.Intent, amountBaseUnits *big.Int) *big.Int {
	if in.Token.Native && amountBaseUnits != nil {
		return new(big.Int).Set(amountBaseUnits)
	}
	return big.NewInt(0)
}
