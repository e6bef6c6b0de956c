package adapters

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/intent"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

var lendingABI = mustABI(registry.LendingABI)

// BuildLendingCall packs a lending adapter invocation. ETH operands resolve
// through the registry's ETH -> WETH mapping; the adapter itself only accepts
// ERC-20 assets.
func BuildLendingCall(in intent.Intent, amountBaseUnits *big.Int, owner common.Address) (Call, error) {
	if amountBaseUnits == nil || amountBaseUnits.Sign() <= 0 {
		return Call{}, clierr.New(clierr.CodeInternal, "lending call requires a positive base-unit amount")
	}
	asset, err := registry.LendingAsset(in.Token.Symbol)
	if err != nil {
		return Call{}, err
	}
	assetAddr := common.HexToAddress(asset.Address)

	var calldata []byte
	switch in.Operation {
	case intent.OpDeposit:
		calldata, err = lendingABI.Pack("deposit", assetAddr, amountBaseUnits, owner)
	case intent.OpBorrow:
		calldata, err = lendingABI.Pack("borrow", assetAddr, amountBaseUnits, rateMode(in), owner)
	case intent.OpRepay:
		calldata, err = lendingABI.Pack("repay", assetAddr, amountBaseUnits, rateMode(in), owner)
	case intent.OpWithdraw:
		calldata, err = lendingABI.Pack("withdraw", assetAddr, amountBaseUnits, owner)
	default:
		return Call{}, clierr.New(clierr.CodeUnroutableOperation, "operation "+string(in.Operation)+" is not a lending operation")
	}
	if err != nil {
		return Call{}, clierr.Wrap(clierr.CodeInternal, "pack lending calldata", err)
	}
	return Call{To: ContractFor(KindLending), Calldata: calldata, Value: big.NewInt(0)}, nil
}

func rateMode(in intent.Intent) *big.Int {
	mode, err := strconv.ParseInt(in.RateMode, 10, 64)
	if err != nil {
		// The parser only emits "1" or "2"; variable is the documented default.
		mode = 2
	}
	return big.NewInt(mode)
}
