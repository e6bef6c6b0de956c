package adapters

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

var erc20ABI = mustABI(registry.ERC20MinimalABI)

// BuildApproveCall packs an ERC-20 approval for exactly the given amount.
// Approvals are bounded to the execution amount, never unlimited.
func BuildApproveCall(token, spender common.Address, amount *big.Int) (Call, error) {
	if amount == nil || amount.Sign() <= 0 {
		return Call{}, clierr.New(clierr.CodeInternal, "approval amount must be a positive integer in base units")
	}
	calldata, err := erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return Call{}, clierr.Wrap(clierr.CodeInternal, "pack approval calldata", err)
	}
	return Call{To: token, Calldata: calldata, Value: big.NewInt(0)}, nil
}
