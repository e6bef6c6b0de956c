// Package adapters maps intents onto the three deployed protocol adapters and
// builds their calldata. Each adapter is an opaque RPC target; nothing here
// talks to the chain.
package adapters

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/intent"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

// Kind identifies one of the protocol adapters.
type Kind string

const (
	KindRouter  Kind = "router"
	KindLending Kind = "lending"
	KindTrading Kind = "trading"
)

// Call is a prepared adapter invocation: target, calldata and attached value.
type Call struct {
	To       common.Address
	Calldata []byte
	Value    *big.Int
}

// Select routes an operation to its adapter.
func Select(op intent.Operation) (Kind, error) {
	switch op {
	case intent.OpSend, intent.OpSwap:
		return KindRouter, nil
	case intent.OpDeposit, intent.OpBorrow, intent.OpRepay, intent.OpWithdraw:
		return KindLending, nil
	case intent.OpBuy, intent.OpSell:
		return KindTrading, nil
	}
	return "", clierr.New(clierr.CodeUnroutableOperation, "no adapter routes operation "+string(op))
}

// ContractFor returns the deployed address of an adapter.
func ContractFor(kind Kind) common.Address {
	switch kind {
	case KindRouter:
		return common.HexToAddress(registry.RouterContract)
	case KindLending:
		return common.HexToAddress(registry.LendingContract)
	case KindTrading:
		return common.HexToAddress(registry.TradingEngineContract)
	}
	return common.Address{}
}

// SpenderFor returns the contract an allowance must be granted to for an
// operation, resolving through Select.
func SpenderFor(op intent.Operation) (common.Address, error) {
	kind, err := Select(op)
	if err != nil {
		return common.Address{}, err
	}
	return ContractFor(kind), nil
}

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
