// Package allowance decides whether an intent needs a prior ERC-20 approval
// and resolves the execution amount it will be granted for. Nothing here is
// cached: balances and allowances can change between user actions, so every
// resolution reads live state.
package allowance

import (
	"context"
	"math/big"

	"github.com/ggonzalez94/intent-cli/internal/adapters"
	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/gateway"
	"github.com/ggonzalez94/intent-cli/internal/id"
	"github.com/ggonzalez94/intent-cli/internal/intent"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

// Requirement is a needed approval: grant Spender exactly AmountBaseUnits of
// Token before the primary call.
type Requirement struct {
	Token           registry.Token
	Spender         string
	AmountBaseUnits *big.Int
}

// Resolution carries the resolved execution amount alongside the approval
// requirement, which is nil when no approval is needed.
type Resolution struct {
	// Token is the asset that actually moves: the lending view substitutes
	// WETH for ETH operands, and buys spend USDC.
	Token registry.Token

	// ExecutionAmount is the base-unit amount the primary call will move,
	// with the "all" sentinel already substituted by the live balance.
	ExecutionAmount *big.Int

	Requirement *Requirement
}

// Resolve computes the Resolution for an intent. The live balance is queried
// at most once: either to substitute the "all" sentinel or to pre-check that
// an explicit amount is covered, so an underfunded intent fails here instead
// of by a reverted transaction.
func Resolve(ctx context.Context, in intent.Intent, gw gateway.Gateway) (Resolution, error) {
	token, err := movingToken(in)
	if err != nil {
		return Resolution{}, err
	}

	var amount *big.Int
	if in.AmountIsMax {
		balance, err := gw.BalanceOf(ctx, token)
		if err != nil {
			return Resolution{}, err
		}
		if balance.Sign() <= 0 {
			return Resolution{}, clierr.New(clierr.CodeInsufficientBalance, "no "+token.Symbol+" balance to spend")
		}
		amount = balance
	} else {
		baseUnits, err := id.ToBaseUnits(in.Amount, token.Decimals)
		if err != nil {
			return Resolution{}, err
		}
		amount, _ = new(big.Int).SetString(baseUnits, 10)
		if drawsFromWallet(in.Operation) {
			balance, err := gw.BalanceOf(ctx, token)
			if err != nil {
				return Resolution{}, err
			}
			if balance.Cmp(amount) < 0 {
				return Resolution{}, clierr.New(clierr.CodeInsufficientBalance,
					"balance "+id.FromBaseUnits(balance.String(), token.Decimals)+" "+token.Symbol+" is below the requested "+in.Amount)
			}
		}
	}

	out := Resolution{Token: token, ExecutionAmount: amount}
	if !needsApproval(in, token) {
		return out, nil
	}
	spender, err := adapters.SpenderFor(in.Operation)
	if err != nil {
		return Resolution{}, err
	}
	out.Requirement = &Requirement{
		Token:           token,
		Spender:         spender.Hex(),
		AmountBaseUnits: new(big.Int).Set(amount),
	}
	return out, nil
}

// movingToken is the asset the operation actually draws or receives on the
// user's side of the adapter.
func movingToken(in intent.Intent) (registry.Token, error) {
	switch in.Operation {
	case intent.OpDeposit, intent.OpBorrow, intent.OpRepay, intent.OpWithdraw:
		return registry.LendingAsset(in.Token.Symbol)
	default:
		return in.SourceToken(), nil
	}
}

// drawsFromWallet reports whether the operation spends the owner's balance.
// Borrow and withdraw move funds out of the protocol toward the user.
func drawsFromWallet(op intent.Operation) bool {
	switch op {
	case intent.OpBorrow, intent.OpWithdraw:
		return false
	}
	return true
}

// needsApproval encodes the observed router/adapter policy: a plain send
// moves wallet-to-wallet and needs no allowance; swaps, lending deposits and
// repayments, and trades all pull the token via transferFrom. Native ether is
// never approved.
func needsApproval(in intent.Intent, token registry.Token) bool {
	if token.Native {
		return false
	}
	switch in.Operation {
	case intent.OpSwap, intent.OpDeposit, intent.OpRepay, intent.OpBuy, intent.OpSell:
		return true
	}
	return false
}
