// Package gateway is the orchestrator's only path to the chain. It owns the
// signer, nonce handling and confirmation polling; callers above it never
// touch wallet state directly, which keeps the core testable with a fake.
package gateway

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ggonzalez94/intent-cli/internal/registry"
)

// Pending is the handle for a submitted, not yet confirmed transaction.
type Pending struct {
	TxHash common.Hash
}

// Confirmation is the terminal outcome of a submitted transaction. Succeeded
// false means the transaction landed but reverted.
type Confirmation struct {
	TxHash    string
	Succeeded bool
}

// Gateway wraps the wallet/provider. Every method blocks until the chain
// answers or ctx is done; a confirmation wait is additionally bounded by the
// timeout argument and fails with ConfirmationTimeout when exceeded.
type Gateway interface {
	// Owner is the connected account all balances and allowances refer to.
	Owner() common.Address

	// BalanceOf reads the owner's live balance of a token, native or ERC-20,
	// in base units.
	BalanceOf(ctx context.Context, token registry.Token) (*big.Int, error)

	// Allowance reads the owner's live ERC-20 allowance for a spender.
	Allowance(ctx context.Context, token, spender common.Address) (*big.Int, error)

	// CallView performs a read-only contract call and returns the raw result.
	CallView(ctx context.Context, to common.Address, calldata []byte) ([]byte, error)

	// Submit signs and broadcasts a transaction. Once Submit returns a
	// Pending the transaction cannot be cancelled, only awaited.
	Submit(ctx context.Context, to common.Address, calldata []byte, value *big.Int) (Pending, error)

	// AwaitConfirmation polls for the receipt up to the timeout ceiling.
	AwaitConfirmation(ctx context.Context, pending Pending, timeout time.Duration) (Confirmation, error)

	Close()
}
