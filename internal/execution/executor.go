package execution

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ggonzalez94/intent-cli/internal/adapters"
	"github.com/ggonzalez94/intent-cli/internal/allowance"
	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/gateway"
	"github.com/ggonzalez94/intent-cli/internal/id"
	"github.com/ggonzalez94/intent-cli/internal/intent"
)

type Options struct {
	// ConfirmationTimeout bounds each receipt wait. Exceeding it is an
	// ambiguous outcome, not a failure: the transaction may still land.
	ConfirmationTimeout time.Duration

	// SlippageBps is the tolerated gap below a fresh quote; 500 means the
	// minimum output is 95% of the quote.
	SlippageBps int64
}

func DefaultOptions() Options {
	return Options{
		ConfirmationTimeout: 2 * time.Minute,
		SlippageBps:         500,
	}
}

// Executor runs one intent end-to-end: allowance check, conditional approval,
// primary call, confirmation. One intent at a time per owner; the phases
// mutate the same on-chain allowance and balance state, so interleaving two
// intents would invalidate the live queries each phase depends on.
type Executor struct {
	gw    gateway.Gateway
	store *Store
	opts  Options
}

// NewExecutor wires an executor. store may be nil to skip persistence.
func NewExecutor(gw gateway.Gateway, store *Store, opts Options) *Executor {
	if opts.ConfirmationTimeout <= 0 {
		opts.ConfirmationTimeout = 2 * time.Minute
	}
	if opts.SlippageBps <= 0 || opts.SlippageBps >= 10_000 {
		opts.SlippageBps = 500
	}
	return &Executor{gw: gw, store: store, opts: opts}
}

// Execute is at-most-once: it never resubmits on an ambiguous confirmation.
// A caller retrying after any failure re-enters here from scratch, which
// re-runs the allowance check against whatever state the prior attempt left.
func (e *Executor) Execute(ctx context.Context, in intent.Intent) (Record, error) {
	record := NewRecord(in.Command(), string(in.Operation))

	record.Phase = PhaseAllowanceCheck
	e.save(&record)
	resolution, err := allowance.Resolve(ctx, in, e.gw)
	if err != nil {
		return record, e.fail(&record, PhaseAllowanceCheck, err)
	}
	record.Token = resolution.Token.Symbol
	record.AmountBase = resolution.ExecutionAmount.String()

	if resolution.Requirement != nil {
		if err := e.ensureAllowance(ctx, &record, resolution.Requirement); err != nil {
			return record, err
		}
	}
	record.Phase = PhaseConfirmed
	e.save(&record)

	call, err := e.buildPrimaryCall(ctx, in, resolution, &record)
	if err != nil {
		return record, e.fail(&record, PhaseConfirmed, err)
	}

	record.Phase = PhaseExecuting
	e.save(&record)
	pending, err := e.gw.Submit(ctx, call.To, call.Calldata, call.Value)
	if err != nil {
		return record, e.fail(&record, PhaseExecuting, classifyExecutionErr(in, err))
	}
	record.TxHash = pending.TxHash.Hex()
	e.save(&record)

	confirmation, err := e.gw.AwaitConfirmation(ctx, pending, e.opts.ConfirmationTimeout)
	if err != nil {
		// Ambiguous: the transaction may still land. The caller must
		// re-query its status before even considering a retry.
		return record, e.fail(&record, PhaseExecuting, err)
	}
	if !confirmation.Succeeded {
		return record, e.fail(&record, PhaseExecuting, revertError(in))
	}

	record.Phase = PhaseDone
	record.Succeeded = true
	e.save(&record)
	return record, nil
}

// ensureAllowance queries the live allowance and, when short, submits an
// approval for exactly the required amount and waits for it to confirm. The
// primary call is never submitted past a failed approval.
func (e *Executor) ensureAllowance(ctx context.Context, record *Record, req *allowance.Requirement) error {
	tokenAddr := common.HexToAddress(req.Token.Address)
	spenderAddr := common.HexToAddress(req.Spender)

	live, err := e.gw.Allowance(ctx, tokenAddr, spenderAddr)
	if err != nil {
		return e.fail(record, PhaseAllowanceCheck, err)
	}
	if live.Cmp(req.AmountBaseUnits) >= 0 {
		return nil
	}

	record.Phase = PhaseApproving
	e.save(record)
	call, err := adapters.BuildApproveCall(tokenAddr, spenderAddr, req.AmountBaseUnits)
	if err != nil {
		return e.fail(record, PhaseApproving, err)
	}
	pending, err := e.gw.Submit(ctx, call.To, call.Calldata, call.Value)
	if err != nil {
		return e.fail(record, PhaseApproving,
			clierr.Wrap(clierr.CodeApprovalFailed, "approval for "+req.Token.Symbol+" was rejected before broadcast", err))
	}
	record.ApprovalTxHash = pending.TxHash.Hex()
	e.save(record)

	confirmation, err := e.gw.AwaitConfirmation(ctx, pending, e.opts.ConfirmationTimeout)
	if err != nil {
		return e.fail(record, PhaseApproving, err)
	}
	if !confirmation.Succeeded {
		return e.fail(record, PhaseApproving,
			clierr.New(clierr.CodeApprovalFailed, "approval transaction for "+req.Token.Symbol+" reverted on-chain"))
	}
	return nil
}

// buildPrimaryCall assembles the adapter invocation with the resolved amount
// and, for swaps and trades, a minimum output taken from a quote fetched
// immediately before submission. A quote from earlier in the conversation is
// never reused.
func (e *Executor) buildPrimaryCall(ctx context.Context, in intent.Intent, resolution allowance.Resolution, record *Record) (adapters.Call, error) {
	kind, err := adapters.Select(in.Operation)
	if err != nil {
		return adapters.Call{}, err
	}
	amount := resolution.ExecutionAmount
	resolved := resolveAmount(in, resolution)

	switch kind {
	case adapters.KindRouter:
		if in.Operation == intent.OpSwap {
			minOut, err := e.routerQuoteFloor(ctx, resolved, amount)
			if err != nil {
				return adapters.Call{}, err
			}
			record.MinAmountOut = minOut.String()
			return adapters.BuildRouterSwapCall(resolved, amount, minOut, e.gw.Owner())
		}
		return adapters.BuildRouterSendCall(resolved, amount)
	case adapters.KindLending:
		return adapters.BuildLendingCall(resolved, amount, e.gw.Owner())
	case adapters.KindTrading:
		minOut, err := e.tradingQuoteFloor(ctx, resolved, amount)
		if err != nil {
			return adapters.Call{}, err
		}
		record.MinAmountOut = minOut.String()
		return adapters.BuildTradingCall(resolved, amount, minOut)
	}
	return adapters.Call{}, clierr.New(clierr.CodeUnroutableOperation, "no adapter routes operation "+string(in.Operation))
}

func (e *Executor) routerQuoteFloor(ctx context.Context, in intent.Intent, amount *big.Int) (*big.Int, error) {
	call, err := adapters.BuildRouterQuoteCall(in, amount)
	if err != nil {
		return nil, err
	}
	raw, err := e.gw.CallView(ctx, call.To, call.Calldata)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeExecutionFailed, "query swap quote", err)
	}
	quote, err := adapters.ParseRouterQuote(raw)
	if err != nil {
		return nil, err
	}
	return e.applySlippage(quote), nil
}

func (e *Executor) tradingQuoteFloor(ctx context.Context, in intent.Intent, amount *big.Int) (*big.Int, error) {
	call, err := adapters.BuildExpectedOutputCall(in.Token.Symbol, amount, in.Operation == intent.OpBuy)
	if err != nil {
		return nil, err
	}
	raw, err := e.gw.CallView(ctx, call.To, call.Calldata)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeExecutionFailed, "query trade quote", err)
	}
	quote, err := adapters.ParseExpectedOutput(raw)
	if err != nil {
		return nil, err
	}
	return e.applySlippage(quote), nil
}

func (e *Executor) applySlippage(quote *big.Int) *big.Int {
	keep := big.NewInt(10_000 - e.opts.SlippageBps)
	out := new(big.Int).Mul(quote, keep)
	return out.Div(out, big.NewInt(10_000))
}

// resolveAmount rewrites an "all" intent with the live-balance amount so the
// submitted command and calldata carry concrete numbers.
func resolveAmount(in intent.Intent, resolution allowance.Resolution) intent.Intent {
	if !in.AmountIsMax {
		return in
	}
	out := in
	out.AmountIsMax = false
	out.Amount = id.FromBaseUnits(resolution.ExecutionAmount.String(), resolution.Token.Decimals)
	return out
}

func (e *Executor) fail(record *Record, phase Phase, err error) error {
	record.Phase = PhaseFailed
	record.FailedPhase = phase
	record.Error = err.Error()
	e.save(record)
	return err
}

func (e *Executor) save(record *Record) {
	record.Touch()
	if e.store != nil {
		_ = e.store.Save(*record)
	}
}

// classifyExecutionErr keeps gateway error codes that are already part of the
// taxonomy and folds everything else into ExecutionFailed.
func classifyExecutionErr(in intent.Intent, err error) error {
	if cliErr, ok := clierr.As(err); ok {
		switch cliErr.Code {
		case clierr.CodeConfirmationTimeout, clierr.CodeUnavailable, clierr.CodeSigner, clierr.CodeExecutionFailed:
			return err
		}
	}
	return clierr.Wrap(clierr.CodeExecutionFailed, "submit "+string(in.Operation), err)
}

// revertError distinguishes slippage-guarded operations, whose usual revert
// cause is an output below the minimum, from plain reverts.
func revertError(in intent.Intent) error {
	switch in.Operation {
	case intent.OpSwap, intent.OpBuy, intent.OpSell:
		return clierr.New(clierr.CodeExecutionFailed, string(in.Operation)+" reverted on-chain: output fell below the slippage floor")
	}
	return clierr.New(clierr.CodeExecutionFailed, string(in.Operation)+" reverted on-chain")
}
