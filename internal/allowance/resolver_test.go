package allowance

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/gateway"
	"github.com/ggonzalez94/intent-cli/internal/intent"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

type fakeGateway struct {
	owner        common.Address
	balances     map[string]*big.Int
	balanceCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		owner:    common.HexToAddress("0x00000000000000000000000000000000000000AA"),
		balances: map[string]*big.Int{},
	}
}

func (f *fakeGateway) setBalance(symbol, baseUnits string) {
	v, _ := new(big.Int).SetString(baseUnits, 10)
	f.balances[symbol] = v
}

func (f *fakeGateway) Owner() common.Address { return f.owner }

func (f *fakeGateway) BalanceOf(_ context.Context, token registry.Token) (*big.Int, error) {
	f.balanceCalls++
	if v, ok := f.balances[token.Symbol]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeGateway) Allowance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeGateway) CallView(context.Context, common.Address, []byte) ([]byte, error) {
	return nil, nil
}

func (f *fakeGateway) Submit(context.Context, common.Address, []byte, *big.Int) (gateway.Pending, error) {
	return gateway.Pending{}, nil
}

func (f *fakeGateway) AwaitConfirmation(context.Context, gateway.Pending, time.Duration) (gateway.Confirmation, error) {
	return gateway.Confirmation{}, nil
}

func (f *fakeGateway) Close() {}

func mustParse(t *testing.T, command string) intent.Intent {
	t.Helper()
	in, err := intent.Parse(command)
	if err != nil {
		t.Fatalf("Parse(%q): %v", command, err)
	}
	return in
}

func TestResolveNativeOperandNeedsNoApproval(t *testing.T) {
	gw := newFakeGateway()
	gw.setBalance("ETH", "2000000000000000000")
	for _, command := range []string{
		"send 1 eth 0x00000000000000000000000000000000000000bb",
		"swap 1 eth for dai",
	} {
		res, err := Resolve(context.Background(), mustParse(t, command), gw)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", command, err)
		}
		if res.Requirement != nil {
			t.Fatalf("native operand in %q should need no approval", command)
		}
	}
}

func TestResolveSendNeedsNoApproval(t *testing.T) {
	gw := newFakeGateway()
	gw.setBalance("USDC", "100000000")
	res, err := Resolve(context.Background(), mustParse(t, "send 50 usdc 0x00000000000000000000000000000000000000bb"), gw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Requirement != nil {
		t.Fatal("plain erc20 send transfers wallet-to-wallet and needs no approval")
	}
	if res.ExecutionAmount.String() != "50000000" {
		t.Fatalf("execution amount = %s", res.ExecutionAmount)
	}
}

func TestResolveOutboundOpsNeedNoApproval(t *testing.T) {
	gw := newFakeGateway()
	for _, command := range []string{"borrow 10 dai", "withdraw 10 dai"} {
		res, err := Resolve(context.Background(), mustParse(t, command), gw)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", command, err)
		}
		if res.Requirement != nil {
			t.Fatalf("%q moves funds to the user and should need no approval", command)
		}
	}
	if gw.balanceCalls != 0 {
		t.Fatalf("outbound ops should not read the wallet balance, got %d calls", gw.balanceCalls)
	}
}

func TestResolveSwapRequiresRouterApproval(t *testing.T) {
	gw := newFakeGateway()
	gw.setBalance("WETH", "1000000000000000000")
	res, err := Resolve(context.Background(), mustParse(t, "swap 0.5 weth for dai"), gw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Requirement == nil {
		t.Fatal("swap of an erc20 requires approval")
	}
	if res.Requirement.Spender != registry.RouterContract {
		t.Fatalf("spender = %s, want router", res.Requirement.Spender)
	}
	if res.Requirement.AmountBaseUnits.String() != "500000000000000000" {
		t.Fatalf("requirement = %s", res.Requirement.AmountBaseUnits)
	}
}

func TestResolveMaxQueriesBalanceOnce(t *testing.T) {
	gw := newFakeGateway()
	gw.setBalance("USDC", "123456789")
	res, err := Resolve(context.Background(), mustParse(t, "deposit all usdc"), gw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if gw.balanceCalls != 1 {
		t.Fatalf("balance queried %d times, want exactly once", gw.balanceCalls)
	}
	if res.ExecutionAmount.String() != "123456789" {
		t.Fatalf("execution amount = %s", res.ExecutionAmount)
	}
	if res.Requirement == nil || res.Requirement.AmountBaseUnits.String() != "123456789" {
		t.Fatalf("requirement should match the live balance exactly: %+v", res.Requirement)
	}
	if res.Requirement.Spender != registry.LendingContract {
		t.Fatalf("spender = %s, want lending adapter", res.Requirement.Spender)
	}
}

func TestResolveInsufficientBalance(t *testing.T) {
	gw := newFakeGateway()
	gw.setBalance("USDC", "1000000")
	_, err := Resolve(context.Background(), mustParse(t, "send 50 usdc 0x00000000000000000000000000000000000000bb"), gw)
	if !clierr.Is(err, clierr.CodeInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestResolveLendingETHUsesWETH(t *testing.T) {
	gw := newFakeGateway()
	gw.setBalance("WETH", "3000000000000000000")
	res, err := Resolve(context.Background(), mustParse(t, "deposit 1 eth"), gw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Token.Symbol != "WETH" {
		t.Fatalf("moving token = %s, want WETH", res.Token.Symbol)
	}
	if res.Requirement == nil {
		t.Fatal("a WETH deposit is an erc20 pull and requires approval")
	}
}

func TestResolveBuySpendsUSDC(t *testing.T) {
	gw := newFakeGateway()
	gw.setBalance("USDC", "200000000")
	res, err := Resolve(context.Background(), mustParse(t, "trade buy wbtc 100"), gw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Token.Symbol != "USDC" {
		t.Fatalf("buy should spend USDC, got %s", res.Token.Symbol)
	}
	if res.ExecutionAmount.String() != "100000000" {
		t.Fatalf("execution amount = %s", res.ExecutionAmount)
	}
	if res.Requirement == nil || res.Requirement.Spender != registry.TradingEngineContract {
		t.Fatalf("requirement = %+v, want trading engine spender", res.Requirement)
	}
}
