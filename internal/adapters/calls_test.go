package adapters

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ggonzalez94/intent-cli/internal/intent"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

func mustParse(t *testing.T, command string) intent.Intent {
	t.Helper()
	in, err := intent.Parse(command)
	if err != nil {
		t.Fatalf("Parse(%q): %v", command, err)
	}
	return in
}

var testOwner = common.HexToAddress("0x00000000000000000000000000000000000000AA")

func TestBuildApproveCall(t *testing.T) {
	token := common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	spender := ContractFor(KindRouter)
	call, err := BuildApproveCall(token, spender, big.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("BuildApproveCall: %v", err)
	}
	if call.To != token {
		t.Fatalf("approve target = %s, want the token contract", call.To.Hex())
	}
	if call.Value.Sign() != 0 {
		t.Fatal("approve must not attach value")
	}
	method, err := erc20ABI.MethodById(call.Calldata[:4])
	if err != nil || method.Name != "approve" {
		t.Fatalf("calldata selector = %v %v", method, err)
	}

	if _, err := BuildApproveCall(token, spender, big.NewInt(0)); err == nil {
		t.Fatal("zero approval amount should fail")
	}
}

func TestBuildRouterSendCallEmbedsCommand(t *testing.T) {
	in := mustParse(t, "send 50 usdc 0x00000000000000000000000000000000000000bb")
	call, err := BuildRouterSendCall(in, big.NewInt(50_000_000))
	if err != nil {
		t.Fatalf("BuildRouterSendCall: %v", err)
	}
	if call.To != ContractFor(KindRouter) {
		t.Fatalf("send target = %s", call.To.Hex())
	}
	if call.Value.Sign() != 0 {
		t.Fatal("erc20 send must not attach value")
	}
	if !bytes.Contains(call.Calldata, []byte(in.Command())) {
		t.Fatal("calldata should embed the canonical command string")
	}
}

func TestBuildRouterSendCallNativeValue(t *testing.T) {
	in := mustParse(t, "send 1 eth 0x00000000000000000000000000000000000000bb")
	wei := new(big.Int)
	wei.SetString("1000000000000000000", 10)
	call, err := BuildRouterSendCall(in, wei)
	if err != nil {
		t.Fatalf("BuildRouterSendCall: %v", err)
	}
	if call.Value.Cmp(wei) != 0 {
		t.Fatalf("native send value = %s", call.Value)
	}
}

func TestBuildRouterSendCallRejectsMaxSentinel(t *testing.T) {
	in := mustParse(t, "send all usdc 0x00000000000000000000000000000000000000bb")
	if _, err := BuildRouterSendCall(in, big.NewInt(1)); err == nil {
		t.Fatal("unresolved all sentinel should be rejected")
	}
}

func TestBuildRouterSwapCall(t *testing.T) {
	in := mustParse(t, "swap 0.5 weth for dai")
	amount, _ := new(big.Int).SetString("500000000000000000", 10)
	call, err := BuildRouterSwapCall(in, amount, big.NewInt(950), testOwner)
	if err != nil {
		t.Fatalf("BuildRouterSwapCall: %v", err)
	}
	method, err := routerABI.MethodById(call.Calldata[:4])
	if err != nil || method.Name != "swap" {
		t.Fatalf("calldata selector = %v %v", method, err)
	}
	args, err := method.Inputs.Unpack(call.Calldata[4:])
	if err != nil {
		t.Fatalf("unpack swap args: %v", err)
	}
	if got := args[4].(common.Address); got != testOwner {
		t.Fatalf("default recipient = %s, want owner", got.Hex())
	}
	if got := args[3].(*big.Int); got.Cmp(big.NewInt(950)) != 0 {
		t.Fatalf("minAmountOut = %s", got)
	}
}

func TestBuildLendingCalls(t *testing.T) {
	amount := big.NewInt(123_456_789)
	for command, wantMethod := range map[string]string{
		"deposit 123.456789 usdc": "deposit",
		"borrow 10 dai":           "borrow",
		"repay 10 dai 1":          "repay",
		"withdraw 10 dai":         "withdraw",
	} {
		in := mustParse(t, command)
		call, err := BuildLendingCall(in, amount, testOwner)
		if err != nil {
			t.Fatalf("BuildLendingCall(%q): %v", command, err)
		}
		if call.To != ContractFor(KindLending) {
			t.Fatalf("lending target = %s", call.To.Hex())
		}
		method, err := lendingABI.MethodById(call.Calldata[:4])
		if err != nil || method.Name != wantMethod {
			t.Fatalf("%q selector = %v %v, want %s", command, method, err, wantMethod)
		}
	}
}

func TestBuildLendingCallMapsETHToWETH(t *testing.T) {
	in := mustParse(t, "deposit 1 eth")
	call, err := BuildLendingCall(in, big.NewInt(1), testOwner)
	if err != nil {
		t.Fatalf("BuildLendingCall: %v", err)
	}
	method, _ := lendingABI.MethodById(call.Calldata[:4])
	args, err := method.Inputs.Unpack(call.Calldata[4:])
	if err != nil {
		t.Fatalf("unpack deposit args: %v", err)
	}
	weth, _ := registry.Resolve("WETH")
	if got := args[0].(common.Address); got != common.HexToAddress(weth.Address) {
		t.Fatalf("deposit asset = %s, want WETH", got.Hex())
	}
}

func TestBuildTradingCalls(t *testing.T) {
	in := mustParse(t, "trade buy wbtc 100")
	call, err := BuildTradingCall(in, big.NewInt(100_000_000), big.NewInt(95))
	if err != nil {
		t.Fatalf("BuildTradingCall: %v", err)
	}
	method, err := tradingABI.MethodById(call.Calldata[:4])
	if err != nil || method.Name != "buyToken" {
		t.Fatalf("buy selector = %v %v", method, err)
	}

	in = mustParse(t, "trade sell weth 0.25")
	call, err = BuildTradingCall(in, big.NewInt(1), big.NewInt(0))
	if err != nil {
		t.Fatalf("BuildTradingCall sell: %v", err)
	}
	method, err = tradingABI.MethodById(call.Calldata[:4])
	if err != nil || method.Name != "sellToken" {
		t.Fatalf("sell selector = %v %v", method, err)
	}
}

func TestQuoteRoundTrips(t *testing.T) {
	quote := big.NewInt(123_456)

	packed, err := tradingABI.Methods["getExpectedOutput"].Outputs.Pack(quote)
	if err != nil {
		t.Fatalf("pack engine quote: %v", err)
	}
	got, err := ParseExpectedOutput(packed)
	if err != nil || got.Cmp(quote) != 0 {
		t.Fatalf("ParseExpectedOutput = %v %v", got, err)
	}

	packed, err = routerABI.Methods["getExpectedOutput"].Outputs.Pack(quote)
	if err != nil {
		t.Fatalf("pack router quote: %v", err)
	}
	got, err = ParseRouterQuote(packed)
	if err != nil || got.Cmp(quote) != 0 {
		t.Fatalf("ParseRouterQuote = %v %v", got, err)
	}
}
