package intent

import (
	"strings"

	"github.com/ggonzalez94/intent-cli/internal/registry"
)

// Operation is the closed set of actions the DSL can express.
type Operation string

const (
	OpSend     Operation = "send"
	OpSwap     Operation = "swap"
	OpDeposit  Operation = "deposit"
	OpBorrow   Operation = "borrow"
	OpRepay    Operation = "repay"
	OpWithdraw Operation = "withdraw"
	OpBuy      Operation = "buy"
	OpSell     Operation = "sell"
)

// Intent is a fully parsed command. Parsing either yields every field the
// operation needs or fails; there are no partially populated intents. The one
// permitted default is RateMode "2" (variable) on borrow/repay.
type Intent struct {
	Operation Operation

	// Amount is a normalized decimal in display units of the source token,
	// empty when AmountIsMax is set. "all" resolves against the live balance
	// at execution time, not at parse time.
	Amount      string
	AmountIsMax bool

	// Token is the primary operand: the token being sent, the swap input,
	// the lending asset, or the traded token for buy/sell.
	Token registry.Token

	// TokenOut is the swap output token; zero for other operations.
	TokenOut registry.Token

	// Recipient is a lower-cased 0x address; empty means self.
	Recipient string

	// RateMode is "1" (stable) or "2" (variable); set only for borrow/repay.
	RateMode string
}

// SourceToken is the token the amount is denominated in and whose balance the
// operation draws from. Buys spend the engine's USDC quote currency, not the
// token being bought.
func (in Intent) SourceToken() registry.Token {
	if in.Operation == OpBuy {
		usdc, _ := registry.Resolve("USDC")
		return usdc
	}
	return in.Token
}

// Command reconstructs the canonical DSL string. Reparsing the result yields
// an identical intent.
func (in Intent) Command() string {
	amount := in.Amount
	if in.AmountIsMax {
		amount = "all"
	}
	token := strings.ToLower(in.Token.Symbol)

	switch in.Operation {
	case OpSend:
		return join("send", amount, token, in.Recipient)
	case OpSwap:
		parts := []string{"swap", amount, token, "for", strings.ToLower(in.TokenOut.Symbol)}
		if in.Recipient != "" {
			parts = append(parts, "to", in.Recipient)
		}
		return join(parts...)
	case OpDeposit:
		return join("deposit", amount, token)
	case OpBorrow:
		return join("borrow", amount, token, in.RateMode)
	case OpRepay:
		return join("repay", amount, token, in.RateMode)
	case OpWithdraw:
		return join("withdraw", amount, token)
	case OpBuy:
		return join("trade", "buy", token, amount)
	case OpSell:
		return join("trade", "sell", token, amount)
	}
	return ""
}

func join(parts ...string) string {
	return strings.Join(parts, " ")
}
