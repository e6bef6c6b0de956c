package intent

import (
	"fmt"
	"regexp"
	"strings"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
	"github.com/ggonzalez94/intent-cli/internal/id"
	"github.com/ggonzalez94/intent-cli/internal/registry"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	addressPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// Parse turns a normalized DSL command into an Intent. It performs no network
// I/O: every validation error is returned before anything touches the chain.
func Parse(command string) (Intent, error) {
	normalized := whitespacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(command)), " ")
	if normalized == "" {
		return Intent{}, clierr.New(clierr.CodeMalformedCommand, "empty command")
	}
	parts := strings.Split(normalized, " ")

	switch parts[0] {
	case "send":
		return parseSend(parts)
	case "swap":
		return parseSwap(parts)
	case "deposit", "withdraw":
		return parseLend(parts, false)
	case "borrow", "repay":
		return parseLend(parts, true)
	case "trade":
		return parseTrade(parts)
	default:
		return Intent{}, clierr.New(clierr.CodeUnknownOperation, "unknown operation "+parts[0])
	}
}

// send <amount|all> <token> <recipient>
func parseSend(parts []string) (Intent, error) {
	if len(parts) != 4 {
		return Intent{}, malformed("send expects: send <amount> <token> <recipient>")
	}
	token, err := resolveTokenArg(parts[2])
	if err != nil {
		return Intent{}, err
	}
	amount, isMax, err := parseAmount(parts[1], token)
	if err != nil {
		return Intent{}, err
	}
	recipient, err := parseRecipient(parts[3])
	if err != nil {
		return Intent{}, err
	}
	return Intent{
		Operation:   OpSend,
		Amount:      amount,
		AmountIsMax: isMax,
		Token:       token,
		Recipient:   recipient,
	}, nil
}

// swap <amount|all> <tokenIn> for <tokenOut> [to <recipient>]
func parseSwap(parts []string) (Intent, error) {
	if len(parts) != 5 && len(parts) != 7 {
		return Intent{}, malformed("swap expects: swap <amount> <tokenIn> for <tokenOut> [to <recipient>]")
	}
	if parts[3] != "for" {
		return Intent{}, malformed(`swap expects "for" between input and output tokens`)
	}
	tokenIn, err := resolveTokenArg(parts[2])
	if err != nil {
		return Intent{}, err
	}
	tokenOut, err := resolveTokenArg(parts[4])
	if err != nil {
		return Intent{}, err
	}
	amount, isMax, err := parseAmount(parts[1], tokenIn)
	if err != nil {
		return Intent{}, err
	}
	out := Intent{
		Operation:   OpSwap,
		Amount:      amount,
		AmountIsMax: isMax,
		Token:       tokenIn,
		TokenOut:    tokenOut,
	}
	if len(parts) == 7 {
		if parts[5] != "to" {
			return Intent{}, malformed(`swap recipient must follow "to"`)
		}
		recipient, err := parseRecipient(parts[6])
		if err != nil {
			return Intent{}, err
		}
		out.Recipient = recipient
	}
	return out, nil
}

// deposit/withdraw <amount|all> <asset>
// borrow/repay <amount|all> <asset> [<interestRateMode>]
func parseLend(parts []string, rated bool) (Intent, error) {
	op := Operation(parts[0])
	if rated {
		if len(parts) != 3 && len(parts) != 4 {
			return Intent{}, malformed(fmt.Sprintf("%s expects: %s <amount> <asset> [<interestRateMode>]", op, op))
		}
	} else if len(parts) != 3 {
		return Intent{}, malformed(fmt.Sprintf("%s expects: %s <amount> <asset>", op, op))
	}
	token, err := resolveTokenArg(parts[2])
	if err != nil {
		return Intent{}, err
	}
	// Fail at parse time for assets the lending adapter will never accept.
	if _, err := registry.LendingAsset(token.Symbol); err != nil {
		return Intent{}, err
	}
	amount, isMax, err := parseAmount(parts[1], token)
	if err != nil {
		return Intent{}, err
	}
	out := Intent{
		Operation:   op,
		Amount:      amount,
		AmountIsMax: isMax,
		Token:       token,
	}
	if rated {
		out.RateMode = "2"
		if len(parts) == 4 {
			if parts[3] != "1" && parts[3] != "2" {
				return Intent{}, malformed("interest rate mode must be 1 (stable) or 2 (variable)")
			}
			out.RateMode = parts[3]
		}
	}
	return out, nil
}

// trade <buy|sell> <token> <amount|all>
func parseTrade(parts []string) (Intent, error) {
	if len(parts) != 4 {
		return Intent{}, malformed("trade expects: trade <buy|sell> <token> <amount>")
	}
	var op Operation
	switch parts[1] {
	case "buy":
		op = OpBuy
	case "sell":
		op = OpSell
	default:
		return Intent{}, malformed("trade side must be buy or sell")
	}
	token, err := resolveTokenArg(parts[2])
	if err != nil {
		return Intent{}, err
	}
	if !registry.Tradable(token.Symbol) {
		return Intent{}, clierr.New(clierr.CodeUnknownToken, "token "+token.Symbol+" is not listed on the trading engine")
	}
	out := Intent{Operation: op, Token: token}
	source := out.SourceToken()
	amount, isMax, err := parseAmount(parts[3], source)
	if err != nil {
		return Intent{}, err
	}
	out.Amount = amount
	out.AmountIsMax = isMax
	return out, nil
}

func parseAmount(arg string, source registry.Token) (string, bool, error) {
	if arg == "all" {
		return "", true, nil
	}
	if !id.ValidDecimal(arg) {
		return "", false, malformed("amount must be a positive decimal or the literal \"all\"")
	}
	baseUnits, err := id.ToBaseUnits(arg, source.Decimals)
	if err != nil {
		return "", false, err
	}
	if baseUnits == "0" {
		return "", false, malformed("amount must be greater than zero")
	}
	return id.NormalizeDecimal(arg), false, nil
}

// resolveTokenArg accepts a registry symbol or a raw 0x token address.
func resolveTokenArg(arg string) (registry.Token, error) {
	if strings.HasPrefix(arg, "0x") {
		if !addressPattern.MatchString(arg) {
			return registry.Token{}, clierr.New(clierr.CodeInvalidAddress, "token address must be 42 hex characters starting with 0x")
		}
		return registry.ResolveAddress(arg)
	}
	return registry.Resolve(arg)
}

// parseRecipient enforces the address shape here so malformed recipients never
// reach a submitted transaction.
func parseRecipient(arg string) (string, error) {
	if len(arg) != 42 || !strings.HasPrefix(arg, "0x") || !addressPattern.MatchString(arg) {
		return "", clierr.New(clierr.CodeInvalidAddress, "recipient must be a 42-character 0x hex address")
	}
	return strings.ToLower(arg), nil
}

func malformed(msg string) *clierr.Error {
	return clierr.New(clierr.CodeMalformedCommand, msg)
}
