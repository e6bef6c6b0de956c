package registry

import (
	"sort"
	"strings"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
)

// NativeETHAddress is the sentinel used by the router for native-ether
// operands. It is not a deployed contract.
const NativeETHAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// Token describes one supported asset. Symbols are stored upper-case and
// looked up case-insensitively. The table is fixed at build time: no on-chain
// symbol discovery, so lookups are deterministic and testable offline.
type Token struct {
	Symbol   string
	Address  string
	Decimals int
	Native   bool
}

// Mainnet token set. Decimals are 6, 8 or 18 across the whole table.
var tokensBySymbol = map[string]Token{
	"ETH":   {Symbol: "ETH", Address: NativeETHAddress, Decimals: 18, Native: true},
	"WETH":  {Symbol: "WETH", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Decimals: 18},
	"DAI":   {Symbol: "DAI", Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Decimals: 18},
	"USDC":  {Symbol: "USDC", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
	"USDT":  {Symbol: "USDT", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6},
	"WBTC":  {Symbol: "WBTC", Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Decimals: 8},
	"UNI":   {Symbol: "UNI", Address: "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984", Decimals: 18},
	"LINK":  {Symbol: "LINK", Address: "0x514910771AF9Ca656af840dff83E8264EcF986CA", Decimals: 18},
	"MATIC": {Symbol: "MATIC", Address: "0x7D1AfA7B718fb893dB30A3aBc0Cfc608AaCfeBB0", Decimals: 18},
	"AAVE":  {Symbol: "AAVE", Address: "0x7Fc66500c84A76Ad7e9c93437bFc5Ac33E2DDaE9", Decimals: 18},
	"MKR":   {Symbol: "MKR", Address: "0x9f8F72aA9304c8B593d555F12eF6589cC3A579A2", Decimals: 18},
}

// The lending adapter only accepts ERC-20 collateral; ETH operands are served
// through WETH. Assets outside this set are rejected rather than guessed.
var lendingSymbols = map[string]string{
	"ETH":  "WETH",
	"WETH": "WETH",
	"DAI":  "DAI",
	"USDC": "USDC",
	"WBTC": "WBTC",
}

// The trading engine quotes everything against USDC.
var tradableSymbols = map[string]bool{
	"WETH": true,
	"WBTC": true,
	"DAI":  true,
}

// Resolve returns the descriptor for a symbol, case-insensitively. Unknown
// symbols fail closed.
func Resolve(symbol string) (Token, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	token, ok := tokensBySymbol[key]
	if !ok {
		return Token{}, clierr.New(clierr.CodeUnknownToken, "unknown token symbol "+strings.TrimSpace(symbol))
	}
	return token, nil
}

// ResolveAddress maps a 0x address back to a registry token. Commands may
// carry raw addresses instead of symbols; anything outside the table fails
// closed the same way an unknown symbol does.
func ResolveAddress(address string) (Token, error) {
	needle := strings.ToLower(strings.TrimSpace(address))
	for _, token := range tokensBySymbol {
		if strings.ToLower(token.Address) == needle {
			return token, nil
		}
	}
	return Token{}, clierr.New(clierr.CodeUnknownToken, "no registry token at address "+strings.TrimSpace(address))
}

// LendingAsset resolves a symbol into the ERC-20 the lending adapter accepts
// for it.
func LendingAsset(symbol string) (Token, error) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	mapped, ok := lendingSymbols[key]
	if !ok {
		return Token{}, clierr.New(clierr.CodeUnknownToken, "token "+strings.TrimSpace(symbol)+" is not a supported lending asset")
	}
	return tokensBySymbol[mapped], nil
}

// Tradable reports whether the trading engine lists the symbol.
func Tradable(symbol string) bool {
	return tradableSymbols[strings.ToUpper(strings.TrimSpace(symbol))]
}

// DecimalsFor is a convenience over Resolve.
func DecimalsFor(symbol string) (int, error) {
	token, err := Resolve(symbol)
	if err != nil {
		return 0, err
	}
	return token.Decimals, nil
}

// Tokens returns the full table sorted by symbol.
func Tokens() []Token {
	out := make([]Token, 0, len(tokensBySymbol))
	for _, token := range tokensBySymbol {
		out = append(out, token)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
