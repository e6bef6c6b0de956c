package id

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
)

var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ValidDecimal reports whether v is a plain positive decimal like "1.23".
// Signs, exponents and thousands separators are rejected up front so malformed
// numerics never reach amount scaling.
func ValidDecimal(v string) bool {
	return decimalPattern.MatchString(strings.TrimSpace(v))
}

// ToBaseUnits scales a display-unit decimal into an integer base-unit string
// for a token with the given decimals. Precision beyond the token's decimals
// is an error, not a silent truncation.
func ToBaseUnits(decimal string, decimals int) (string, error) {
	clean := strings.TrimSpace(decimal)
	if !decimalPattern.MatchString(clean) {
		return "", clierr.New(clierr.CodeMalformedCommand, "amount must be in decimal form like 1.23")
	}
	if decimals < 0 {
		return "", clierr.New(clierr.CodeInternal, "decimals must be >= 0")
	}

	parts := strings.SplitN(clean, ".", 2)
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > decimals {
		return "", clierr.New(clierr.CodeMalformedCommand, fmt.Sprintf("decimal precision exceeds token decimals (%d)", decimals))
	}

	fracPart = fracPart + strings.Repeat("0", decimals-len(fracPart))
	combined := strings.TrimLeft(intPart+fracPart, "0")
	if combined == "" {
		return "0", nil
	}
	if _, ok := new(big.Int).SetString(combined, 10); !ok {
		return "", clierr.New(clierr.CodeMalformedCommand, "invalid decimal amount")
	}
	return combined, nil
}

// FromBaseUnits formats an integer base-unit string back into display units.
func FromBaseUnits(baseUnits string, decimals int) string {
	n := new(big.Int)
	if _, ok := n.SetString(strings.TrimSpace(baseUnits), 10); !ok {
		return baseUnits
	}
	if decimals == 0 {
		return n.String()
	}

	s := n.String()
	if len(s) <= decimals {
		pad := strings.Repeat("0", decimals-len(s)+1)
		s = pad + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}

// NormalizeDecimal strips leading/trailing zero noise from a decimal string
// so reconstructed commands are canonical ("0.50" -> "0.5").
func NormalizeDecimal(v string) string {
	clean := strings.TrimSpace(v)
	if !strings.Contains(clean, ".") {
		out := strings.TrimLeft(clean, "0")
		if out == "" {
			return "0"
		}
		return out
	}
	parts := strings.SplitN(clean, ".", 2)
	intPart := strings.TrimLeft(parts[0], "0")
	if intPart == "" {
		intPart = "0"
	}
	fracPart := strings.TrimRight(parts[1], "0")
	if fracPart == "" {
		return intPart
	}
	return intPart + "." + fracPart
}
