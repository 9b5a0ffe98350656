package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseValor normalizes a monetary token that may use ',' or '.' as decimal
// separator, possibly both mixed with thousands separators, and returns an
// exact decimal. When both appear, whichever occurs later in the string is
// the decimal point and the other is stripped. Returns ok=false when the
// cleaned token has no parseable number, e.g. "", ".", "-".
func ParseValor(bruto string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(bruto)
	s = tirarAspas(s)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Decimal{}, false
	}

	temVirgula := strings.Contains(s, ",")
	temPonto := strings.Contains(s, ".")
	switch {
	case temVirgula && temPonto:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case temVirgula:
		s = strings.ReplaceAll(s, ",", ".")
	}

	// Keep only digits, sign and the decimal point.
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	switch s {
	case "", ".", "+", "-", "+.", "-.":
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// tirarAspas removes one matching pair of surrounding quotes, if present.
func tirarAspas(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
