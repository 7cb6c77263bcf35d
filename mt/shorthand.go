package mt

import (
	"slices"
	"strings"
)

// shorthands maps operator tokens to the canonical function they call.
var shorthands = map[string]string{
	"+":   "add",
	"-":   "subtract",
	"*":   "multiply",
	"/":   "divide",
	"%":   "modulo",
	"^":   "power",
	"**":  "power",
	"v/":  "sqrt",
	"|.|": "abs",
	"|v|": "floor",
	"|^|": "ceil",
	"|x|": "round",
	">":   "greater",
	"<":   "less",
	">=":  "greaterEqual",
	"<=":  "lessEqual",
	"==":  "equal",
	"!=":  "notEqual",
	"&":   "and",
	"|":   "or",
	"!":   "not",
	"?":   "if",
	"?=":  "while",
	"#":   "index",
	"##":  "slice",
	"#-":  "length",
	"|>":  "print",
}

// Shorthand reports the canonical call a shorthand token expands to.
func Shorthand(token string) (string, bool) {
	call, ok := shorthands[token]
	return call, ok
}

// ShorthandsFor lists the shorthand tokens that expand to call, sorted.
func ShorthandsFor(call string) []string {
	var tokens []string
	for token, target := range shorthands {
		if target == call {
			tokens = append(tokens, token)
		}
	}
	slices.Sort(tokens)
	return tokens
}

// ResolveShorthands rewrites shorthand tokens into canonical calls. Tokens are
// matched whole, so longer operators never lose to their prefixes, and text
// inside <<...>> string literals is left untouched.
func ResolveShorthands(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	depth := 0
	for i := 0; i < len(src); {
		switch {
		case strings.HasPrefix(src[i:], stringOpen):
			depth++
			b.WriteString(stringOpen)
			i += len(stringOpen)
			continue
		case depth > 0 && strings.HasPrefix(src[i:], stringClose):
			depth--
			b.WriteString(stringClose)
			i += len(stringClose)
			continue
		case depth > 0 || isTokenDelimiter(src[i]):
			b.WriteByte(src[i])
			i++
			continue
		}
		j := i
		for j < len(src) && !isTokenDelimiter(src[j]) && !strings.HasPrefix(src[j:], stringOpen) {
			j++
		}
		token := src[i:j]
		if call, ok := shorthands[token]; ok {
			token = call
		}
		b.WriteString(token)
		i = j
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isTokenDelimiter(c byte) bool {
	switch c {
	case '(', ')', '{', '}', '[', ']', pipeSeparator, resetSeparator:
		return true
	}
	return isSpace(c)
}
