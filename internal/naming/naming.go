// Package naming derives the selector-suffixed binding identifiers and
// enforces their module-wide uniqueness.
//
// The naming contract is bit-exact and must stay stable across releases:
//
//	lower_snake_case(function_name) + "__0x" + 8 lowercase hex digits
//
// The casing transform splits on case boundaries only (balanceOf ->
// balance_of, parseABIEntry -> parse_abi_entry); digits stay attached to
// the word they follow. Reserved words escape with one trailing underscore.
package naming

import (
	"strconv"
	"strings"
	"unicode"
)

// SnakeCase lowers an ABI identifier at its case boundaries. An underscore
// is inserted before an upper-case rune that follows a lower-case rune or
// digit, and before the last upper of an acronym run that is followed by a
// lower-case rune (HTTPServer -> http_server).
func SnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// goKeywords and goPredeclared make up the reserved-word list for the
// target language; emitterReserved are identifiers the emitted method
// bodies claim for themselves.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

var goPredeclared = map[string]bool{
	"any": true, "append": true, "bool": true, "byte": true, "cap": true,
	"clear": true, "close": true, "comparable": true, "complex": true,
	"complex64": true, "complex128": true, "copy": true, "delete": true,
	"error": true, "false": true, "float32": true, "float64": true,
	"imag": true, "int": true, "int8": true, "int16": true, "int32": true,
	"int64": true, "iota": true, "len": true, "make": true, "max": true,
	"min": true, "new": true, "nil": true, "panic": true, "print": true,
	"println": true, "real": true, "recover": true, "rune": true,
	"string": true, "true": true, "uint": true, "uint8": true, "uint16": true,
	"uint32": true, "uint64": true, "uintptr": true,
}

var emitterReserved = map[string]bool{
	"c": true, "ctx": true, "callValue": true, "calldata": true, "ret": true, "err": true,
}

// Escape appends one underscore when the identifier is a Go keyword, a Go
// predeclared identifier, one of the names emitted method bodies reserve,
// or matches the generated positional names (argN/outN).
func Escape(ident string) string {
	if goKeywords[ident] || goPredeclared[ident] || emitterReserved[ident] || isPositional(ident) {
		return ident + "_"
	}
	return ident
}

func isPositional(ident string) bool {
	rest, ok := strings.CutPrefix(ident, "arg")
	if !ok {
		rest, ok = strings.CutPrefix(ident, "out")
	}
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ParamName returns the identifier used for a parameter at the given input
// position: the declared name escaped, or argN when the ABI leaves the
// parameter unnamed.
func ParamName(declared string, index int) string {
	if declared == "" {
		return "arg" + strconv.Itoa(index)
	}
	return Escape(declared)
}
