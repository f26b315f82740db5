package abi

import (
	"strconv"
	"strings"
)

// Kind discriminates the recursive type descriptor variant.
type Kind uint8

const (
	// KindElementary is a leaf type: address, bool, uintN, intN, bytesN, bytes, string.
	KindElementary Kind = iota
	// KindArray is a fixed or dynamic array of an element type.
	KindArray
	// KindTuple is an ordered aggregate of components.
	KindTuple
)

// DynamicLen marks a dynamic array in Type.Len.
const DynamicLen = -1

// Type is the tagged variant for the ABI type grammar:
// elementary | array-of(Type) | tuple-of(ordered Param...).
// Values are immutable after parsing.
type Type struct {
	Kind Kind

	// Name is the canonical elementary tag (KindElementary only).
	Name string

	// Elem and Len describe the element and length of an array
	// (KindArray only). Len is DynamicLen for T[].
	Elem *Type
	Len  int

	// Components are the ordered tuple fields (KindTuple only).
	Components []Param
}

// Param is a single input or output: an optional name plus a type descriptor.
type Param struct {
	Name string
	Type Type
}

// Canonical renders the type exactly as the selector hashing standard
// expects it: elementary tags verbatim, tuples as a parenthesized component
// list, arrays as their element followed by the [] or [N] suffix.
func (t *Type) Canonical() string {
	switch t.Kind {
	case KindElementary:
		return t.Name
	case KindArray:
		if t.Len == DynamicLen {
			return t.Elem.Canonical() + "[]"
		}
		return t.Elem.Canonical() + "[" + strconv.Itoa(t.Len) + "]"
	case KindTuple:
		var b strings.Builder
		b.WriteByte('(')
		for i := range t.Components {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(t.Components[i].Type.Canonical())
		}
		b.WriteByte(')')
		return b.String()
	}
	return ""
}

// elementaryTags is the closed set of suffix-free elementary types.
var elementaryTags = map[string]bool{
	"address": true,
	"bool":    true,
	"string":  true,
	"bytes":   true,
}

// normalizeElementary validates an elementary tag and canonicalizes the
// sizeless aliases (uint -> uint256, int -> int256). Returns false for
// anything outside the supported grammar, e.g. uint7 or bytes33.
func normalizeElementary(tag string) (string, bool) {
	if elementaryTags[tag] {
		return tag, true
	}
	switch tag {
	case "uint":
		return "uint256", true
	case "int":
		return "int256", true
	}
	for _, prefix := range [...]string{"uint", "int", "bytes"} {
		rest, ok := strings.CutPrefix(tag, prefix)
		if !ok || rest == "" {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || strconv.Itoa(n) != rest {
			return "", false
		}
		if prefix == "bytes" {
			if n >= 1 && n <= 32 {
				return tag, true
			}
			return "", false
		}
		if n >= 8 && n <= 256 && n%8 == 0 {
			return tag, true
		}
		return "", false
	}
	return "", false
}
