// Package abi decodes contract interface descriptions (ABI JSON) into an
// ordered, immutable in-memory form and owns the recursive type grammar.
//
// Only named function entries participate in binding generation; events,
// errors, constructors, fallback and receive entries are recorded as skipped
// so callers can report them instead of dropping them silently.
package abi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Mutability is the declared state mutability of a function entry.
type Mutability string

const (
	MutabilityPure       Mutability = "pure"
	MutabilityView       Mutability = "view"
	MutabilityNonPayable Mutability = "nonpayable"
	MutabilityPayable    Mutability = "payable"
)

// ReadOnly reports whether the function may be dispatched as a static call.
func (m Mutability) ReadOnly() bool {
	return m == MutabilityPure || m == MutabilityView
}

// Entry is one callable function from the interface description.
type Entry struct {
	Name            string
	Inputs          []Param
	Outputs         []Param
	StateMutability Mutability
}

// Skipped records a non-function entry that generation ignores.
type Skipped struct {
	Kind string
	Name string
}

// Document is the parsed interface description, declaration order preserved.
type Document struct {
	Functions []Entry
	Skipped   []Skipped
}

// ParseError reports a malformed function entry: a missing required field,
// an unparseable shape, or an out-of-grammar detail that is not a type tag.
type ParseError struct {
	Entry string // function name, or a positional label for unnamed entries
	Field string // offending field, with parameter path for nested shapes
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("abi: entry %s: %s: %s", e.Entry, e.Field, e.Msg)
}

// UnknownTypeError reports a type string outside the supported grammar.
type UnknownTypeError struct {
	Entry string
	Path  string // parameter path, e.g. inputs[1].components[0]
	Type  string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("abi: entry %s: %s: unknown type %q", e.Entry, e.Path, e.Type)
}

type rawParam struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Components []rawParam `json:"components"`
}

type rawEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Inputs          []rawParam `json:"inputs"`
	Outputs         []rawParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// Parse decodes a raw ABI JSON document (an array of entry objects).
// The result is a pure function of the input; entry order is preserved.
func Parse(data []byte) (*Document, error) {
	var raw []rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Entry: "<document>", Field: "<root>", Msg: fmt.Sprintf("invalid ABI JSON: %v", err)}
	}

	doc := &Document{}
	for i, re := range raw {
		if re.Type != "function" {
			switch re.Type {
			case "event", "error", "constructor", "fallback", "receive":
				doc.Skipped = append(doc.Skipped, Skipped{Kind: re.Type, Name: re.Name})
				continue
			case "":
				return nil, &ParseError{Entry: entryLabel(re.Name, i), Field: "type", Msg: "missing entry kind"}
			default:
				return nil, &ParseError{Entry: entryLabel(re.Name, i), Field: "type", Msg: fmt.Sprintf("unsupported entry kind %q", re.Type)}
			}
		}
		entry, err := parseFunction(re, i)
		if err != nil {
			return nil, err
		}
		doc.Functions = append(doc.Functions, entry)
	}
	return doc, nil
}

func entryLabel(name string, index int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("#%d", index)
}

func parseFunction(re rawEntry, index int) (Entry, error) {
	if re.Name == "" {
		return Entry{}, &ParseError{Entry: entryLabel("", index), Field: "name", Msg: "function entry is missing a name"}
	}

	mut := Mutability(re.StateMutability)
	switch mut {
	case MutabilityPure, MutabilityView, MutabilityNonPayable, MutabilityPayable:
	case "":
		// Older toolchains omit the field; treat as a state-changing call.
		mut = MutabilityNonPayable
	default:
		return Entry{}, &ParseError{Entry: re.Name, Field: "stateMutability", Msg: fmt.Sprintf("unsupported value %q", re.StateMutability)}
	}

	inputs, err := parseParams(re.Name, "inputs", re.Inputs)
	if err != nil {
		return Entry{}, err
	}
	outputs, err := parseParams(re.Name, "outputs", re.Outputs)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:            re.Name,
		Inputs:          inputs,
		Outputs:         outputs,
		StateMutability: mut,
	}, nil
}

func parseParams(entry, path string, raw []rawParam) ([]Param, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make([]Param, 0, len(raw))
	for i, rp := range raw {
		p, err := parseParam(entry, fmt.Sprintf("%s[%d]", path, i), rp)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func parseParam(entry, path string, rp rawParam) (Param, error) {
	if rp.Type == "" {
		return Param{}, &ParseError{Entry: entry, Field: path, Msg: "parameter is missing a type"}
	}
	t, err := parseTypeString(entry, path, rp.Type, rp.Components)
	if err != nil {
		return Param{}, err
	}
	return Param{Name: rp.Name, Type: t}, nil
}

// parseTypeString splits a type string into its base and array-suffix chain,
// then builds the descriptor inside-out: the leftmost suffix binds tightest,
// so uint256[2][] is a dynamic array of uint256[2].
func parseTypeString(entry, path, typ string, components []rawParam) (Type, error) {
	base := typ
	var suffixes string
	if i := strings.IndexByte(typ, '['); i >= 0 {
		base, suffixes = typ[:i], typ[i:]
	}

	var t Type
	switch {
	case base == "tuple":
		if len(components) == 0 {
			return Type{}, &ParseError{Entry: entry, Field: path, Msg: "tuple type without components"}
		}
		fields := make([]Param, 0, len(components))
		for i, rc := range components {
			f, err := parseParam(entry, fmt.Sprintf("%s.components[%d]", path, i), rc)
			if err != nil {
				return Type{}, err
			}
			fields = append(fields, f)
		}
		t = Type{Kind: KindTuple, Components: fields}
	default:
		if len(components) != 0 {
			return Type{}, &ParseError{Entry: entry, Field: path, Msg: fmt.Sprintf("components given for non-tuple type %q", typ)}
		}
		name, ok := normalizeElementary(base)
		if !ok {
			return Type{}, &UnknownTypeError{Entry: entry, Path: path, Type: typ}
		}
		t = Type{Kind: KindElementary, Name: name}
	}

	for suffixes != "" {
		end := strings.IndexByte(suffixes, ']')
		if suffixes[0] != '[' || end < 0 {
			return Type{}, &UnknownTypeError{Entry: entry, Path: path, Type: typ}
		}
		inner := suffixes[1:end]
		suffixes = suffixes[end+1:]

		length := DynamicLen
		if inner != "" {
			n, err := strconv.ParseUint(inner, 10, 32)
			if err != nil || n == 0 || strconv.FormatUint(n, 10) != inner {
				return Type{}, &UnknownTypeError{Entry: entry, Path: path, Type: typ}
			}
			length, err = safecast.Convert[int](n)
			if err != nil {
				return Type{}, &UnknownTypeError{Entry: entry, Path: path, Type: typ}
			}
		}
		elem := t
		t = Type{Kind: KindArray, Elem: &elem, Len: length}
	}
	return t, nil
}
