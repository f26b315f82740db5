package abi

import (
	"errors"
	"testing"
)

func TestParseFunctionEntry(t *testing.T) {
	doc, err := Parse([]byte(`[
		{
			"type": "function",
			"name": "transfer",
			"stateMutability": "nonpayable",
			"inputs": [
				{"name": "to", "type": "address"},
				{"name": "amount", "type": "uint256"}
			],
			"outputs": [{"name": "", "type": "bool"}]
		}
	]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(doc.Functions))
	}
	fn := doc.Functions[0]
	if fn.Name != "transfer" {
		t.Fatalf("name = %q", fn.Name)
	}
	if fn.StateMutability != MutabilityNonPayable {
		t.Fatalf("mutability = %q", fn.StateMutability)
	}
	if len(fn.Inputs) != 2 || len(fn.Outputs) != 1 {
		t.Fatalf("inputs/outputs = %d/%d", len(fn.Inputs), len(fn.Outputs))
	}
	if got := fn.Inputs[1].Type.Canonical(); got != "uint256" {
		t.Fatalf("inputs[1] canonical = %q", got)
	}
}

func TestParseSkipsNonFunctionEntries(t *testing.T) {
	doc, err := Parse([]byte(`[
		{"type": "constructor", "inputs": []},
		{"type": "event", "name": "Transfer", "inputs": []},
		{"type": "error", "name": "Unauthorized", "inputs": []},
		{"type": "fallback", "stateMutability": "payable"},
		{"type": "receive", "stateMutability": "payable"},
		{"type": "function", "name": "ping", "stateMutability": "pure", "inputs": [], "outputs": []}
	]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Functions) != 1 || doc.Functions[0].Name != "ping" {
		t.Fatalf("functions = %+v", doc.Functions)
	}
	wantKinds := []string{"constructor", "event", "error", "fallback", "receive"}
	if len(doc.Skipped) != len(wantKinds) {
		t.Fatalf("skipped = %+v", doc.Skipped)
	}
	for i, k := range wantKinds {
		if doc.Skipped[i].Kind != k {
			t.Fatalf("skipped[%d] = %+v, want kind %q", i, doc.Skipped[i], k)
		}
	}
	if doc.Skipped[1].Name != "Transfer" {
		t.Fatalf("skipped[1].Name = %q", doc.Skipped[1].Name)
	}
}

func TestParseMissingMutabilityDefaultsNonPayable(t *testing.T) {
	doc, err := Parse([]byte(`[{"type": "function", "name": "poke", "inputs": [], "outputs": []}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := doc.Functions[0].StateMutability; got != MutabilityNonPayable {
		t.Fatalf("mutability = %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		field string
	}{
		{"invalid json", `{`, "<root>"},
		{"not an array", `{"type": "function"}`, "<root>"},
		{"missing name", `[{"type": "function", "inputs": []}]`, "name"},
		{"missing entry kind", `[{"name": "x"}]`, "type"},
		{"unsupported entry kind", `[{"type": "struct", "name": "x"}]`, "type"},
		{"bad mutability", `[{"type": "function", "name": "x", "stateMutability": "static"}]`, "stateMutability"},
		{"param without type", `[{"type": "function", "name": "x", "inputs": [{"name": "a"}]}]`, "inputs[0]"},
		{"tuple without components", `[{"type": "function", "name": "x", "inputs": [{"name": "a", "type": "tuple"}]}]`, "inputs[0]"},
		{"components on elementary", `[{"type": "function", "name": "x", "inputs": [{"type": "uint256", "components": [{"type": "bool"}]}]}]`, "inputs[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Field != tc.field {
				t.Fatalf("field = %q, want %q", perr.Field, tc.field)
			}
		})
	}
}

func TestParseUnknownTypes(t *testing.T) {
	cases := []struct {
		name string
		typ  string
	}{
		{"uint7", "uint7"},
		{"uint0", "uint0"},
		{"uint264", "uint264"},
		{"bytes0", "bytes0"},
		{"bytes33", "bytes33"},
		{"padded width", "uint08"},
		{"zero array length", "uint256[0]"},
		{"padded array length", "uint256[01]"},
		{"unterminated suffix", "uint256["},
		{"garbage", "mapping"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := `[{"type": "function", "name": "x", "inputs": [{"name": "a", "type": "` + tc.typ + `"}]}]`
			_, err := Parse([]byte(input))
			var uerr *UnknownTypeError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected UnknownTypeError for %q, got %v", tc.typ, err)
			}
			if uerr.Path != "inputs[0]" {
				t.Fatalf("path = %q", uerr.Path)
			}
		})
	}
}

func TestParseTypeCanonicalization(t *testing.T) {
	cases := []struct {
		typ  string
		want string
	}{
		{"uint", "uint256"},
		{"int", "int256"},
		{"uint8", "uint8"},
		{"bytes32", "bytes32"},
		{"address[]", "address[]"},
		{"uint256[3]", "uint256[3]"},
		{"uint256[2][]", "uint256[2][]"},
		{"uint[4]", "uint256[4]"},
	}
	for _, tc := range cases {
		input := `[{"type": "function", "name": "x", "inputs": [{"name": "a", "type": "` + tc.typ + `"}]}]`
		doc, err := Parse([]byte(input))
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.typ, err)
		}
		if got := doc.Functions[0].Inputs[0].Type.Canonical(); got != tc.want {
			t.Fatalf("canonical(%q) = %q, want %q", tc.typ, got, tc.want)
		}
	}
}

// uint256[2][] is a dynamic array of fixed two-element arrays: the leftmost
// suffix binds to the base type.
func TestArraySuffixBinding(t *testing.T) {
	doc, err := Parse([]byte(`[{"type": "function", "name": "x", "inputs": [{"name": "a", "type": "uint256[2][]"}]}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	typ := doc.Functions[0].Inputs[0].Type
	if typ.Kind != KindArray || typ.Len != DynamicLen {
		t.Fatalf("outer = %+v", typ)
	}
	if typ.Elem.Kind != KindArray || typ.Elem.Len != 2 {
		t.Fatalf("inner = %+v", typ.Elem)
	}
	if typ.Elem.Elem.Name != "uint256" {
		t.Fatalf("base = %+v", typ.Elem.Elem)
	}
}

func TestParseTupleComponents(t *testing.T) {
	doc, err := Parse([]byte(`[{
		"type": "function",
		"name": "submit",
		"stateMutability": "nonpayable",
		"inputs": [{
			"name": "orders",
			"type": "tuple[]",
			"components": [
				{"name": "maker", "type": "address"},
				{"name": "amount", "type": "uint256"}
			]
		}],
		"outputs": []
	}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	typ := doc.Functions[0].Inputs[0].Type
	if got := typ.Canonical(); got != "(address,uint256)[]" {
		t.Fatalf("canonical = %q", got)
	}
	if typ.Elem.Components[0].Name != "maker" {
		t.Fatalf("component name = %q", typ.Elem.Components[0].Name)
	}
}

func TestNestedTupleError(t *testing.T) {
	_, err := Parse([]byte(`[{
		"type": "function",
		"name": "x",
		"inputs": [{
			"type": "tuple",
			"components": [{
				"name": "inner",
				"type": "tuple",
				"components": [{"name": "bad", "type": "uint7"}]
			}]
		}]
	}]`))
	var uerr *UnknownTypeError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnknownTypeError, got %v", err)
	}
	if uerr.Path != "inputs[0].components[0].components[0]" {
		t.Fatalf("path = %q", uerr.Path)
	}
}

func TestMutabilityReadOnly(t *testing.T) {
	if !MutabilityPure.ReadOnly() || !MutabilityView.ReadOnly() {
		t.Fatal("pure and view must be read-only")
	}
	if MutabilityNonPayable.ReadOnly() || MutabilityPayable.ReadOnly() {
		t.Fatal("nonpayable and payable must not be read-only")
	}
}
