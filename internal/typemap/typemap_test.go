package typemap

import (
	"errors"
	"testing"

	"abibind/internal/abi"
)

func elem(name string) abi.Type {
	return abi.Type{Kind: abi.KindElementary, Name: name}
}

func slice(e abi.Type) abi.Type {
	return abi.Type{Kind: abi.KindArray, Elem: &e, Len: abi.DynamicLen}
}

func array(n int, e abi.Type) abi.Type {
	return abi.Type{Kind: abi.KindArray, Elem: &e, Len: n}
}

func TestMapElementary(t *testing.T) {
	cases := []struct {
		typ     abi.Type
		goType  string
		runtime string
		zero    string
		usesBig bool
	}{
		{elem("address"), "runtime.Address", "runtime.AddressT()", "runtime.Address{}", false},
		{elem("bool"), "bool", "runtime.Bool()", "false", false},
		{elem("string"), "string", "runtime.String()", `""`, false},
		{elem("bytes"), "[]byte", "runtime.Bytes()", "nil", false},
		{elem("bytes4"), "[4]byte", "runtime.BytesN(4)", "[4]byte{}", false},
		{elem("bytes32"), "[32]byte", "runtime.BytesN(32)", "[32]byte{}", false},
		{elem("uint8"), "uint8", "runtime.Uint(8)", "0", false},
		{elem("uint16"), "uint16", "runtime.Uint(16)", "0", false},
		{elem("uint24"), "uint32", "runtime.Uint(24)", "0", false},
		{elem("uint64"), "uint64", "runtime.Uint(64)", "0", false},
		{elem("uint128"), "*big.Int", "runtime.Uint(128)", "nil", true},
		{elem("uint256"), "*big.Int", "runtime.Uint(256)", "nil", true},
		{elem("int8"), "int8", "runtime.Int(8)", "0", false},
		{elem("int48"), "int64", "runtime.Int(48)", "0", false},
		{elem("int256"), "*big.Int", "runtime.Int(256)", "nil", true},
	}
	for _, tc := range cases {
		m, err := Map("f", "inputs[0]", &tc.typ)
		if err != nil {
			t.Fatalf("Map(%s): %v", tc.typ.Canonical(), err)
		}
		if m.GoType != tc.goType || m.Runtime != tc.runtime || m.Zero != tc.zero || m.UsesBig != tc.usesBig {
			t.Fatalf("Map(%s) = %+v", tc.typ.Canonical(), m)
		}
	}
}

func TestMapArrays(t *testing.T) {
	m, err := Map("f", "inputs[0]", &abi.Type{Kind: abi.KindArray, Elem: &abi.Type{Kind: abi.KindElementary, Name: "uint256"}, Len: abi.DynamicLen})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if m.GoType != "[]*big.Int" || m.Runtime != "runtime.SliceOf(runtime.Uint(256))" || m.Zero != "nil" || !m.UsesBig {
		t.Fatalf("slice = %+v", m)
	}

	fixed := array(3, elem("address"))
	m, err = Map("f", "inputs[0]", &fixed)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if m.GoType != "[3]runtime.Address" || m.Runtime != "runtime.ArrayOf(3, runtime.AddressT())" || m.Zero != "[3]runtime.Address{}" {
		t.Fatalf("array = %+v", m)
	}

	nested := slice(array(2, elem("uint256")))
	m, err = Map("f", "inputs[0]", &nested)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if m.GoType != "[][2]*big.Int" || m.Runtime != "runtime.SliceOf(runtime.ArrayOf(2, runtime.Uint(256)))" {
		t.Fatalf("nested = %+v", m)
	}
}

func TestMapTuple(t *testing.T) {
	typ := abi.Type{
		Kind: abi.KindTuple,
		Components: []abi.Param{
			{Name: "maker", Type: elem("address")},
			{Name: "amount", Type: elem("uint256")},
			{Type: elem("bool")},
		},
	}
	m, err := Map("f", "inputs[0]", &typ)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	wantGo := "struct{ Maker runtime.Address; Amount *big.Int; Field2 bool }"
	if m.GoType != wantGo {
		t.Fatalf("GoType = %q, want %q", m.GoType, wantGo)
	}
	wantRuntime := "runtime.TupleOf(runtime.AddressT(), runtime.Uint(256), runtime.Bool())"
	if m.Runtime != wantRuntime {
		t.Fatalf("Runtime = %q", m.Runtime)
	}
	if m.Zero != wantGo+"{}" {
		t.Fatalf("Zero = %q", m.Zero)
	}
	if !m.UsesBig {
		t.Fatal("tuple with uint256 must report UsesBig")
	}
}

func TestMapUnsupported(t *testing.T) {
	bad := elem("uint7")
	_, err := Map("f", "inputs[2]", &bad)
	var uerr *UnsupportedTypeError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if uerr.Entry != "f" || uerr.Path != "inputs[2]" || uerr.Shape != "uint7" {
		t.Fatalf("error = %+v", uerr)
	}

	// The path grows into nested components.
	tup := abi.Type{Kind: abi.KindTuple, Components: []abi.Param{{Name: "x", Type: elem("fixed128x18")}}}
	_, err = Map("f", "inputs[0]", &tup)
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
	if uerr.Path != "inputs[0].components[0]" {
		t.Fatalf("path = %q", uerr.Path)
	}
}

// Components whose transformed field names collide (or are not valid Go
// identifiers) would emit a struct that cannot compile; the mapper must
// reject them instead.
func TestMapTupleFieldCollisions(t *testing.T) {
	cases := []struct {
		name       string
		components []abi.Param
		path       string
	}{
		{
			"case-insensitive duplicate",
			[]abi.Param{
				{Name: "foo", Type: elem("bool")},
				{Name: "Foo", Type: elem("bool")},
			},
			"inputs[0].components[1]",
		},
		{
			"declared name shadows positional",
			[]abi.Param{
				{Name: "Field1", Type: elem("bool")},
				{Type: elem("bool")},
			},
			"inputs[0].components[1]",
		},
		{
			"non-identifier characters",
			[]abi.Param{
				{Name: "with-dash", Type: elem("bool")},
			},
			"inputs[0].components[0]",
		},
		{
			"leading digit after transform",
			[]abi.Param{
				{Name: "1st", Type: elem("bool")},
			},
			"inputs[0].components[0]",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typ := abi.Type{Kind: abi.KindTuple, Components: tc.components}
			_, err := Map("f", "inputs[0]", &typ)
			var uerr *UnsupportedTypeError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected UnsupportedTypeError, got %v", err)
			}
			if uerr.Path != tc.path {
				t.Fatalf("path = %q, want %q", uerr.Path, tc.path)
			}
		})
	}
}

func TestFieldName(t *testing.T) {
	cases := []struct {
		declared string
		index    int
		want     string
	}{
		{"maker", 0, "Maker"},
		{"Amount", 1, "Amount"},
		{"", 2, "Field2"},
		{"x", 0, "X"},
	}
	for _, tc := range cases {
		if got := FieldName(tc.declared, tc.index); got != tc.want {
			t.Fatalf("FieldName(%q, %d) = %q, want %q", tc.declared, tc.index, got, tc.want)
		}
	}
}
