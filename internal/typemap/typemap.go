// Package typemap converts ABI type descriptors into Go type expressions
// for the generated bindings, plus the runtime type-mirror and zero-value
// expressions the emitter needs alongside them.
//
// The mapping is table-driven and total over the supported grammar; any
// shape outside it fails with UnsupportedTypeError instead of emitting
// best-effort-wrong code.
package typemap

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"abibind/internal/abi"
)

// UnsupportedTypeError reports a type shape the mapper has no entry for.
type UnsupportedTypeError struct {
	Entry string
	Path  string
	Shape string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("typemap: entry %s: %s: unsupported type %s", e.Entry, e.Path, e.Shape)
}

// elementary is one row of the mapping table for the suffix-free tags.
type elementary struct {
	goType  string
	runtime string
	zero    string
}

var elementaryTable = map[string]elementary{
	"address": {"runtime.Address", "runtime.AddressT()", "runtime.Address{}"},
	"bool":    {"bool", "runtime.Bool()", "false"},
	"string":  {"string", "runtime.String()", `""`},
	"bytes":   {"[]byte", "runtime.Bytes()", "nil"},
}

// Mapped bundles everything the emitter needs for one parameter type.
type Mapped struct {
	GoType  string // type expression, e.g. []*big.Int
	Runtime string // runtime mirror, e.g. runtime.SliceOf(runtime.Uint(256))
	Zero    string // zero literal for early returns, e.g. nil
	UsesBig bool   // whether the expression references math/big
}

// Map resolves one descriptor. entry and path are carried into errors only.
func Map(entry, path string, t *abi.Type) (Mapped, error) {
	switch t.Kind {
	case abi.KindElementary:
		return mapElementary(entry, path, t)
	case abi.KindArray:
		elem, err := Map(entry, path, t.Elem)
		if err != nil {
			return Mapped{}, err
		}
		if t.Len == abi.DynamicLen {
			return Mapped{
				GoType:  "[]" + elem.GoType,
				Runtime: "runtime.SliceOf(" + elem.Runtime + ")",
				Zero:    "nil",
				UsesBig: elem.UsesBig,
			}, nil
		}
		goType := fmt.Sprintf("[%d]%s", t.Len, elem.GoType)
		return Mapped{
			GoType:  goType,
			Runtime: fmt.Sprintf("runtime.ArrayOf(%d, %s)", t.Len, elem.Runtime),
			Zero:    goType + "{}",
			UsesBig: elem.UsesBig,
		}, nil
	case abi.KindTuple:
		return mapTuple(entry, path, t)
	}
	return Mapped{}, &UnsupportedTypeError{Entry: entry, Path: path, Shape: t.Canonical()}
}

func mapElementary(entry, path string, t *abi.Type) (Mapped, error) {
	if row, ok := elementaryTable[t.Name]; ok {
		return Mapped{GoType: row.goType, Runtime: row.runtime, Zero: row.zero}, nil
	}
	if rest, ok := strings.CutPrefix(t.Name, "bytes"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > 32 {
			return Mapped{}, &UnsupportedTypeError{Entry: entry, Path: path, Shape: t.Canonical()}
		}
		goType := fmt.Sprintf("[%d]byte", n)
		return Mapped{
			GoType:  goType,
			Runtime: fmt.Sprintf("runtime.BytesN(%d)", n),
			Zero:    goType + "{}",
		}, nil
	}
	signed := false
	rest, ok := strings.CutPrefix(t.Name, "uint")
	if !ok {
		rest, ok = strings.CutPrefix(t.Name, "int")
		signed = true
	}
	if ok {
		bits, err := strconv.Atoi(rest)
		if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
			return Mapped{}, &UnsupportedTypeError{Entry: entry, Path: path, Shape: t.Canonical()}
		}
		ctor := "runtime.Uint"
		if signed {
			ctor = "runtime.Int"
		}
		m := Mapped{Runtime: fmt.Sprintf("%s(%d)", ctor, bits)}
		if bits > 64 {
			m.GoType, m.Zero, m.UsesBig = "*big.Int", "nil", true
			return m, nil
		}
		prefix := "uint"
		if signed {
			prefix = "int"
		}
		m.GoType = fmt.Sprintf("%s%d", prefix, intWidth(bits))
		m.Zero = "0"
		return m, nil
	}
	return Mapped{}, &UnsupportedTypeError{Entry: entry, Path: path, Shape: t.Canonical()}
}

// intWidth rounds a bit size up to the smallest Go integer width that fits.
func intWidth(bits int) int {
	switch {
	case bits <= 8:
		return 8
	case bits <= 16:
		return 16
	case bits <= 32:
		return 32
	default:
		return 64
	}
}

// mapTuple renders an inline anonymous struct with the components in order.
// Field names must be valid Go identifiers and pairwise distinct after the
// casing transform, or the generated struct would not compile.
func mapTuple(entry, path string, t *abi.Type) (Mapped, error) {
	var fields, mirrors []string
	seen := make(map[string]bool, len(t.Components))
	usesBig := false
	for i := range t.Components {
		comp := &t.Components[i]
		compPath := fmt.Sprintf("%s.components[%d]", path, i)
		m, err := Map(entry, compPath, &comp.Type)
		if err != nil {
			return Mapped{}, err
		}
		name := FieldName(comp.Name, i)
		if !validFieldName(name) || seen[name] {
			return Mapped{}, &UnsupportedTypeError{Entry: entry, Path: compPath, Shape: t.Canonical()}
		}
		seen[name] = true
		fields = append(fields, name+" "+m.GoType)
		mirrors = append(mirrors, m.Runtime)
		usesBig = usesBig || m.UsesBig
	}
	goType := "struct{ " + strings.Join(fields, "; ") + " }"
	return Mapped{
		GoType:  goType,
		Runtime: "runtime.TupleOf(" + strings.Join(mirrors, ", ") + ")",
		Zero:    goType + "{}",
		UsesBig: usesBig,
	}, nil
}

// FieldName derives the exported struct field for a tuple component:
// the declared name with its first rune upper-cased, or FieldN when the
// component is unnamed.
func FieldName(declared string, index int) string {
	if declared == "" {
		return "Field" + strconv.Itoa(index)
	}
	runes := []rune(declared)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func validFieldName(name string) bool {
	for i, r := range name {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return name != ""
}
