// Package emit renders the generated binding module as Go source text.
//
// Emission is byte-for-byte deterministic for a fixed input document and
// mapper configuration: binding order follows declaration order, imports
// are fixed, and no map iteration feeds the output. The golden fixtures
// under internal/driver/testdata depend on this.
package emit

import (
	"fmt"
	"strings"

	"abibind/internal/abi"
	"abibind/internal/naming"
	"abibind/internal/typemap"
)

// Options configure one emission run.
type Options struct {
	// PackageName is the package clause of the generated file.
	PackageName string
	// Source, when set, names the input document in the file header.
	Source string
	// RuntimePath is the import path of the runtime collaborator package.
	RuntimePath string
}

const (
	defaultPackageName = "bindings"
	defaultRuntimePath = "abibind/runtime"
)

func (o Options) withDefaults() Options {
	if o.PackageName == "" {
		o.PackageName = defaultPackageName
	}
	if o.RuntimePath == "" {
		o.RuntimePath = defaultRuntimePath
	}
	return o
}

// param is one rendered input or output.
type param struct {
	name   string
	mapped typemap.Mapped
}

// fn is one fully mapped binding, ready to render.
type fn struct {
	binding naming.Binding
	inputs  []param
	outputs []param
	payable bool
	static  bool
}

// Module renders the whole generated file. bindings must be the resolver's
// output for doc.Functions, in order; the caller guarantees the collision
// pass completed for every entry before emission starts.
func Module(doc *abi.Document, bindings []naming.Binding, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if len(bindings) != len(doc.Functions) {
		return nil, fmt.Errorf("emit: %d bindings for %d functions", len(bindings), len(doc.Functions))
	}

	fns := make([]fn, 0, len(bindings))
	usesBig := false
	for i := range bindings {
		f, err := mapFunction(&doc.Functions[i], bindings[i])
		if err != nil {
			return nil, err
		}
		for _, p := range f.inputs {
			usesBig = usesBig || p.mapped.UsesBig
		}
		for _, p := range f.outputs {
			usesBig = usesBig || p.mapped.UsesBig
		}
		usesBig = usesBig || f.payable
		fns = append(fns, f)
	}

	var b strings.Builder
	writeHeader(&b, opts, len(fns) > 0, usesBig)
	writeContract(&b)
	for i := range fns {
		writeFunction(&b, &fns[i])
	}
	return []byte(b.String()), nil
}

func mapFunction(e *abi.Entry, binding naming.Binding) (fn, error) {
	f := fn{
		binding: binding,
		payable: e.StateMutability == abi.MutabilityPayable,
		static:  e.StateMutability.ReadOnly(),
	}
	for i := range e.Inputs {
		in := &e.Inputs[i]
		m, err := typemap.Map(e.Name, fmt.Sprintf("inputs[%d]", i), &in.Type)
		if err != nil {
			return fn{}, err
		}
		f.inputs = append(f.inputs, param{name: naming.ParamName(in.Name, i), mapped: m})
	}
	for i := range e.Outputs {
		out := &e.Outputs[i]
		m, err := typemap.Map(e.Name, fmt.Sprintf("outputs[%d]", i), &out.Type)
		if err != nil {
			return fn{}, err
		}
		f.outputs = append(f.outputs, param{name: fmt.Sprintf("out%d", i), mapped: m})
	}
	return f, nil
}

func writeHeader(b *strings.Builder, opts Options, hasFns, usesBig bool) {
	b.WriteString("// Code generated by abibind. DO NOT EDIT.\n")
	if opts.Source != "" {
		b.WriteString("//\n// Source: " + opts.Source + "\n")
	}
	b.WriteString("\npackage " + opts.PackageName + "\n\n")
	if !hasFns {
		// Contract handle only; no method imports context or big.
		b.WriteString("import (\n\t\"" + opts.RuntimePath + "\"\n)\n")
		return
	}
	b.WriteString("import (\n")
	b.WriteString("\t\"context\"\n")
	if usesBig {
		b.WriteString("\t\"math/big\"\n")
	}
	b.WriteString("\n\t\"" + opts.RuntimePath + "\"\n")
	b.WriteString(")\n")
}

func writeContract(b *strings.Builder) {
	b.WriteString(`
// Contract is a typed handle to one deployed external contract.
type Contract struct {
	Address runtime.Address
	Caller  runtime.Caller
}

// NewContract binds the interface to a contract address.
func NewContract(address runtime.Address, caller runtime.Caller) Contract {
	return Contract{Address: address, Caller: caller}
}
`)
}

func writeFunction(b *strings.Builder, f *fn) {
	b.WriteString("\n// Original: " + f.binding.Signature + "\n")
	b.WriteString("func (c Contract) " + f.binding.Identifier + "(")
	b.WriteString("ctx context.Context")
	if f.payable {
		b.WriteString(", callValue *big.Int")
	}
	for i := range f.inputs {
		b.WriteString(", " + f.inputs[i].name + " " + f.inputs[i].mapped.GoType)
	}
	b.WriteString(") " + returnTypes(f.outputs) + " {\n")

	writePack(b, f)
	writeCall(b, f)
	writeUnpack(b, f)

	b.WriteString("}\n")
}

func returnTypes(outputs []param) string {
	if len(outputs) == 0 {
		return "error"
	}
	parts := make([]string, 0, len(outputs)+1)
	for i := range outputs {
		parts = append(parts, outputs[i].mapped.GoType)
	}
	parts = append(parts, "error")
	return "(" + strings.Join(parts, ", ") + ")"
}

// zeroReturn renders the early-return statement for an error err expression.
func zeroReturn(outputs []param, errExpr string) string {
	if len(outputs) == 0 {
		return "return " + errExpr
	}
	parts := make([]string, 0, len(outputs)+1)
	for i := range outputs {
		parts = append(parts, outputs[i].mapped.Zero)
	}
	parts = append(parts, errExpr)
	return "return " + strings.Join(parts, ", ")
}

func writePack(b *strings.Builder, f *fn) {
	b.WriteString("\tcalldata, err := runtime.Pack(" + selectorLiteral(f.binding.Selector[:]))
	if len(f.inputs) == 0 {
		b.WriteString(", nil)\n")
	} else {
		mirrors := make([]string, 0, len(f.inputs))
		names := make([]string, 0, len(f.inputs))
		for i := range f.inputs {
			mirrors = append(mirrors, f.inputs[i].mapped.Runtime)
			names = append(names, f.inputs[i].name)
		}
		b.WriteString(", []runtime.Type{" + strings.Join(mirrors, ", ") + "}, " + strings.Join(names, ", ") + ")\n")
	}
	b.WriteString("\tif err != nil {\n\t\t" + zeroReturn(f.outputs, "err") + "\n\t}\n")
}

func writeCall(b *strings.Builder, f *fn) {
	call := "c.Caller.Call(ctx, c.Address, nil, calldata)"
	if f.static {
		call = "c.Caller.StaticCall(ctx, c.Address, calldata)"
	} else if f.payable {
		call = "c.Caller.Call(ctx, c.Address, callValue, calldata)"
	}
	if len(f.outputs) == 0 {
		b.WriteString("\t_, err = " + call + "\n\treturn err\n")
		return
	}
	b.WriteString("\tret, err := " + call + "\n")
	b.WriteString("\tif err != nil {\n\t\t" + zeroReturn(f.outputs, "err") + "\n\t}\n")
}

func writeUnpack(b *strings.Builder, f *fn) {
	if len(f.outputs) == 0 {
		return
	}
	mirrors := make([]string, 0, len(f.outputs))
	targets := make([]string, 0, len(f.outputs))
	results := make([]string, 0, len(f.outputs)+1)
	for i := range f.outputs {
		out := &f.outputs[i]
		b.WriteString("\tvar " + out.name + " " + out.mapped.GoType + "\n")
		mirrors = append(mirrors, out.mapped.Runtime)
		targets = append(targets, "&"+out.name)
		results = append(results, out.name)
	}
	b.WriteString("\tif err := runtime.Unpack([]runtime.Type{" + strings.Join(mirrors, ", ") + "}, ret, " + strings.Join(targets, ", ") + "); err != nil {\n")
	b.WriteString("\t\t" + zeroReturn(f.outputs, "err") + "\n\t}\n")
	results = append(results, "nil")
	b.WriteString("\treturn " + strings.Join(results, ", ") + "\n")
}

func selectorLiteral(sel []byte) string {
	parts := make([]string, len(sel))
	for i, bb := range sel {
		parts[i] = fmt.Sprintf("0x%02x", bb)
	}
	return "[4]byte{" + strings.Join(parts, ", ") + "}"
}
