// Package driver wires the generation pipeline together: parse, per-entry
// selector derivation, the module-wide collision barrier, type mapping and
// emission. One run is a pure function of its input; nothing persists
// between runs.
package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"abibind/internal/abi"
	"abibind/internal/diag"
	"abibind/internal/emit"
	"abibind/internal/naming"
	"abibind/internal/typemap"
)

// Options configure one generation run.
type Options struct {
	// PackageName is the package clause of the generated file.
	PackageName string
	// RuntimePath overrides the runtime collaborator import path.
	RuntimePath string
	// Source names the input document in the generated header.
	Source string
	// MaxDiagnostics bounds the diagnostic bag (default 100).
	MaxDiagnostics int
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

// Result is the outcome of one run. Bag is always populated; Source is nil
// when the run failed.
type Result struct {
	Source   []byte
	Bindings []naming.Binding
	Skipped  []abi.Skipped
	Bag      *diag.Bag
}

// Generate runs the whole pipeline over an in-memory ABI document.
//
// The naming pass completes for every entry before emission begins: a
// collision anywhere aborts the run with no output at all.
func Generate(input []byte, opts Options) (*Result, error) {
	res := &Result{Bag: diag.NewBag(opts.maxDiagnostics())}

	doc, err := abi.Parse(input)
	if err != nil {
		res.Bag.Add(toDiagnostic(err))
		return res, err
	}
	res.Skipped = doc.Skipped
	for _, sk := range doc.Skipped {
		res.Bag.Add(diag.NewInfo(diag.AbiSkippedEntry, diag.Ref{Entry: sk.Name},
			fmt.Sprintf("skipped non-function entry of kind %q", sk.Kind)))
	}

	resolver := naming.NewResolver()
	for i := range doc.Functions {
		if _, err := resolver.Resolve(&doc.Functions[i]); err != nil {
			res.Bag.Add(toDiagnostic(err))
			return res, err
		}
	}
	res.Bindings = resolver.Bindings()

	src, err := emit.Module(doc, res.Bindings, emit.Options{
		PackageName: opts.PackageName,
		Source:      opts.Source,
		RuntimePath: opts.RuntimePath,
	})
	if err != nil {
		res.Bag.Add(toDiagnostic(err))
		return res, err
	}
	res.Source = src
	return res, nil
}

// GenerateFile reads an ABI document and writes the generated module.
// The output is written to a temporary file and renamed into place, so a
// failing run never leaves a partial or corrupt output file behind.
func GenerateFile(inPath, outPath string, opts Options) (*Result, error) {
	input, err := os.ReadFile(inPath)
	if err != nil {
		res := &Result{Bag: diag.NewBag(opts.maxDiagnostics())}
		res.Bag.Add(diag.NewError(diag.AbiInvalidJSON, diag.Ref{}, err.Error()))
		return res, err
	}
	if opts.Source == "" {
		opts.Source = filepath.Base(inPath)
	}

	res, err := Generate(input, opts)
	if err != nil {
		return res, err
	}

	if err := writeAtomic(outPath, res.Source); err != nil {
		res.Bag.Add(diag.NewError(diag.GenWriteFailed, diag.Ref{}, err.Error()))
		return res, err
	}
	return res, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// toDiagnostic maps the typed pipeline errors onto diagnostic codes so
// every failure reports the entry and parameter path that caused it.
func toDiagnostic(err error) diag.Diagnostic {
	var parseErr *abi.ParseError
	if errors.As(err, &parseErr) {
		code := diag.AbiBadShape
		if parseErr.Field == "<root>" {
			code = diag.AbiInvalidJSON
		}
		return diag.NewError(code, diag.Ref{Entry: parseErr.Entry, Path: parseErr.Field}, parseErr.Msg)
	}
	var unknownErr *abi.UnknownTypeError
	if errors.As(err, &unknownErr) {
		return diag.NewError(diag.AbiUnknownType,
			diag.Ref{Entry: unknownErr.Entry, Path: unknownErr.Path},
			fmt.Sprintf("unknown type %q", unknownErr.Type))
	}
	var selErr *naming.DuplicateSelectorError
	if errors.As(err, &selErr) {
		return diag.NewError(diag.NameDuplicateSelector, diag.Ref{Entry: selErr.Second},
			fmt.Sprintf("selector %s collides with %s", selErr.Selector.Hex(), selErr.First))
	}
	var identErr *naming.DuplicateIdentifierError
	if errors.As(err, &identErr) {
		return diag.NewError(diag.NameDuplicateIdentifier, diag.Ref{Entry: identErr.Second},
			fmt.Sprintf("identifier %s already derived for %s", identErr.Identifier, identErr.First))
	}
	var mapErr *typemap.UnsupportedTypeError
	if errors.As(err, &mapErr) {
		return diag.NewError(diag.MapUnsupportedType,
			diag.Ref{Entry: mapErr.Entry, Path: mapErr.Path},
			fmt.Sprintf("unsupported type %s", mapErr.Shape))
	}
	return diag.NewError(diag.UnknownCode, diag.Ref{}, err.Error())
}
