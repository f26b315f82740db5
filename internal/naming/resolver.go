package naming

import (
	"fmt"

	"abibind/internal/abi"
	"abibind/internal/selector"
)

// Binding is the resolved, collision-checked name of one function entry.
type Binding struct {
	Entry      *abi.Entry
	Signature  string // canonical signature, e.g. transfer(address,uint256)
	Selector   selector.Selector
	Identifier string // e.g. transfer__0xa9059cbb
}

// DuplicateSelectorError is fatal: two distinct canonical signatures hashed
// to the same 4-byte selector. Emission must never proceed past this.
type DuplicateSelectorError struct {
	Selector selector.Selector
	First    string
	Second   string
}

func (e *DuplicateSelectorError) Error() string {
	return fmt.Sprintf("naming: selector %s collides between %s and %s",
		e.Selector.Hex(), e.First, e.Second)
}

// DuplicateIdentifierError is fatal: the naming transform produced the same
// identifier for two entries despite unique selectors. This only fires on a
// transform bug or an exact duplicate entry; it exists as defense in depth.
type DuplicateIdentifierError struct {
	Identifier string
	First      string
	Second     string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("naming: identifier %s derived for both %s and %s",
		e.Identifier, e.First, e.Second)
}

// Resolver tracks selector and identifier uniqueness across one generated
// module. Built fresh per run, discarded afterwards; never shared.
type Resolver struct {
	bySelector map[selector.Selector]string
	byIdent    map[string]string
	bindings   []Binding
}

func NewResolver() *Resolver {
	return &Resolver{
		bySelector: make(map[selector.Selector]string),
		byIdent:    make(map[string]string),
	}
}

// Resolve canonicalizes, hashes and names one entry, recording it in the
// module-wide maps. The first collision halts resolution; nothing is ever
// silently overwritten.
func (r *Resolver) Resolve(e *abi.Entry) (Binding, error) {
	sig, sel := selector.ForEntry(e)

	if prev, ok := r.bySelector[sel]; ok && prev != sig {
		return Binding{}, &DuplicateSelectorError{Selector: sel, First: prev, Second: sig}
	}

	ident := Escape(SnakeCase(e.Name)) + "__" + sel.Hex()
	if prev, ok := r.byIdent[ident]; ok {
		return Binding{}, &DuplicateIdentifierError{Identifier: ident, First: prev, Second: sig}
	}

	r.bySelector[sel] = sig
	r.byIdent[ident] = sig

	b := Binding{Entry: e, Signature: sig, Selector: sel, Identifier: ident}
	r.bindings = append(r.bindings, b)
	return b, nil
}

// Bindings returns every resolved binding in declaration order.
func (r *Resolver) Bindings() []Binding {
	return r.bindings
}
