// Package selector derives 4-byte call selectors from canonical function
// signatures. The signature rendering must match the keccak canonicalization
// standard exactly; any divergence corrupts every downstream selector.
package selector

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"abibind/internal/abi"
)

// Selector is the first 4 bytes of keccak256(canonical signature).
type Selector [4]byte

// Hex renders the selector as 0x followed by 8 lowercase hex digits.
// This rendering is part of the stable naming contract.
func (s Selector) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// Bare renders the selector as 8 lowercase hex digits without the 0x prefix.
func (s Selector) Bare() string {
	return hex.EncodeToString(s[:])
}

// Signature renders the canonical signature of a function entry:
// name plus the parenthesized list of input types only, no parameter names,
// no outputs, tuples and arrays preserved recursively.
func Signature(e *abi.Entry) string {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteByte('(')
	for i := range e.Inputs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e.Inputs[i].Type.Canonical())
	}
	b.WriteByte(')')
	return b.String()
}

// FromSignature hashes a canonical signature over its UTF-8 bytes and
// truncates to the selector.
func FromSignature(sig string) Selector {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	var sel Selector
	copy(sel[:], h.Sum(nil)[:4])
	return sel
}

// ForEntry is the composed per-entry derivation: canonicalize, hash, truncate.
func ForEntry(e *abi.Entry) (string, Selector) {
	sig := Signature(e)
	return sig, FromSignature(sig)
}
