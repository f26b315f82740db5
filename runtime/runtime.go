// Package runtime is the execution-time collaborator for generated
// bindings: the value types they mention, the type mirror they describe
// their parameters with, the calldata codec, and the Caller interface the
// actual cross-contract invocation is delegated to.
//
// Nothing in this package runs during generation; the generator only emits
// references to it.
package runtime

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Address is a 20-byte account identifier.
type Address [20]byte

// Hex renders the address as 0x followed by 40 lowercase hex digits.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ParseAddress decodes a 0x-prefixed 40-digit hex address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, ok := strings.CutPrefix(s, "0x")
	if !ok || len(raw) != 40 {
		return a, fmt.Errorf("runtime: invalid address %q", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return a, fmt.Errorf("runtime: invalid address %q: %w", s, err)
	}
	copy(a[:], b)
	return a, nil
}

// Caller dispatches one encoded cross-contract call. Implementations live
// with the host environment (node RPC, VM host functions, test doubles).
type Caller interface {
	// Call executes a state-changing call. value is the attached payment
	// for payable functions; nil means zero.
	Call(ctx context.Context, addr Address, value *big.Int, calldata []byte) ([]byte, error)
	// StaticCall executes a read-only call (view/pure functions).
	StaticCall(ctx context.Context, addr Address, calldata []byte) ([]byte, error)
}

// TypeKind discriminates the runtime type mirror.
type TypeKind uint8

const (
	KindUint TypeKind = iota
	KindInt
	KindAddress
	KindBool
	KindBytesN
	KindBytes
	KindString
	KindSlice
	KindArray
	KindTuple
)

// Type mirrors the ABI type grammar at execution time; generated code
// builds these with the constructor functions below.
type Type struct {
	Kind   TypeKind
	Bits   int // KindUint, KindInt
	Size   int // KindBytesN, KindArray
	Elem   *Type
	Fields []Type
}

func Uint(bits int) Type     { return Type{Kind: KindUint, Bits: bits} }
func Int(bits int) Type      { return Type{Kind: KindInt, Bits: bits} }
func AddressT() Type         { return Type{Kind: KindAddress} }
func Bool() Type             { return Type{Kind: KindBool} }
func BytesN(n int) Type      { return Type{Kind: KindBytesN, Size: n} }
func Bytes() Type            { return Type{Kind: KindBytes} }
func String() Type           { return Type{Kind: KindString} }
func SliceOf(elem Type) Type { return Type{Kind: KindSlice, Elem: &elem} }

func ArrayOf(n int, elem Type) Type {
	return Type{Kind: KindArray, Size: n, Elem: &elem}
}

func TupleOf(fields ...Type) Type {
	return Type{Kind: KindTuple, Fields: fields}
}

// dynamic reports whether the encoding of the type lives in the tail
// section behind an offset word.
func (t *Type) dynamic() bool {
	switch t.Kind {
	case KindBytes, KindString, KindSlice:
		return true
	case KindArray:
		return t.Elem.dynamic()
	case KindTuple:
		for i := range t.Fields {
			if t.Fields[i].dynamic() {
				return true
			}
		}
	}
	return false
}

// headSize is the number of bytes the type occupies in the head section:
// one offset word when dynamic, the full static encoding otherwise.
func (t *Type) headSize() int {
	if t.dynamic() {
		return wordSize
	}
	switch t.Kind {
	case KindArray:
		return t.Size * t.Elem.headSize()
	case KindTuple:
		n := 0
		for i := range t.Fields {
			n += t.Fields[i].headSize()
		}
		return n
	}
	return wordSize
}
