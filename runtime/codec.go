package runtime

import (
	"fmt"
	"math/big"
	"reflect"

	"fortio.org/safecast"
)

const wordSize = 32

var (
	addressType = reflect.TypeOf(Address{})
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
)

// Pack encodes a call: the literal 4-byte selector followed by the ABI
// head/tail encoding of vals described by types.
func Pack(selector [4]byte, types []Type, vals ...any) ([]byte, error) {
	if len(types) != len(vals) {
		return nil, fmt.Errorf("runtime: pack: %d types for %d values", len(types), len(vals))
	}
	rvals := make([]reflect.Value, len(vals))
	for i, v := range vals {
		rvals[i] = reflect.ValueOf(v)
	}
	body, err := encodeSeq(types, rvals)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 4+len(body))
	out = append(out, selector[:]...)
	return append(out, body...), nil
}

// Unpack decodes return data into the pointed-to targets, one per type.
func Unpack(types []Type, data []byte, targets ...any) error {
	if len(types) != len(targets) {
		return fmt.Errorf("runtime: unpack: %d types for %d targets", len(types), len(targets))
	}
	outs := make([]reflect.Value, len(targets))
	for i, tgt := range targets {
		rv := reflect.ValueOf(tgt)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return fmt.Errorf("runtime: unpack: target %d is not a non-nil pointer", i)
		}
		outs[i] = rv.Elem()
	}
	return decodeSeq(types, data, outs)
}

// encodeSeq encodes an ordered sequence with the head/tail layout: static
// values inline, dynamic values as an offset word pointing into the tail.
func encodeSeq(types []Type, vals []reflect.Value) ([]byte, error) {
	headLen := 0
	for i := range types {
		headLen += types[i].headSize()
	}
	head := make([]byte, 0, headLen)
	var tail []byte
	for i := range types {
		t := &types[i]
		enc, err := encodeValue(t, vals[i])
		if err != nil {
			return nil, err
		}
		if t.dynamic() {
			head = append(head, encodeUint64(uint64(headLen+len(tail)))...)
			tail = append(tail, enc...)
		} else {
			head = append(head, enc...)
		}
	}
	return append(head, tail...), nil
}

// encodeValue returns the full encoding of one value: the static words for
// static types, the tail section for dynamic ones.
func encodeValue(t *Type, v reflect.Value) ([]byte, error) {
	switch t.Kind {
	case KindUint, KindInt:
		return encodeInteger(t, v)
	case KindAddress:
		if !v.IsValid() || !v.Type().ConvertibleTo(addressType) {
			return nil, fmt.Errorf("runtime: encode address: got %s", typeName(v))
		}
		a := v.Convert(addressType).Interface().(Address)
		word := make([]byte, wordSize)
		copy(word[wordSize-len(a):], a[:])
		return word, nil
	case KindBool:
		if !v.IsValid() || v.Kind() != reflect.Bool {
			return nil, fmt.Errorf("runtime: encode bool: got %s", typeName(v))
		}
		word := make([]byte, wordSize)
		if v.Bool() {
			word[wordSize-1] = 1
		}
		return word, nil
	case KindBytesN:
		if !v.IsValid() || v.Kind() != reflect.Array || v.Len() != t.Size || v.Type().Elem().Kind() != reflect.Uint8 {
			return nil, fmt.Errorf("runtime: encode bytes%d: got %s", t.Size, typeName(v))
		}
		word := make([]byte, wordSize)
		reflect.Copy(reflect.ValueOf(word[:t.Size]), v)
		return word, nil
	case KindBytes:
		if !v.IsValid() || v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Uint8 {
			return nil, fmt.Errorf("runtime: encode bytes: got %s", typeName(v))
		}
		return encodeBlob(v.Bytes()), nil
	case KindString:
		if !v.IsValid() || v.Kind() != reflect.String {
			return nil, fmt.Errorf("runtime: encode string: got %s", typeName(v))
		}
		return encodeBlob([]byte(v.String())), nil
	case KindSlice:
		if !v.IsValid() || v.Kind() != reflect.Slice {
			return nil, fmt.Errorf("runtime: encode slice: got %s", typeName(v))
		}
		body, err := encodeElems(t.Elem, v)
		if err != nil {
			return nil, err
		}
		return append(encodeUint64(uint64(v.Len())), body...), nil
	case KindArray:
		if !v.IsValid() || v.Kind() != reflect.Array || v.Len() != t.Size {
			return nil, fmt.Errorf("runtime: encode array[%d]: got %s", t.Size, typeName(v))
		}
		return encodeElems(t.Elem, v)
	case KindTuple:
		if !v.IsValid() || v.Kind() != reflect.Struct || v.NumField() != len(t.Fields) {
			return nil, fmt.Errorf("runtime: encode tuple of %d: got %s", len(t.Fields), typeName(v))
		}
		vals := make([]reflect.Value, len(t.Fields))
		for i := range t.Fields {
			vals[i] = v.Field(i)
		}
		return encodeSeq(t.Fields, vals)
	}
	return nil, fmt.Errorf("runtime: encode: unknown type kind %d", t.Kind)
}

func encodeElems(elem *Type, v reflect.Value) ([]byte, error) {
	n := v.Len()
	types := make([]Type, n)
	vals := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		types[i] = *elem
		vals[i] = v.Index(i)
	}
	return encodeSeq(types, vals)
}

var two256 = new(big.Int).Lsh(big.NewInt(1), 256)

func encodeInteger(t *Type, v reflect.Value) ([]byte, error) {
	var bi *big.Int
	switch {
	case v.IsValid() && v.Type() == bigIntType:
		if v.IsNil() {
			return nil, fmt.Errorf("runtime: encode %s: nil *big.Int", intName(t))
		}
		bi = new(big.Int).Set(v.Interface().(*big.Int))
	case v.IsValid() && v.CanUint():
		bi = new(big.Int).SetUint64(v.Uint())
	case v.IsValid() && v.CanInt():
		bi = big.NewInt(v.Int())
	default:
		return nil, fmt.Errorf("runtime: encode %s: got %s", intName(t), typeName(v))
	}

	if t.Kind == KindUint {
		if bi.Sign() < 0 || bi.BitLen() > t.Bits {
			return nil, fmt.Errorf("runtime: encode %s: value out of range", intName(t))
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits-1))
		low := new(big.Int).Neg(limit)
		high := new(big.Int).Sub(limit, big.NewInt(1))
		if bi.Cmp(low) < 0 || bi.Cmp(high) > 0 {
			return nil, fmt.Errorf("runtime: encode %s: value out of range", intName(t))
		}
		if bi.Sign() < 0 {
			bi = new(big.Int).Add(two256, bi)
		}
	}

	word := make([]byte, wordSize)
	bi.FillBytes(word)
	return word, nil
}

func intName(t *Type) string {
	if t.Kind == KindUint {
		return fmt.Sprintf("uint%d", t.Bits)
	}
	return fmt.Sprintf("int%d", t.Bits)
}

func typeName(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}
	return v.Type().String()
}

func encodeUint64(n uint64) []byte {
	word := make([]byte, wordSize)
	new(big.Int).SetUint64(n).FillBytes(word)
	return word
}

func encodeBlob(data []byte) []byte {
	out := encodeUint64(uint64(len(data)))
	out = append(out, data...)
	if rem := len(data) % wordSize; rem != 0 {
		out = append(out, make([]byte, wordSize-rem)...)
	}
	return out
}

// decodeSeq walks the head section of data, following offsets for dynamic
// members, and fills the settable outs.
func decodeSeq(types []Type, data []byte, outs []reflect.Value) error {
	cursor := 0
	for i := range types {
		t := &types[i]
		if t.dynamic() {
			offset, err := readOffset(data, cursor)
			if err != nil {
				return err
			}
			if err := decodeValue(t, data[offset:], outs[i]); err != nil {
				return err
			}
			cursor += wordSize
			continue
		}
		size := t.headSize()
		if cursor+size > len(data) {
			return fmt.Errorf("runtime: decode: data truncated at byte %d", cursor)
		}
		if err := decodeValue(t, data[cursor:cursor+size], outs[i]); err != nil {
			return err
		}
		cursor += size
	}
	return nil
}

func decodeValue(t *Type, section []byte, out reflect.Value) error {
	switch t.Kind {
	case KindUint, KindInt:
		return decodeInteger(t, section, out)
	case KindAddress:
		word, err := readWord(section, 0)
		if err != nil {
			return err
		}
		var a Address
		copy(a[:], word[wordSize-len(a):])
		if !addressType.ConvertibleTo(out.Type()) {
			return fmt.Errorf("runtime: decode address into %s", out.Type())
		}
		out.Set(reflect.ValueOf(a).Convert(out.Type()))
		return nil
	case KindBool:
		word, err := readWord(section, 0)
		if err != nil {
			return err
		}
		for _, b := range word[:wordSize-1] {
			if b != 0 {
				return fmt.Errorf("runtime: decode bool: malformed word")
			}
		}
		switch word[wordSize-1] {
		case 0:
			out.SetBool(false)
		case 1:
			out.SetBool(true)
		default:
			return fmt.Errorf("runtime: decode bool: malformed word")
		}
		return nil
	case KindBytesN:
		word, err := readWord(section, 0)
		if err != nil {
			return err
		}
		if out.Kind() != reflect.Array || out.Len() != t.Size || out.Type().Elem().Kind() != reflect.Uint8 {
			return fmt.Errorf("runtime: decode bytes%d into %s", t.Size, out.Type())
		}
		reflect.Copy(out, reflect.ValueOf(word[:t.Size]))
		return nil
	case KindBytes, KindString:
		blob, err := readBlob(section)
		if err != nil {
			return err
		}
		if t.Kind == KindString {
			out.SetString(string(blob))
		} else {
			out.SetBytes(append([]byte(nil), blob...))
		}
		return nil
	case KindSlice:
		n, err := readOffset(section, 0)
		if err != nil {
			return err
		}
		if out.Kind() != reflect.Slice {
			return fmt.Errorf("runtime: decode slice into %s", out.Type())
		}
		out.Set(reflect.MakeSlice(out.Type(), n, n))
		return decodeElems(t.Elem, section[wordSize:], out)
	case KindArray:
		if out.Kind() != reflect.Array || out.Len() != t.Size {
			return fmt.Errorf("runtime: decode array[%d] into %s", t.Size, out.Type())
		}
		return decodeElems(t.Elem, section, out)
	case KindTuple:
		if out.Kind() != reflect.Struct || out.NumField() != len(t.Fields) {
			return fmt.Errorf("runtime: decode tuple of %d into %s", len(t.Fields), out.Type())
		}
		outs := make([]reflect.Value, len(t.Fields))
		for i := range t.Fields {
			outs[i] = out.Field(i)
		}
		return decodeSeq(t.Fields, section, outs)
	}
	return fmt.Errorf("runtime: decode: unknown type kind %d", t.Kind)
}

func decodeElems(elem *Type, section []byte, out reflect.Value) error {
	n := out.Len()
	types := make([]Type, n)
	outs := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		types[i] = *elem
		outs[i] = out.Index(i)
	}
	return decodeSeq(types, section, outs)
}

func decodeInteger(t *Type, section []byte, out reflect.Value) error {
	word, err := readWord(section, 0)
	if err != nil {
		return err
	}
	bi := new(big.Int).SetBytes(word)
	if t.Kind == KindInt && bi.Bit(255) == 1 {
		bi = new(big.Int).Sub(bi, two256)
	}

	switch {
	case out.Type() == bigIntType:
		out.Set(reflect.ValueOf(bi))
		return nil
	case out.CanUint():
		if bi.Sign() < 0 || !bi.IsUint64() {
			return fmt.Errorf("runtime: decode %s: value out of range for %s", intName(t), out.Type())
		}
		u := bi.Uint64()
		if out.OverflowUint(u) {
			return fmt.Errorf("runtime: decode %s: value out of range for %s", intName(t), out.Type())
		}
		out.SetUint(u)
		return nil
	case out.CanInt():
		if !bi.IsInt64() || out.OverflowInt(bi.Int64()) {
			return fmt.Errorf("runtime: decode %s: value out of range for %s", intName(t), out.Type())
		}
		out.SetInt(bi.Int64())
		return nil
	}
	return fmt.Errorf("runtime: decode %s into %s", intName(t), out.Type())
}

func readWord(data []byte, off int) ([]byte, error) {
	if off < 0 || off+wordSize > len(data) {
		return nil, fmt.Errorf("runtime: decode: data truncated at byte %d", off)
	}
	return data[off : off+wordSize], nil
}

// readOffset reads a word holding an offset or length and bounds-checks it
// against the section.
func readOffset(data []byte, off int) (int, error) {
	word, err := readWord(data, off)
	if err != nil {
		return 0, err
	}
	bi := new(big.Int).SetBytes(word)
	if !bi.IsUint64() {
		return 0, fmt.Errorf("runtime: decode: offset overflow at byte %d", off)
	}
	n, err := safecast.Convert[int](bi.Uint64())
	if err != nil || n > len(data) {
		return 0, fmt.Errorf("runtime: decode: offset out of bounds at byte %d", off)
	}
	return n, nil
}

func readBlob(section []byte) ([]byte, error) {
	n, err := readOffset(section, 0)
	if err != nil {
		return nil, err
	}
	if wordSize+n > len(section) {
		return nil, fmt.Errorf("runtime: decode: blob of %d bytes truncated", n)
	}
	return section[wordSize : wordSize+n], nil
}
