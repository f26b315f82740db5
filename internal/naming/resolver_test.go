package naming

import (
	"errors"
	"testing"

	"abibind/internal/abi"
)

func elem(name string) abi.Type {
	return abi.Type{Kind: abi.KindElementary, Name: name}
}

func TestResolveOverloads(t *testing.T) {
	short := &abi.Entry{
		Name: "safeTransferFrom",
		Inputs: []abi.Param{
			{Name: "from", Type: elem("address")},
			{Name: "to", Type: elem("address")},
			{Name: "tokenId", Type: elem("uint256")},
		},
	}
	long := &abi.Entry{
		Name: "safeTransferFrom",
		Inputs: []abi.Param{
			{Name: "from", Type: elem("address")},
			{Name: "to", Type: elem("address")},
			{Name: "tokenId", Type: elem("uint256")},
			{Name: "data", Type: elem("bytes")},
		},
	}

	r := NewResolver()
	b1, err := r.Resolve(short)
	if err != nil {
		t.Fatalf("resolve short: %v", err)
	}
	b2, err := r.Resolve(long)
	if err != nil {
		t.Fatalf("resolve long: %v", err)
	}

	if b1.Identifier != "safe_transfer_from__0x42842e0e" {
		t.Fatalf("short identifier = %q", b1.Identifier)
	}
	if b2.Identifier != "safe_transfer_from__0xb88d4fde" {
		t.Fatalf("long identifier = %q", b2.Identifier)
	}
	if b1.Identifier == b2.Identifier {
		t.Fatal("overloads must get distinct identifiers")
	}
	if got := r.Bindings(); len(got) != 2 || got[0].Signature != b1.Signature {
		t.Fatalf("bindings = %+v", got)
	}
}

func TestResolveKeywordName(t *testing.T) {
	r := NewResolver()
	b, err := r.Resolve(&abi.Entry{Name: "type"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// The selector suffix varies with the hash; the point is the escape.
	const prefix = "type___0x"
	if len(b.Identifier) != len(prefix)+8 || b.Identifier[:len(prefix)] != prefix {
		t.Fatalf("identifier = %q", b.Identifier)
	}
}

// burn(uint256) and collate_propagate_storage(bytes16) are the well-known
// four-byte collision pair: distinct signatures, identical selector.
func TestResolveSelectorCollision(t *testing.T) {
	r := NewResolver()
	if _, err := r.Resolve(&abi.Entry{
		Name:   "burn",
		Inputs: []abi.Param{{Name: "amount", Type: elem("uint256")}},
	}); err != nil {
		t.Fatalf("resolve burn: %v", err)
	}

	_, err := r.Resolve(&abi.Entry{
		Name:   "collate_propagate_storage",
		Inputs: []abi.Param{{Name: "slot", Type: elem("bytes16")}},
	})
	var collision *DuplicateSelectorError
	if !errors.As(err, &collision) {
		t.Fatalf("expected DuplicateSelectorError, got %v", err)
	}
	if collision.Selector.Hex() != "0x42966c68" {
		t.Fatalf("selector = %s", collision.Selector.Hex())
	}
	if collision.First != "burn(uint256)" || collision.Second != "collate_propagate_storage(bytes16)" {
		t.Fatalf("collision = %+v", collision)
	}
}

func TestResolveDuplicateEntry(t *testing.T) {
	entry := &abi.Entry{
		Name:   "transfer",
		Inputs: []abi.Param{{Name: "to", Type: elem("address")}, {Name: "amount", Type: elem("uint256")}},
	}

	r := NewResolver()
	if _, err := r.Resolve(entry); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	_, err := r.Resolve(entry)
	var dup *DuplicateIdentifierError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIdentifierError, got %v", err)
	}
	if dup.Identifier != "transfer__0xa9059cbb" {
		t.Fatalf("identifier = %q", dup.Identifier)
	}
}
