package diag

import "testing"

func TestBagCap(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(AbiInvalidJSON, Ref{}, "one")) {
		t.Fatal("first add rejected")
	}
	if !b.Add(NewError(AbiInvalidJSON, Ref{}, "two")) {
		t.Fatal("second add rejected")
	}
	if b.Add(NewError(AbiInvalidJSON, Ref{}, "three")) {
		t.Fatal("add past the cap must be rejected")
	}
	if b.Len() != 2 || b.Cap() != 2 {
		t.Fatalf("len/cap = %d/%d", b.Len(), b.Cap())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(10)
	b.Add(NewInfo(AbiSkippedEntry, Ref{Entry: "Transfer"}, "skipped"))
	if b.HasErrors() {
		t.Fatal("info-only bag must not report errors")
	}
	b.Add(NewError(AbiUnknownType, Ref{Entry: "f"}, "unknown type"))
	if !b.HasErrors() {
		t.Fatal("bag with an error must report it")
	}
}

func TestBagSortOrder(t *testing.T) {
	b := NewBag(10)
	b.Add(NewInfo(AbiSkippedEntry, Ref{Entry: "beta"}, "info"))
	b.Add(NewError(MapUnsupportedType, Ref{Entry: "alpha", Path: "inputs[1]"}, "map"))
	b.Add(NewError(AbiUnknownType, Ref{Entry: "alpha", Path: "inputs[0]"}, "abi"))
	b.Add(NewInfo(AbiInfo, Ref{Entry: "alpha", Path: "inputs[0]"}, "note"))
	b.Sort()

	items := b.Items()
	// entry asc, path asc, severity desc, code asc
	want := []struct {
		entry string
		path  string
		code  Code
	}{
		{"alpha", "inputs[0]", AbiUnknownType},
		{"alpha", "inputs[0]", AbiInfo},
		{"alpha", "inputs[1]", MapUnsupportedType},
		{"beta", "", AbiSkippedEntry},
	}
	for i, w := range want {
		got := items[i]
		if got.Ref.Entry != w.entry || got.Ref.Path != w.path || got.Code != w.code {
			t.Fatalf("items[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestBagMergeGrows(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(AbiInvalidJSON, Ref{}, "a"))
	other := NewBag(2)
	other.Add(NewError(AbiBadShape, Ref{Entry: "f"}, "b"))
	other.Add(NewInfo(AbiInfo, Ref{Entry: "f"}, "c"))

	a.Merge(other)
	if a.Len() != 3 {
		t.Fatalf("merged len = %d", a.Len())
	}
	if a.Cap() < 3 {
		t.Fatalf("merged cap = %d", a.Cap())
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(10)
	ref := Ref{Entry: "f", Path: "inputs[0]"}
	b.Add(NewError(AbiUnknownType, ref, "first"))
	b.Add(NewError(AbiUnknownType, ref, "repeat"))
	b.Add(NewError(AbiUnknownType, Ref{Entry: "g"}, "other ref"))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("dedup len = %d", b.Len())
	}
}
