package ledgertest

import (
	"bytes"
	"testing"
)

func TestSequenceID(t *testing.T) {
	numToEnc := map[uint64][]byte{
		1:      {0, 0, 0, 0, 0, 0, 0, 1},
		123:    {0, 0, 0, 0, 0, 0, 0, 123},
		123123: {0, 0, 0, 0, 0, 1, 224, 243},
	}
	for id, want := range numToEnc {
		got := SequenceID(id)
		if !bytes.Equal(want, got) {
			t.Fatalf("id=%d, want %d got %d", id, want, got)
		}
	}
}

func TestParty(t *testing.T) {
	cond, addr := Party("alice")
	if !addr.Equals(cond.Address()) {
		t.Fatal("address must be derived from condition")
	}
	if got := ParseAddress(t, "party:alice"); !got.Equals(addr) {
		t.Fatalf("want %s, got %s", addr, got)
	}
	if NewCondition().Equals(NewCondition()) {
		t.Fatal("generated conditions must be unique")
	}
}
