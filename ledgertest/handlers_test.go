package ledgertest

import (
	"reflect"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
)

func TestHandlerWithError(t *testing.T) {
	h := Handler{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrNotFound,
	}

	_, err := h.Check(nil, nil, nil)
	if want := errors.ErrUnauthorized; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}

	_, err = h.Deliver(nil, nil, nil)
	if want := errors.ErrNotFound; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}
}

func TestHandlerResult(t *testing.T) {
	wantCres := ledger.CheckResult{Data: []byte("foo")}
	wantDres := ledger.DeliverResult{Data: []byte("bar"), Log: "done"}
	h := Handler{
		CheckResult:   wantCres,
		DeliverResult: wantDres,
	}

	gotCres, _ := h.Check(nil, nil, nil)
	if !reflect.DeepEqual(&wantCres, gotCres) {
		t.Fatalf("got check result: %+v", gotCres)
	}
	gotDres, _ := h.Deliver(nil, nil, nil)
	if !reflect.DeepEqual(&wantDres, gotDres) {
		t.Fatalf("got deliver result: %+v", gotDres)
	}
	assertHCounts(t, &h, 1, 1)
}

func TestHandlerWrite(t *testing.T) {
	db := store.MemStore()
	h := Handler{
		Write:      &ledger.Model{Key: []byte("k"), Value: []byte("v")},
		DeliverErr: errors.ErrState,
	}
	if _, err := h.Deliver(nil, db, nil); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %s", err)
	}
	got, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("cannot get: %s", err)
	}
	if string(got) != "v" {
		t.Fatalf("want value written, got %q", got)
	}
}

func assertHCounts(t *testing.T, h *Handler, wantCheck, wantDeliver int) {
	t.Helper()
	if got := h.CheckCallCount(); got != wantCheck {
		t.Errorf("want %d checks, got %d", wantCheck, got)
	}
	if got := h.DeliverCallCount(); got != wantDeliver {
		t.Errorf("want %d delivers, got %d", wantDeliver, got)
	}
	wantTotal := wantCheck + wantDeliver
	if got := h.CallCount(); got != wantTotal {
		t.Errorf("want %d total, got %d", wantTotal, got)
	}
}
