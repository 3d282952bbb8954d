package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"billing-engine/internal/apperrors"
	"billing-engine/internal/model"
)

func chain() []model.Situation {
	return []model.Situation{
		{ID: "s1", Numero: 1, Statut: model.StatusInvoiced},
		{ID: "s3", Numero: 3, Statut: model.StatusDraft},
		{ID: "s2", Numero: 2, Statut: model.StatusValidated},
	}
}

func TestListSortsDescending(t *testing.T) {
	in := chain()
	got := List(in)
	want := []int{3, 2, 1}
	for i, s := range got {
		if s.Numero != want[i] {
			t.Fatalf("position %d: numero %d, want %d", i, s.Numero, want[i])
		}
	}
	if in[0].Numero != 1 {
		t.Fatal("List must not reorder its input")
	}
}

func TestUpsert(t *testing.T) {
	updated := Upsert(chain(), model.Situation{ID: "s3", Numero: 3, Statut: model.StatusDraft, RetenueGarantie: true})
	if len(updated) != 3 {
		t.Fatalf("expected replace, got %d situations", len(updated))
	}
	s, _ := Find(updated, "s3")
	if !s.RetenueGarantie {
		t.Fatal("expected replaced value")
	}

	inserted := Upsert(chain(), model.Situation{ID: "s4", Numero: 4})
	if len(inserted) != 4 {
		t.Fatalf("expected insert, got %d situations", len(inserted))
	}
}

func TestDelete(t *testing.T) {
	in := chain()
	out, err := Delete(in, "s3")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 situations left, got %d", len(out))
	}
	for _, s := range out {
		if s.ID == "s3" {
			t.Fatal("s3 still present")
		}
	}
	if len(in) != 3 {
		t.Fatal("input chain was modified")
	}

	_, err = Delete(chain(), "nope")
	if apperrors.KindFromError(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryRoundTripIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	sits := []model.Situation{{ID: "s1", Numero: 1, Statut: model.StatusDraft, Lignes: []model.SituationLine{
		{LigneID: "a", CumulActuel: decimal.NewFromInt(30)},
	}}}
	if err := m.Save(ctx, "p1", sits); err != nil {
		t.Fatal(err)
	}
	sits[0].Lignes[0].CumulActuel = decimal.NewFromInt(99)

	loaded, err := m.Load(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if !loaded[0].Lignes[0].CumulActuel.Equal(decimal.NewFromInt(30)) {
		t.Fatal("store must not alias caller slices")
	}

	empty, err := m.Load(ctx, "p2")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty chain, got %v / %v", empty, err)
	}
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemory().Load(ctx, "p1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
