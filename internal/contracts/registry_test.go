package contracts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"billing-engine/internal/model"
)

func item(id string, qty, price, vat string) model.ContractItem {
	return model.ContractItem{
		ID:           id,
		Description:  "item " + id,
		Quantite:     decimal.RequireFromString(qty),
		PrixUnitaire: decimal.RequireFromString(price),
		Unite:        "m2",
		TVA:          decimal.RequireFromString(vat),
	}
}

func sampleContracts() []model.Contract {
	return []model.Contract{
		{ID: "c1", Numero: "DEV-001", Statut: "accepte", Lignes: []model.ContractItem{
			item("a", "10", "100", "10"),
			item("b", "2", "49.5", "20"),
		}},
		{ID: "c2", Numero: "DEV-002", Statut: model.ContractStatusRejected, Lignes: []model.ContractItem{
			item("x", "1", "999", "20"),
		}},
		{ID: "c3", Numero: "DEV-003", Statut: "signe", Lignes: []model.ContractItem{
			item("a", "1", "5", "5.5"),
		}},
	}
}

func TestFlattenSkipsRejectedAndKeepsOrder(t *testing.T) {
	lines := Flatten(sampleContracts())

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	wantIDs := []string{"a", "b", "a"}
	wantOrigins := []string{"DEV-001", "DEV-001", "DEV-003"}
	for i, l := range lines {
		if l.ID != wantIDs[i] {
			t.Errorf("line %d: ID = %q, want %q", i, l.ID, wantIDs[i])
		}
		if l.OriginContractNumber != wantOrigins[i] {
			t.Errorf("line %d: origin = %q, want %q", i, l.OriginContractNumber, wantOrigins[i])
		}
	}
	if !lines[0].TotalExVat.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("TotalExVat = %s, want 1000", lines[0].TotalExVat)
	}
	if !lines[1].TotalExVat.Equal(decimal.RequireFromString("99")) {
		t.Errorf("TotalExVat = %s, want 99", lines[1].TotalExVat)
	}
}

func TestFlattenEmpty(t *testing.T) {
	lines := Flatten(nil)
	if lines == nil || len(lines) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", lines)
	}
}

func TestRegistryLinesFromMemory(t *testing.T) {
	src := NewMemorySource()
	src.Set("p1", sampleContracts())

	lines, err := NewRegistry(src).Lines(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	other, err := NewRegistry(src).Lines(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no lines for unknown project, got %d", len(other))
	}
}

type failingSource struct{ err error }

func (f failingSource) Contracts(context.Context, string) ([]model.Contract, error) {
	return nil, f.err
}

func TestRegistryPropagatesSourceError(t *testing.T) {
	boom := errors.New("quote service down")
	_, err := NewRegistry(failingSource{err: boom}).Lines(context.Background(), "p1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.json")
	body := `{"p1":[{"id":"c1","numero":"DEV-001","statut":"accepte","lignes":[
		{"id":"a","description":"Carrelage","quantite":10,"prixUnitaire":100,"unite":"m2","tva":10}
	]}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := NewRegistry(FileSource{Path: path}).Lines(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(lines) != 1 || lines[0].Description != "Carrelage" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}.Contracts(context.Background(), "p1")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/p1/contracts":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":"c1","numero":"DEV-001","statut":"accepte","lignes":[
				{"id":"a","description":"Peinture","quantite":"3","prixUnitaire":"12.5","unite":"m2","tva":"20"}
			]}]`))
		case "/projects/missing/contracts":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", time.Second)

	contracts, err := src.Contracts(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Contracts: %v", err)
	}
	lines := Flatten(contracts)
	if len(lines) != 1 || !lines[0].TotalExVat.Equal(decimal.RequireFromString("37.5")) {
		t.Fatalf("unexpected lines: %#v", lines)
	}

	missing, err := src.Contracts(context.Background(), "missing")
	if err != nil || len(missing) != 0 {
		t.Fatalf("expected no contracts and no error, got %v / %v", missing, err)
	}

	if _, err := src.Contracts(context.Background(), "broken"); err == nil {
		t.Fatal("expected error on 500")
	}
}
