package service

import (
	"context"
	"testing"

	"github.com/dcraven/sift/internal/domain"
	"go.uber.org/zap"
)

func TestPersona_CreateSeedsRecipeWeights(t *testing.T) {
	ctx := context.Background()
	stores, tx := newMockStores()
	svc := NewPersonaService(stores, tx, zap.NewNop())

	err := svc.Create(ctx, &domain.Persona{
		Name:         "early-stage",
		PositiveTags: []string{"founder", "pre-seed"},
		NegativeTags: []string{"consultant"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	weights, err := stores.Weights.ListByPersona(ctx, "early-stage")
	if err != nil {
		t.Fatalf("ListByPersona: %v", err)
	}
	if len(weights) != 3 {
		t.Fatalf("got %d seeded weights, want 3", len(weights))
	}

	byValue := make(map[string]domain.PreferenceWeight, len(weights))
	for _, w := range weights {
		if w.Category != domain.CategoryFreeform {
			t.Errorf("weight %q seeded under %q, want %q", w.Value, w.Category, domain.CategoryFreeform)
		}
		byValue[w.Value] = w
	}

	for _, v := range []string{"founder", "pre-seed"} {
		w, ok := byValue[v]
		if !ok {
			t.Errorf("positive tag %q not seeded", v)
			continue
		}
		if w.Weight <= 0 {
			t.Errorf("weight for %q = %v, want positive", v, w.Weight)
		}
	}
	if w, ok := byValue["consultant"]; !ok {
		t.Error("negative tag not seeded")
	} else if w.Weight >= 0 {
		t.Errorf("weight for consultant = %v, want negative", w.Weight)
	}
}

func TestPersona_CreateRequiresName(t *testing.T) {
	stores, tx := newMockStores()
	svc := NewPersonaService(stores, tx, zap.NewNop())

	if err := svc.Create(context.Background(), &domain.Persona{}); err != ErrPersonaNameMissing {
		t.Errorf("err = %v, want ErrPersonaNameMissing", err)
	}
}

func TestPersona_ActivateIsExclusive(t *testing.T) {
	ctx := context.Background()
	stores, tx := newMockStores()
	svc := NewPersonaService(stores, tx, zap.NewNop())

	for _, name := range []string{"growth", "early-stage"} {
		if err := svc.Create(ctx, &domain.Persona{Name: name}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	if _, err := svc.Activate(ctx, "growth"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if _, err := svc.Activate(ctx, "early-stage"); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	active, err := svc.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if active.Name != "early-stage" {
		t.Errorf("active = %q, want early-stage", active.Name)
	}

	all, _ := svc.List(ctx)
	for _, p := range all {
		if p.Name != "early-stage" && p.Active {
			t.Errorf("persona %q still active after switch", p.Name)
		}
	}
}

func TestPersona_ActivateUnknown(t *testing.T) {
	stores, tx := newMockStores()
	svc := NewPersonaService(stores, tx, zap.NewNop())

	if _, err := svc.Activate(context.Background(), "ghost"); err != ErrPersonaNotFound {
		t.Errorf("err = %v, want ErrPersonaNotFound", err)
	}
}

func TestPersona_SwitchingScopeKeepsWeights(t *testing.T) {
	ctx := context.Background()
	stores, tx := newMockStores()
	svc := NewPersonaService(stores, tx, zap.NewNop())
	ledger := NewLedgerService(stores, tx, zap.NewNop())

	if err := svc.Create(ctx, &domain.Persona{Name: "growth"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Create(ctx, &domain.Persona{Name: "early-stage"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := ledger.Record(ctx, RecordRequest{
		Persona: "growth",
		Entity:  domain.EntityInput{ID: "p-1", FullName: "Ada King", Seniority: "founder"},
		Action:  domain.ActionLike,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if _, err := svc.Activate(ctx, "early-stage"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if _, err := svc.Activate(ctx, "growth"); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	weights, err := stores.Weights.ListByPersona(ctx, "growth")
	if err != nil {
		t.Fatalf("ListByPersona: %v", err)
	}
	if len(weights) == 0 {
		t.Fatal("learned weights lost after scope switch")
	}
}
