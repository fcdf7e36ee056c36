package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dcraven/sift/internal/domain"
	"go.uber.org/zap"
)

func TestExport_CoversEveryLearnedWeight(t *testing.T) {
	ctx := context.Background()
	stores, tx := newMockStores()
	ledger := NewLedgerService(stores, tx, zap.NewNop())
	export := NewExportService(stores)

	inputs := []struct {
		entity domain.EntityInput
		action domain.Action
	}{
		{domain.EntityInput{ID: "p-1", FullName: "Ada King", Seniority: "founder", Region: "EMEA"}, domain.ActionLike},
		{domain.EntityInput{ID: "p-2", FullName: "Grace Moss", Seniority: "founder", Region: "APAC"}, domain.ActionLike},
		{domain.EntityInput{ID: "p-3", FullName: "Hal Finch", Seniority: "manager", Region: "EMEA"}, domain.ActionDislike},
	}
	for _, in := range inputs {
		_, err := ledger.Record(ctx, RecordRequest{
			Persona: "default",
			Entity:  in.entity,
			Action:  in.action,
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	doc, err := export.ExportScope(ctx, "default")
	if err != nil {
		t.Fatalf("ExportScope: %v", err)
	}
	if doc.Persona != "default" {
		t.Errorf("persona = %q, want default", doc.Persona)
	}
	if doc.Metadata.Likes != 2 || doc.Metadata.Dislikes != 1 {
		t.Errorf("metadata = %d likes / %d dislikes, want 2/1", doc.Metadata.Likes, doc.Metadata.Dislikes)
	}

	// Every (category, value) pair touched by feedback must appear in the
	// export, exactly once.
	want := map[domain.TagKey]bool{
		{Category: domain.CategorySeniority, Value: "founder"}: false,
		{Category: domain.CategorySeniority, Value: "manager"}: false,
		{Category: domain.CategoryRegion, Value: "EMEA"}:       false,
		{Category: domain.CategoryRegion, Value: "APAC"}:       false,
	}
	for _, w := range doc.LearnedWeights {
		key := domain.TagKey{Category: w.Category, Value: w.Value}
		seen, ok := want[key]
		if !ok {
			t.Errorf("unexpected weight %v in export", key)
			continue
		}
		if seen {
			t.Errorf("weight %v exported twice", key)
		}
		want[key] = true
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("weight %v missing from export", key)
		}
	}
	if doc.Metadata.Weights != len(doc.LearnedWeights) {
		t.Errorf("metadata.Weights = %d, want %d", doc.Metadata.Weights, len(doc.LearnedWeights))
	}
}

// With a pinned clock, exporting the same state twice yields byte-identical
// documents.
func TestExport_DeterministicForIdenticalState(t *testing.T) {
	ctx := context.Background()
	stores, tx := newMockStores()
	ledger := NewLedgerService(stores, tx, zap.NewNop())
	export := NewExportService(stores)
	export.SetClock(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	if _, err := ledger.Record(ctx, RecordRequest{
		Persona: "default",
		Entity:  domain.EntityInput{ID: "p-1", FullName: "Ada King", Seniority: "founder"},
		Action:  domain.ActionLike,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := ledger.RecordPair(ctx, "default", "p-1", "p-2", "better fit"); err != nil {
		t.Fatalf("RecordPair: %v", err)
	}

	first, err := export.ExportScope(ctx, "default")
	if err != nil {
		t.Fatalf("ExportScope: %v", err)
	}
	second, err := export.ExportScope(ctx, "default")
	if err != nil {
		t.Fatalf("ExportScope: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("exports for identical state differ:\n%s\n%s", a, b)
	}
}

func TestExport_EmptyPersonaYieldsEmptyDocument(t *testing.T) {
	ctx := context.Background()
	stores, _ := newMockStores()
	export := NewExportService(stores)

	doc, err := export.ExportScope(ctx, "untouched")
	if err != nil {
		t.Fatalf("ExportScope: %v", err)
	}
	if doc.PreferencePairs == nil || doc.LearnedWeights == nil {
		t.Error("export slices should be empty, not nil")
	}
	if len(doc.PreferencePairs) != 0 || len(doc.LearnedWeights) != 0 {
		t.Error("export for untouched persona should be empty")
	}
}

func TestExport_RequiresPersona(t *testing.T) {
	stores, _ := newMockStores()
	export := NewExportService(stores)

	if _, err := export.ExportScope(context.Background(), ""); err != ErrPersonaMissing {
		t.Errorf("err = %v, want ErrPersonaMissing", err)
	}
	if err := export.WriteDPO(context.Background(), "", &bytes.Buffer{}); err != ErrPersonaMissing {
		t.Errorf("err = %v, want ErrPersonaMissing", err)
	}
}

func TestExport_WriteDPO(t *testing.T) {
	ctx := context.Background()
	stores, tx := newMockStores()
	ledger := NewLedgerService(stores, tx, zap.NewNop())
	export := NewExportService(stores)

	pairs := []struct {
		chosen, rejected, reason string
	}{
		{"p-1", "p-2", "stronger founding team"},
		{"p-3", "p-4", ""},
	}
	for _, p := range pairs {
		if _, err := ledger.RecordPair(ctx, "default", p.chosen, p.rejected, p.reason); err != nil {
			t.Fatalf("RecordPair: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := export.WriteDPO(ctx, "default", &buf); err != nil {
		t.Fatalf("WriteDPO: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var recs []domain.DPORecord
	for scanner.Scan() {
		var rec domain.DPORecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", len(recs)+1, err)
		}
		recs = append(recs, rec)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d lines, want 2", len(recs))
	}

	if recs[0].Chosen != "p-1" || recs[0].Rejected != "p-2" {
		t.Errorf("line 1 chosen/rejected = %s/%s", recs[0].Chosen, recs[0].Rejected)
	}
	if recs[0].EntityID != "p-1" {
		t.Errorf("line 1 entityId = %s, want chosen id", recs[0].EntityID)
	}
	if !strings.Contains(recs[0].Prompt, "stronger founding team") {
		t.Errorf("line 1 prompt should include the reason, got %q", recs[0].Prompt)
	}
	if strings.Contains(recs[1].Prompt, "Consider") {
		t.Errorf("line 2 prompt should omit the reason clause, got %q", recs[1].Prompt)
	}
	for i, rec := range recs {
		if rec.Persona != "default" {
			t.Errorf("line %d persona = %q", i+1, rec.Persona)
		}
	}
}
