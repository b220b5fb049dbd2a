package layout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/pagetype"
	"github.com/layoutflow/layoutflow/internal/strategy"
	"github.com/layoutflow/layoutflow/internal/testutil"
)

var ctx = strategy.Context{Width: 600, Height: 800}

func reportPage() *models.Page {
	b := testutil.NewPage(600, 800)
	b.Add(
		testutil.Text(200, 80, 200, 20, "Annual", 18),
		testutil.Text(205, 110, 200, 20, "Report", 18),
		testutil.Text(50, 200, 480, 12, "The first line of the body runs all the way", 10),
		testutil.Text(50, 214, 480, 12, "to the margin and wraps onto this one", 10),
		testutil.Text(50, 228, 200, 12, "before ending here.", 10),
		testutil.Text(70, 270, 460, 12, "A new paragraph starts indented", 10),
		testutil.Text(50, 284, 300, 12, "and ends.", 10),
	)
	return b.Build()
}

func texts(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text()
	}
	return out
}

func entities(items []Item) []*entity.Entity {
	out := make([]*entity.Entity, len(items))
	for i, it := range items {
		out[i] = it.Entity
	}
	return out
}

func TestProcessPage(t *testing.T) {
	res := ProcessPage(reportPage())
	if res.Kind != pagetype.SingleColumn {
		t.Fatalf("Kind = %v, want single_column", res.Kind)
	}
	want := []string{
		"Annual Report",
		"The first line of the body runs all the way to the margin and wraps onto this one before ending here.",
		"A new paragraph starts indented and ends.",
	}
	if diff := cmp.Diff(want, texts(res.Items)); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
	if res.Merges != 4 {
		t.Errorf("Merges = %d, want 4", res.Merges)
	}
	if got := res.Items[2].Indent(); got != 20 {
		t.Errorf("Indent() = %v, want 20", got)
	}
}

func TestConsolidateIsIdempotent(t *testing.T) {
	s := strategy.Select(pagetype.SingleColumn)
	res := ProcessPage(reportPage())
	again, merges := Consolidate(entities(res.Items), s, ctx)
	if merges != 0 {
		t.Errorf("second pass merged %d pairs", merges)
	}
	if len(again) != len(res.Items) {
		t.Errorf("len = %d, want %d", len(again), len(res.Items))
	}
}

func TestConsolidateLeavesInputAlone(t *testing.T) {
	s := strategy.Select(pagetype.SingleColumn)
	frame := entity.Frame{Width: 600, Height: 800}
	in := []*entity.Entity{
		entity.NewParagraph([]*models.Element{testutil.Text(50, 100, 100, 12, "Hello", 10)}, frame),
		entity.NewParagraph([]*models.Element{testutil.Text(152, 101, 200, 12, "world", 10)}, frame),
	}
	out, merges := Consolidate(in, s, ctx)
	if merges != 1 || len(out) != 1 || out[0].Text() != "Hello world" {
		t.Errorf("Consolidate() = %d entities, %d merges", len(out), merges)
	}
	if len(in) != 2 || in[1].Text() != "world" {
		t.Error("input slice was modified")
	}
}

func TestOrderIsPermutationInvariant(t *testing.T) {
	frame := entity.Frame{Width: 600, Height: 800}
	mk := func(left, top, width float32, s string) *entity.Entity {
		return entity.NewParagraph([]*models.Element{testutil.Text(left, top, width, 12, s, 10)}, frame)
	}
	base := []*entity.Entity{
		mk(50, 100, 100, "a"),
		mk(300, 101, 100, "b"),
		mk(50, 150, 100, "c"),
		mk(300, 149, 100, "d"),
		mk(50, 20, 100, "e"),
		mk(50, 760, 500, "f"),
		mk(200, 100, 80, "g"),
	}
	want := []string{"e", "a", "g", "b", "c", "d", "f"}
	s := strategy.Select(pagetype.SingleColumn)

	n := len(base)
	for shift := 0; shift < n; shift++ {
		for _, reverse := range []bool{false, true} {
			perm := make([]*entity.Entity, n)
			for i := range base {
				k := (i + shift) % n
				if reverse {
					k = n - 1 - k
				}
				perm[i] = base[k]
			}
			if diff := cmp.Diff(want, texts(Order(perm, s, ctx))); diff != "" {
				t.Errorf("shift %d reverse %v (-want +got):\n%s", shift, reverse, diff)
			}
		}
	}
}

func TestOrderMultiColumnAreas(t *testing.T) {
	frame := entity.Frame{Width: 600, Height: 800}
	spanning := entity.NewParagraph([]*models.Element{testutil.Text(270, 400, 90, 12, "spanning", 10)}, frame)
	right := entity.NewParagraph([]*models.Element{testutil.Text(360, 100, 180, 12, "right", 10)}, frame)

	items := Order([]*entity.Entity{right, spanning}, strategy.Select(pagetype.MultiColumn), ctx)
	if diff := cmp.Diff([]string{"spanning", "right"}, texts(items)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if items[0].Area != 0 || items[1].Area != 1 {
		t.Errorf("areas = %d, %d, want 0, 1", items[0].Area, items[1].Area)
	}
}

func TestProcessPages(t *testing.T) {
	defer goleak.VerifyNone(t)

	var pages []*models.Page
	for i := 1; i <= 6; i++ {
		p := reportPage()
		p.Number = i
		pages = append(pages, p)
	}
	results, err := ProcessPages(context.Background(), pages, 2)
	if err != nil {
		t.Fatalf("ProcessPages: %v", err)
	}
	for i, r := range results {
		if r.Number != i+1 {
			t.Errorf("results[%d].Number = %d, want %d", i, r.Number, i+1)
		}
		if len(r.Items) != 3 {
			t.Errorf("page %d has %d entities, want 3", r.Number, len(r.Items))
		}
	}
}

func TestProcessPagesCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ProcessPages(ctx, []*models.Page{reportPage()}, 4)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestModel(t *testing.T) {
	page := testutil.NewPage(600, 800).Table(2, 2, []*models.Element{
		testutil.Text(50, 300, 80, 10, "a", 10), testutil.Text(150, 300, 80, 10, "b", 10),
		testutil.Text(50, 314, 80, 10, "c", 10), testutil.Text(150, 314, 80, 10, "d", 10),
	}, true).Build()
	page.Number = 7

	first := ProcessPage(page).Model()
	second := ProcessPage(page).Model()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("output not deterministic:\n%s", diff)
	}
	if len(first.Data) != 1 || first.Data[0].Type != models.BlockTable {
		t.Fatalf("Data = %+v, want one table", first.Data)
	}
	if diff := cmp.Diff([][]string{{"a", "b"}, {"c", "d"}}, first.Data[0].Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	raw, err := json.Marshal(Document([]Result{ProcessPage(page)}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"page":7`, `"layout":"single_column"`, `"type":"table"`, `"rows":[["a","b"],["c","d"]]`} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("output %s missing %s", raw, want)
		}
	}
}
