package extractor

import (
	"testing"

	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/testutil"
)

func TestSplitGroup(t *testing.T) {
	tests := []struct {
		name string
		run  []*models.Element
		want []int
	}{
		{
			name: "plain paragraph",
			run: []*models.Element{
				testutil.Text(50, 100, 400, 12, "The quick brown fox", 10),
				testutil.Text(50, 114, 400, 12, "jumps over the dog", 10),
			},
			want: []int{2},
		},
		{
			name: "bullets",
			run: []*models.Element{
				testutil.Text(50, 100, 400, 12, "Intro text", 10),
				testutil.Text(50, 114, 400, 12, "• one", 10),
				testutil.Text(50, 128, 400, 12, "• two", 10),
			},
			want: []int{1, 1, 1},
		},
		{
			name: "font size jump",
			run: []*models.Element{
				testutil.Text(50, 100, 400, 20, "Heading", 18),
				testutil.Text(50, 124, 400, 12, "Body text", 10),
			},
			want: []int{1, 1},
		},
		{
			name: "bold toggle",
			run: []*models.Element{
				testutil.Bold(testutil.Text(50, 100, 400, 12, "Bold lead", 10)),
				testutil.Text(50, 114, 400, 12, "plain body", 10),
			},
			want: []int{1, 1},
		},
		{
			name: "same line never splits",
			run: []*models.Element{
				testutil.Bold(testutil.Text(50, 100, 60, 12, "Note:", 10)),
				testutil.Text(112, 101, 300, 12, "• inline text", 10),
			},
			want: []int{2},
		},
		{
			name: "horizontal jump",
			run: []*models.Element{
				testutil.Text(50, 100, 200, 12, "left", 10),
				testutil.Text(300, 114, 200, 12, "far right", 10),
			},
			want: []int{1, 1},
		},
		{
			name: "definitions",
			run: []*models.Element{
				testutil.Text(50, 100, 400, 12, "“Agreement” means this contract", 10),
				testutil.Text(50, 114, 400, 12, "“Party” means a signatory", 10),
			},
			want: []int{1, 1},
		},
	}

	for _, tc := range tests {
		parts := SplitGroup(tc.run)
		if len(parts) != len(tc.want) {
			t.Errorf("%s: got %d parts, want %d", tc.name, len(parts), len(tc.want))
			continue
		}
		for i, p := range parts {
			if len(p) != tc.want[i] {
				t.Errorf("%s: part %d has %d elements, want %d", tc.name, i, len(p), tc.want[i])
			}
		}
	}
}

func TestSplitGroupEmpty(t *testing.T) {
	if parts := SplitGroup(nil); parts != nil {
		t.Errorf("SplitGroup(nil) = %v, want nil", parts)
	}
}

func TestExtract(t *testing.T) {
	b := testutil.NewPage(600, 800)
	b.Group(
		testutil.Text(50, 100, 400, 12, "First line of a paragraph", 10),
		testutil.Text(50, 114, 400, 12, "and its continuation", 10),
		testutil.Image(50, 130, 100, 100),
	)
	b.Add(testutil.Text(50, 300, 100, 12, "Loose", 10))
	b.Add(testutil.Text(50, 320, 100, 12, "   ", 10))
	b.Table(3, 3, []*models.Element{
		testutil.Text(50, 400, 80, 10, "a", 10), testutil.Text(150, 400, 80, 10, "b", 10), testutil.Text(250, 400, 80, 10, "c", 10),
		testutil.Text(50, 414, 80, 10, "d", 10), testutil.Text(150, 414, 80, 10, "e", 10), testutil.Text(250, 414, 80, 10, "f", 10),
		testutil.Text(50, 428, 80, 10, "g", 10), testutil.Text(150, 428, 80, 10, "h", 10), testutil.Text(250, 428, 80, 10, "i", 10),
	}, true)
	b.Table(1, 1, []*models.Element{testutil.Text(50, 600, 200, 12, "boxed note", 10)}, false)
	page := b.Build()

	ents := Extract(page, Options{})
	if len(ents) != 4 {
		t.Fatalf("len(Extract()) = %d, want 4", len(ents))
	}
	wants := []struct {
		table bool
		text  string
	}{
		{false, "First line of a paragraph and its continuation"},
		{false, "Loose"},
		{true, "a\tb\tc\nd\te\tf\ng\th\ti"},
		{false, "boxed note"},
	}
	for i, w := range wants {
		if ents[i].IsTable() != w.table || ents[i].Text() != w.text {
			t.Errorf("entity %d = (%v, %q), want (%v, %q)", i, ents[i].IsTable(), ents[i].Text(), w.table, w.text)
		}
	}
}

func TestExtractBackReferenceWins(t *testing.T) {
	page := testutil.NewPage(600, 800).
		Group(testutil.Text(50, 100, 400, 12, "alpha", 10)).
		Group(testutil.Text(50, 300, 400, 12, "beta", 10)).
		Build()
	page.TextGroups[0].Elements = append(page.TextGroups[0].Elements, 1)

	ents := Extract(page, Options{})
	if len(ents) != 2 {
		t.Fatalf("len(Extract()) = %d, want 2", len(ents))
	}
	if ents[0].Text() != "alpha" || ents[1].Text() != "beta" {
		t.Errorf("texts = %q, %q", ents[0].Text(), ents[1].Text())
	}
}

func TestExtractRefine(t *testing.T) {
	page := testutil.NewPage(600, 800).Group(
		testutil.Text(50, 100, 200, 12, "one", 10),
		testutil.Text(50, 114, 200, 12, "two", 10),
	).Build()

	calls := 0
	ents := Extract(page, Options{Refine: func(run []*models.Element, _ *models.Page) [][]*models.Element {
		calls++
		out := make([][]*models.Element, 0, len(run))
		for _, el := range run {
			out = append(out, []*models.Element{el})
		}
		return out
	}})
	if calls != 1 || len(ents) != 2 {
		t.Errorf("calls = %d, entities = %d, want 1 and 2", calls, len(ents))
	}
}
