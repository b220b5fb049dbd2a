package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/layoutflow/layoutflow/internal/entity"
	"github.com/layoutflow/layoutflow/internal/metrics"
	"github.com/layoutflow/layoutflow/internal/models"
	"github.com/layoutflow/layoutflow/internal/pagetype"
	"github.com/layoutflow/layoutflow/internal/strategy"
)

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/layoutflow/layoutflow"))

// Result is one reconstructed page.
type Result struct {
	Number int
	Kind   pagetype.Kind
	Stats  pagetype.Stats
	Items  []Item
	Merges int
}

// ProcessPage reconstructs the reading order of a single page. It never
// fails: missing attributes take their defaults and unknown layouts fall
// back to the single-column policy.
func ProcessPage(page *models.Page) Result {
	start := time.Now()
	kind, stats := pagetype.Classify(page)
	s := strategy.Select(kind)
	ctx := strategy.ContextOf(page, kind, stats)

	ents := s.Extract(page, ctx)
	extracted := len(ents)
	ents, merges := Consolidate(ents, s, ctx)
	items := Order(ents, s, ctx)

	layout := kind.String()
	metrics.ObservePage(layout, time.Since(start))
	metrics.AddMerges(layout, merges)
	var paragraphs, tables int
	for _, it := range items {
		if it.IsTable() {
			tables++
		} else {
			paragraphs++
		}
	}
	metrics.AddEntities(entity.Paragraph.String(), paragraphs)
	metrics.AddEntities(entity.Table.String(), tables)

	Logger.Debug("page processed", "page", page.Number, "layout", layout,
		"extracted", extracted, "merges", merges, "entities", len(items), "elapsed", time.Since(start))
	return Result{Number: page.Number, Kind: kind, Stats: stats, Items: items, Merges: merges}
}

// ProcessPages runs ProcessPage over independent pages with at most workers
// pages in flight. Results keep the input order. Cancelling ctx stops new
// pages from being scheduled and returns the context error.
func ProcessPages(ctx context.Context, pages []*models.Page, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = ProcessPage(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process pages: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process pages: %w", err)
	}
	return results, nil
}

// Model converts the result to its wire form. Entity IDs are name-based
// UUIDs of the page number and reading position, so identical input gives
// identical output.
func (r Result) Model() models.PageResult {
	out := models.PageResult{Number: r.Number, Layout: r.Kind.String(), Data: make([]models.Block, 0, len(r.Items))}
	for i, it := range r.Items {
		b := models.Block{
			ID:       uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%d/%d", r.Number, i))).String(),
			Type:     models.BlockParagraph,
			BBox:     models.BBoxOf(it.Rect()),
			Area:     it.Area,
			Text:     it.Text(),
			Indent:   it.Indent(),
			FontSize: it.FontSize(),
		}
		if it.IsTable() {
			b.Type = models.BlockTable
			b.Rows = it.Rows()
		}
		out.Data = append(out.Data, b)
	}
	return out
}

func Document(results []Result) *models.Document {
	doc := &models.Document{Pages: make([]models.PageResult, 0, len(results))}
	for _, r := range results {
		doc.Pages = append(doc.Pages, r.Model())
	}
	return doc
}
