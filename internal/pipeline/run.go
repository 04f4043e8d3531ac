// Package pipeline runs the report flow for a single "view report" action:
// fetch the raw report, then normalize it for rendering.
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/pindora-shield/internal/normalize"
	"github.com/jonathan/pindora-shield/internal/types"
)

// Fetcher retrieves a raw report for one molecule.
type Fetcher interface {
	FetchReport(ctx context.Context, req types.ReportRequest) types.ReportResponse
}

// View is the outcome of one report view: the fetch response and, when the
// fetch produced text, the normalized document.
type View struct {
	ViewID   uuid.UUID            `json:"view_id"`
	Request  types.ReportRequest  `json:"request"`
	Response types.ReportResponse `json:"response"`
	Document normalize.Document   `json:"document"`
}

// Markdown returns the normalized report, or "" when there is none.
func (v *View) Markdown() string {
	return v.Document.String()
}

// ViewCallback is invoked as each view of a batch completes.
type ViewCallback func(index int, view *View)

// ViewReport fetches and normalizes the report for req.
func ViewReport(ctx context.Context, fetcher Fetcher, req types.ReportRequest) *View {
	viewID := uuid.New()
	log := zerolog.Ctx(ctx).With().Str("view_id", viewID.String()).Logger()
	ctx = log.WithContext(ctx)

	resp := fetcher.FetchReport(ctx, req)
	view := &View{
		ViewID:   viewID,
		Request:  req,
		Response: resp,
	}
	if resp.Outcome == types.OutcomeContent {
		view.Document = normalize.Normalize(resp.RawText)
		log.Debug().
			Str("title", view.Document.Title()).
			Int("sections", len(view.Document.Sections())).
			Msg("Report normalized")
	}
	return view
}

// ViewMany runs independent views concurrently, at most limit at a time
// (unbounded when limit <= 0). onView, if set, is called once per view in
// completion order and never concurrently. The returned slice is
// index-aligned with reqs.
func ViewMany(ctx context.Context, fetcher Fetcher, reqs []types.ReportRequest, limit int, onView ViewCallback) []*View {
	views := make([]*View, len(reqs))
	var mu sync.Mutex
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			view := ViewReport(ctx, fetcher, req)
			views[i] = view
			if onView != nil {
				mu.Lock()
				onView(i, view)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return views
}
