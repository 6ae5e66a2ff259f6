package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/cardex/internal/application/usecase"
	"github.com/bnema/cardex/internal/cli/styles"
	"github.com/bnema/cardex/internal/domain/entity"
)

var pageOpts pageOptions

type pageOptions struct {
	term     string
	page     int
	json     bool
	prefetch bool
	stats    bool
}

// pageOutput is the --json document.
type pageOutput struct {
	Term       string                 `json:"term"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"total_pages"`
	NotFound   bool                   `json:"not_found"`
	Error      string                 `json:"error,omitempty"`
	Results    []entity.Character     `json:"results"`
	Cache      usecase.PageCacheStats `json:"cache"`
}

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Fetch one page of characters",
	Long: `Fetch a single result page and print it.

Examples:
  cardex page                     # first page, no filter
  cardex page --term rick -p 2    # second page of "rick"
  cardex page --term morty --json # machine-readable output`,
	Args: cobra.NoArgs,
	RunE: runPage,
}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.Flags().StringVarP(&pageOpts.term, "term", "t", "", "name filter (empty for all characters)")
	pageCmd.Flags().IntVarP(&pageOpts.page, "page", "p", 1, "page number (1-based)")
	pageCmd.Flags().BoolVar(&pageOpts.json, "json", false, "output as JSON")
	pageCmd.Flags().BoolVar(&pageOpts.prefetch, "prefetch", false, "also fetch the next page (reported in cache stats)")
	pageCmd.Flags().BoolVar(&pageOpts.stats, "stats", false, "print page cache counters after the results")
}

func runPage(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	pages := app.NewPageCache(usecase.WithPrefetch(pageOpts.prefetch))
	return writePage(app.Ctx(), cmd.OutOrStdout(), app.Theme, pages, pageOpts)
}

// writePage loads one page through a fresh session and renders it to w.
// A failed load is rendered and then returned as an error.
func writePage(ctx context.Context, w io.Writer, theme *styles.Theme, pages *usecase.PageCache, opts pageOptions) error {
	if opts.page < 1 {
		return fmt.Errorf("--page must be at least 1 (got %d)", opts.page)
	}

	session := usecase.NewBrowseSession(pages)
	view, loadErr := session.Load(ctx, opts.term, opts.page)
	pages.Wait()

	if opts.json {
		out := pageOutput{
			Term:       view.Term,
			Page:       view.Page,
			TotalPages: view.TotalPages,
			NotFound:   view.NotFound,
			Results:    view.Results,
			Cache:      pages.Stats(),
		}
		if loadErr != nil {
			out.Error = loadErr.Error()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode page: %w", err)
		}
	} else {
		_, _ = fmt.Fprintln(w, renderPageText(theme, view))
		if opts.stats {
			_, _ = fmt.Fprintln(w)
			_, _ = fmt.Fprintln(w, theme.RenderCacheStats(cacheStatsRows(pages.Stats()), pages.Keys()))
		}
	}

	if loadErr != nil {
		return fmt.Errorf("no characters found for %q on page %d: %w", view.Term, view.Page, loadErr)
	}
	return nil
}

func renderPageText(theme *styles.Theme, view usecase.SessionView) string {
	if view.NotFound {
		return theme.RenderNotFound(view.Term)
	}

	var sb strings.Builder
	sb.WriteString(theme.RenderPager(view.Page, view.TotalPages, view.CanPrev(), view.CanNext()))
	sb.WriteString("\n\n")
	if len(view.Results) == 0 {
		sb.WriteString(theme.Subtle.Render("This page has no characters"))
		return sb.String()
	}

	for _, c := range view.Results {
		item := styles.CharacterItem{Character: c}
		sb.WriteString(fmt.Sprintf("%s %s %s\n    %s\n",
			theme.Subtle.Render(fmt.Sprintf("#%-4d", c.ID)),
			theme.Title.Render(c.Name),
			theme.LifeBadge(c.Status),
			theme.ListItemDesc.Render(item.Summary()),
		))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func cacheStatsRows(s usecase.PageCacheStats) []styles.CacheStatsRow {
	return []styles.CacheStatsRow{
		{Name: "resident", Value: int64(s.Size)},
		{Name: "hits", Value: s.Hits},
		{Name: "misses", Value: s.Misses},
		{Name: "fetches", Value: s.Fetches},
		{Name: "prefetches", Value: s.Prefetches},
		{Name: "prefetch failures", Value: s.PrefetchFailures},
		{Name: "evictions", Value: s.Evictions},
	}
}
