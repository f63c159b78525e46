// Package pipeline pulls pages from a dump, selects the ones worth
// counting and feeds their parsed markup to the aggregate.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmikkelson/wikiheaders/internal/dump"
	"github.com/jmikkelson/wikiheaders/internal/namespace"
	"github.com/jmikkelson/wikiheaders/internal/stats"
	"github.com/jmikkelson/wikiheaders/internal/wikitext"
)

// PageSource yields pages in document order. Next returns io.EOF when
// the stream is exhausted; any other error is terminal.
type PageSource interface {
	Next() (*dump.Page, error)
}

// Options selects which pages contribute to the aggregate.
type Options struct {
	// Namespaces is the include set; pages in any other namespace are
	// skipped.
	Namespaces []namespace.Namespace
	// PageLimit stops the run after this many selected pages. Zero
	// processes none.
	PageLimit uint
	// Verbose logs parser warnings for every selected page.
	Verbose bool
}

// RunSummary describes what one run consumed.
type RunSummary struct {
	PagesScanned  uint
	PagesSelected uint
	Headings      uint64
}

// Run drains src into st until the stream ends or PageLimit selected
// pages have been processed. The first error aborts the run: a dump
// read error, a namespace code that cannot be resolved, or a heading
// the aggregate rejects.
func Run(src PageSource, st *stats.HeaderStats, opts Options, log *slog.Logger) (RunSummary, error) {
	include := make(map[namespace.Namespace]struct{}, len(opts.Namespaces))
	for _, ns := range opts.Namespaces {
		include[ns] = struct{}{}
	}

	var sum RunSummary
	for sum.PagesSelected < opts.PageLimit {
		page, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("pull page: %w", err)
		}
		sum.PagesScanned++

		ns, err := namespace.FromCode(page.Namespace)
		if err != nil {
			return sum, fmt.Errorf("page %q: %w", page.Title, err)
		}
		if _, ok := include[ns]; !ok {
			continue
		}
		sum.PagesSelected++

		parsed := wikitext.Parse(page.Text)
		if opts.Verbose {
			reportWarnings(log, page, parsed.Warnings)
		}
		if err := st.ProcessNodes(page, parsed.Nodes); err != nil {
			return sum, fmt.Errorf("page %q: %w", page.Title, err)
		}
	}
	sum.Headings = st.Total()
	return sum, nil
}
