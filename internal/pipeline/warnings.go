package pipeline

import (
	"log/slog"

	"github.com/jmikkelson/wikiheaders/internal/dump"
	"github.com/jmikkelson/wikiheaders/internal/wikitext"
)

// reportWarnings logs parser warnings for one page. A warning whose
// byte range falls outside the page text gets a distinct diagnostic
// instead of a slice of the text; an end at the text length counts as
// outside. Purely observational; warnings never change the counts.
func reportWarnings(log *slog.Logger, page *dump.Page, warnings []wikitext.Warning) {
	for _, w := range warnings {
		if w.Start < 0 || w.End >= len(page.Text) || w.Start > w.End {
			log.Warn("parser warning range outside page text",
				"page", page.Title,
				"message", w.Message.Message(),
				"start", w.Start,
				"end", w.End,
				"size", len(page.Text),
			)
			continue
		}
		log.Warn("parser warning",
			"page", page.Title,
			"message", w.Message.Message(),
			"start", w.Start,
			"end", w.End,
			"text", page.Text[w.Start:w.End],
		)
	}
}
