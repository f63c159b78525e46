package pipeline

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmikkelson/wikiheaders/internal/dump"
	"github.com/jmikkelson/wikiheaders/internal/namespace"
	"github.com/jmikkelson/wikiheaders/internal/stats"
	"github.com/jmikkelson/wikiheaders/internal/wikitext"
)

type sliceSource struct {
	pages []*dump.Page
	err   error
	i     int
}

func (s *sliceSource) Next() (*dump.Page, error) {
	if s.i >= len(s.pages) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	p := s.pages[s.i]
	s.i++
	return p, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mainPage(title, text string) *dump.Page {
	return &dump.Page{Title: title, Namespace: 0, Text: text}
}

func level2Count(t *testing.T, st *stats.HeaderStats, key string) uint64 {
	t.Helper()
	counts := st.Counts(key)
	require.NotNil(t, counts, "no record for %q", key)
	n, err := counts.At(2)
	require.NoError(t, err)
	return n
}

func TestRun_NamespaceFiltering(t *testing.T) {
	src := &sliceSource{pages: []*dump.Page{
		mainPage("dog", "== Etymology =="),
		{Title: "Talk:dog", Namespace: 1, Text: "== Skipped =="},
		{Title: "Template:en-noun", Namespace: 10, Text: "== Skipped =="},
	}}
	st := stats.New()
	sum, err := Run(src, st, Options{
		Namespaces: []namespace.Namespace{namespace.Main},
		PageLimit:  100,
	}, discard())
	require.NoError(t, err)

	assert.Equal(t, uint(3), sum.PagesScanned)
	assert.Equal(t, uint(1), sum.PagesSelected)
	assert.Equal(t, uint64(1), sum.Headings)
	assert.Equal(t, uint64(1), level2Count(t, st, "Etymology"))
	assert.Nil(t, st.Counts("Skipped"))
}

func TestRun_PageLimit(t *testing.T) {
	src := &sliceSource{pages: []*dump.Page{
		mainPage("a", "== One =="),
		{Title: "Talk:x", Namespace: 1, Text: "== Skipped =="},
		mainPage("b", "== Two =="),
		mainPage("c", "== Three =="),
	}}
	st := stats.New()
	sum, err := Run(src, st, Options{
		Namespaces: []namespace.Namespace{namespace.Main},
		PageLimit:  2,
	}, discard())
	require.NoError(t, err)

	// The limit counts selected pages, not scanned ones.
	assert.Equal(t, uint(2), sum.PagesSelected)
	assert.Equal(t, uint64(1), level2Count(t, st, "One"))
	assert.Equal(t, uint64(1), level2Count(t, st, "Two"))
	assert.Nil(t, st.Counts("Three"))
}

func TestRun_ZeroLimitProcessesNothing(t *testing.T) {
	src := &sliceSource{pages: []*dump.Page{mainPage("a", "== One ==")}}
	st := stats.New()
	sum, err := Run(src, st, Options{
		Namespaces: []namespace.Namespace{namespace.Main},
		PageLimit:  0,
	}, discard())
	require.NoError(t, err)
	assert.Equal(t, uint(0), sum.PagesScanned)
	assert.Equal(t, 0, st.Len())
}

func TestRun_UnknownNamespaceIsFatal(t *testing.T) {
	src := &sliceSource{pages: []*dump.Page{
		mainPage("a", "== One =="),
		{Title: "weird", Namespace: 42, Text: "== Two =="},
		mainPage("c", "== Three =="),
	}}
	st := stats.New()
	_, err := Run(src, st, Options{
		Namespaces: []namespace.Namespace{namespace.Main},
		PageLimit:  100,
	}, discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown namespace code 42")
	// Nothing after the bad page was processed.
	assert.Nil(t, st.Counts("Three"))
}

func TestRun_SourceErrorIsFatal(t *testing.T) {
	wantErr := errors.New("truncated dump")
	src := &sliceSource{
		pages: []*dump.Page{mainPage("a", "== One ==")},
		err:   wantErr,
	}
	st := stats.New()
	_, err := Run(src, st, Options{
		Namespaces: []namespace.Namespace{namespace.Main},
		PageLimit:  100,
	}, discard())
	require.ErrorIs(t, err, wantErr)
}

func TestRun_OutOfRangeHeadingIsFatal(t *testing.T) {
	src := &sliceSource{pages: []*dump.Page{
		mainPage("a", "= Title ="),
	}}
	st := stats.New()
	_, err := Run(src, st, Options{
		Namespaces: []namespace.Namespace{namespace.Main},
		PageLimit:  100,
	}, discard())
	require.ErrorIs(t, err, stats.ErrLevelOutOfRange)
}

func TestRun_VerboseWarnings(t *testing.T) {
	src := &sliceSource{pages: []*dump.Page{
		mainPage("a", "{{unclosed\n== One =="),
	}}
	st := stats.New()
	_, err := Run(src, st, Options{
		Namespaces: []namespace.Namespace{namespace.Main},
		PageLimit:  100,
		Verbose:    true,
	}, discard())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), level2Count(t, st, "One"))
}

func TestReportWarnings_RangeBoundary(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	page := mainPage("a", "short")

	reportWarnings(log, page, []wikitext.Warning{
		{Start: 1, End: 4, Message: wikitext.WarnUnclosedTemplate},
	})
	assert.Contains(t, buf.String(), "text=hor")

	// Out-of-range spans, including an end exactly at the text
	// length, get the distinct diagnostic and never slice the text.
	for _, w := range []wikitext.Warning{
		{Start: -1, End: 2, Message: wikitext.WarnUnclosedTemplate},
		{Start: 0, End: 99, Message: wikitext.WarnUnclosedTemplate},
		{Start: 0, End: 5, Message: wikitext.WarnUnclosedTemplate},
		{Start: 3, End: 2, Message: wikitext.WarnUnclosedTemplate},
	} {
		buf.Reset()
		reportWarnings(log, page, []wikitext.Warning{w})
		assert.Contains(t, buf.String(), "range outside page text", "warning %+v", w)
		assert.NotContains(t, buf.String(), "text=hor", "warning %+v", w)
	}
}
