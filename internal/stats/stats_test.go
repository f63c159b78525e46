package stats

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jmikkelson/wikiheaders/internal/dump"
	"github.com/jmikkelson/wikiheaders/internal/wikitext"
)

func page(text string) *dump.Page {
	return &dump.Page{Title: "test", Namespace: 0, Text: text}
}

func process(t *testing.T, s *HeaderStats, text string) {
	t.Helper()
	p := page(text)
	out := wikitext.Parse(p.Text)
	if err := s.ProcessNodes(p, out.Nodes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func countAt(t *testing.T, s *HeaderStats, key string, level int) uint64 {
	t.Helper()
	counts := s.Counts(key)
	if counts == nil {
		t.Fatalf("no record for key %q", key)
	}
	n, err := counts.At(level)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return n
}

func TestHeaderCountsAt(t *testing.T) {
	var c HeaderCounts
	for level := MinLevel; level <= MaxLevel; level++ {
		if err := c.add(level, 1); err != nil {
			t.Fatalf("level %d: unexpected error: %v", level, err)
		}
		n, err := c.At(level)
		if err != nil {
			t.Fatalf("level %d: unexpected error: %v", level, err)
		}
		if n != 1 {
			t.Errorf("level %d: expected 1, got %d", level, n)
		}
	}
	for _, level := range []int{0, 1, 7, -3} {
		if _, err := c.At(level); !errors.Is(err, ErrLevelOutOfRange) {
			t.Errorf("level %d: expected ErrLevelOutOfRange, got %v", level, err)
		}
		if err := c.add(level, 1); !errors.Is(err, ErrLevelOutOfRange) {
			t.Errorf("level %d: expected ErrLevelOutOfRange, got %v", level, err)
		}
	}
}

func TestProcessNodes_CountConservation(t *testing.T) {
	s := New()
	process(t, s, "== Etymology ==\ntext\n=== Pronunciation ===\nmore text\n== Etymology ==")

	if s.Len() != 2 {
		t.Fatalf("expected 2 distinct headers, got %d", s.Len())
	}
	if got := countAt(t, s, "Etymology", 2); got != 2 {
		t.Errorf("expected Etymology level-2 count 2, got %d", got)
	}
	if got := countAt(t, s, "Pronunciation", 3); got != 1 {
		t.Errorf("expected Pronunciation level-3 count 1, got %d", got)
	}
	// All other slots stay zero.
	for level := MinLevel; level <= MaxLevel; level++ {
		if level != 2 {
			if got := countAt(t, s, "Etymology", level); got != 0 {
				t.Errorf("Etymology level %d: expected 0, got %d", level, got)
			}
		}
		if level != 3 {
			if got := countAt(t, s, "Pronunciation", level); got != 0 {
				t.Errorf("Pronunciation level %d: expected 0, got %d", level, got)
			}
		}
	}
	if s.Total() != 3 {
		t.Errorf("expected 3 heading occurrences, got %d", s.Total())
	}
}

func TestProcessNodes_HeadingContentNotRescanned(t *testing.T) {
	s := New()
	process(t, s, "== A [[B]] ==\n=== C ===")

	if s.Len() != 2 {
		t.Fatalf("expected 2 headers, got %d: %#v", s.Len(), s.Records())
	}
	if got := countAt(t, s, "A [[B]]", 2); got != 1 {
		t.Errorf("expected %q level-2 count 1, got %d", "A [[B]]", got)
	}
	if got := countAt(t, s, "C", 3); got != 1 {
		t.Errorf("expected C level-3 count 1, got %d", got)
	}
}

func TestProcessNodes_KeyTrimming(t *testing.T) {
	s := New()
	process(t, s, "==\t Foo  ==")
	if got := countAt(t, s, "Foo", 2); got != 1 {
		t.Errorf("expected trimmed key %q, got records %#v", "Foo", s.Records())
	}

	// Only ASCII space and tab are trimmed; other whitespace is part
	// of the key.
	s = New()
	process(t, s, "== \u00a0Bar ==")
	if s.Counts("\u00a0Bar") == nil {
		t.Errorf("expected key %q to keep its non-breaking space, got %#v", "\u00a0Bar", s.Records())
	}
}

// Trimming the already-trimmed key is a no-op, so keys are stable
// however many times they round-trip.
func TestProcessNodes_TrimIdempotent(t *testing.T) {
	s := New()
	process(t, s, "==  spaced out  ==\n==  spaced out  ==")
	if got := countAt(t, s, "spaced out", 2); got != 2 {
		t.Errorf("expected both occurrences under one key, got %#v", s.Records())
	}
}

// heading returns a level-2 "Foo" heading addressing src == "== Foo ==".
func fooHeading() wikitext.Node {
	return &wikitext.Heading{
		Span:  wikitext.Span{Start: 0, End: 9},
		Level: 2,
		Nodes: []wikitext.Node{
			&wikitext.Text{Span: wikitext.Span{Start: 3, End: 6}, Value: "Foo"},
		},
	}
}

func TestProcessNodes_RecursionCompleteness(t *testing.T) {
	h := fooHeading()
	tests := []struct {
		name  string
		nodes []wikitext.Node
	}{
		{"top level", []wikitext.Node{h}},
		{"unordered list item", []wikitext.Node{
			&wikitext.UnorderedList{Items: []wikitext.ListItem{{Nodes: []wikitext.Node{h}}}},
		}},
		{"ordered list item", []wikitext.Node{
			&wikitext.OrderedList{Items: []wikitext.ListItem{{Nodes: []wikitext.Node{h}}}},
		}},
		{"definition list item", []wikitext.Node{
			&wikitext.DefinitionList{Items: []wikitext.DefinitionListItem{{Nodes: []wikitext.Node{h}}}},
		}},
		{"preformatted", []wikitext.Node{
			&wikitext.Preformatted{Nodes: []wikitext.Node{h}},
		}},
		{"container tag", []wikitext.Node{
			&wikitext.Tag{Name: "ref", Nodes: []wikitext.Node{h}},
		}},
		{"image caption", []wikitext.Node{
			&wikitext.Image{Target: "File:X.jpg", Text: []wikitext.Node{h}},
		}},
		{"link caption", []wikitext.Node{
			&wikitext.Link{Target: "x", Text: []wikitext.Node{h}},
		}},
		{"parameter default", []wikitext.Node{
			&wikitext.Parameter{Default: []wikitext.Node{h}},
		}},
		{"parameter name", []wikitext.Node{
			&wikitext.Parameter{Name: []wikitext.Node{h}},
		}},
		{"table attributes", []wikitext.Node{
			&wikitext.Table{Attributes: []wikitext.Node{h}},
		}},
		{"table caption content", []wikitext.Node{
			&wikitext.Table{Captions: []wikitext.TableCaption{{Content: []wikitext.Node{h}}}},
		}},
		{"table caption attributes", []wikitext.Node{
			&wikitext.Table{Captions: []wikitext.TableCaption{{Attributes: []wikitext.Node{h}}}},
		}},
		{"table row attributes", []wikitext.Node{
			&wikitext.Table{Rows: []wikitext.TableRow{{Attributes: []wikitext.Node{h}}}},
		}},
		{"table cell content", []wikitext.Node{
			&wikitext.Table{Rows: []wikitext.TableRow{{
				Cells: []wikitext.TableCell{{Content: []wikitext.Node{h}}},
			}}},
		}},
		{"table cell attributes", []wikitext.Node{
			&wikitext.Table{Rows: []wikitext.TableRow{{
				Cells: []wikitext.TableCell{{Attributes: []wikitext.Node{h}}},
			}}},
		}},
		{"template name", []wikitext.Node{
			&wikitext.Template{Name: []wikitext.Node{h}},
		}},
		{"template parameter value", []wikitext.Node{
			&wikitext.Template{Parameters: []wikitext.TemplateParameter{{Value: []wikitext.Node{h}}}},
		}},
		{"template parameter name", []wikitext.Node{
			&wikitext.Template{Parameters: []wikitext.TemplateParameter{{Name: []wikitext.Node{h}}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			if err := s.ProcessNodes(page("== Foo =="), tt.nodes); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := countAt(t, s, "Foo", 2); got != 1 {
				t.Errorf("expected Foo level-2 count 1, got %d", got)
			}
			if s.Total() != 1 {
				t.Errorf("expected exactly one occurrence, got %d", s.Total())
			}
		})
	}
}

func TestProcessNodes_LeavesIgnored(t *testing.T) {
	h := fooHeading()
	// A heading hidden inside a leaf node must not be counted: leaves
	// carry no structure relevant to header discovery.
	nodes := []wikitext.Node{
		&wikitext.Bold{},
		&wikitext.Italic{},
		&wikitext.BoldItalic{},
		&wikitext.Category{Target: "Category:en:X", Ordinal: []wikitext.Node{h}},
		&wikitext.CharacterEntity{Character: 'x'},
		&wikitext.Comment{},
		&wikitext.EndTag{Name: "ref"},
		&wikitext.ExternalLink{Nodes: []wikitext.Node{h}},
		&wikitext.HorizontalDivider{},
		&wikitext.MagicWord{},
		&wikitext.ParagraphBreak{},
		&wikitext.Redirect{Target: "x"},
		&wikitext.StartTag{Name: "br"},
		&wikitext.Text{Value: "== Foo =="},
	}
	s := New()
	if err := s.ProcessNodes(page("== Foo =="), nodes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 0 || s.Total() != 0 {
		t.Errorf("expected empty aggregate, got %#v", s.Records())
	}
}

func TestProcessNodes_RejectsOutOfRangeLevel(t *testing.T) {
	for _, level := range []int{1, 7} {
		s := New()
		nodes := []wikitext.Node{&wikitext.Heading{
			Span:  wikitext.Span{Start: 0, End: 9},
			Level: level,
			Nodes: []wikitext.Node{&wikitext.Text{Span: wikitext.Span{Start: 3, End: 6}, Value: "Foo"}},
		}}
		err := s.ProcessNodes(page("== Foo =="), nodes)
		if !errors.Is(err, ErrLevelOutOfRange) {
			t.Errorf("level %d: expected ErrLevelOutOfRange, got %v", level, err)
		}
	}
}

func TestRecordsSorted(t *testing.T) {
	s := New()
	for _, key := range []string{"zebra", "Alpha", "middle"} {
		if err := s.recordHeader(key, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	records := s.Records()
	want := []string{"Alpha", "middle", "zebra"}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, rec := range records {
		if rec.Header != want[i] {
			t.Errorf("record %d: expected %q, got %q", i, want[i], rec.Header)
		}
	}
}

func TestMergeCommutative(t *testing.T) {
	build := func(keys map[string]int) *HeaderStats {
		s := New()
		for key, level := range keys {
			if err := s.recordHeader(key, level); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		return s
	}
	a1 := build(map[string]int{"Etymology": 2, "Usage": 4})
	b1 := build(map[string]int{"Etymology": 2, "Noun": 3})
	a2 := build(map[string]int{"Etymology": 2, "Usage": 4})
	b2 := build(map[string]int{"Etymology": 2, "Noun": 3})

	a1.Merge(b1)
	b2.Merge(a2)

	if !reflect.DeepEqual(a1.Records(), b2.Records()) {
		t.Errorf("merge order changed the result:\n%#v\n%#v", a1.Records(), b2.Records())
	}
	if got := countAt(t, a1, "Etymology", 2); got != 2 {
		t.Errorf("expected merged Etymology count 2, got %d", got)
	}
}
