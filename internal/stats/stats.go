// Package stats aggregates section-header frequencies across a corpus
// of parsed wiki pages.
package stats

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmikkelson/wikiheaders/internal/dump"
	"github.com/jmikkelson/wikiheaders/internal/wikitext"
)

// Only levels 2 through 6 are aggregated. Level 1 is reserved for the
// page title and never appears as a section header in practice.
const (
	MinLevel = 2
	MaxLevel = 6

	numLevels = MaxLevel - MinLevel + 1
)

// ErrLevelOutOfRange is returned when a heading level outside
// [MinLevel, MaxLevel] reaches the counter.
var ErrLevelOutOfRange = errors.New("heading level outside the aggregated range")

// HeaderCounts holds one occurrence counter per heading level. The
// zero value is ready to use. Slots are addressed by level through At;
// there is no unchecked index path.
type HeaderCounts [numLevels]uint64

// At returns the count recorded for level.
func (c *HeaderCounts) At(level int) (uint64, error) {
	if level < MinLevel || level > MaxLevel {
		return 0, fmt.Errorf("%w: %d", ErrLevelOutOfRange, level)
	}
	return c[level-MinLevel], nil
}

func (c *HeaderCounts) add(level int, n uint64) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("%w: %d", ErrLevelOutOfRange, level)
	}
	c[level-MinLevel] += n
	return nil
}

// HeaderRecord is one finalized row of the aggregate: a header text
// and its per-level counts, serialized as [h2,h3,h4,h5,h6].
type HeaderRecord struct {
	Header string       `json:"header"`
	Counts HeaderCounts `json:"counts"`
}

// HeaderStats owns the header count table. Create it with New, feed it
// pages through ProcessNodes, then read the result with Records.
type HeaderStats struct {
	counts map[string]*HeaderCounts
}

// New returns an empty aggregate.
func New() *HeaderStats {
	return &HeaderStats{counts: make(map[string]*HeaderCounts)}
}

// ProcessNodes walks one page's markup tree depth-first in document
// order and records every heading it finds. Heading content is handed
// to the key extractor; list items, table parts, template arguments,
// link captions, parameters and container tags are descended into;
// all other node kinds carry no nested structure relevant here.
func (s *HeaderStats) ProcessNodes(page *dump.Page, nodes []wikitext.Node) error {
	for _, node := range nodes {
		switch n := node.(type) {
		case *wikitext.Heading:
			// A heading's own markup cannot nest further headings, so
			// its children are not walked as generic content.
			if err := s.processHeader(page, n.Nodes, n.Level); err != nil {
				return err
			}
		case *wikitext.DefinitionList:
			for _, item := range n.Items {
				if err := s.ProcessNodes(page, item.Nodes); err != nil {
					return err
				}
			}
		case *wikitext.OrderedList:
			for _, item := range n.Items {
				if err := s.ProcessNodes(page, item.Nodes); err != nil {
					return err
				}
			}
		case *wikitext.UnorderedList:
			for _, item := range n.Items {
				if err := s.ProcessNodes(page, item.Nodes); err != nil {
					return err
				}
			}
		case *wikitext.Preformatted:
			if err := s.ProcessNodes(page, n.Nodes); err != nil {
				return err
			}
		case *wikitext.Tag:
			if err := s.ProcessNodes(page, n.Nodes); err != nil {
				return err
			}
		case *wikitext.Image:
			if err := s.ProcessNodes(page, n.Text); err != nil {
				return err
			}
		case *wikitext.Link:
			if err := s.ProcessNodes(page, n.Text); err != nil {
				return err
			}
		case *wikitext.Parameter:
			if n.Default != nil {
				if err := s.ProcessNodes(page, n.Default); err != nil {
					return err
				}
			}
			if err := s.ProcessNodes(page, n.Name); err != nil {
				return err
			}
		case *wikitext.Table:
			if err := s.ProcessNodes(page, n.Attributes); err != nil {
				return err
			}
			for _, caption := range n.Captions {
				if caption.Attributes != nil {
					if err := s.ProcessNodes(page, caption.Attributes); err != nil {
						return err
					}
				}
				if err := s.ProcessNodes(page, caption.Content); err != nil {
					return err
				}
			}
			for _, row := range n.Rows {
				if err := s.ProcessNodes(page, row.Attributes); err != nil {
					return err
				}
				for _, cell := range row.Cells {
					if cell.Attributes != nil {
						if err := s.ProcessNodes(page, cell.Attributes); err != nil {
							return err
						}
					}
					if err := s.ProcessNodes(page, cell.Content); err != nil {
						return err
					}
				}
			}
		case *wikitext.Template:
			if err := s.ProcessNodes(page, n.Name); err != nil {
				return err
			}
			for _, param := range n.Parameters {
				if param.Name != nil {
					if err := s.ProcessNodes(page, param.Name); err != nil {
						return err
					}
				}
				if err := s.ProcessNodes(page, param.Value); err != nil {
					return err
				}
			}
		case *wikitext.Bold, *wikitext.BoldItalic, *wikitext.Category,
			*wikitext.CharacterEntity, *wikitext.Comment, *wikitext.EndTag,
			*wikitext.ExternalLink, *wikitext.HorizontalDivider,
			*wikitext.Italic, *wikitext.MagicWord, *wikitext.ParagraphBreak,
			*wikitext.Redirect, *wikitext.StartTag, *wikitext.Text:
			// Leaf kinds: nothing to descend into.
		default:
			return fmt.Errorf("unhandled markup node %T", node)
		}
	}
	return nil
}

// processHeader extracts the header key for one heading occurrence:
// the raw source substring spanned by the heading's children, trimmed
// of ASCII spaces and tabs only.
func (s *HeaderStats) processHeader(page *dump.Page, nodes []wikitext.Node, level int) error {
	key := strings.Trim(wikitext.NodesText(page.Text, nodes), " \t")
	return s.recordHeader(key, level)
}

func (s *HeaderStats) recordHeader(key string, level int) error {
	counts, ok := s.counts[key]
	if !ok {
		counts = &HeaderCounts{}
		s.counts[key] = counts
	}
	return counts.add(level, 1)
}

// Len returns the number of distinct header keys seen so far.
func (s *HeaderStats) Len() int { return len(s.counts) }

// Total returns the number of heading occurrences recorded.
func (s *HeaderStats) Total() uint64 {
	var total uint64
	for _, counts := range s.counts {
		for _, n := range counts {
			total += n
		}
	}
	return total
}

// Counts returns the record for key, or nil when the key was never
// observed.
func (s *HeaderStats) Counts(key string) *HeaderCounts {
	return s.counts[key]
}

// Merge folds another aggregate into this one by per-slot addition.
// The operation is commutative, so per-page tallies computed in any
// order merge to the same result.
func (s *HeaderStats) Merge(other *HeaderStats) {
	for key, theirs := range other.counts {
		ours, ok := s.counts[key]
		if !ok {
			ours = &HeaderCounts{}
			s.counts[key] = ours
		}
		for i, n := range theirs {
			ours[i] += n
		}
	}
}

// Records finalizes the table into a deterministic sequence, sorted by
// header key.
func (s *HeaderStats) Records() []HeaderRecord {
	records := make([]HeaderRecord, 0, len(s.counts))
	for header, counts := range s.counts {
		records = append(records, HeaderRecord{Header: header, Counts: *counts})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Header < records[j].Header
	})
	return records
}
