package wikitext

// Node is one element of a parsed wikitext tree. Every node records the
// half-open byte range [start, end) it occupies in the page source, so
// callers can slice the original markup back out of the raw text.
type Node interface {
	Bounds() (start, end int)
}

// Span is the source byte range embedded in every concrete node.
type Span struct {
	Start int
	End   int
}

func (s Span) Bounds() (int, int) { return s.Start, s.End }

// Heading is a section header: ==Title== through ======Title======.
// Level counts the equals signs (2..6 in well-formed pages; a single
// pair produces level 1, which the grammar allows).
type Heading struct {
	Span
	Level int
	Nodes []Node
}

// Text is a run of plain characters.
type Text struct {
	Span
	Value string
}

// ListItem is one item of an ordered or unordered list.
type ListItem struct {
	Span
	Nodes []Node
}

// UnorderedList is a run of lines starting with "*".
type UnorderedList struct {
	Span
	Items []ListItem
}

// OrderedList is a run of lines starting with "#".
type OrderedList struct {
	Span
	Items []ListItem
}

// DefinitionListItem is one ";" term or ":" details line.
type DefinitionListItem struct {
	Span
	Term  bool
	Nodes []Node
}

// DefinitionList is a run of ";" and ":" lines.
type DefinitionList struct {
	Span
	Items []DefinitionListItem
}

// Preformatted is a block of space-indented lines (or a <pre> element).
type Preformatted struct {
	Span
	Nodes []Node
}

// Tag is an HTML-like container element with a matching close tag,
// e.g. <ref>...</ref>. Its content is parsed as nested wikitext.
type Tag struct {
	Span
	Name  string
	Nodes []Node
}

// StartTag is an opening or self-closing tag with no parsed content.
type StartTag struct {
	Span
	Name string
}

// EndTag is a close tag encountered without a matching open tag.
type EndTag struct {
	Span
	Name string
}

// Image is a file inclusion link ([[File:...]] / [[Image:...]]).
// Text holds the caption nodes.
type Image struct {
	Span
	Target string
	Text   []Node
}

// Link is an internal wiki link. Text holds the displayed nodes; for a
// plain [[target]] link they cover the target text itself.
type Link struct {
	Span
	Target string
	Text   []Node
}

// Parameter is a template parameter placeholder {{{name|default}}}.
// Default is nil when no default value is given.
type Parameter struct {
	Span
	Name    []Node
	Default []Node
}

// TableCaption is a "|+" line inside a table. Attributes is nil when
// the caption carries no attribute segment.
type TableCaption struct {
	Span
	Attributes []Node
	Content    []Node
}

// TableCell is a "|" or "!" cell. Attributes is nil when the cell
// carries no attribute segment.
type TableCell struct {
	Span
	Header     bool
	Attributes []Node
	Content    []Node
}

// TableRow is a "|-" separated row of cells.
type TableRow struct {
	Span
	Attributes []Node
	Cells      []TableCell
}

// Table is a "{|" ... "|}" block.
type Table struct {
	Span
	Attributes []Node
	Captions   []TableCaption
	Rows       []TableRow
}

// TemplateParameter is one "|" separated argument of a template
// invocation. Name is nil for positional arguments.
type TemplateParameter struct {
	Span
	Name  []Node
	Value []Node
}

// Template is a transclusion {{name|...}}.
type Template struct {
	Span
	Name       []Node
	Parameters []TemplateParameter
}

// Bold is a ''' toggle marker.
type Bold struct{ Span }

// Italic is a '' toggle marker.
type Italic struct{ Span }

// BoldItalic is a ''''' toggle marker.
type BoldItalic struct{ Span }

// Category is a category assignment link. Ordinal holds the sort key
// nodes, if any.
type Category struct {
	Span
	Target  string
	Ordinal []Node
}

// CharacterEntity is a decoded HTML character reference such as &eacute;.
type CharacterEntity struct {
	Span
	Character rune
}

// Comment is an HTML comment.
type Comment struct{ Span }

// ExternalLink is a bracketed external link [url text].
type ExternalLink struct {
	Span
	Nodes []Node
}

// HorizontalDivider is a ---- line.
type HorizontalDivider struct{ Span }

// MagicWord is a behavior switch such as __NOTOC__.
type MagicWord struct{ Span }

// ParagraphBreak is a blank line between blocks.
type ParagraphBreak struct{ Span }

// Redirect is a #REDIRECT directive at the top of a page.
type Redirect struct {
	Span
	Target string
}

// NodesText returns the exact substring of source spanned by the node
// sequence, from the start of the first node to the end of the last.
// It returns "" for an empty sequence or a range that falls outside
// the source.
func NodesText(source string, nodes []Node) string {
	if len(nodes) == 0 {
		return ""
	}
	start, _ := nodes[0].Bounds()
	_, end := nodes[len(nodes)-1].Bounds()
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return source[start:end]
}
