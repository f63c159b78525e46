package wikitext

import (
	"html"
	"strings"
	"unicode/utf8"
)

// Output is the result of parsing one page of wikitext.
type Output struct {
	Nodes    []Node
	Warnings []Warning
}

// Parse converts raw wikitext into a node tree. Parsing never fails;
// malformed constructs degrade to text and produce Warnings.
func Parse(source string) Output {
	p := &parser{src: source}
	nodes := p.parseRegion(0, len(source))
	return Output{Nodes: nodes, Warnings: p.warnings}
}

type parser struct {
	src      string
	warnings []Warning
}

func (p *parser) warn(start, end int, msg WarningMessage) {
	p.warnings = append(p.warnings, Warning{Start: start, End: end, Message: msg})
}

// parseRegion parses the byte range [start, end) of the source.
// Line-start grammar (headings, lists, tables, preformatted blocks)
// applies at the region start when it falls on a line boundary and
// after every newline inside the region, so block constructs nested in
// table cells or template arguments are still recognized.
func (p *parser) parseRegion(start, end int) []Node {
	var nodes []Node
	textStart := -1
	flush := func(upto int) {
		if textStart >= 0 && upto > textStart {
			nodes = append(nodes, &Text{Span: Span{textStart, upto}, Value: p.src[textStart:upto]})
		}
		textStart = -1
	}

	lineStart := start == 0 || p.src[start-1] == '\n'
	pos := start
	for pos < end {
		if p.src[pos] == '\n' {
			flush(pos)
			if lineStart {
				// Blank line. Collapse runs into one break.
				if n := len(nodes); n == 0 || !isParagraphBreak(nodes[n-1]) {
					nodes = append(nodes, &ParagraphBreak{Span{pos, pos + 1}})
				}
			}
			pos++
			lineStart = true
			continue
		}
		if lineStart {
			if node, next, ok := p.parseBlock(pos, end); ok {
				flush(pos)
				if node != nil {
					nodes = append(nodes, node)
				}
				pos = next
				lineStart = pos > 0 && pos <= len(p.src) && p.src[pos-1] == '\n'
				continue
			}
			lineStart = false
		}
		if node, next, ok := p.parseInline(pos, end); ok {
			flush(pos)
			if node != nil {
				nodes = append(nodes, node)
			}
			pos = next
			continue
		}
		if textStart < 0 {
			textStart = pos
		}
		pos++
	}
	flush(end)
	return nodes
}

func isParagraphBreak(n Node) bool {
	_, ok := n.(*ParagraphBreak)
	return ok
}

// parseBlock recognizes constructs that are only valid at the start of
// a line. It returns ok=false when the line is ordinary content.
func (p *parser) parseBlock(pos, end int) (Node, int, bool) {
	switch p.src[pos] {
	case '=':
		return p.parseHeading(pos, end)
	case '#':
		if pos == 0 {
			if node, next, ok := p.parseRedirect(pos, end); ok {
				return node, next, true
			}
		}
		return p.parseList(pos, end)
	case '*', ';', ':':
		return p.parseList(pos, end)
	case '{':
		if pos+1 < end && p.src[pos+1] == '|' {
			return p.parseTable(pos, end)
		}
	case '-':
		if strings.HasPrefix(p.src[pos:end], "----") {
			run := pos
			for run < end && p.src[run] == '-' {
				run++
			}
			return &HorizontalDivider{Span{pos, run}}, run, true
		}
	case ' ':
		return p.parsePreformatted(pos, end)
	}
	return nil, 0, false
}

func (p *parser) eol(pos, end int) int {
	if i := strings.IndexByte(p.src[pos:end], '\n'); i >= 0 {
		return pos + i
	}
	return end
}

func (p *parser) parseHeading(pos, end int) (Node, int, bool) {
	lineEnd := p.eol(pos, end)
	e := lineEnd
	for e > pos && (p.src[e-1] == ' ' || p.src[e-1] == '\t') {
		e--
	}
	lead := 0
	for pos+lead < e && p.src[pos+lead] == '=' {
		lead++
	}
	trail := 0
	for e-trail > pos+lead && p.src[e-trail-1] == '=' {
		trail++
	}
	if lead == 0 || trail == 0 || lead+trail >= e-pos {
		return nil, 0, false
	}
	level := lead
	if trail < level {
		level = trail
	}
	if level > 6 {
		level = 6
	}
	children := p.parseRegion(pos+level, e-level)
	return &Heading{Span: Span{pos, lineEnd}, Level: level, Nodes: children}, lineEnd, true
}

func isListMarker(c byte) bool {
	return c == '*' || c == '#' || c == ';' || c == ':'
}

// listKind groups markers: ';' and ':' lines form one definition list.
func listKind(c byte) byte {
	if c == ';' || c == ':' {
		return ';'
	}
	return c
}

func (p *parser) parseList(pos, end int) (Node, int, bool) {
	kind := listKind(p.src[pos])
	var items []ListItem
	var defItems []DefinitionListItem

	cur := pos
	last := pos
	for {
		lineEnd := p.eol(cur, end)
		contentStart := cur
		for contentStart < lineEnd && isListMarker(p.src[contentStart]) {
			contentStart++
		}
		children := p.parseRegion(contentStart, lineEnd)
		if kind == ';' {
			defItems = append(defItems, DefinitionListItem{
				Span:  Span{cur, lineEnd},
				Term:  p.src[cur] == ';',
				Nodes: children,
			})
		} else {
			items = append(items, ListItem{Span: Span{cur, lineEnd}, Nodes: children})
		}
		last = lineEnd
		// Continue only when the next line starts with the same kind.
		next := lineEnd + 1
		if lineEnd >= end || next >= end || !isListMarker(p.src[next]) || listKind(p.src[next]) != kind {
			break
		}
		cur = next
	}

	span := Span{pos, last}
	switch kind {
	case ';':
		return &DefinitionList{Span: span, Items: defItems}, last, true
	case '#':
		return &OrderedList{Span: span, Items: items}, last, true
	default:
		return &UnorderedList{Span: span, Items: items}, last, true
	}
}

func (p *parser) parsePreformatted(pos, end int) (Node, int, bool) {
	lineEnd := p.eol(pos, end)
	if strings.TrimLeft(p.src[pos:lineEnd], " \t") == "" {
		return nil, 0, false
	}
	var children []Node
	cur := pos
	last := pos
	for {
		le := p.eol(cur, end)
		children = append(children, p.parseRegion(cur+1, le)...)
		last = le
		next := le + 1
		if le >= end || next >= end || p.src[next] != ' ' {
			break
		}
		if strings.TrimLeft(p.src[next:p.eol(next, end)], " \t") == "" {
			break
		}
		cur = next
	}
	return &Preformatted{Span: Span{pos, last}, Nodes: children}, last, true
}

func (p *parser) parseRedirect(pos, end int) (Node, int, bool) {
	const directive = "#redirect"
	lineEnd := p.eol(pos, end)
	if lineEnd-pos < len(directive) || !strings.EqualFold(p.src[pos:pos+len(directive)], directive) {
		return nil, 0, false
	}
	i := pos + len(directive)
	for i < lineEnd && (p.src[i] == ' ' || p.src[i] == ':') {
		i++
	}
	if !strings.HasPrefix(p.src[i:lineEnd], "[[") {
		return nil, 0, false
	}
	close := strings.Index(p.src[i:lineEnd], "]]")
	if close < 0 {
		return nil, 0, false
	}
	inner := p.src[i+2 : i+close]
	if bar := strings.IndexByte(inner, '|'); bar >= 0 {
		inner = inner[:bar]
	}
	next := i + close + 2
	return &Redirect{Span: Span{pos, next}, Target: inner}, next, true
}

// parseTable consumes a {| ... |} block. Line structure inside the
// table is interpreted at column zero only; cell content may span
// multiple lines and is parsed as full wikitext.
func (p *parser) parseTable(pos, end int) (Node, int, bool) {
	t := &Table{Span: Span{pos, end}}
	lineEnd := p.eol(pos, end)
	t.Attributes = p.parseRegion(pos+2, lineEnd)

	var curRow *TableRow
	flushRow := func() {
		if curRow != nil {
			t.Rows = append(t.Rows, *curRow)
			curRow = nil
		}
	}
	ensureRow := func(at int) {
		if curRow == nil {
			curRow = &TableRow{Span: Span{at, at}}
		}
	}

	cur := lineEnd + 1
	for cur < end {
		le := p.eol(cur, end)
		line := p.src[cur:le]
		switch {
		case line == "":
			cur = le + 1
		case strings.HasPrefix(line, "|}"):
			flushRow()
			t.End = cur + 2
			return t, cur + 2, true
		case strings.HasPrefix(line, "|+"):
			caption := TableCaption{Span: Span{cur, le}}
			if sep := p.findCellAttrSep(cur+2, le); sep >= 0 {
				caption.Attributes = p.parseRegion(cur+2, sep)
				caption.Content = p.parseRegion(sep+1, le)
			} else {
				caption.Content = p.parseRegion(cur+2, le)
			}
			t.Captions = append(t.Captions, caption)
			cur = le + 1
		case strings.HasPrefix(line, "|-"):
			flushRow()
			attrStart := cur + 2
			for attrStart < le && p.src[attrStart] == '-' {
				attrStart++
			}
			curRow = &TableRow{
				Span:       Span{cur, le},
				Attributes: p.parseRegion(attrStart, le),
			}
			cur = le + 1
		case line[0] == '|' || line[0] == '!':
			ensureRow(cur)
			header := line[0] == '!'
			// Cell content runs until the next structural line.
			blockEnd := le
			next := le + 1
			for next < end {
				nle := p.eol(next, end)
				if next < end && (p.src[next] == '|' || p.src[next] == '!') {
					break
				}
				blockEnd = nle
				next = nle + 1
			}
			sep := "||"
			if header {
				sep = "!!"
			}
			for _, seg := range p.splitTopLevel(cur+1, blockEnd, sep) {
				cell := TableCell{Span: Span{seg[0], seg[1]}, Header: header}
				if attrSep := p.findCellAttrSep(seg[0], seg[1]); attrSep >= 0 {
					cell.Attributes = p.parseRegion(seg[0], attrSep)
					cell.Content = p.parseRegion(attrSep+1, seg[1])
				} else {
					cell.Content = p.parseRegion(seg[0], seg[1])
				}
				curRow.Cells = append(curRow.Cells, cell)
			}
			cur = blockEnd + 1
		default:
			// Stray in-table line: keep its content reachable as an
			// anonymous cell so nothing in the page is skipped.
			ensureRow(cur)
			curRow.Cells = append(curRow.Cells, TableCell{
				Span:    Span{cur, le},
				Content: p.parseRegion(cur, le),
			})
			cur = le + 1
		}
	}
	flushRow()
	p.warn(pos, pos+2, WarnUnclosedTable)
	t.End = end
	return t, end, true
}

// findCellAttrSep finds the single "|" separating cell attributes from
// content, which must sit on the first line of the cell outside any
// nested construct. Returns -1 when the cell has no attribute segment.
func (p *parser) findCellAttrSep(start, end int) int {
	curly, square := 0, 0
	for i := start; i < end; i++ {
		switch p.src[i] {
		case '\n':
			return -1
		case '{':
			curly++
		case '}':
			if curly > 0 {
				curly--
			}
		case '[':
			square++
		case ']':
			if square > 0 {
				square--
			}
		case '|':
			if i+1 < end && p.src[i+1] == '|' {
				return -1
			}
			if curly == 0 && square == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits [start, end) on sep, ignoring separators inside
// {{...}}, {{{...}}} and [[...]].
func (p *parser) splitTopLevel(start, end int, sep string) [][2]int {
	var parts [][2]int
	curly, square := 0, 0
	segStart := start
	i := start
	for i < end {
		switch p.src[i] {
		case '{':
			curly++
			i++
			continue
		case '}':
			if curly > 0 {
				curly--
			}
			i++
			continue
		case '[':
			if strings.HasPrefix(p.src[i:end], "[[") {
				square++
				i += 2
				continue
			}
		case ']':
			if strings.HasPrefix(p.src[i:end], "]]") && square > 0 {
				square--
				i += 2
				continue
			}
		}
		if curly == 0 && square == 0 && strings.HasPrefix(p.src[i:end], sep) {
			parts = append(parts, [2]int{segStart, i})
			segStart = i + len(sep)
			i += len(sep)
			continue
		}
		i++
	}
	return append(parts, [2]int{segStart, end})
}

// parseInline recognizes constructs valid at any position.
func (p *parser) parseInline(pos, end int) (Node, int, bool) {
	switch p.src[pos] {
	case '<':
		return p.parseAngle(pos, end)
	case '{':
		if strings.HasPrefix(p.src[pos:end], "{{{") {
			return p.parseParameter(pos, end)
		}
		if strings.HasPrefix(p.src[pos:end], "{{") {
			return p.parseTemplate(pos, end)
		}
	case '[':
		if strings.HasPrefix(p.src[pos:end], "[[") {
			return p.parseLink(pos, end)
		}
		return p.parseExternalLink(pos, end)
	case '\'':
		return p.parseQuotes(pos, end)
	case '&':
		return p.parseEntity(pos, end)
	case '_':
		return p.parseMagicWord(pos, end)
	}
	return nil, 0, false
}

func (p *parser) parseQuotes(pos, end int) (Node, int, bool) {
	run := pos
	for run < end && p.src[run] == '\'' {
		run++
	}
	switch {
	case run-pos >= 5:
		return &BoldItalic{Span{pos, pos + 5}}, pos + 5, true
	case run-pos >= 3:
		return &Bold{Span{pos, pos + 3}}, pos + 3, true
	case run-pos == 2:
		return &Italic{Span{pos, pos + 2}}, pos + 2, true
	}
	return nil, 0, false
}

func (p *parser) parseMagicWord(pos, end int) (Node, int, bool) {
	if !strings.HasPrefix(p.src[pos:end], "__") {
		return nil, 0, false
	}
	i := pos + 2
	for i < end && p.src[i] >= 'A' && p.src[i] <= 'Z' {
		i++
	}
	if i == pos+2 || !strings.HasPrefix(p.src[i:end], "__") {
		return nil, 0, false
	}
	return &MagicWord{Span{pos, i + 2}}, i + 2, true
}

func (p *parser) parseEntity(pos, end int) (Node, int, bool) {
	i := pos + 1
	if i < end && p.src[i] == '#' {
		i++
		if i < end && (p.src[i] == 'x' || p.src[i] == 'X') {
			i++
		}
		for i < end && isHexDigit(p.src[i]) {
			i++
		}
	} else {
		for i < end && i-pos <= 32 && isAlnum(p.src[i]) {
			i++
		}
	}
	if i <= pos+1 || i >= end || p.src[i] != ';' {
		return nil, 0, false
	}
	entity := p.src[pos : i+1]
	decoded := html.UnescapeString(entity)
	if decoded == entity {
		return nil, 0, false
	}
	r, _ := utf8.DecodeRuneInString(decoded)
	return &CharacterEntity{Span: Span{pos, i + 1}, Character: r}, i + 1, true
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (p *parser) parseParameter(pos, end int) (Node, int, bool) {
	close := strings.Index(p.src[pos+3:end], "}}}")
	if close < 0 {
		p.warn(pos, pos+3, WarnUnclosedParameter)
		return nil, 0, false
	}
	innerStart := pos + 3
	innerEnd := innerStart + close
	node := &Parameter{Span: Span{pos, innerEnd + 3}}
	segs := p.splitTopLevel(innerStart, innerEnd, "|")
	node.Name = p.parseRegion(segs[0][0], segs[0][1])
	if len(segs) > 1 {
		node.Default = p.parseRegion(segs[1][0], segs[1][1])
	}
	return node, innerEnd + 3, true
}

func (p *parser) findTemplateEnd(pos, end int) int {
	depth := 1
	for i := pos; i+1 < end; i++ {
		if p.src[i] == '{' && p.src[i+1] == '{' {
			depth++
			i++
		} else if p.src[i] == '}' && p.src[i+1] == '}' {
			depth--
			if depth == 0 {
				return i
			}
			i++
		}
	}
	return -1
}

func (p *parser) parseTemplate(pos, end int) (Node, int, bool) {
	close := p.findTemplateEnd(pos+2, end)
	if close < 0 {
		p.warn(pos, pos+2, WarnUnclosedTemplate)
		return nil, 0, false
	}
	node := &Template{Span: Span{pos, close + 2}}
	segs := p.splitTopLevel(pos+2, close, "|")
	node.Name = p.parseRegion(segs[0][0], segs[0][1])
	for _, seg := range segs[1:] {
		param := TemplateParameter{Span: Span{seg[0], seg[1]}}
		if eq := p.findParamNameSep(seg[0], seg[1]); eq >= 0 {
			param.Name = p.parseRegion(seg[0], eq)
			param.Value = p.parseRegion(eq+1, seg[1])
		} else {
			param.Value = p.parseRegion(seg[0], seg[1])
		}
		node.Parameters = append(node.Parameters, param)
	}
	return node, close + 2, true
}

// findParamNameSep finds the "=" splitting a named template argument,
// outside any nested construct.
func (p *parser) findParamNameSep(start, end int) int {
	curly, square := 0, 0
	for i := start; i < end; i++ {
		switch p.src[i] {
		case '{':
			curly++
		case '}':
			if curly > 0 {
				curly--
			}
		case '[':
			square++
		case ']':
			if square > 0 {
				square--
			}
		case '=':
			if curly == 0 && square == 0 {
				return i
			}
		}
	}
	return -1
}

func (p *parser) findLinkEnd(pos, end int) int {
	depth := 1
	for i := pos; i+1 < end; i++ {
		if p.src[i] == '[' && p.src[i+1] == '[' {
			depth++
			i++
		} else if p.src[i] == ']' && p.src[i+1] == ']' {
			depth--
			if depth == 0 {
				return i
			}
			i++
		}
	}
	return -1
}

func (p *parser) parseLink(pos, end int) (Node, int, bool) {
	close := p.findLinkEnd(pos+2, end)
	if close < 0 {
		p.warn(pos, pos+2, WarnUnclosedLink)
		return nil, 0, false
	}
	next := close + 2
	segs := p.splitTopLevel(pos+2, close, "|")
	target := p.src[segs[0][0]:segs[0][1]]
	kind := strings.ToLower(strings.TrimSpace(target))

	switch {
	case strings.HasPrefix(kind, "category:"):
		node := &Category{Span: Span{pos, next}, Target: target}
		if len(segs) > 1 {
			node.Ordinal = p.parseRegion(segs[1][0], segs[1][1])
		}
		return node, next, true
	case strings.HasPrefix(kind, "file:") || strings.HasPrefix(kind, "image:"):
		node := &Image{Span: Span{pos, next}, Target: target}
		if len(segs) > 1 {
			// The caption is the last argument; earlier ones are
			// rendering options.
			last := segs[len(segs)-1]
			node.Text = p.parseRegion(last[0], last[1])
		}
		return node, next, true
	default:
		node := &Link{Span: Span{pos, next}, Target: target}
		if len(segs) > 1 {
			node.Text = p.parseRegion(segs[1][0], segs[1][1])
		} else {
			node.Text = p.parseRegion(segs[0][0], segs[0][1])
		}
		return node, next, true
	}
}

var externalSchemes = []string{"//", "http://", "https://", "ftp://", "ftps://", "irc://", "ircs://", "news://", "mailto:"}

func (p *parser) parseExternalLink(pos, end int) (Node, int, bool) {
	rest := p.src[pos+1 : end]
	match := false
	for _, scheme := range externalSchemes {
		if len(rest) > len(scheme) && strings.EqualFold(rest[:len(scheme)], scheme) {
			match = true
			break
		}
	}
	if !match {
		return nil, 0, false
	}
	lineEnd := p.eol(pos, end)
	close := strings.IndexByte(p.src[pos+1:lineEnd], ']')
	if close < 0 {
		return nil, 0, false
	}
	next := pos + 1 + close + 1
	return &ExternalLink{
		Span:  Span{pos, next},
		Nodes: p.parseRegion(pos+1, next-1),
	}, next, true
}

// Container elements whose content is parsed as nested wikitext.
var containerTags = map[string]bool{
	"blockquote":  true,
	"center":      true,
	"del":         true,
	"div":         true,
	"gallery":     true,
	"includeonly": true,
	"ins":         true,
	"noinclude":   true,
	"poem":        true,
	"q":           true,
	"ref":         true,
	"s":           true,
	"small":       true,
	"span":        true,
	"sub":         true,
	"sup":         true,
	"u":           true,
}

func (p *parser) parseAngle(pos, end int) (Node, int, bool) {
	if strings.HasPrefix(p.src[pos:end], "<!--") {
		close := strings.Index(p.src[pos+4:end], "-->")
		if close < 0 {
			p.warn(pos, pos+4, WarnUnclosedComment)
			return &Comment{Span{pos, end}}, end, true
		}
		next := pos + 4 + close + 3
		return &Comment{Span{pos, next}}, next, true
	}
	if pos+1 >= end {
		return nil, 0, false
	}
	if p.src[pos+1] == '/' {
		name, gt := p.scanTagName(pos+2, end)
		if name == "" || gt < 0 {
			return nil, 0, false
		}
		return &EndTag{Span: Span{pos, gt + 1}, Name: name}, gt + 1, true
	}
	if !isAlpha(p.src[pos+1]) {
		return nil, 0, false
	}
	name, gt := p.scanTagName(pos+1, end)
	if name == "" || gt < 0 {
		return nil, 0, false
	}
	selfClosing := gt > pos && p.src[gt-1] == '/'
	openEnd := gt + 1

	if selfClosing {
		return &StartTag{Span: Span{pos, openEnd}, Name: name}, openEnd, true
	}
	switch {
	case name == "nowiki":
		closeStart, closeEnd := p.findCloseTag(openEnd, end, name)
		if closeStart < 0 {
			p.warn(pos, openEnd, WarnUnclosedTag)
			return &StartTag{Span: Span{pos, openEnd}, Name: name}, openEnd, true
		}
		if closeStart == openEnd {
			return nil, closeEnd, true
		}
		return &Text{
			Span:  Span{openEnd, closeStart},
			Value: p.src[openEnd:closeStart],
		}, closeEnd, true
	case name == "pre":
		closeStart, closeEnd := p.findCloseTag(openEnd, end, name)
		if closeStart < 0 {
			p.warn(pos, openEnd, WarnUnclosedTag)
			return &StartTag{Span: Span{pos, openEnd}, Name: name}, openEnd, true
		}
		inner := []Node{&Text{Span: Span{openEnd, closeStart}, Value: p.src[openEnd:closeStart]}}
		return &Preformatted{Span: Span{pos, closeEnd}, Nodes: inner}, closeEnd, true
	case containerTags[name]:
		closeStart, closeEnd := p.findCloseTag(openEnd, end, name)
		if closeStart < 0 {
			p.warn(pos, openEnd, WarnUnclosedTag)
			return &StartTag{Span: Span{pos, openEnd}, Name: name}, openEnd, true
		}
		return &Tag{
			Span:  Span{pos, closeEnd},
			Name:  name,
			Nodes: p.parseRegion(openEnd, closeStart),
		}, closeEnd, true
	default:
		return &StartTag{Span: Span{pos, openEnd}, Name: name}, openEnd, true
	}
}

// scanTagName reads a tag name starting at pos and locates the closing
// '>', which must appear on the same line as the name. It returns
// ("", -1) when the markup is not a tag.
func (p *parser) scanTagName(pos, end int) (string, int) {
	i := pos
	for i < end && isAlnum(p.src[i]) {
		i++
	}
	if i == pos {
		return "", -1
	}
	name := strings.ToLower(p.src[pos:i])
	rest := p.src[i:end]
	gt := strings.IndexByte(rest, '>')
	if gt < 0 {
		return "", -1
	}
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && nl < gt {
		return "", -1
	}
	return name, i + gt
}

// findCloseTag locates </name ...> at or after pos, case-insensitively.
// It returns the start of the close tag and the position just past it,
// or (-1, -1) when there is none. Tag names are ASCII, so the match
// folds ASCII case only; offsets always index p.src.
func (p *parser) findCloseTag(pos, end int, name string) (int, int) {
	needle := "</" + name
	for at := pos; ; at++ {
		i := strings.IndexByte(p.src[at:end], '<')
		if i < 0 {
			return -1, -1
		}
		at += i
		if at+len(needle) > end {
			return -1, -1
		}
		if !asciiEqualFold(p.src[at:at+len(needle)], needle) {
			continue
		}
		// The needle must be followed by whitespace or '>'.
		j := at + len(needle)
		for j < end && (p.src[j] == ' ' || p.src[j] == '\t') {
			j++
		}
		if j < end && p.src[j] == '>' {
			return at, j + 1
		}
	}
}

// asciiEqualFold compares byte strings of equal length ignoring ASCII
// case. Non-ASCII bytes must match exactly.
func asciiEqualFold(s, t string) bool {
	if len(s) != len(t) {
		return false
	}
	for i := 0; i < len(s); i++ {
		a, b := s[i], t[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}
