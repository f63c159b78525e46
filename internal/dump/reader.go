package dump

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"
)

// Page is one page record pulled out of a MediaWiki XML export.
type Page struct {
	Title     string
	Namespace int
	Text      string
	Redirect  string
}

// Reader streams pages out of a dump. The first error is terminal:
// once Next returns a non-nil error, every later call returns the
// same error.
type Reader struct {
	dec *xml.Decoder
	err error
}

// NewReader wraps an already-decompressed dump stream.
func NewReader(r io.Reader) *Reader {
	dec := xml.NewDecoder(r)
	// Dumps declare their encoding in the XML prolog; honor it.
	dec.CharsetReader = charset.NewReaderLabel
	return &Reader{dec: dec}
}

// Open opens a dump file, transparently decompressing .bz2 and .gz.
// The returned closer releases the underlying file.
func Open(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dump: %w", err)
	}
	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bz2":
		r = bzip2.NewReader(f)
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("open dump: %w", err)
		}
		r = gz
	}
	return NewReader(r), f, nil
}

type redirectElement struct {
	Title string `xml:"title,attr"`
}

type pageElement struct {
	Title    string          `xml:"title"`
	Ns       int             `xml:"ns"`
	Redirect redirectElement `xml:"redirect"`
	Text     string          `xml:"revision>text"`
}

// Next returns the next page in document order, io.EOF at the end of
// the stream, or a wrapped XML error on malformed input.
func (r *Reader) Next() (*Page, error) {
	if r.err != nil {
		return nil, r.err
	}
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if err == io.EOF {
				r.err = io.EOF
			} else {
				r.err = fmt.Errorf("read dump: %w", err)
			}
			return nil, r.err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "page" {
			continue
		}
		var el pageElement
		if err := r.dec.DecodeElement(&el, &se); err != nil {
			r.err = fmt.Errorf("decode page: %w", err)
			return nil, r.err
		}
		return &Page{
			Title:     el.Title,
			Namespace: el.Ns,
			Text:      el.Text,
			Redirect:  el.Redirect.Title,
		}, nil
	}
}
