// Package namespace maps the numeric namespace codes found in dump
// files to the symbolic namespaces of a Wiktionary-style wiki.
package namespace

import (
	"fmt"
	"strings"
)

// Namespace is a symbolic page classification. Its integer value is
// the numeric code used in dumps.
type Namespace int

const (
	Media              Namespace = -2
	Special            Namespace = -1
	Main               Namespace = 0
	Talk               Namespace = 1
	User               Namespace = 2
	UserTalk           Namespace = 3
	Project            Namespace = 4
	ProjectTalk        Namespace = 5
	File               Namespace = 6
	FileTalk           Namespace = 7
	MediaWiki          Namespace = 8
	MediaWikiTalk      Namespace = 9
	Template           Namespace = 10
	TemplateTalk       Namespace = 11
	Help               Namespace = 12
	HelpTalk           Namespace = 13
	Category           Namespace = 14
	CategoryTalk       Namespace = 15
	Appendix           Namespace = 100
	AppendixTalk       Namespace = 101
	Concordance        Namespace = 102
	ConcordanceTalk    Namespace = 103
	Index              Namespace = 104
	IndexTalk          Namespace = 105
	Rhymes             Namespace = 106
	RhymesTalk         Namespace = 107
	Transwiki          Namespace = 108
	TranswikiTalk      Namespace = 109
	Thesaurus          Namespace = 110
	ThesaurusTalk      Namespace = 111
	Citations          Namespace = 114
	CitationsTalk      Namespace = 115
	SignGloss          Namespace = 116
	SignGlossTalk      Namespace = 117
	Reconstruction     Namespace = 118
	ReconstructionTalk Namespace = 119
	Module             Namespace = 828
	ModuleTalk         Namespace = 829
)

var names = map[Namespace]string{
	Media:              "Media",
	Special:            "Special",
	Main:               "Main",
	Talk:               "Talk",
	User:               "User",
	UserTalk:           "User talk",
	Project:            "Project",
	ProjectTalk:        "Project talk",
	File:               "File",
	FileTalk:           "File talk",
	MediaWiki:          "MediaWiki",
	MediaWikiTalk:      "MediaWiki talk",
	Template:           "Template",
	TemplateTalk:       "Template talk",
	Help:               "Help",
	HelpTalk:           "Help talk",
	Category:           "Category",
	CategoryTalk:       "Category talk",
	Appendix:           "Appendix",
	AppendixTalk:       "Appendix talk",
	Concordance:        "Concordance",
	ConcordanceTalk:    "Concordance talk",
	Index:              "Index",
	IndexTalk:          "Index talk",
	Rhymes:             "Rhymes",
	RhymesTalk:         "Rhymes talk",
	Transwiki:          "Transwiki",
	TranswikiTalk:      "Transwiki talk",
	Thesaurus:          "Thesaurus",
	ThesaurusTalk:      "Thesaurus talk",
	Citations:          "Citations",
	CitationsTalk:      "Citations talk",
	SignGloss:          "Sign gloss",
	SignGlossTalk:      "Sign gloss talk",
	Reconstruction:     "Reconstruction",
	ReconstructionTalk: "Reconstruction talk",
	Module:             "Module",
	ModuleTalk:         "Module talk",
}

var byName = func() map[string]Namespace {
	m := make(map[string]Namespace, len(names))
	for ns, name := range names {
		m[normalize(name)] = ns
	}
	return m
}()

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", " "))
}

// String returns the canonical namespace name.
func (ns Namespace) String() string {
	if name, ok := names[ns]; ok {
		return name
	}
	return fmt.Sprintf("Namespace(%d)", int(ns))
}

// FromCode resolves a numeric dump namespace code. An unknown code is
// an error; pages cannot be classified without one.
func FromCode(code int) (Namespace, error) {
	ns := Namespace(code)
	if _, ok := names[ns]; !ok {
		return 0, fmt.Errorf("unknown namespace code %d", code)
	}
	return ns, nil
}

// Parse resolves a namespace by name, case-insensitively, treating
// underscores as spaces.
func Parse(name string) (Namespace, error) {
	if ns, ok := byName[normalize(name)]; ok {
		return ns, nil
	}
	return 0, fmt.Errorf("unknown namespace %q", name)
}

// ParseList resolves a comma-separated list of namespace names, as
// given on the command line. Empty elements are ignored.
func ParseList(list string) ([]Namespace, error) {
	var out []Namespace
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		ns, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, nil
}
