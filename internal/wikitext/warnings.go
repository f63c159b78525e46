package wikitext

// WarningMessage identifies a class of recoverable parse problem.
type WarningMessage int

const (
	WarnUnclosedComment WarningMessage = iota
	WarnUnclosedTemplate
	WarnUnclosedParameter
	WarnUnclosedLink
	WarnUnclosedTable
	WarnUnclosedTag
	WarnInvalidCharacterEntity
)

var warningMessages = map[WarningMessage]string{
	WarnUnclosedComment:        "comment is not closed",
	WarnUnclosedTemplate:       "template is not closed",
	WarnUnclosedParameter:      "parameter is not closed",
	WarnUnclosedLink:           "link is not closed",
	WarnUnclosedTable:          "table is not closed",
	WarnUnclosedTag:            "tag is not closed",
	WarnInvalidCharacterEntity: "character entity is invalid",
}

// Message returns the human-readable warning text.
func (m WarningMessage) Message() string {
	if s, ok := warningMessages[m]; ok {
		return s
	}
	return "unknown warning"
}

// Warning reports a recoverable problem found while parsing, with the
// byte range of the offending markup.
type Warning struct {
	Start   int
	End     int
	Message WarningMessage
}
