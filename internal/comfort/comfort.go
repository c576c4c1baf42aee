// Package comfort models the backend's comfort classification and decides
// when a change of classification deserves an alert.
package comfort

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Level is the backend's comfort classification. It is an open set: any
// string the backend sends is carried verbatim.
type Level string

// Known levels.
const (
	Comfortable   Level = "comfortable"
	Uncomfortable Level = "uncomfortable"
	PoorAir       Level = "poor air"
)

// Severity groups levels for display.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
)

// Status is a comfort level with the reasons the backend gave for it.
type Status struct {
	Level   Level
	Reasons []string
}

// Initial is the status assumed before any data has been fetched.
func Initial() Status {
	return Status{Level: Comfortable}
}

// NewStatus builds a Status from raw backend fields. The level is kept
// verbatim, so a missing level counts as not comfortable. A nil reasons
// slice stays nil.
func NewStatus(level string, reasons []string) Status {
	s := Status{Level: Level(level)}
	if len(reasons) > 0 {
		s.Reasons = append([]string(nil), reasons...)
	}
	return s
}

// Clone returns a copy that shares no memory with s.
func (s Status) Clone() Status {
	if s.Reasons != nil {
		s.Reasons = append([]string(nil), s.Reasons...)
	}
	return s
}

// IsComfortable reports whether the level is exactly "comfortable".
func (l Level) IsComfortable() bool {
	return l == Comfortable
}

// Severity maps the level to a display severity. Unknown levels are
// critical.
func (l Level) Severity() Severity {
	switch l {
	case Comfortable:
		return SeverityOK
	case Uncomfortable:
		return SeverityWarning
	default:
		return SeverityCritical
	}
}

// Title returns the level with each word capitalised ("poor air" -> "Poor Air").
func (l Level) Title() string {
	words := strings.Fields(string(l))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// ReasonsText joins the reasons with ", ".
func (s Status) ReasonsText() string {
	return strings.Join(s.Reasons, ", ")
}

// ShouldAlert is the edge trigger: an alert is raised only on a transition
// out of "comfortable". Staying uncomfortable, moving between two
// non-comfortable levels, or recovering never alerts.
func ShouldAlert(prev, next Level) bool {
	return prev == Comfortable && next != Comfortable
}
