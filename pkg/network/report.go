package network

import (
	"encoding/json"
	"strconv"
)

type reportIDKind uint8

const (
	reportIDNone reportIDKind = iota
	reportIDInt
	reportIDString
)

// ReportID identifies the reports emitted by a node. MNRL allows either an
// integer or a string; the representation a document used is kept so that
// "42" and 42 serialize back as they were read. The zero value is "no id".
type ReportID struct {
	kind reportIDKind
	n    int64
	s    string
}

// IntReportID returns a numeric report id.
func IntReportID(n int64) ReportID { return ReportID{kind: reportIDInt, n: n} }

// StringReportID returns a string report id.
func StringReportID(s string) ReportID { return ReportID{kind: reportIDString, s: s} }

// IsSet reports whether an id is present.
func (r ReportID) IsSet() bool { return r.kind != reportIDNone }

// IsString reports whether the id is held in string form.
func (r ReportID) IsString() bool { return r.kind == reportIDString }

// Int returns the numeric id and true if the id is numeric.
func (r ReportID) Int() (int64, bool) { return r.n, r.kind == reportIDInt }

// Str returns the string id and true if the id is a string.
func (r ReportID) Str() (string, bool) { return r.s, r.kind == reportIDString }

// String formats the id for display regardless of its form.
func (r ReportID) String() string {
	switch r.kind {
	case reportIDInt:
		return strconv.FormatInt(r.n, 10)
	case reportIDString:
		return r.s
	default:
		return ""
	}
}

// MarshalJSON writes the id in its original form. An unset id is null.
func (r ReportID) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case reportIDInt:
		return []byte(strconv.FormatInt(r.n, 10)), nil
	case reportIDString:
		return json.Marshal(r.s)
	default:
		return []byte("null"), nil
	}
}

// ReportSettings is a node's report flag together with its optional id.
// An id is only meaningful, and only accepted, when Report is true.
type ReportSettings struct {
	Report bool
	ID     ReportID
}
