package forms

import (
	"net/url"
	"strings"
)

// Reserved field names. They select the schema or filter spam and are never stored.
const (
	FieldHoneypot  = "hp"
	FieldSheetName = "sheetName"
	FieldFormID    = "form_id"
)

// Submission is one posted form. Values are kept as posted; accessors trim.
type Submission struct {
	values url.Values
}

func NewSubmission(v url.Values) Submission {
	if v == nil {
		v = url.Values{}
	}
	return Submission{values: v}
}

// FromMap builds a submission from single-valued fields.
func FromMap(m map[string]string) Submission {
	v := make(url.Values, len(m))
	for k, s := range m {
		v.Set(k, s)
	}
	return Submission{values: v}
}

// Value returns the trimmed first value of key, or "" when absent.
func (s Submission) Value(key string) string {
	vs := s.values[key]
	if len(vs) == 0 {
		return ""
	}
	return strings.TrimSpace(vs[0])
}

// Values returns every trimmed, non-empty value posted under key.
func (s Submission) Values(key string) []string {
	var out []string
	for _, v := range s.values[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s Submission) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Honeypot reports whether the hidden anti-bot field was filled in.
func (s Submission) Honeypot() bool {
	return s.Value(FieldHoneypot) != ""
}

// TypeName is the requested form type: sheetName, then form_id, then contactForm.
func (s Submission) TypeName() string {
	if v := s.Value(FieldSheetName); v != "" {
		return v
	}
	if v := s.Value(FieldFormID); v != "" {
		return v
	}
	return string(Contact)
}

// Normalized flattens the submission to one trimmed value per field,
// dropping the reserved fields.
func (s Submission) Normalized() map[string]string {
	out := make(map[string]string, len(s.values))
	for k := range s.values {
		switch k {
		case FieldHoneypot, FieldSheetName, FieldFormID:
			continue
		}
		out[k] = s.Value(k)
	}
	return out
}
