// Package forms holds the fixed set of form schemas accepted by the relay and
// turns a posted submission into a sheet row.
package forms

import (
	"fmt"
	"strings"
	"time"
)

// Type identifies a form schema. The set is closed: see Types.
type Type string

const (
	Pickup    Type = "pickupForm"
	Franchise Type = "franchiseForm"
	Contact   Type = "contactForm"
	Career    Type = "careerForm"
)

// TimestampHeader is the first column of every schema.
const TimestampHeader = "Timestamp"

// TimestampLayout is how the row timestamp is written.
const TimestampLayout = time.RFC3339

// Types lists every known form type in a stable order.
func Types() []Type {
	return []Type{Pickup, Franchise, Contact, Career}
}

// Column is one data column after the timestamp.
type Column struct {
	Header string
	value  func(Submission) string
}

// Schema describes the sheet a form type lands in.
type Schema struct {
	Type    Type
	Sheet   string
	columns []Column
}

// Header returns the full header row, timestamp first.
func (s Schema) Header() []string {
	h := make([]string, 0, len(s.columns)+1)
	h = append(h, TimestampHeader)
	for _, c := range s.columns {
		h = append(h, c.Header)
	}
	return h
}

// Width is the number of cells in every row of this schema.
func (s Schema) Width() int { return len(s.columns) + 1 }

// Row builds the row for sub, stamped with ts. Missing fields are "".
func (s Schema) Row(sub Submission, ts time.Time) []string {
	row := make([]string, 0, s.Width())
	row = append(row, ts.Format(TimestampLayout))
	for _, c := range s.columns {
		row = append(row, c.value(sub))
	}
	return row
}

// ---------- column extractors ----------

func field(header, key string) Column {
	return Column{Header: header, value: func(s Submission) string { return s.Value(key) }}
}

func yesNo(header, key string) Column {
	return Column{Header: header, value: func(s Submission) string {
		if strings.EqualFold(s.Value(key), "yes") {
			return "Yes"
		}
		return "No"
	}}
}

// joined reads checkbox groups, which browsers post as repeated "key[]" fields.
func joined(header string, keys ...string) Column {
	return Column{Header: header, value: func(s Submission) string {
		for _, k := range keys {
			if s.Has(k) {
				return strings.Join(s.Values(k), ", ")
			}
		}
		return ""
	}}
}

// ---------- schema table ----------

var schemas = map[Type]Schema{
	Pickup: {
		Type:  Pickup,
		Sheet: "Pickup Requests",
		columns: []Column{
			field("Name", "name"),
			field("Phone", "phone"),
			field("Category", "category"),
			field("District", "area"),
			field("Current Location", "currentLocation"),
			field("Pincode", "pincode"),
			field("Pickup Date", "date"),
			field("Pickup Time", "time"),
			field("Source", "source"),
		},
	},
	Franchise: {
		Type:  Franchise,
		Sheet: "Franchise Applications",
		columns: []Column{
			field("Name", "name"),
			field("Phone", "phone"),
			field("Email", "email"),
			field("Age", "age"),
			field("Gender", "gender"),
			field("City", "city"),
			field("State", "state"),
			field("Property", "property"),
			field("Space (sq. ft.)", "space"),
			field("Investment Capacity", "investment"),
			field("Financial Assistance", "assistance"),
			field("Reason", "reason"),
			field("Experience", "experience"),
		},
	},
	Contact: {
		Type:  Contact,
		Sheet: "Contact Messages",
		columns: []Column{
			field("Name", "name"),
			field("Phone", "phone"),
			field("Email", "email"),
			field("Subject", "subject"),
			field("Message", "message"),
			yesNo("Pickup Opt-in", "pickup_opt"),
		},
	},
	Career: {
		Type:  Career,
		Sheet: "Career Applications",
		columns: []Column{
			field("Full Name", "full_name"),
			field("Phone", "phone"),
			field("Email", "email"),
			field("Date of Birth", "dob"),
			field("Address", "address"),
			joined("Education", "education[]", "education"),
			field("Specialization", "specialization"),
			field("Passing Year", "passing_year"),
			field("Previous Role", "prev_role"),
			field("Skills", "skills"),
			field("Preferred Location", "preferred_location"),
			field("Expected Salary", "salary"),
			field("Available From", "available_from"),
			field("Cover Letter", "cover"),
			field("Source", "source"),
		},
	},
}

func init() {
	if err := checkTable(); err != nil {
		panic(err)
	}
}

// checkTable fails when a form type has no schema or two types share a sheet.
func checkTable() error {
	if len(schemas) != len(Types()) {
		return fmt.Errorf("forms: %d schemas for %d types", len(schemas), len(Types()))
	}
	sheets := make(map[string]Type, len(schemas))
	for _, t := range Types() {
		s, ok := schemas[t]
		if !ok {
			return fmt.Errorf("forms: no schema for %s", t)
		}
		if s.Type != t {
			return fmt.Errorf("forms: schema for %s is tagged %s", t, s.Type)
		}
		if prev, dup := sheets[s.Sheet]; dup {
			return fmt.Errorf("forms: %s and %s share sheet %q", prev, t, s.Sheet)
		}
		sheets[s.Sheet] = t
	}
	return nil
}

// Lookup returns the schema registered for name.
func Lookup(name string) (Schema, bool) {
	s, ok := schemas[Type(name)]
	return s, ok
}

// MustLookup is Lookup for the known Type constants.
func MustLookup(t Type) Schema {
	s, ok := schemas[t]
	if !ok {
		panic("forms: unknown type " + string(t))
	}
	return s
}

// Schemas returns all schemas in Types order.
func Schemas() []Schema {
	out := make([]Schema, 0, len(schemas))
	for _, t := range Types() {
		out = append(out, schemas[t])
	}
	return out
}
