package model

import "strings"

// Field is one named value scraped from a page.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is an ordered set of named string fields produced per scraped item.
// Field order follows the extraction schema.
type Record struct {
	Fields []Field `json:"fields"`
}

// NewRecord builds a record from alternating name/value pairs.
func NewRecord(pairs ...string) Record {
	var r Record
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Get returns the value of the named field, or "" when absent.
func (r Record) Get(name string) string {
	v, _ := r.Lookup(name)
	return v
}

// Lookup returns the value of the named field and whether it exists.
func (r Record) Lookup(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the named field in place, or appends it.
func (r *Record) Set(name, value string) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Names returns field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := Record{Fields: make([]Field, len(r.Fields))}
	copy(out.Fields, r.Fields)
	return out
}

// Blank reports whether every field is empty after trimming.
func (r Record) Blank() bool {
	for _, f := range r.Fields {
		if strings.TrimSpace(f.Value) != "" {
			return false
		}
	}
	return true
}

// Map returns the fields as a map. Order is lost.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Name] = f.Value
	}
	return m
}
