// Package extract turns HTML into records using declarative CSS schemas.
package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"RateScope/internal/model"
)

// FieldType selects what is read from a matched element.
type FieldType string

const (
	TypeText      FieldType = "text"
	TypeAttribute FieldType = "attribute"
	TypeHTML      FieldType = "html"
)

// Field describes one value read relative to a base element. An empty
// Selector reads the base element itself.
type Field struct {
	Name      string
	Selector  string
	Type      FieldType
	Attribute string
	Default   string
}

// Schema maps every element matching BaseSelector to one record.
type Schema struct {
	Name         string
	BaseSelector string
	Fields       []Field
}

// Validate checks the schema is usable.
func (s Schema) Validate() error {
	if s.BaseSelector == "" {
		return fmt.Errorf("schema %q: base selector is required", s.Name)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %q: no fields", s.Name)
	}
	for _, f := range s.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema %q: field without name", s.Name)
		}
		if f.Type == TypeAttribute && f.Attribute == "" {
			return fmt.Errorf("schema %q: field %q needs an attribute", s.Name, f.Name)
		}
	}
	return nil
}

// Extract parses r as HTML and applies the schema.
func (s Schema) Extract(r io.Reader) ([]model.Record, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return s.ExtractDocument(doc), nil
}

// ExtractDocument applies the schema to a parsed document. Base elements where
// no field matched (header rows and the like) are skipped.
func (s Schema) ExtractDocument(doc *goquery.Document) []model.Record {
	var records []model.Record
	doc.Find(s.BaseSelector).Each(func(_ int, base *goquery.Selection) {
		var rec model.Record
		for _, f := range s.Fields {
			if v, ok := f.read(base); ok {
				rec.Set(f.Name, v)
			}
		}
		if len(rec.Fields) > 0 {
			records = append(records, rec)
		}
	})
	return records
}

func (f Field) read(base *goquery.Selection) (string, bool) {
	sel := base
	if f.Selector != "" {
		sel = base.Find(f.Selector).First()
	}
	if sel.Length() == 0 {
		if f.Default != "" {
			return f.Default, true
		}
		return "", false
	}

	switch f.Type {
	case TypeAttribute:
		v, ok := sel.Attr(f.Attribute)
		if !ok {
			return f.Default, f.Default != ""
		}
		return strings.TrimSpace(v), true
	case TypeHTML:
		h, err := sel.Html()
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(h), true
	default:
		return CleanText(sel.Text()), true
	}
}

// CleanText trims and collapses runs of whitespace to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
