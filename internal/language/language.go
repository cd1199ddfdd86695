package language

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func ParseSchema(name, source string) (*SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadSchema parses and validates the given SDL sources together with the
// built-in prelude.
func LoadSchema(sources ...*Source) (*Schema, error) {
	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LoadDocuments parses every source and validates the merged document
// against s, so fragments may be declared in a different source than the
// operations spreading them.
func LoadDocuments(s *Schema, sources ...*Source) (*QueryDocument, error) {
	merged := &QueryDocument{}
	for _, src := range sources {
		doc, err := parser.ParseQuery(src)
		if err != nil {
			return nil, err
		}
		merged.Operations = append(merged.Operations, doc.Operations...)
		merged.Fragments = append(merged.Fragments, doc.Fragments...)
	}
	if errs := validateQuery(s, merged); len(errs) > 0 {
		return nil, errs
	}
	return merged, nil
}
