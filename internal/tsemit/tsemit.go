// Package tsemit renders generated declarations as TypeScript type aliases.
package tsemit

import (
	"strings"

	codegen "github.com/hanpama/gqlshape/internal/codegen"
	schema "github.com/hanpama/gqlshape/internal/schema"
	selection "github.com/hanpama/gqlshape/internal/selection"
)

const header = "// Code generated by gqlshape. DO NOT EDIT.\n"

const indentUnit = "  "

var builtinScalars = map[string]string{
	"ID":      "string",
	"String":  "string",
	"Int":     "number",
	"Float":   "number",
	"Boolean": "boolean",
}

type Options struct {
	// Scalars maps custom scalar names to TypeScript types. Unmapped
	// custom scalars render as unknown.
	Scalars map[string]string
}

type renderer struct {
	schema *schema.Schema
	opts   Options
	mode   selection.FragmentMode
}

// Render produces one TypeScript module from out. Typename chunk aliases
// come first, then the declarations in emission order.
func Render(s *schema.Schema, out *codegen.Output, opts Options) string {
	r := &renderer{schema: s, opts: opts, mode: out.FragmentMode}
	var b strings.Builder
	b.WriteString(header)

	for _, c := range collectChunks(out) {
		b.WriteString("\ntype ")
		b.WriteString(c.Name)
		b.WriteString(" = ")
		b.WriteString(literalUnion(c.TypeNames))
		b.WriteString(";\n")
	}

	for _, d := range out.Declarations {
		b.WriteByte('\n')
		if !d.Private {
			b.WriteString("export ")
		}
		b.WriteString("type ")
		b.WriteString(d.Name)
		b.WriteString(" = ")
		b.WriteString(r.declaration(d))
		b.WriteString(";\n")
	}
	return b.String()
}

func (r *renderer) declaration(d *codegen.Declaration) string {
	switch {
	case d.Kind == codegen.DeclFragmentBranch:
		return r.branch(d.Branch, "")
	case d.Umbrella:
		members := append([]string(nil), d.Members...)
		if d.Shape.EmptyFallback {
			members = append(members, "{}")
		}
		return strings.Join(members, " | ")
	}
	return r.shape(d.Shape, "")
}

func (r *renderer) shape(e *selection.ShapeExpression, indent string) string {
	if e.Unknown {
		return "never"
	}
	parts := make([]string, 0, len(e.Branches)+1)
	for _, b := range e.Branches {
		parts = append(parts, r.branch(b, indent))
	}
	if e.EmptyFallback {
		parts = append(parts, "{}")
	}
	return strings.Join(parts, " | ")
}

func (r *renderer) branch(br *selection.Branch, indent string) string {
	inner := indent + indentUnit
	var lines []string
	for _, f := range br.Fields {
		lines = append(lines, inner+r.field(f, br, inner))
	}

	var intersect []string
	switch r.mode {
	case selection.FragmentCombine:
		for _, u := range br.Fragments {
			if u.Conditional {
				intersect = append(intersect, "Partial<"+u.BranchName+">")
			} else {
				intersect = append(intersect, u.BranchName)
			}
		}
	case selection.FragmentReference:
		if len(br.Fragments) > 0 {
			refs := make([]string, 0, len(br.Fragments))
			for _, u := range br.Fragments {
				refs = append(refs, "'"+u.BranchName+"': "+u.BranchName)
			}
			lines = append(lines, inner+"' $fragmentRefs'?: { "+strings.Join(refs, "; ")+" };")
		}
	}

	var parts []string
	if len(lines) > 0 || len(intersect) == 0 {
		if len(lines) == 0 {
			parts = append(parts, "{}")
		} else {
			parts = append(parts, "{\n"+strings.Join(lines, "\n")+"\n"+indent+"}")
		}
	}
	parts = append(parts, intersect...)
	return strings.Join(parts, " & ")
}

func (r *renderer) field(f selection.FieldShape, br *selection.Branch, indent string) string {
	key := f.ResponseKey
	if f.Conditional || (f.Kind == selection.FieldTypename && f.Optional) {
		key += "?"
	}
	var typ string
	switch f.Kind {
	case selection.FieldTypename:
		typ = typenameType(f, br)
	case selection.FieldLink:
		typ = wrap(f.Type, r.shape(f.Child, indent))
	default:
		typ = wrap(f.Type, r.leaf(f.Type.GetNamedType()))
	}
	return key + ": " + typ + ";"
}

func typenameType(f selection.FieldShape, br *selection.Branch) string {
	if len(br.Chunks) > 0 && len(f.Literals) == len(br.TypeNames) {
		names := make([]string, 0, len(br.Chunks))
		for _, c := range br.Chunks {
			names = append(names, c.Name)
		}
		return strings.Join(names, " | ")
	}
	return literalUnion(f.Literals)
}

func (r *renderer) leaf(name string) string {
	if ts, ok := r.opts.Scalars[name]; ok {
		return ts
	}
	if ts, ok := builtinScalars[name]; ok {
		return ts
	}
	if t := r.schema.Type(name); t != nil && t.Kind == schema.TypeKindEnum {
		values := make([]string, 0, len(t.EnumValues))
		for _, v := range t.EnumValues {
			values = append(values, v.Name)
		}
		return literalUnion(values)
	}
	return "unknown"
}

// wrap applies list and null wrappers of t around inner.
func wrap(t *schema.TypeRef, inner string) string {
	nullable := true
	if t.Kind == schema.TypeRefKindNonNull {
		nullable = false
		t = t.OfType
	}
	s := inner
	if t.Kind == schema.TypeRefKindList {
		s = "Array<" + wrap(t.OfType, inner) + ">"
	}
	if nullable {
		s += " | null"
	}
	return s
}

func literalUnion(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, "'"+n+"'")
	}
	return strings.Join(quoted, " | ")
}

// collectChunks gathers the typename chunks used anywhere in out, once
// per name, in first-use order.
func collectChunks(out *codegen.Output) []selection.Chunk {
	var chunks []selection.Chunk
	seen := make(map[string]bool)
	var visitBranch func(*selection.Branch)
	var visitShape func(*selection.ShapeExpression)
	visitBranch = func(b *selection.Branch) {
		if !hasTypename(b) {
			b = &selection.Branch{Fields: b.Fields}
		}
		for _, c := range b.Chunks {
			if !seen[c.Name] {
				seen[c.Name] = true
				chunks = append(chunks, c)
			}
		}
		for _, f := range b.Fields {
			if f.Child != nil {
				visitShape(f.Child)
			}
		}
	}
	visitShape = func(e *selection.ShapeExpression) {
		if e == nil {
			return
		}
		for _, b := range e.Branches {
			visitBranch(b)
		}
	}
	for _, d := range out.Declarations {
		if d.Branch != nil {
			visitBranch(d.Branch)
		}
		if !d.Umbrella {
			visitShape(d.Shape)
		}
	}
	return chunks
}

func hasTypename(b *selection.Branch) bool {
	for _, f := range b.Fields {
		if f.Kind == selection.FieldTypename {
			return true
		}
	}
	return false
}
