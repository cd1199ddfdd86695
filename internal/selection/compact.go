package selection

import (
	"strings"

	schema "github.com/hanpama/gqlshape/internal/schema"
)

// Compact turns per-type shapes, given in possible-type order, into a shape
// expression. Without compaction every non-empty type is its own branch.
// With compaction, types sharing a GroupKey share a branch. Types with an
// empty shape set EmptyFallback in both modes.
func (e *Engine) Compact(parent *schema.Type, shapes []TypeShape) *ShapeExpression {
	expr := &ShapeExpression{TypeName: parent.Name, Abstract: parent.IsAbstract()}
	if !e.opts.Compact {
		for _, s := range shapes {
			if s.IsEmpty() {
				expr.EmptyFallback = true
				continue
			}
			names := []string{s.TypeName}
			expr.Branches = append(expr.Branches, &Branch{
				Name:      GroupName(names),
				TypeNames: names,
				Fields:    s.Fields,
				Fragments: s.Fragments,
			})
		}
		return expr
	}

	type group struct {
		first   TypeShape
		members []string
	}
	var groups []*group
	byKey := make(map[string]*group)
	for _, s := range shapes {
		if s.IsEmpty() {
			expr.EmptyFallback = true
			continue
		}
		key := GroupKey(s)
		g, ok := byKey[key]
		if !ok {
			g = &group{first: s}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, s.TypeName)
	}
	for _, g := range groups {
		expr.Branches = append(expr.Branches, &Branch{
			Name:      GroupName(g.members),
			TypeNames: g.members,
			Fields:    withTypenameLiterals(g.first.Fields, g.members),
			Fragments: g.first.Fragments,
			Chunks:    ChunkTypeNames(g.members, e.opts.ChunkSize),
		})
	}
	return expr
}

func withTypenameLiterals(fields []FieldShape, members []string) []FieldShape {
	out := make([]FieldShape, len(fields))
	copy(out, fields)
	for i := range out {
		if out[i].Kind == FieldTypename {
			out[i].Literals = append([]string(nil), members...)
		}
	}
	return out
}

// GroupKey serializes a type shape without its typename literal, so two
// concrete types with equal keys produce the same response fields.
func GroupKey(s TypeShape) string {
	var b strings.Builder
	writeFields(&b, s.Fields)
	writeFragments(&b, s.Fragments)
	return b.String()
}

func writeFields(b *strings.Builder, fields []FieldShape) {
	for _, f := range fields {
		if f.Kind == FieldTypename {
			b.WriteString("__typename:")
			b.WriteString(f.ResponseKey)
			if f.Optional || f.Conditional {
				b.WriteByte('?')
			}
			b.WriteByte(';')
			continue
		}
		b.WriteString(f.Kind.String())
		b.WriteByte(':')
		b.WriteString(f.ResponseKey)
		b.WriteByte(':')
		b.WriteString(f.FieldName)
		b.WriteByte(':')
		b.WriteString(f.Type.String())
		if f.Conditional {
			b.WriteByte('?')
		}
		if f.Child != nil {
			writeExpression(b, f.Child)
		}
		b.WriteByte(';')
	}
}

func writeFragments(b *strings.Builder, usages []FragmentUsage) {
	for _, u := range usages {
		b.WriteString("...")
		b.WriteString(u.BranchName)
		if u.Conditional {
			b.WriteByte('?')
		}
		b.WriteByte(';')
	}
}

func writeExpression(b *strings.Builder, e *ShapeExpression) {
	b.WriteByte('{')
	b.WriteString(e.TypeName)
	if e.Unknown {
		b.WriteString("!unknown")
	}
	if e.EmptyFallback {
		b.WriteString("|{}")
	}
	for _, br := range e.Branches {
		b.WriteByte('<')
		b.WriteString(strings.Join(br.TypeNames, "|"))
		b.WriteByte('>')
		b.WriteByte('(')
		writeFields(b, br.Fields)
		writeFragments(b, br.Fragments)
		b.WriteByte(')')
	}
	b.WriteByte('}')
}
