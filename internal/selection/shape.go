package selection

import (
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

type FieldKind int

const (
	FieldPrimitive FieldKind = iota
	FieldAliasedPrimitive
	FieldLink
	FieldTypename
)

func (k FieldKind) String() string {
	switch k {
	case FieldPrimitive:
		return "primitive"
	case FieldAliasedPrimitive:
		return "aliased"
	case FieldLink:
		return "link"
	case FieldTypename:
		return "typename"
	}
	return "unknown"
}

// FieldShape is one response field of a concrete type.
type FieldShape struct {
	Kind        FieldKind
	ResponseKey string
	// FieldName is the schema field name; it differs from ResponseKey for
	// aliased selections.
	FieldName string
	// Type is the declared schema type of the field, wrappers included.
	Type *schema.TypeRef
	// Child is the shape of a link field's sub-selection.
	Child *ShapeExpression
	// Conditional is set when @skip or @include on the field or on an
	// enclosing fragment may remove the field from the response.
	Conditional bool
	// Literals holds the type names a typename field may take.
	Literals []string
	// Optional applies to typename fields that were added, not requested.
	Optional bool
}

// FragmentUsage is a fragment spread kept as a reference instead of being
// merged into the surrounding fields.
type FragmentUsage struct {
	FragmentName string
	// BranchName is the declaration generated for the fragment on OnType.
	BranchName  string
	OnType      string
	Selection   language.SelectionSet
	Conditional bool
}

// TypeShape is the built shape of one concrete type.
type TypeShape struct {
	TypeName  string
	Fields    []FieldShape
	Fragments []FragmentUsage
}

// IsEmpty reports whether the type contributes nothing to the response.
func (s TypeShape) IsEmpty() bool {
	return len(s.Fields) == 0 && len(s.Fragments) == 0
}

// Chunk is a slice of a large typename literal union emitted as its own
// declaration.
type Chunk struct {
	Name      string
	TypeNames []string
}

// Branch is one variant of a ShapeExpression.
type Branch struct {
	// Name identifies the branch among its siblings; see GroupName.
	Name      string
	TypeNames []string
	Fields    []FieldShape
	Fragments []FragmentUsage
	// Chunks is set when TypeNames exceeds the configured chunk size.
	Chunks []Chunk
}

// ShapeExpression is the shape of a selection set against a named type.
type ShapeExpression struct {
	TypeName string
	// Abstract is set when TypeName is an interface or union.
	Abstract bool
	Branches []*Branch
	// EmptyFallback is set when some possible type selects nothing, so the
	// value may be an object without any of the branch fields.
	EmptyFallback bool
	// Unknown marks an empty selection set; there is no shape to derive.
	Unknown bool
}

// IsSingle reports whether the expression is one plain field list.
func (e *ShapeExpression) IsSingle() bool {
	return !e.Unknown && len(e.Branches) == 1 && !e.EmptyFallback && !e.Abstract
}

// Branch returns the branch covering typeName, or nil.
func (e *ShapeExpression) Branch(typeName string) *Branch {
	for _, b := range e.Branches {
		for _, name := range b.TypeNames {
			if name == typeName {
				return b
			}
		}
	}
	return nil
}
