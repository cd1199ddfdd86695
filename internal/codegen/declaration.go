package codegen

import (
	language "github.com/hanpama/gqlshape/internal/language"
	selection "github.com/hanpama/gqlshape/internal/selection"
)

// Kind tells which kind of definition a declaration came from.
type Kind string

const (
	KindFragment  Kind = "fragment"
	KindOperation Kind = "operation"
)

type DeclarationKind int

const (
	// DeclFragment is the public type of a fragment: its only shape, or
	// the union of its branch declarations.
	DeclFragment DeclarationKind = iota
	// DeclFragmentBranch is the private type of one fragment branch.
	DeclFragmentBranch
	DeclOperation
)

// Declaration is one named type handed to an emitter.
type Declaration struct {
	Name string
	Kind DeclarationKind
	// Definition names the fragment or operation the declaration was
	// derived from.
	Definition string
	// Operation is the operation kind of DeclOperation declarations.
	Operation language.Operation
	// TypeName is the fragment type condition or the operation root type.
	TypeName string

	// Shape is the resolved shape of the whole definition. It is nil for
	// branch declarations.
	Shape *selection.ShapeExpression
	// Branch is the shape of a DeclFragmentBranch.
	Branch *selection.Branch
	// Members lists the branch declarations an umbrella fragment unites,
	// in branch order.
	Members []string
	// Umbrella is set on the public declaration of a fragment whose shape
	// is not a single branch; it unites Members and, when the shape has an
	// empty fallback, the empty object.
	Umbrella bool

	Private bool
}

// Output is the ordered emission list of one run: fragments in dependency
// order, each fragment's branch declarations before its umbrella, then
// operations in document order.
type Output struct {
	Declarations []*Declaration
	FragmentMode selection.FragmentMode
}

// Lookup returns the declaration by name, or nil.
func (o *Output) Lookup(name string) *Declaration {
	for _, d := range o.Declarations {
		if d.Name == name {
			return d
		}
	}
	return nil
}
