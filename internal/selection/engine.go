package selection

import (
	"fmt"

	fragments "github.com/hanpama/gqlshape/internal/fragments"
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// FragmentMode selects how fragment spreads reach the generated shape.
type FragmentMode string

const (
	// FragmentInline merges the fragment's fields into the spreading shape.
	FragmentInline FragmentMode = "inline"
	// FragmentReference keeps the spread as an opaque reference.
	FragmentReference FragmentMode = "reference"
	// FragmentCombine keeps the spread as a reference whose fields are
	// intersected with the spreading shape by the emitter.
	FragmentCombine FragmentMode = "combine"
)

// TypenameOptions controls when __typename is emitted without being
// selected.
type TypenameOptions struct {
	Add         bool
	NonOptional bool
	SkipForRoot bool
}

// BranchNamer names the declaration generated for fragment on a concrete
// type; fragment usages carry this name.
type BranchNamer func(fragment, typeName string) string

const DefaultChunkSize = 20

type Options struct {
	Typename     TypenameOptions
	FragmentMode FragmentMode
	Compact      bool
	ChunkSize    int
	BranchNamer  BranchNamer
}

// Engine resolves selection sets against one schema and fragment table.
type Engine struct {
	schema    *schema.Schema
	fragments *fragments.Table
	opts      Options
}

func New(s *schema.Schema, table *fragments.Table, opts Options) *Engine {
	if opts.FragmentMode == "" {
		opts.FragmentMode = FragmentInline
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.BranchNamer == nil {
		opts.BranchNamer = func(fragment, typeName string) string {
			return fragment + "_" + typeName
		}
	}
	return &Engine{schema: s, fragments: table, opts: opts}
}

func (e *Engine) Schema() *schema.Schema { return e.schema }

func (e *Engine) Options() Options { return e.opts }

// ResolveOperation resolves the root selection set of op.
func (e *Engine) ResolveOperation(op *language.OperationDefinition) (*ShapeExpression, error) {
	root := e.schema.RootType(op.Operation)
	if root == nil {
		kind := string(op.Operation)
		if kind == "" {
			kind = string(language.Query)
		}
		return nil, &MissingRootTypeError{Operation: op.Name, Kind: kind}
	}
	return e.resolve(root, []selectionPart{{set: op.SelectionSet}}, true)
}

// ResolveFragment resolves the body of f against its type condition. Spreads
// of f inside its own body contribute nothing.
func (e *Engine) ResolveFragment(f *fragments.Fragment) (*ShapeExpression, error) {
	on := e.schema.Type(f.TypeCondition)
	if !on.IsComposite() {
		return nil, &InvalidFragmentSpreadTargetError{Fragment: f.Name, TypeName: f.TypeCondition, ParentType: f.TypeCondition}
	}
	part := selectionPart{set: f.SelectionSet, expanding: expandingSet(nil).with(f.Name)}
	return e.resolve(on, []selectionPart{part}, e.schema.IsRootType(on.Name))
}

// Resolve computes the shape of set against parent. parent is treated as a
// nested type even when it is a root operation type.
func (e *Engine) Resolve(parent *schema.Type, set language.SelectionSet) (*ShapeExpression, error) {
	return e.resolve(parent, []selectionPart{{set: set}}, false)
}

// resolve computes the shape of the union of parts. root marks the top
// selection of an operation or of a fragment on a root type.
func (e *Engine) resolve(parent *schema.Type, parts []selectionPart, root bool) (*ShapeExpression, error) {
	if !parent.IsComposite() {
		return nil, fmt.Errorf("cannot select fields on non-composite type %s", parent.Name)
	}
	size := 0
	for _, p := range parts {
		size += len(p.set)
	}
	if size == 0 {
		return &ShapeExpression{TypeName: parent.Name, Abstract: parent.IsAbstract(), Unknown: true}, nil
	}
	bucket, err := e.flatten(parent, parts)
	if err != nil {
		return nil, err
	}
	possible := e.schema.PossibleTypes(parent)
	shapes := make([]TypeShape, 0, len(possible))
	for _, t := range possible {
		shape, err := e.build(t, bucket.Items(t.Name), root)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}
	return e.Compact(parent, shapes), nil
}
