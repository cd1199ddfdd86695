package selection

import (
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// frame carries what an enclosing fragment imposes on its items.
type frame struct {
	conditional bool
	// untyped is set inside an inline fragment written without a type
	// condition.
	untyped bool
	// expanding holds the fragments being expanded on the current path,
	// across field boundaries.
	expanding expandingSet
}

type flattener struct {
	engine *Engine
	bucket *bucketBuilder
}

// Flatten distributes set over the concrete types parent may resolve to.
// Plain fields behave as an inline fragment on parent itself. Fragment
// spreads are expanded in place in inline mode and kept as FragmentUsage
// items otherwise.
func (e *Engine) Flatten(parent *schema.Type, set language.SelectionSet) (*Bucket, error) {
	return e.flatten(parent, []selectionPart{{set: set}})
}

func (e *Engine) flatten(parent *schema.Type, parts []selectionPart) (*Bucket, error) {
	f := &flattener{engine: e, bucket: newBucketBuilder()}
	for _, p := range parts {
		if err := f.collect(parent, parent, p.set, frame{expanding: p.expanding}); err != nil {
			return nil, err
		}
	}
	return f.bucket.snapshot(), nil
}

// collect applies a fragment body with type condition cond inside parent.
func (f *flattener) collect(parent, cond *schema.Type, set language.SelectionSet, fr frame) error {
	var (
		fields  []*language.Field
		inlines []*language.InlineFragment
		spreads []*language.FragmentSpread
	)
	for _, selection := range set {
		switch sel := selection.(type) {
		case *language.Field:
			fields = append(fields, sel)
		case *language.InlineFragment:
			if sel.TypeCondition == "" && fr.untyped {
				return &NestedInlineFragmentError{TypeName: parent.Name}
			}
			inlines = append(inlines, sel)
		case *language.FragmentSpread:
			spreads = append(spreads, sel)
		}
	}

	for _, target := range f.engine.narrow(parent, cond) {
		for _, field := range fields {
			f.bucket.add(target.Name, Item{
				Kind:        ItemField,
				Field:       field,
				Conditional: fr.conditional || language.HasConditionalDirective(field.Directives),
				expanding:   fr.expanding,
			})
		}
		for _, inline := range inlines {
			if err := f.inline(target, inline, fr); err != nil {
				return err
			}
		}
		for _, spread := range spreads {
			if err := f.spread(target, spread, fr); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *flattener) inline(target *schema.Type, inline *language.InlineFragment, fr frame) error {
	cond := target
	if inline.TypeCondition != "" {
		cond = f.engine.schema.Type(inline.TypeCondition)
		if !cond.IsComposite() {
			return &InvalidFragmentSpreadTargetError{TypeName: inline.TypeCondition, ParentType: target.Name}
		}
	}
	return f.collect(target, cond, inline.SelectionSet, frame{
		conditional: fr.conditional || language.HasConditionalDirective(inline.Directives),
		untyped:     inline.TypeCondition == "",
		expanding:   fr.expanding,
	})
}

func (f *flattener) spread(target *schema.Type, spread *language.FragmentSpread, fr frame) error {
	frag := f.engine.fragments.Get(spread.Name)
	if frag == nil {
		return &UnknownFragmentError{Name: spread.Name}
	}
	on := f.engine.schema.Type(frag.TypeCondition)
	if !on.IsComposite() {
		return &InvalidFragmentSpreadTargetError{Fragment: frag.Name, TypeName: frag.TypeCondition, ParentType: target.Name}
	}
	conditional := fr.conditional || language.HasConditionalDirective(spread.Directives)

	if f.engine.opts.FragmentMode == FragmentInline {
		// A fragment spread inside its own expansion, directly or below a
		// field, contributes nothing.
		if fr.expanding[frag.Name] {
			return nil
		}
		return f.collect(target, on, frag.SelectionSet, frame{
			conditional: conditional,
			expanding:   fr.expanding.with(frag.Name),
		})
	}

	for _, t := range f.engine.narrow(target, on) {
		f.bucket.add(t.Name, Item{
			Kind: ItemFragment,
			Fragment: &FragmentUsage{
				FragmentName: frag.Name,
				BranchName:   f.engine.opts.BranchNamer(frag.Name, t.Name),
				OnType:       t.Name,
				Selection:    frag.SelectionSet,
				Conditional:  conditional,
			},
			Conditional: conditional,
		})
	}
	return nil
}

// narrow returns the concrete types that a fragment with condition cond
// contributes to when it appears inside parent:
//
//	object parent      cond is parent or an interface it implements -> parent
//	abstract parent    cond is parent                               -> every possible type
//	abstract parent    cond is an object possible type              -> that object
//	abstract parent    cond is another interface or union           -> possible types of
//	                                                                   parent that are subtypes of cond
//
// A condition without overlap yields nothing.
func (e *Engine) narrow(parent, cond *schema.Type) []*schema.Type {
	if parent.Kind == schema.TypeKindObject {
		if e.schema.IsSubtype(parent, cond) {
			return []*schema.Type{parent}
		}
		return nil
	}
	if cond.Name == parent.Name {
		return e.schema.PossibleTypes(parent)
	}
	if cond.Kind == schema.TypeKindObject {
		if e.schema.IsPossibleType(parent, cond) {
			return []*schema.Type{cond}
		}
		return nil
	}
	var out []*schema.Type
	for _, member := range e.schema.PossibleTypes(parent) {
		if e.schema.IsSubtype(member, cond) {
			out = append(out, member)
		}
	}
	return out
}
