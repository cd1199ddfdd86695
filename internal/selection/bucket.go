package selection

import (
	language "github.com/hanpama/gqlshape/internal/language"
)

type ItemKind int

const (
	ItemField ItemKind = iota
	ItemFragment
)

// Item is one selection contributing to a concrete type.
type Item struct {
	Kind     ItemKind
	Field    *language.Field
	Fragment *FragmentUsage
	// Conditional is set when a directive on the item or on an enclosing
	// fragment may skip it.
	Conditional bool

	// expanding holds the fragments whose bodies enclose the item. It
	// follows the item into the sub-selection of a field.
	expanding expandingSet
}

// expandingSet is an immutable set of fragment names.
type expandingSet map[string]bool

// with returns a copy of s that also holds name.
func (s expandingSet) with(name string) expandingSet {
	out := make(expandingSet, len(s)+1)
	for k := range s {
		out[k] = true
	}
	out[name] = true
	return out
}

// selectionPart is a selection set together with the fragments being
// expanded where it was written.
type selectionPart struct {
	set       language.SelectionSet
	expanding expandingSet
}

// Bucket maps concrete type names to their contributing items. A Bucket is
// never modified after Flatten returns it.
type Bucket struct {
	types []string
	items map[string][]Item
}

// Types lists the concrete types that received at least one item, in the
// order they first did.
func (b *Bucket) Types() []string {
	return append([]string(nil), b.types...)
}

// Items returns the items collected for typeName.
func (b *Bucket) Items(typeName string) []Item {
	return b.items[typeName]
}

// bucketBuilder owns the accumulator of one Flatten call.
type bucketBuilder struct {
	types []string
	items map[string][]Item
}

func newBucketBuilder() *bucketBuilder {
	return &bucketBuilder{items: make(map[string][]Item)}
}

func (b *bucketBuilder) add(typeName string, item Item) {
	if _, ok := b.items[typeName]; !ok {
		b.types = append(b.types, typeName)
	}
	b.items[typeName] = append(b.items[typeName], item)
}

func (b *bucketBuilder) snapshot() *Bucket {
	items := make(map[string][]Item, len(b.items))
	for name, list := range b.items {
		items[name] = append([]Item(nil), list...)
	}
	return &Bucket{types: append([]string(nil), b.types...), items: items}
}
