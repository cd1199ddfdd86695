package schema

import (
	"sort"

	language "github.com/hanpama/gqlshape/internal/language"
)

// TypenameField is the implicit meta field every composite type exposes.
var TypenameField = &Field{
	Name: "__typename",
	Type: NonNullType(NamedType("String")),
}

// Type returns the named type, or nil when the schema has no such type.
func (s *Schema) Type(name string) *Type {
	if s == nil {
		return nil
	}
	return s.Types[name]
}

// RootType returns the root object type for an operation kind, or nil when
// the schema does not declare one.
func (s *Schema) RootType(op language.Operation) *Type {
	switch op {
	case language.Query, "":
		return s.GetQueryType()
	case language.Mutation:
		return s.GetMutationType()
	case language.Subscription:
		return s.GetSubscriptionType()
	}
	return nil
}

// IsRootType reports whether name is one of the root operation types.
func (s *Schema) IsRootType(name string) bool {
	if name == "" {
		return false
	}
	return name == s.QueryType || name == s.MutationType || name == s.SubscriptionType
}

// Field returns the field definition by name. __typename resolves to the
// implicit meta field on every composite type.
func (t *Type) Field(name string) *Field {
	if name == TypenameField.Name && t.IsComposite() {
		return TypenameField
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// IsAbstract reports whether t is an interface or a union.
func (t *Type) IsAbstract() bool {
	return t != nil && (t.Kind == TypeKindInterface || t.Kind == TypeKindUnion)
}

// IsComposite reports whether t can carry a selection set.
func (t *Type) IsComposite() bool {
	return t != nil && (t.Kind == TypeKindObject || t.IsAbstract())
}

// Implements reports whether t declares iface among its interfaces.
func (t *Type) Implements(iface string) bool {
	for _, name := range t.Interfaces {
		if name == iface {
			return true
		}
	}
	return false
}

// PossibleTypes returns the concrete object types satisfying t, in schema
// declaration order. An object type is its own single possible type.
func (s *Schema) PossibleTypes(t *Type) []*Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TypeKindObject:
		return []*Type{t}
	case TypeKindInterface, TypeKindUnion:
		out := make([]*Type, 0, len(t.PossibleTypes))
		for _, name := range t.PossibleTypes {
			if pt := s.Types[name]; pt != nil {
				out = append(out, pt)
			}
		}
		return out
	}
	return nil
}

// IsPossibleType reports whether obj is one of the possible types of t.
func (s *Schema) IsPossibleType(t, obj *Type) bool {
	for _, pt := range s.PossibleTypes(t) {
		if pt.Name == obj.Name {
			return true
		}
	}
	return false
}

// IsSubtype reports whether every value of sub is also a value of super.
func (s *Schema) IsSubtype(sub, super *Type) bool {
	if sub == nil || super == nil {
		return false
	}
	if sub.Name == super.Name {
		return true
	}
	if !super.IsAbstract() {
		return false
	}
	if sub.Kind == TypeKindObject {
		return s.IsPossibleType(super, sub)
	}
	return sub.Kind == TypeKindInterface && super.Kind == TypeKindInterface && sub.Implements(super.Name)
}

// sortByDeclaration orders type names by their position in the SDL; names
// without a recorded position sort last, alphabetically.
func (s *Schema) sortByDeclaration(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		oi, iok := s.order[names[i]]
		oj, jok := s.order[names[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		}
		return names[i] < names[j]
	})
}
