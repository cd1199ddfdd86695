package schema

import (
	"sort"
	"strings"

	language "github.com/hanpama/gqlshape/internal/language"
	"github.com/vektah/gqlparser/v2/ast"
)

// BuildFromSources validates the SDL sources and builds the type graph.
// Declaration order across sources is preserved for possible types.
func BuildFromSources(sources ...*language.Source) (*Schema, error) {
	order, err := DeclarationOrder(sources...)
	if err != nil {
		return nil, err
	}
	validated, err := language.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return BuildFromAST(validated, order), nil
}

// DeclarationOrder lists the type names defined or extended by sources in
// the order they are written.
func DeclarationOrder(sources ...*language.Source) ([]string, error) {
	var order []string
	for _, src := range sources {
		doc, err := language.ParseSchema(src.Name, src.Input)
		if err != nil {
			return nil, err
		}
		for _, def := range doc.Definitions {
			order = append(order, def.Name)
		}
		for _, def := range doc.Extensions {
			order = append(order, def.Name)
		}
	}
	return order, nil
}

// BuildFromSDL parses SDL string and returns the corresponding Schema.
func BuildFromSDL(sdl string) (*Schema, error) {
	return BuildFromSources(&language.Source{Name: "schema.graphql", Input: sdl})
}

// BuildFromAST converts a validated gqlparser schema. order lists type names
// in declaration order; repeated names keep their first position.
func BuildFromAST(src *language.Schema, order []string) *Schema {
	s := NewSchema("")
	for i, name := range order {
		if _, seen := s.order[name]; !seen {
			s.order[name] = i
		}
	}
	if src.Query != nil {
		s.SetQueryType(src.Query.Name)
	}
	if src.Mutation != nil {
		s.SetMutationType(src.Mutation.Name)
	}
	if src.Subscription != nil {
		s.SetSubscriptionType(src.Subscription.Name)
	}

	names := make([]string, 0, len(src.Types))
	for name := range src.Types {
		if strings.HasPrefix(name, "__") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.AddType(buildDefinition(src.Types[name]))
	}
	s.linkPossibleTypes()
	return s
}

func buildDefinition(def *ast.Definition) *Type {
	switch def.Kind {
	case ast.Object:
		return buildComposite(def, TypeKindObject)
	case ast.Interface:
		return buildComposite(def, TypeKindInterface)
	case ast.Union:
		t := NewType(def.Name, TypeKindUnion, def.Description)
		for _, member := range def.Types {
			t.AddPossibleType(member)
		}
		return t
	case ast.Enum:
		t := NewType(def.Name, TypeKindEnum, def.Description)
		for _, v := range def.EnumValues {
			ev := &EnumValue{Name: v.Name, Description: v.Description}
			if d := v.Directives.ForName("deprecated"); d != nil {
				ev.IsDeprecated = true
				ev.DeprecationReason = deprecationReason(d)
			}
			t.EnumValues = append(t.EnumValues, ev)
		}
		return t
	case ast.InputObject:
		return NewType(def.Name, TypeKindInputObject, def.Description)
	}
	return NewType(def.Name, TypeKindScalar, def.Description)
}

func buildComposite(def *ast.Definition, kind TypeKind) *Type {
	t := NewType(def.Name, kind, def.Description)
	for _, iface := range def.Interfaces {
		t.AddInterface(iface)
	}
	for _, fd := range def.Fields {
		if strings.HasPrefix(fd.Name, "__") {
			continue
		}
		f := NewField(fd.Name, fd.Description, buildTypeRef(fd.Type))
		f.HasArguments = len(fd.Arguments) > 0
		if d := fd.Directives.ForName("deprecated"); d != nil {
			f.IsDeprecated = true
			f.DeprecationReason = deprecationReason(d)
		}
		t.AddField(f)
	}
	return t
}

func buildTypeRef(t *ast.Type) *TypeRef {
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(buildTypeRef(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		return NonNullType(ref)
	}
	return ref
}

func deprecationReason(d *ast.Directive) string {
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw
	}
	return ""
}

// linkPossibleTypes fills interface possible types from the objects that
// implement them. Union members keep their declared order.
func (s *Schema) linkPossibleTypes() {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	s.sortByDeclaration(names)
	for _, name := range names {
		t := s.Types[name]
		if t.Kind != TypeKindObject {
			continue
		}
		for _, iface := range t.Interfaces {
			if it := s.Types[iface]; it != nil && it.Kind == TypeKindInterface {
				it.AddPossibleType(t.Name)
			}
		}
	}
}

// ----- builder helpers -----

func NewSchema(description string) *Schema {
	return &Schema{
		Types:       make(map[string]*Type),
		Description: description,
		order:       make(map[string]int),
	}
}

func (s *Schema) SetQueryType(name string) *Schema        { s.QueryType = name; return s }
func (s *Schema) SetMutationType(name string) *Schema     { s.MutationType = name; return s }
func (s *Schema) SetSubscriptionType(name string) *Schema { s.SubscriptionType = name; return s }

// AddType registers t. Types added without an explicit declaration order
// are ordered by insertion.
func (s *Schema) AddType(t *Type) *Schema {
	if _, ok := s.order[t.Name]; !ok {
		s.order[t.Name] = len(s.order) + 1<<20
	}
	s.Types[t.Name] = t
	return s
}

func NewType(name string, kind TypeKind, description string) *Type {
	return &Type{Name: name, Kind: kind, Description: description}
}

func (t *Type) AddField(f *Field) *Type        { t.Fields = append(t.Fields, f); return t }
func (t *Type) AddInterface(name string) *Type { t.Interfaces = append(t.Interfaces, name); return t }
func (t *Type) AddPossibleType(name string) *Type {
	t.PossibleTypes = append(t.PossibleTypes, name)
	return t
}
func (t *Type) AddEnumValue(v *EnumValue) *Type { t.EnumValues = append(t.EnumValues, v); return t }

func NewField(name, description string, typ *TypeRef) *Field {
	return &Field{Name: name, Description: description, Type: typ}
}

func (f *Field) Deprecate(reason string) *Field {
	f.IsDeprecated = true
	f.DeprecationReason = reason
	return f
}
