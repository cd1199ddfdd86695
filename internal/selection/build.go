package selection

import (
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// fieldGroupMap preserves response-key order of first encounter.
type fieldGroupMap struct {
	groups []fieldGroup
	index  map[string]int
}

type fieldGroup struct {
	ResponseKey string
	Fields      []*language.Field
	// Conditional holds only while every occurrence is conditional.
	Conditional bool
	// parts holds the sub-selection of every occurrence.
	parts []selectionPart
}

func newFieldGroupMap() *fieldGroupMap {
	return &fieldGroupMap{
		groups: make([]fieldGroup, 0),
		index:  make(map[string]int),
	}
}

func (m *fieldGroupMap) add(item Item) {
	field := item.Field
	key := language.ResponseKey(field)
	part := selectionPart{set: field.SelectionSet, expanding: item.expanding}
	if idx, exists := m.index[key]; exists {
		g := &m.groups[idx]
		g.Fields = append(g.Fields, field)
		g.Conditional = g.Conditional && item.Conditional
		g.parts = append(g.parts, part)
		return
	}
	m.index[key] = len(m.groups)
	m.groups = append(m.groups, fieldGroup{
		ResponseKey: key,
		Fields:      []*language.Field{field},
		Conditional: item.Conditional,
		parts:       []selectionPart{part},
	})
}

// Build computes the ordered field shapes of one concrete type from its
// bucket items. The typename field comes first, then the other response
// keys in first-encounter order.
func (e *Engine) Build(concrete *schema.Type, items []Item) (TypeShape, error) {
	return e.build(concrete, items, false)
}

func (e *Engine) build(concrete *schema.Type, items []Item, root bool) (TypeShape, error) {
	shape := TypeShape{TypeName: concrete.Name}
	groups := newFieldGroupMap()
	queriedTypename := false
	usageIndex := make(map[string]int)

	for _, item := range items {
		switch item.Kind {
		case ItemField:
			if item.Field.Name == schema.TypenameField.Name && !language.IsAliased(item.Field) {
				queriedTypename = true
				continue
			}
			groups.add(item)
		case ItemFragment:
			usage := *item.Fragment
			if idx, ok := usageIndex[usage.FragmentName]; ok {
				shape.Fragments[idx].Conditional = shape.Fragments[idx].Conditional && usage.Conditional
				continue
			}
			usageIndex[usage.FragmentName] = len(shape.Fragments)
			shape.Fragments = append(shape.Fragments, usage)
		}
	}

	if tn := e.typenameField(concrete, queriedTypename, root); tn != nil {
		shape.Fields = append(shape.Fields, *tn)
	}
	for _, group := range groups.groups {
		fs, err := e.buildField(concrete, group)
		if err != nil {
			return TypeShape{}, err
		}
		shape.Fields = append(shape.Fields, fs)
	}
	return shape, nil
}

func (e *Engine) buildField(concrete *schema.Type, group fieldGroup) (FieldShape, error) {
	first := group.Fields[0]
	def := concrete.Field(first.Name)
	if def == nil {
		return FieldShape{}, &UnknownFieldError{TypeName: concrete.Name, Field: first.Name}
	}
	if def.Name == schema.TypenameField.Name {
		// An aliased typename still resolves to the concrete type name.
		return FieldShape{
			Kind:        FieldTypename,
			ResponseKey: group.ResponseKey,
			FieldName:   def.Name,
			Type:        def.Type,
			Literals:    []string{concrete.Name},
			Conditional: group.Conditional,
		}, nil
	}
	fs := FieldShape{
		Kind:        FieldPrimitive,
		ResponseKey: group.ResponseKey,
		FieldName:   def.Name,
		Type:        def.Type,
		Conditional: group.Conditional,
	}

	size := 0
	for _, p := range group.parts {
		size += len(p.set)
	}
	switch {
	case size > 0:
		named := e.schema.Type(def.Type.GetNamedType())
		child, err := e.resolve(named, group.parts, false)
		if err != nil {
			return FieldShape{}, err
		}
		fs.Kind = FieldLink
		fs.Child = child
	case language.IsAliased(first):
		fs.Kind = FieldAliasedPrimitive
	}
	return fs, nil
}

// typenameField applies the typename emission rules:
//
//	requested                          -> required
//	not requested, NonOptional         -> required
//	not requested, Add                 -> optional
//	otherwise                          -> omitted
//
// The top selection of an operation, or of a fragment on a root type, omits
// an unrequested typename when SkipForRoot is set. Fields nested below it
// keep the rules above even when typed as a root type.
func (e *Engine) typenameField(t *schema.Type, queried, root bool) *FieldShape {
	opts := e.opts.Typename
	if !queried && opts.SkipForRoot && root {
		return nil
	}
	if !queried && !opts.NonOptional && !opts.Add {
		return nil
	}
	return &FieldShape{
		Kind:        FieldTypename,
		ResponseKey: schema.TypenameField.Name,
		FieldName:   schema.TypenameField.Name,
		Type:        schema.TypenameField.Type,
		Literals:    []string{t.Name},
		Optional:    !queried && !opts.NonOptional,
	}
}
