package fragments

import (
	"bytes"

	language "github.com/hanpama/gqlshape/internal/language"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Fragment is a loaded fragment definition.
type Fragment struct {
	Name          string
	TypeCondition string
	SelectionSet  language.SelectionSet
	Definition    *language.FragmentDefinition
	// External marks fragments declared outside the documents being
	// generated; they are resolved but not emitted.
	External bool
}

// Table holds fragments keyed by name in first-declaration order.
type Table struct {
	byName map[string]*Fragment
	names  []string
	bodies map[string]string
}

func NewTable() *Table {
	return &Table{
		byName: make(map[string]*Fragment),
		bodies: make(map[string]string),
	}
}

// Load builds a table from definitions; see Table.Add.
func Load(defs language.FragmentDefinitionList) (*Table, error) {
	t := NewTable()
	for _, def := range defs {
		if err := t.Add(def, false); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add registers def. Redeclaring a name is accepted only when the body is
// identical; otherwise a DuplicateFragmentError is returned.
func (t *Table) Add(def *language.FragmentDefinition, external bool) error {
	body := printFragment(def)
	if existing, ok := t.byName[def.Name]; ok {
		if t.bodies[def.Name] != body {
			return &DuplicateFragmentError{Name: def.Name}
		}
		// A local declaration wins over an external one.
		existing.External = existing.External && external
		return nil
	}
	t.byName[def.Name] = &Fragment{
		Name:          def.Name,
		TypeCondition: def.TypeCondition,
		SelectionSet:  def.SelectionSet,
		Definition:    def,
		External:      external,
	}
	t.bodies[def.Name] = body
	t.names = append(t.names, def.Name)
	return nil
}

// Get returns the fragment by name, or nil.
func (t *Table) Get(name string) *Fragment {
	if t == nil {
		return nil
	}
	return t.byName[name]
}

// Names lists fragment names in first-declaration order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

func printFragment(def *language.FragmentDefinition) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatQueryDocument(&language.QueryDocument{
		Fragments: language.FragmentDefinitionList{def},
	})
	return buf.String()
}
