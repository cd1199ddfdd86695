package fragments

import (
	language "github.com/hanpama/gqlshape/internal/language"
)

// Spreads returns the fragment names spread directly by set, including
// spreads nested under fields and inline fragments, in first-use order.
// Bodies of the spread fragments are not followed.
func Spreads(set language.SelectionSet) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(language.SelectionSet)
	walk = func(set language.SelectionSet) {
		for _, selection := range set {
			switch sel := selection.(type) {
			case *language.Field:
				walk(sel.SelectionSet)
			case *language.InlineFragment:
				walk(sel.SelectionSet)
			case *language.FragmentSpread:
				if !seen[sel.Name] {
					seen[sel.Name] = true
					names = append(names, sel.Name)
				}
			}
		}
	}
	walk(set)
	return names
}

// Graph is the spread-reference graph: an edge A -> B exists when A's body
// spreads B directly.
type Graph struct {
	table *Table
	edges map[string][]string
}

// NewGraph builds the spread graph over every fragment in t. Spreads of
// names absent from t are dropped; the flattener reports them.
func NewGraph(t *Table) *Graph {
	g := &Graph{table: t, edges: make(map[string][]string)}
	for _, name := range t.Names() {
		for _, dep := range Spreads(t.Get(name).SelectionSet) {
			if t.Get(dep) != nil {
				g.edges[name] = append(g.edges[name], dep)
			}
		}
	}
	return g
}

// DependsOn lists the fragments name spreads directly.
func (g *Graph) DependsOn(name string) []string {
	return g.edges[name]
}

// Order returns every fragment such that each one follows all fragments it
// spreads. Fragments keep declaration order unless a dependency forces a
// move. Cycles do not stop the traversal; the edge closing a cycle is
// ignored.
func (g *Graph) Order() []*Fragment {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	out := make([]*Fragment, 0, g.table.Len())
	var visit func(string)
	visit = func(name string) {
		if state[name] != unvisited {
			return
		}
		state[name] = visiting
		for _, dep := range g.edges[name] {
			visit(dep)
		}
		state[name] = done
		out = append(out, g.table.Get(name))
	}
	for _, name := range g.table.Names() {
		visit(name)
	}
	return out
}

// FindCycle returns a CycleError for the first cycle found, or nil.
func (g *Graph) FindCycle() error {
	visited := make(map[string]int) // 0=unvisited,1=visiting,2=done
	var stack []string
	var cycleErr error
	var dfs func(string)
	dfs = func(name string) {
		if cycleErr != nil {
			return
		}
		switch visited[name] {
		case 1:
			path := append([]string{}, stack...)
			cycleErr = &CycleError{Path: append(path, name)}
			return
		case 2:
			return
		}
		visited[name] = 1
		stack = append(stack, name)
		for _, dep := range g.edges[name] {
			dfs(dep)
			if cycleErr != nil {
				return
			}
		}
		stack = stack[:len(stack)-1]
		visited[name] = 2
	}
	for _, name := range g.table.Names() {
		dfs(name)
		if cycleErr != nil {
			return cycleErr
		}
	}
	return nil
}

// Order is a shortcut for NewGraph(t).Order().
func Order(t *Table) []*Fragment {
	return NewGraph(t).Order()
}
