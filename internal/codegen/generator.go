package codegen

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	eventbus "github.com/hanpama/gqlshape/internal/eventbus"
	events "github.com/hanpama/gqlshape/internal/events"
	fragments "github.com/hanpama/gqlshape/internal/fragments"
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
	selection "github.com/hanpama/gqlshape/internal/selection"
)

// Generator turns the fragments and operations of one project into an
// ordered declaration list.
type Generator struct {
	schema    *schema.Schema
	fragments *fragments.Table
	opts      selection.Options
	naming    Naming
	log       logr.Logger
	bus       *eventbus.Bus
}

type Option func(*Generator)

func WithLogger(log logr.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithEventBus publishes run and definition events to bus.
func WithEventBus(bus *eventbus.Bus) Option {
	return func(g *Generator) { g.bus = bus }
}

func WithNaming(n Naming) Option {
	return func(g *Generator) { g.naming = n }
}

// New returns a generator. The BranchNamer of opts is replaced by one that
// names fragment branch declarations.
func New(s *schema.Schema, table *fragments.Table, opts selection.Options, options ...Option) *Generator {
	g := &Generator{
		schema:    s,
		fragments: table,
		opts:      opts,
		naming:    DefaultNaming(),
		log:       logr.Discard(),
	}
	for _, o := range options {
		o(g)
	}
	return g
}

// fragmentResult records the declarations generated for a fragment, so
// later spreads can name them.
type fragmentResult struct {
	name     string
	branches map[string]string // concrete type -> branch declaration
}

type run struct {
	*Generator
	engine  *selection.Engine
	results map[string]*fragmentResult
	names   map[string]bool
	out     *Output
	errs    []error
}

// Generate resolves every fragment of the table in dependency order and
// then each of ops. A failing definition is reported and skipped; the
// returned error joins the failures of the run.
func (g *Generator) Generate(ctx context.Context, ops language.OperationList) (*Output, error) {
	started := time.Now()
	eventbus.Publish(ctx, g.bus, events.RunStart{Fragments: g.fragments.Len(), Operations: len(ops)})

	r := &run{
		Generator: g,
		results:   make(map[string]*fragmentResult),
		names:     make(map[string]bool),
	}
	opts := g.opts
	opts.BranchNamer = r.branchName
	r.engine = selection.New(g.schema, g.fragments, opts)
	r.out = &Output{FragmentMode: r.engine.Options().FragmentMode}

	graph := fragments.NewGraph(g.fragments)
	if err := graph.FindCycle(); err != nil {
		g.log.Info("fragment spreads form a cycle, spreads inside their own expansion are skipped", "cycle", err.Error())
	}
	for _, f := range graph.Order() {
		r.define(ctx, KindFragment, f.Name, func() ([]*Declaration, int, error) {
			return r.fragmentDeclarations(f)
		})
	}

	anonymous := 0
	for _, op := range ops {
		if op.Name == "" {
			anonymous++
		}
		name := g.naming.OperationName(op, anonymous)
		r.define(ctx, KindOperation, name, func() ([]*Declaration, int, error) {
			return r.operationDeclarations(op, name)
		})
	}

	err := errors.Join(r.errs...)
	eventbus.Publish(ctx, g.bus, events.RunFinish{
		Declarations: len(r.out.Declarations),
		Errors:       r.errs,
		Duration:     time.Since(started),
	})
	g.log.Info("generation finished",
		"declarations", len(r.out.Declarations),
		"errors", len(r.errs),
		"duration", time.Since(started))
	return r.out, err
}

// define runs resolve for one definition and records its declarations or
// its error.
func (r *run) define(ctx context.Context, kind Kind, name string, resolve func() ([]*Declaration, int, error)) {
	started := time.Now()
	eventbus.Publish(ctx, r.bus, events.DefinitionStart{Kind: string(kind), Name: name})

	decls, branches, err := resolve()
	if err == nil {
		err = r.claimNames(decls)
	}
	if err != nil {
		err = &DefinitionError{Kind: kind, Name: name, Err: err}
		r.errs = append(r.errs, err)
		r.log.Error(err, "failed to resolve definition", "kind", kind, "name", name)
		decls = nil
	} else {
		r.log.V(1).Info("resolved definition", "kind", kind, "name", name, "branches", branches, "declarations", len(decls))
	}
	r.out.Declarations = append(r.out.Declarations, decls...)

	eventbus.Publish(ctx, r.bus, events.DefinitionFinish{
		Kind:         string(kind),
		Name:         name,
		Declarations: len(decls),
		Branches:     branches,
		Err:          err,
		Duration:     time.Since(started),
	})
}

func (r *run) claimNames(decls []*Declaration) error {
	for _, d := range decls {
		if r.names[d.Name] {
			return &DuplicateDeclarationError{Name: d.Name}
		}
	}
	for _, d := range decls {
		r.names[d.Name] = true
	}
	return nil
}

// branchName names the declaration that covers typeName for a spread of
// fragment. Fragments not resolved yet, which only happens inside a spread
// cycle, are named by their public declaration.
func (r *run) branchName(fragment, typeName string) string {
	res, ok := r.results[fragment]
	if !ok {
		return r.naming.FragmentName(fragment)
	}
	if name, ok := res.branches[typeName]; ok {
		return name
	}
	return res.name
}

// fragmentDeclarations emits one declaration for a fragment with a single
// branch. Otherwise each branch gets a private declaration and the public
// declaration unites them.
func (r *run) fragmentDeclarations(f *fragments.Fragment) ([]*Declaration, int, error) {
	expr, err := r.engine.ResolveFragment(f)
	if err != nil {
		return nil, 0, err
	}
	res := &fragmentResult{
		name:     r.naming.FragmentName(f.Name),
		branches: make(map[string]string),
	}
	public := &Declaration{
		Name:       res.name,
		Kind:       DeclFragment,
		Definition: f.Name,
		TypeName:   f.TypeCondition,
		Shape:      expr,
	}

	if expr.Unknown || (len(expr.Branches) == 1 && !expr.EmptyFallback) {
		r.results[f.Name] = res
		if f.External {
			return nil, len(expr.Branches), nil
		}
		return []*Declaration{public}, len(expr.Branches), nil
	}

	var decls []*Declaration
	public.Umbrella = true
	for _, b := range expr.Branches {
		name := r.naming.FragmentBranchName(f.Name, b.Name)
		for _, t := range b.TypeNames {
			res.branches[t] = name
		}
		public.Members = append(public.Members, name)
		decls = append(decls, &Declaration{
			Name:       name,
			Kind:       DeclFragmentBranch,
			Definition: f.Name,
			TypeName:   f.TypeCondition,
			Branch:     b,
			Private:    true,
		})
	}
	r.results[f.Name] = res
	if f.External {
		return nil, len(expr.Branches), nil
	}
	return append(decls, public), len(expr.Branches), nil
}

func (r *run) operationDeclarations(op *language.OperationDefinition, name string) ([]*Declaration, int, error) {
	expr, err := r.engine.ResolveOperation(op)
	if err != nil {
		return nil, 0, err
	}
	return []*Declaration{{
		Name:       name,
		Kind:       DeclOperation,
		Definition: op.Name,
		Operation:  op.Operation,
		TypeName:   expr.TypeName,
		Shape:      expr,
	}}, len(expr.Branches), nil
}
