package selection

import (
	"strings"
	"testing"

	fragments "github.com/hanpama/gqlshape/internal/fragments"
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
	"github.com/stretchr/testify/require"
)

const petSchema = `
type Query {
	r: R
	pet: Pet
	pets: [Pet!]!
	user: User
	viewer: User!
	m: M
	self: Query
}

type Mutation {
	rename(name: String!): User
}

interface Pet {
	name: String!
}

type Cat implements Pet {
	name: String!
	meows: Boolean
}

type Dog implements Pet {
	name: String!
	barks: Boolean
}

type Bird implements Pet {
	name: String!
	wings: Int
}

union R = Cat | Dog

union M = Cat | User

type User {
	id: ID!
	name: String
	friends: [User!]
	pet: Pet
}
`

func newTestEngine(t *testing.T, sdl, query string, opts Options) (*Engine, *language.QueryDocument) {
	t.Helper()
	sch, err := schema.BuildFromSDL(sdl)
	require.NoError(t, err, "build schema")
	doc, err := language.ParseQuery(query)
	require.NoError(t, err, "parse query")
	table, err := fragments.Load(doc.Fragments)
	require.NoError(t, err, "load fragments")
	return New(sch, table, opts), doc
}

func mustResolveOperation(t *testing.T, e *Engine, doc *language.QueryDocument) *ShapeExpression {
	t.Helper()
	require.NotEmpty(t, doc.Operations)
	expr, err := e.ResolveOperation(doc.Operations[0])
	require.NoError(t, err)
	return expr
}

// child returns the child shape of the link field key in the branch
// covering typeName.
func child(t *testing.T, expr *ShapeExpression, typeName, key string) *ShapeExpression {
	t.Helper()
	b := expr.Branch(typeName)
	require.NotNil(t, b, "no branch for %s", typeName)
	for _, f := range b.Fields {
		if f.ResponseKey == key {
			require.Equal(t, FieldLink, f.Kind, "field %s is not a link", key)
			return f.Child
		}
	}
	t.Fatalf("no field %q in branch %s", key, typeName)
	return nil
}

// describe renders an expression compactly:
//
//	Cat|Dog {__typename=Cat|Dog, name, n:name, owner {User {id}}} | {}
func describe(e *ShapeExpression) string {
	if e.Unknown {
		return "unknown"
	}
	var parts []string
	for _, b := range e.Branches {
		parts = append(parts, strings.Join(b.TypeNames, "|")+" {"+describeBranch(b)+"}")
	}
	if e.EmptyFallback {
		parts = append(parts, "{}")
	}
	return strings.Join(parts, " | ")
}

func describeBranch(b *Branch) string {
	var items []string
	for _, f := range b.Fields {
		items = append(items, describeField(f))
	}
	for _, u := range b.Fragments {
		s := "..." + u.BranchName
		if u.Conditional {
			s += "?"
		}
		items = append(items, s)
	}
	return strings.Join(items, ", ")
}

func describeField(f FieldShape) string {
	cond := ""
	if f.Conditional {
		cond = "?"
	}
	switch f.Kind {
	case FieldTypename:
		s := "__typename"
		if f.ResponseKey != s {
			s = f.ResponseKey + ":" + s
		}
		if f.Optional {
			s += "?"
		}
		return s + cond + "=" + strings.Join(f.Literals, "|")
	case FieldAliasedPrimitive:
		return f.ResponseKey + ":" + f.FieldName + cond
	case FieldLink:
		return f.ResponseKey + cond + " {" + describe(f.Child) + "}"
	}
	return f.ResponseKey + cond
}
