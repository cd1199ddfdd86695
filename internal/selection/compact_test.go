package selection

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func nodeSchema(n int) (string, []string) {
	var b strings.Builder
	b.WriteString("type Query { nodes: [Node!]! }\n")
	b.WriteString("interface Node { id: ID! }\n")
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("T%02d", i+1)
		fmt.Fprintf(&b, "type %s implements Node { id: ID! }\n", names[i])
	}
	return b.String(), names
}

func TestCompactChunksLargeGroups(t *testing.T) {
	sdl, names := nodeSchema(21)
	e, doc := newTestEngine(t, sdl, `{ nodes { id } }`, Options{
		Compact:  true,
		Typename: TypenameOptions{NonOptional: true, SkipForRoot: true},
	})
	nodes := child(t, mustResolveOperation(t, e, doc), "Query", "nodes")

	require.Len(t, nodes.Branches, 1)
	branch := nodes.Branches[0]
	require.Equal(t, names, branch.TypeNames)
	require.Equal(t, names, branch.Fields[0].Literals)
	require.Equal(t, "Group_"+ContentHash(names), branch.Name)

	want := []Chunk{
		{Name: "Group_" + ContentHash(names[:20]), TypeNames: names[:20]},
		{Name: "T21", TypeNames: []string{"T21"}},
	}
	if diff := cmp.Diff(want, branch.Chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestCompactDoesNotChunkAtLimit(t *testing.T) {
	sdl, names := nodeSchema(20)
	e, doc := newTestEngine(t, sdl, `{ nodes { id } }`, Options{Compact: true})
	nodes := child(t, mustResolveOperation(t, e, doc), "Query", "nodes")

	require.Len(t, nodes.Branches, 1)
	require.Equal(t, names, nodes.Branches[0].TypeNames)
	require.Nil(t, nodes.Branches[0].Chunks)
}

func TestCompactCustomChunkSize(t *testing.T) {
	sdl, _ := nodeSchema(5)
	e, doc := newTestEngine(t, sdl, `{ nodes { id } }`, Options{Compact: true, ChunkSize: 2})
	nodes := child(t, mustResolveOperation(t, e, doc), "Query", "nodes")

	want := []Chunk{
		{Name: "T01_T02", TypeNames: []string{"T01", "T02"}},
		{Name: "T03_T04", TypeNames: []string{"T03", "T04"}},
		{Name: "T05", TypeNames: []string{"T05"}},
	}
	if diff := cmp.Diff(want, nodes.Branches[0].Chunks); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestCompactDistinctShapesNamedByConcatenation(t *testing.T) {
	e, doc := newTestEngine(t, petSchema, `{ pet { ... on Cat { meows } ... on Dog { barks } ... on Bird { wings } } }`, Options{Compact: true})
	pet := child(t, mustResolveOperation(t, e, doc), "Query", "pet")

	var got []string
	for _, b := range pet.Branches {
		got = append(got, b.Name)
	}
	if diff := cmp.Diff([]string{"Cat", "Dog", "Bird"}, got); diff != "" {
		t.Errorf("branch names mismatch (-want +got):\n%s", diff)
	}
	require.False(t, pet.EmptyFallback)
}

func TestGroupKey(t *testing.T) {
	e, doc := newTestEngine(t, petSchema, `{ pet { name ... on Cat { meows } } }`, Options{Typename: TypenameOptions{NonOptional: true}})
	pet := child(t, mustResolveOperation(t, e, doc), "Query", "pet")

	cat := TypeShape{TypeName: "Cat", Fields: pet.Branch("Cat").Fields}
	dog := TypeShape{TypeName: "Dog", Fields: pet.Branch("Dog").Fields}
	bird := TypeShape{TypeName: "Bird", Fields: pet.Branch("Bird").Fields}

	require.Equal(t, GroupKey(dog), GroupKey(bird), "typename literal is not part of the key")
	require.NotEqual(t, GroupKey(cat), GroupKey(dog))
}

func TestNamingPolicy(t *testing.T) {
	require.True(t, UseConcatenatedName(1))
	require.True(t, UseConcatenatedName(3))
	require.False(t, UseConcatenatedName(4))

	require.Equal(t, "Cat", GroupName([]string{"Cat"}))
	require.Equal(t, "Cat_Dog_Bird", GroupName([]string{"Cat", "Dog", "Bird"}))

	four := []string{"A", "B", "C", "D"}
	name := GroupName(four)
	require.True(t, strings.HasPrefix(name, "Group_"), name)
	require.Len(t, strings.TrimPrefix(name, "Group_"), 8)

	require.Equal(t, ContentHash(four), ContentHash([]string{"D", "C", "B", "A"}), "hash ignores order")
	require.NotEqual(t, ContentHash([]string{"AB", "C"}), ContentHash([]string{"A", "BC"}))
}

func TestChunkTypeNames(t *testing.T) {
	require.Nil(t, ChunkTypeNames([]string{"A", "B"}, 2))
	require.Nil(t, ChunkTypeNames([]string{"A", "B"}, 0))

	got := ChunkTypeNames([]string{"A", "B", "C"}, 2)
	want := []Chunk{
		{Name: "A_B", TypeNames: []string{"A", "B"}},
		{Name: "C", TypeNames: []string{"C"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chunks mismatch (-want +got):\n%s", diff)
	}
}
