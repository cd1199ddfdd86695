package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	fragments "github.com/hanpama/gqlshape/internal/fragments"
	"github.com/stretchr/testify/require"
)

const testSchema = `
type Query {
	me: User
}

type User {
	id: ID!
	name: String
}
`

func TestLoadInMemory(t *testing.T) {
	d := NewInMemoryDiscovery([]InMemoryFile{
		{Path: "app/me.graphql", Kind: KindDocument, Content: `query Me { me { ...UserName ...UserID } }`},
		{Path: "schema.graphqls", Kind: KindSchema, Content: testSchema},
		{Path: "app/user.graphql", Kind: KindDocument, Content: `fragment UserName on User { name }`},
		{Path: "lib/user.graphql", Kind: KindExternal, Content: `
			fragment UserID on User { id }
			query LibOnly { me { id } }`},
	})

	project, err := Load(context.Background(), d)
	require.NoError(t, err)

	require.NotNil(t, project.Schema.Type("User"))
	require.Len(t, project.Operations, 1)
	require.Equal(t, "Me", project.Operations[0].Name)

	if diff := cmp.Diff([]string{"UserName", "UserID"}, project.Fragments.Names()); diff != "" {
		t.Errorf("fragments mismatch (-want +got):\n%s", diff)
	}
	require.False(t, project.Fragments.Get("UserName").External)
	require.True(t, project.Fragments.Get("UserID").External)

	var paths []string
	for _, f := range project.Files {
		paths = append(paths, f.Kind.String()+":"+f.Path)
	}
	want := []string{
		"schema:schema.graphqls",
		"document:app/me.graphql",
		"document:app/user.graphql",
		"external:lib/user.graphql",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadReportsViolations(t *testing.T) {
	d := NewInMemoryDiscovery([]InMemoryFile{
		{Path: "schema.graphqls", Kind: KindSchema, Content: testSchema},
		{Path: "bad.graphql", Kind: KindDocument, Content: "query Bad {\n  me { missing }\n}"},
	})

	_, err := Load(context.Background(), d)
	var violations ValidationError
	require.True(t, errors.As(err, &violations), "got %v", err)
	require.NotEmpty(t, violations)
	require.Equal(t, "bad.graphql", violations[0].File)
	require.Equal(t, 2, violations[0].Line)
}

func TestLoadReportsSchemaViolations(t *testing.T) {
	d := NewInMemoryDiscovery([]InMemoryFile{
		{Path: "schema.graphqls", Kind: KindSchema, Content: `type Query { me: Missing }`},
	})
	_, err := Load(context.Background(), d)
	var violations ValidationError
	require.True(t, errors.As(err, &violations), "got %v", err)
}

func TestLoadRejectsConflictingFragments(t *testing.T) {
	d := NewInMemoryDiscovery([]InMemoryFile{
		{Path: "schema.graphqls", Kind: KindSchema, Content: testSchema},
		{Path: "a.graphql", Kind: KindDocument, Content: `fragment U on User { id }`},
		{Path: "b.graphql", Kind: KindDocument, Content: `fragment U on User { name }`},
	})
	_, err := Load(context.Background(), d)
	var dup *fragments.DuplicateFragmentError
	require.True(t, errors.As(err, &dup), "got %v", err)
}

func TestLoadRequiresSchema(t *testing.T) {
	_, err := Load(context.Background(), NewInMemoryDiscovery(nil))
	require.EqualError(t, err, "no schema files found")
}

func TestFileSystemDiscovery(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) string {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	schemaPath := write("schema/schema.graphqls", testSchema)
	write("schema/README.md", "ignored")
	write("src/b/me.gql", `query Me { me { ...U } }`)
	write("src/a/user.graphql", `fragment U on User { id }`)
	write("src/a/notes.txt", "ignored")

	d, err := NewFileSystemDiscovery(context.Background(), Roots{
		Schema:    []string{filepath.Join(root, "schema")},
		Documents: []string{filepath.Join(root, "src")},
	})
	require.NoError(t, err)

	files, err := d.ListFiles(context.Background())
	require.NoError(t, err)
	want := []*File{
		{Path: schemaPath, Kind: KindSchema},
		{Path: filepath.Join(root, "src/a/user.graphql"), Kind: KindDocument},
		{Path: filepath.Join(root, "src/b/me.gql"), Kind: KindDocument},
	}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	project, err := Load(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, project.Operations, 1)
	require.Equal(t, 1, project.Fragments.Len())
}

func TestFileSystemDiscoveryMissingRoot(t *testing.T) {
	_, err := NewFileSystemDiscovery(context.Background(), Roots{Schema: []string{filepath.Join(t.TempDir(), "nope")}})
	require.Error(t, err)

	_, err = NewFileSystemDiscovery(context.Background(), Roots{})
	require.Error(t, err)
}
