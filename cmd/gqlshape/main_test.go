package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `
type Query {
  viewer: User!
  pet(id: ID!): Pet
}

type User {
  id: ID!
  name: String!
}

interface Pet {
  name: String!
}

type Cat implements Pet {
  name: String!
  lives: Int!
}

type Dog implements Pet {
  name: String!
  barks: Boolean!
}
`

const testDocuments = `
query Viewer {
  viewer {
    name
  }
}

query PetInfo($id: ID!) {
  pet(id: $id) {
    ...PetDetails
  }
}

fragment PetDetails on Pet {
  name
  ...CatDetails
}

fragment CatDetails on Cat {
  lives
}
`

func captureOutput(t *testing.T, fn func() error) (stdout, stderr string, err error) {
	t.Helper()
	oldOut, oldErr := os.Stdout, os.Stderr
	defer func() {
		os.Stdout, os.Stderr = oldOut, oldErr
	}()

	outR, outW, _ := os.Pipe()
	errR, errW, _ := os.Pipe()
	os.Stdout, os.Stderr = outW, errW

	doneOut := make(chan struct{})
	var bufOut bytes.Buffer
	go func() { io.Copy(&bufOut, outR); close(doneOut) }()

	doneErr := make(chan struct{})
	var bufErr bytes.Buffer
	go func() { io.Copy(&bufErr, errR); close(doneErr) }()

	err = fn()
	outW.Close()
	errW.Close()
	<-doneOut
	<-doneErr
	stdout, stderr = bufOut.String(), bufErr.String()
	return
}

func writeFixtures(t *testing.T) (schemaPath, docsDir string) {
	t.Helper()
	dir := t.TempDir()
	schemaPath = filepath.Join(dir, "schema.graphqls")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchema), 0644))
	docsDir = filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(docsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "queries.graphql"), []byte(testDocuments), 0644))
	return schemaPath, docsDir
}

func TestHelp(t *testing.T) {
	out, _, err := captureOutput(t, func() error {
		return run([]string{"help", "generate"})
	})
	require.NoError(t, err)
	require.Contains(t, out, "generate FLAGS")

	out, _, err = captureOutput(t, func() error {
		return run([]string{"help"})
	})
	require.NoError(t, err)
	require.Contains(t, out, "COMMANDS:")

	_, _, err = captureOutput(t, func() error {
		return run([]string{"help", "serve"})
	})
	require.EqualError(t, err, `unknown help topic "serve"`)
}

func TestRunErrors(t *testing.T) {
	_, stderr, err := captureOutput(t, func() error {
		return run(nil)
	})
	require.EqualError(t, err, "missing command")
	require.Contains(t, stderr, "USAGE:")

	_, _, err = captureOutput(t, func() error {
		return run([]string{"serve"})
	})
	require.EqualError(t, err, `unknown command "serve"`)

	_, _, err = captureOutput(t, func() error {
		return run([]string{"generate"})
	})
	require.EqualError(t, err, "-schema is required")
}

func TestGenerateTypeScript(t *testing.T) {
	schemaPath, docsDir := writeFixtures(t)
	out, _, err := captureOutput(t, func() error {
		return run([]string{"generate", "-schema", schemaPath, "-documents", docsDir})
	})
	require.NoError(t, err)
	require.Contains(t, out, "// Code generated by gqlshape. DO NOT EDIT.")
	require.Contains(t, out, "export type ViewerQuery = {\n  viewer: {\n    name: string;\n  };\n};")
	require.Contains(t, out, "export type CatDetailsFragment = {\n  lives: number;\n};")
	require.Contains(t, out, "export type PetDetailsFragment =")
	require.Contains(t, out, "export type PetInfoQuery =")
}

func TestGenerateToFile(t *testing.T) {
	schemaPath, docsDir := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "types.ts")
	stdout, _, err := captureOutput(t, func() error {
		return run([]string{
			"generate",
			"-schema", schemaPath,
			"-documents", docsDir,
			"-fragment-mode", "mask",
			"-out", outPath,
		})
	})
	require.NoError(t, err)
	require.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "' $fragmentRefs'?:")
}

func TestGenerateProto(t *testing.T) {
	schemaPath, docsDir := writeFixtures(t)
	out, _, err := captureOutput(t, func() error {
		return run([]string{
			"generate",
			"-schema", schemaPath,
			"-documents", docsDir,
			"-format", "proto",
			"-package", "acme.shapes",
		})
	})
	require.NoError(t, err)
	require.Contains(t, out, `syntax = "proto3";`)
	require.Contains(t, out, "package acme.shapes;")
	require.Contains(t, out, "message ViewerQuery {")
}

func TestGenerateConfigFile(t *testing.T) {
	schemaPath, docsDir := writeFixtures(t)
	cfgPath := filepath.Join(t.TempDir(), "gqlshape.yaml")
	cfg := "schema:\n  - " + schemaPath + "\ndocuments:\n  - " + docsDir + "\nfragmentMode: combine\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	out, _, err := captureOutput(t, func() error {
		return run([]string{"generate", "-config", cfgPath})
	})
	require.NoError(t, err)
	require.Contains(t, out, "export type ViewerQuery")

	_, _, err = captureOutput(t, func() error {
		return run([]string{"generate", "-config", cfgPath, "-format", "pdf"})
	})
	require.ErrorContains(t, err, `unknown output format "pdf"`)
}

func TestGenerateInvalidDocument(t *testing.T) {
	schemaPath, _ := writeFixtures(t)
	docPath := filepath.Join(t.TempDir(), "bad.graphql")
	require.NoError(t, os.WriteFile(docPath, []byte("query Bad { viewer { nope } }"), 0644))

	_, _, err := captureOutput(t, func() error {
		return run([]string{"generate", "-schema", schemaPath, "-documents", docPath})
	})
	require.ErrorContains(t, err, "load project")
	require.ErrorContains(t, err, "nope")
}

func TestOrder(t *testing.T) {
	schemaPath, docsDir := writeFixtures(t)
	out, _, err := captureOutput(t, func() error {
		return run([]string{"order", "-schema", schemaPath, "-documents", docsDir})
	})
	require.NoError(t, err)
	require.Equal(t, "CatDetails\nPetDetails <- CatDetails\n", out)
}
