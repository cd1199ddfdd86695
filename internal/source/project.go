package source

import (
	"context"
	"fmt"

	fragments "github.com/hanpama/gqlshape/internal/fragments"
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// Project is the validated input of one generation run.
type Project struct {
	Schema *schema.Schema
	// Operations holds the operations of document files in file order.
	// Operations in external files are not generated.
	Operations language.OperationList
	Fragments  *fragments.Table
	Files      []*File
}

// Load reads every discovered file, validates documents against the schema
// and collects fragments from documents and external files into one table.
func Load(ctx context.Context, d Discovery) (*Project, error) {
	files, err := d.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	var schemaSources, docSources []*language.Source
	kinds := make(map[string]Kind, len(files))
	for _, f := range files {
		content, err := d.ReadFile(ctx, f.Path)
		if err != nil {
			return nil, err
		}
		src := &language.Source{Name: f.Path, Input: content}
		kinds[f.Path] = f.Kind
		if f.Kind == KindSchema {
			schemaSources = append(schemaSources, src)
		} else {
			docSources = append(docSources, src)
		}
	}
	if len(schemaSources) == 0 {
		return nil, fmt.Errorf("no schema files found")
	}

	order, err := schema.DeclarationOrder(schemaSources...)
	if err != nil {
		return nil, asValidationError(err)
	}
	raw, err := language.LoadSchema(schemaSources...)
	if err != nil {
		return nil, asValidationError(err)
	}
	project := &Project{
		Schema:    schema.BuildFromAST(raw, order),
		Fragments: fragments.NewTable(),
		Files:     files,
	}
	if len(docSources) == 0 {
		return project, nil
	}

	doc, err := language.LoadDocuments(raw, docSources...)
	if err != nil {
		return nil, asValidationError(err)
	}
	for _, op := range doc.Operations {
		if kinds[sourceName(op.Position)] == KindExternal {
			continue
		}
		project.Operations = append(project.Operations, op)
	}
	for _, def := range doc.Fragments {
		external := kinds[sourceName(def.Position)] == KindExternal
		if err := project.Fragments.Add(def, external); err != nil {
			return nil, err
		}
	}
	return project, nil
}

func sourceName(pos *language.Position) string {
	if pos == nil || pos.Src == nil {
		return ""
	}
	return pos.Src.Name
}
