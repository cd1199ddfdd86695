package source

import (
	"context"
	"sort"
)

type Kind int

const (
	// KindSchema files hold SDL.
	KindSchema Kind = iota
	// KindDocument files hold the operations and fragments to generate.
	KindDocument
	// KindExternal files hold fragments that documents may spread but that
	// are generated elsewhere.
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindDocument:
		return "document"
	case KindExternal:
		return "external"
	}
	return "unknown"
}

type File struct {
	Path string
	Kind Kind
}

// Discovery finds the GraphQL files of one generation run.
type Discovery interface {
	ListFiles(ctx context.Context) ([]*File, error)
	ReadFile(ctx context.Context, path string) (string, error)
}

func sortFiles(files []*File) {
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Kind != files[j].Kind {
			return files[i].Kind < files[j].Kind
		}
		return files[i].Path < files[j].Path
	})
}
