package source

import (
	"context"
	"fmt"
)

type InMemoryFile struct {
	Path    string
	Kind    Kind
	Content string
}

// InMemoryDiscovery serves files held in memory, mostly for tests.
type InMemoryDiscovery struct {
	files    []*File
	contents map[string]string
}

func NewInMemoryDiscovery(files []InMemoryFile) *InMemoryDiscovery {
	d := &InMemoryDiscovery{contents: make(map[string]string)}
	for _, f := range files {
		d.files = append(d.files, &File{Path: f.Path, Kind: f.Kind})
		d.contents[f.Path] = f.Content
	}
	sortFiles(d.files)
	return d
}

func (d *InMemoryDiscovery) ListFiles(ctx context.Context) ([]*File, error) {
	return append([]*File(nil), d.files...), nil
}

func (d *InMemoryDiscovery) ReadFile(ctx context.Context, path string) (string, error) {
	content, ok := d.contents[path]
	if !ok {
		return "", fmt.Errorf("file %q not found", path)
	}
	return content, nil
}
