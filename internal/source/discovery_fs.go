package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

var (
	schemaExts   = map[string]bool{".graphqls": true, ".graphql": true, ".gql": true}
	documentExts = map[string]bool{".graphql": true, ".gql": true}
)

// Roots lists the files or directories to search, per kind.
type Roots struct {
	Schema    []string
	Documents []string
	External  []string
}

// FileSystemDiscovery implements Discovery over local paths. Directories are
// walked recursively; files named directly are taken regardless of their
// extension.
type FileSystemDiscovery struct {
	files []*File
}

func NewFileSystemDiscovery(ctx context.Context, roots Roots) (*FileSystemDiscovery, error) {
	if len(roots.Schema) == 0 {
		return nil, fmt.Errorf("no schema path given")
	}
	d := &FileSystemDiscovery{}
	seen := make(map[string]bool)
	add := func(kind Kind, exts map[string]bool, root string) error {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("failed to stat %q: %w", root, err)
		}
		if !info.IsDir() {
			if !seen[root] {
				seen[root] = true
				d.files = append(d.files, &File{Path: root, Kind: kind})
			}
			return nil
		}
		err = filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || !exts[filepath.Ext(entry.Name())] || seen[path] {
				return nil
			}
			seen[path] = true
			d.files = append(d.files, &File{Path: path, Kind: kind})
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk directory %q: %w", root, err)
		}
		return nil
	}

	for _, root := range roots.Schema {
		if err := add(KindSchema, schemaExts, root); err != nil {
			return nil, err
		}
	}
	for _, root := range roots.Documents {
		if err := add(KindDocument, documentExts, root); err != nil {
			return nil, err
		}
	}
	for _, root := range roots.External {
		if err := add(KindExternal, documentExts, root); err != nil {
			return nil, err
		}
	}
	sortFiles(d.files)
	return d, nil
}

func (d *FileSystemDiscovery) ListFiles(ctx context.Context) ([]*File, error) {
	return append([]*File(nil), d.files...), nil
}

func (d *FileSystemDiscovery) ReadFile(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return string(content), nil
}
