// Package assets resolves widget HTML bodies from a directory of build output.
//
// For a widget named N the loader prefers the exact file N.html. Otherwise it
// picks the lexicographically last file matching N-*.html, which lets a build
// pipeline emit content-hashed filenames without a manifest.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	serrors "github.com/wagiedev/pizzaz-mcp-go/internal/errors"
)

// Loader resolves widget HTML from a file system. It is safe for concurrent use.
type Loader struct {
	fsys fs.FS
	dir  string
}

// NewDirLoader creates a Loader rooted at dir on the local file system.
func NewDirLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir), dir: dir}
}

// NewFSLoader creates a Loader over fsys. The name is only used in errors.
func NewFSLoader(fsys fs.FS, name string) *Loader {
	return &Loader{fsys: fsys, dir: name}
}

// Dir returns the directory name the loader reports in errors.
func (l *Loader) Dir() string {
	return l.dir
}

// Resolve returns the HTML body for the widget called name.
//
// Returns an *errors.AssetMissingError when the root is unreadable or no file
// matches.
func (l *Loader) Resolve(name string) ([]byte, error) {
	if _, err := fs.Stat(l.fsys, "."); err != nil {
		return nil, &serrors.AssetMissingError{Name: name, Dir: l.dir, Err: fmt.Errorf("missing assets: %w", err)}
	}

	direct := name + ".html"

	data, err := fs.ReadFile(l.fsys, direct)
	if err == nil {
		return data, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return nil, &serrors.AssetMissingError{Name: name, Dir: l.dir, Err: err}
	}

	candidates, err := l.Candidates(name)
	if err != nil {
		return nil, &serrors.AssetMissingError{Name: name, Dir: l.dir, Err: err}
	}

	if len(candidates) == 0 {
		return nil, &serrors.AssetMissingError{Name: name, Dir: l.dir}
	}

	last := candidates[len(candidates)-1]

	data, err = fs.ReadFile(l.fsys, last)
	if err != nil {
		return nil, &serrors.AssetMissingError{Name: name, Dir: l.dir, Err: err}
	}

	return data, nil
}

// Candidates returns the versioned files for name in ascending order.
func (l *Loader) Candidates(name string) ([]string, error) {
	matches, err := fs.Glob(l.fsys, name+"-*.html")
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", name, err)
	}

	slices.Sort(matches)

	return matches, nil
}
