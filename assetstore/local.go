package assetstore

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	ifs "github.com/hupe1980/terse/internal/fs"
	"github.com/hupe1980/terse/internal/mmap"
)

// Local is a Store backed by a directory. Asset names use forward slashes
// and map to paths below the root.
type Local struct {
	root string
	fs   ifs.FileSystem
}

var _ Store = (*Local)(nil)

// NewLocal returns a store rooted at root.
func NewLocal(root string) *Local {
	return NewLocalFS(root, ifs.LocalFS{})
}

// NewLocalFS returns a store rooted at root that performs file operations
// through fsys.
func NewLocalFS(root string, fsys ifs.FileSystem) *Local {
	return &Local{root: root, fs: fsys}
}

func (s *Local) path(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if name == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Newf("assetstore: invalid asset name %q", name)
	}
	return filepath.Join(s.root, clean), nil
}

// Get reads the asset through a read-only mapping.
func (s *Local) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Open(p)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	return append([]byte{}, m.Bytes()...), nil
}

// Put writes the asset atomically: data goes to a temporary file in the
// same directory, which is synced and then renamed over name.
func (s *Local) Put(ctx context.Context, name string, data []byte) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := s.fs.CreateTemp(dir, ".asset-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = s.fs.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return s.fs.Rename(tmp, p)
}

// List walks the root and returns the sorted asset names starting with
// prefix. Temporary files are skipped.
func (s *Local) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && p == s.root {
				return filepath.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), ".asset-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		if name := filepath.ToSlash(rel); hasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes the asset file.
func (s *Local) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
