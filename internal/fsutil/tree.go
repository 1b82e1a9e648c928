// Package fsutil holds the directory-tree operations the profile service needs.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Tree creates, removes and copies on-disk profile directories.
type Tree interface {
	// CreateTree creates root and each subdirectory beneath it.
	CreateTree(root string, subdirs ...string) error
	// RemoveAll deletes path recursively. A missing path is not an error.
	RemoveAll(path string) error
	// CopyIfExists copies each named file from srcDir to dstDir, skipping
	// names that do not exist in srcDir. Returns the names actually copied.
	CopyIfExists(srcDir, dstDir string, names ...string) ([]string, error)
}

// OS implements Tree on the local filesystem.
type OS struct {
	DirPerm fs.FileMode
}

// NewOS returns an OS tree using 0o755 for new directories.
func NewOS() *OS {
	return &OS{DirPerm: 0o755}
}

func (o *OS) perm() fs.FileMode {
	if o.DirPerm == 0 {
		return 0o755
	}
	return o.DirPerm
}

// CreateTree makes root and each subdir beneath it.
func (o *OS) CreateTree(root string, subdirs ...string) error {
	if root == "" {
		return errors.New("create tree: empty root")
	}
	if err := os.MkdirAll(root, o.perm()); err != nil {
		return fmt.Errorf("create %s: %w", root, err)
	}
	for _, sub := range subdirs {
		dir := filepath.Join(root, sub)
		if err := os.MkdirAll(dir, o.perm()); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// RemoveAll deletes path recursively. Empty and root paths are refused.
func (o *OS) RemoveAll(path string) error {
	if path == "" || path == string(filepath.Separator) {
		return fmt.Errorf("refusing to remove %q", path)
	}
	return os.RemoveAll(path)
}

// CopyIfExists copies the named files that exist in srcDir into dstDir and
// returns the names it copied.
func (o *OS) CopyIfExists(srcDir, dstDir string, names ...string) ([]string, error) {
	if _, err := os.Stat(srcDir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	copied := make([]bool, len(names))
	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			ok, err := o.copyFile(filepath.Join(srcDir, name), filepath.Join(dstDir, name))
			copied[i] = ok
			return err
		})
	}
	err := g.Wait()

	var out []string
	for i, ok := range copied {
		if ok {
			out = append(out, names[i])
		}
	}
	return out, err
}

func (o *OS) copyFile(src, dst string) (bool, error) {
	in, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), o.perm()); err != nil {
		return false, err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return false, fmt.Errorf("copy %s: %w", src, err)
	}
	return true, out.Close()
}
