package stream

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// OpenFile reads the whole file at path into a Memory, unpacking it from
// the container selected by c.
func OpenFile(path string, c Compression, opts ...Option) (*Memory, error) {
	o := applyOptions(opts)
	f, err := o.fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	data, err := Decompress(raw, c)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress %s", path)
	}
	o.logger.Debug("file loaded", "path", path, "compression", c.String(),
		"stored_bytes", len(raw), "bytes", len(data))
	return NewMemoryFrom(data), nil
}

// SaveFile writes the contents of m to path, packed into the container
// selected by c. The data goes to a temporary file in the same directory
// that is synced and renamed over path, so path always holds either the old
// or the new document.
func SaveFile(path string, m *Memory, c Compression, opts ...Option) (err error) {
	o := applyOptions(opts)
	data, err := Compress(m.Bytes(), c, opts...)
	if err != nil {
		return errors.Wrapf(err, "compress %s", path)
	}

	dir := filepath.Dir(path)
	if err := o.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", dir)
	}
	tmp, err := o.fs.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", path)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = o.fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrapf(err, "write %s", tmpName)
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrapf(err, "sync %s", tmpName)
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmpName)
	}
	if err = o.fs.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "rename %s", tmpName)
	}
	o.logger.Debug("file saved", "path", path, "compression", c.String(),
		"bytes", m.Len(), "stored_bytes", len(data))
	return nil
}
