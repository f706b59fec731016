package vfs

import (
	"io"
	"os"
	path_ "path"

	"github.com/pkg/errors"
)

// DirectoryDriver exposes an on-disk directory as a vfs.Directory.
type DirectoryDriver struct {
	path string
}

func NewDirectoryDriver(path string) *DirectoryDriver {
	return &DirectoryDriver{path: path}
}

func (dd *DirectoryDriver) Init(parent Directory) {}

func (dd *DirectoryDriver) Name() string {
	return path_.Base(dd.path)
}

func (dd *DirectoryDriver) IsDirectory() bool {
	return true
}

func (dd *DirectoryDriver) Path() string {
	return dd.path
}

func (dd *DirectoryDriver) List() ([]string, error) {
	entries, err := os.ReadDir(dd.path)
	if err != nil {
		return nil, errors.Wrapf(err, "listing directory %q", dd.path)
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Name())
	}
	return result, nil
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	newPath := path_.Join(dd.path, name)
	s, err := os.Stat(newPath)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %q", newPath)
	}
	var e Element
	if s.IsDir() {
		e = NewDirectoryDriver(newPath)
	} else {
		e = NewDirectoryDriverFile(newPath)
	}
	e.Init(dd)
	return e, nil
}

// DirectoryDriverFile is a lazily-opened file inside a DirectoryDriver.
type DirectoryDriverFile struct {
	path string
	f    *os.File
}

func NewDirectoryDriverFile(path string) *DirectoryDriverFile {
	return &DirectoryDriverFile{path: path}
}

func (ddf *DirectoryDriverFile) Init(parent Directory) {
	if dd, ok := parent.(*DirectoryDriver); ok {
		ddf.path = path_.Join(dd.path, path_.Base(ddf.path))
	}
}

func (ddf *DirectoryDriverFile) Name() string {
	return path_.Base(ddf.path)
}

func (ddf *DirectoryDriverFile) IsDirectory() bool {
	return false
}

func (ddf *DirectoryDriverFile) Size() int64 {
	if s, err := os.Stat(ddf.path); err == nil {
		return s.Size()
	}
	return 0
}

func (ddf *DirectoryDriverFile) Open() error {
	f, err := os.Open(ddf.path)
	if err != nil {
		return errors.Wrapf(err, "opening %q", ddf.path)
	}
	ddf.f = f
	return nil
}

func (ddf *DirectoryDriverFile) Close() error {
	if ddf.f == nil {
		return nil
	}
	err := ddf.f.Close()
	ddf.f = nil
	return err
}

func (ddf *DirectoryDriverFile) Reader() (*io.SectionReader, error) {
	if ddf.f == nil {
		return nil, errors.Errorf("file %q is not opened", ddf.path)
	}
	s, err := ddf.f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %q", ddf.path)
	}
	return io.NewSectionReader(ddf.f, 0, s.Size()), nil
}

func (ddf *DirectoryDriverFile) ReadAt(b []byte, off int64) (int, error) {
	if ddf.f == nil {
		return 0, errors.Errorf("file %q is not opened", ddf.path)
	}
	return ddf.f.ReadAt(b, off)
}
