package vfs

import (
	"io"
	"os"
	path_ "path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type DirectoryDriver struct {
	path string
}

func (dd *DirectoryDriver) Init(parent Directory) {}

func (dd *DirectoryDriver) Name() string {
	return path_.Base(dd.path)
}

func (dd *DirectoryDriver) IsDirectory() bool {
	return true
}

func (dd *DirectoryDriver) List() ([]string, error) {
	entries, err := os.ReadDir(dd.path)
	if err != nil {
		return nil, errors.Wrapf(err, "Error getting directory '%s' info", dd.path)
	}
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Name())
	}
	sort.Strings(result)
	return result, nil
}

// resolve finds name in the directory, falling back to a case-insensitive
// match since unit files are referenced with inconsistent case.
func (dd *DirectoryDriver) resolve(name string) (string, os.FileInfo, error) {
	newPath := path_.Join(dd.path, name)
	s, err := os.Stat(newPath)
	if err == nil {
		return newPath, s, nil
	}
	if !os.IsNotExist(err) {
		return "", nil, errors.Wrapf(err, "Stat '%s'", newPath)
	}

	if entries, lerr := os.ReadDir(dd.path); lerr == nil {
		for _, e := range entries {
			if strings.EqualFold(e.Name(), name) {
				newPath = path_.Join(dd.path, e.Name())
				if s, err := os.Stat(newPath); err == nil {
					return newPath, s, nil
				}
			}
		}
	}
	return "", nil, errors.Wrapf(ErrFileNotFound, "'%s' in '%s'", name, dd.path)
}

func (dd *DirectoryDriver) GetElement(name string) (Element, error) {
	newPath, s, err := dd.resolve(name)
	if err != nil {
		return nil, err
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

func (dd *DirectoryDriver) Add(e Element) error {
	path := path_.Join(dd.path, e.Name())
	if e.IsDirectory() {
		return os.Mkdir(path, os.ModePerm)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return errors.Wrapf(err, "file '%s' creation failure", path)
	}
	e.Init(dd)
	return f.Close()
}

func (dd *DirectoryDriver) Remove(name string) error {
	return os.Remove(path_.Join(dd.path, name))
}

func (dd *DirectoryDriver) Path() string {
	return dd.path
}

func NewDirectoryDriver(path string) *DirectoryDriver {
	return &DirectoryDriver{path: path}
}

type DirectoryDriverFile struct {
	path string
	f    *os.File
}

func NewDirectoryDriverFile(path string) *DirectoryDriverFile {
	return &DirectoryDriverFile{
		path: path,
	}
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
	stat, err := os.Stat(ddf.path)
	if err != nil {
		return 0
	}
	return stat.Size()
}

func (ddf *DirectoryDriverFile) Open(readonly bool) error {
	if ddf.f != nil {
		return errors.Errorf("File '%s' already opened", ddf.path)
	}

	flags := os.O_RDWR
	if readonly {
		flags = os.O_RDONLY
	}

	f, err := os.OpenFile(ddf.path, flags, 0)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrFileNotFound, "'%s'", ddf.path)
		}
		return errors.Wrapf(err, "os.Open('%s')", ddf.path)
	}
	ddf.f = f
	return nil
}

func (ddf *DirectoryDriverFile) Close() error {
	if ddf.f != nil {
		if err := ddf.f.Close(); err != nil {
			return errors.Wrapf(err, "os.File.Close()")
		}
		ddf.f = nil
	}
	return nil
}

func (ddf *DirectoryDriverFile) Reader() (*io.SectionReader, error) {
	if ddf.f == nil {
		return nil, errors.Errorf("First you need to open file")
	}
	return io.NewSectionReader(ddf.f, 0, ddf.Size()), nil
}

func (ddf *DirectoryDriverFile) ReadAt(b []byte, off int64) (n int, err error) {
	if ddf.f == nil {
		return 0, errors.Errorf("First you need to open file")
	}
	return ddf.f.ReadAt(b, off)
}

func (ddf *DirectoryDriverFile) Copy(src io.Reader) error {
	ddf.Close()

	f, err := os.Create(ddf.path)
	if err != nil {
		return errors.Wrapf(err, "os.Create('%s')", ddf.path)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return errors.Wrapf(err, "io.Copy(...)")
	}
	return f.Close()
}
