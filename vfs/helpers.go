package vfs

import (
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

// OpenFileAndGetReader opens f for reading. The caller closes f when done
// with the reader.
func OpenFileAndGetReader(f File, readonly bool) (*io.SectionReader, error) {
	if err := f.Open(readonly); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", f.Name())
	}
	r, err := f.Reader()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "Cannot get file '%s' reader", f.Name())
	}
	return r, nil
}

func OpenFileAndCopy(f File, src io.Reader) error {
	if err := f.Open(false); err != nil {
		return errors.Wrapf(err, "Cannot open file '%s'", f.Name())
	}
	defer f.Close()
	if err := f.Copy(src); err != nil {
		return errors.Wrapf(err, "Cannot copy data to file '%s'", f.Name())
	}
	return nil
}

func DirectoryGetFile(d Directory, name string) (File, error) {
	e, err := d.GetElement(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", name)
	}
	f, ok := e.(File)
	if !ok {
		return nil, errors.Errorf("File '%s' is directory, not a file!", name)
	}
	return f, nil
}

func DirectoryGetDirectory(d Directory, name string) (Directory, error) {
	e, err := d.GetElement(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open directory '%s'", name)
	}
	dir, ok := e.(Directory)
	if !ok {
		return nil, errors.Errorf("'%s' is a file, not a directory", name)
	}
	return dir, nil
}

// ReadFile returns the whole content of name. The handle is closed on every
// path.
func ReadFile(d Directory, name string) ([]byte, error) {
	f, err := DirectoryGetFile(d, name)
	if err != nil {
		return nil, err
	}
	r, err := OpenFileAndGetReader(f, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file '%s'", name)
	}
	return data, nil
}

// WriteFile creates or truncates name and fills it with data from src.
func WriteFile(d Directory, name string, src io.Reader) error {
	f := NewDirectoryDriverFile(name)
	if err := d.Add(f); err != nil {
		return errors.Wrapf(err, "Cannot create file '%s'", name)
	}
	created, err := DirectoryGetFile(d, name)
	if err != nil {
		return err
	}
	return OpenFileAndCopy(created, src)
}

func Exists(d Directory, name string) bool {
	_, err := d.GetElement(name)
	return err == nil
}
