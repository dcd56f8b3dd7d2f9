package pack

import (
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/utils"
	"github.com/mogaika/scstudio/vfs"
)

var ErrNoHandler = errors.New("No handler for extension")

type FileLoader func(src utils.ResourceSource, r *io.SectionReader) (interface{}, error)

var gHandlers map[string]FileLoader = make(map[string]FileLoader, 0)

func SetHandler(format string, ldr FileLoader) {
	gHandlers[strings.ToUpper(format)] = ldr
}

func HasHandler(fileName string) bool {
	_, found := gHandlers[strings.ToUpper(filepath.Ext(fileName))]
	return found
}

func ListHandlers() []string {
	result := make([]string, 0, len(gHandlers))
	for ext := range gHandlers {
		result = append(result, ext)
	}
	sort.Strings(result)
	return result
}

func CallHandler(s utils.ResourceSource, r *io.SectionReader) (interface{}, error) {
	ext := strings.ToUpper(filepath.Ext(s.Name()))

	if h, found := gHandlers[ext]; found {
		return h(s, r)
	}
	return nil, errors.Wrapf(ErrNoHandler, "'%s'", ext)
}

type PackResSrc struct {
	pf vfs.File
	d  vfs.Directory
}

func (s *PackResSrc) Name() string {
	return s.pf.Name()
}

func (s *PackResSrc) Size() int64 {
	return s.pf.Size()
}

func (s *PackResSrc) Save(in io.Reader) error {
	f, err := vfs.DirectoryGetFile(s.d, s.pf.Name())
	if err != nil {
		return errors.Wrapf(err, "[pack] Cannot get file '%s'", s.pf.Name())
	}
	return vfs.OpenFileAndCopy(f, in)
}

func GetInstanceHandler(d vfs.Directory, fileName string) (interface{}, error) {
	f, err := vfs.DirectoryGetFile(d, fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Cannot get file '%s'", fileName)
	}

	r, err := vfs.OpenFileAndGetReader(f, true)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Cannot get instance of '%s'", fileName)
	}
	defer f.Close()

	inst, err := CallHandler(&PackResSrc{d: d, pf: f}, r)
	if err != nil {
		return nil, errors.Wrapf(err, "[pack] Handler error on '%s'", fileName)
	}

	return inst, nil
}
