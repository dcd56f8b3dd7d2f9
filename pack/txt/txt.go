package txt

import (
	"io"
	"io/ioutil"

	"github.com/mogaika/scstudio/pack"
	"github.com/mogaika/scstudio/utils"
)

// Txt is a plain text file shipped next to unit data (scripts, notes).
type Txt string

func Load(r io.Reader) (Txt, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return "", err
	}
	s, err := utils.BytesToString(data)
	return Txt(s), err
}

func init() {
	h := func(p utils.ResourceSource, r *io.SectionReader) (interface{}, error) {
		return Load(r)
	}
	pack.SetHandler(".TXT", h)
	pack.SetHandler(".LUA", h)
}
