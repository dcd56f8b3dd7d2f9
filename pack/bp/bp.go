package bp

import (
	"io"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/mogaika/scstudio/blueprint"
	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/pack"
	"github.com/mogaika/scstudio/utils"
)

func Options() blueprint.Options {
	return blueprint.Options{
		QuoteAwareComments: config.GetBlueprintSettings().QuoteAwareComments,
	}
}

func Load(r io.Reader) (*blueprint.Document, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read blueprint")
	}
	return blueprint.Parse(data, Options())
}

func init() {
	h := func(src utils.ResourceSource, r *io.SectionReader) (interface{}, error) {
		return Load(r)
	}
	pack.SetHandler(".BP", h)
}
