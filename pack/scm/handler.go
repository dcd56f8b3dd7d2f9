package scm

import (
	"io"

	"github.com/mogaika/scstudio/config"
	"github.com/mogaika/scstudio/pack"
	"github.com/mogaika/scstudio/utils"
)

func init() {
	pack.SetHandler(".SCM", func(src utils.ResourceSource, r *io.SectionReader) (interface{}, error) {
		return Decode(r, config.GetDialect())
	})
}
