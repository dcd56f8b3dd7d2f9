package config

import (
	"strings"

	"github.com/pkg/errors"
)

// Dialect describes the layout conventions that changed between revisions
// of the model and animation containers. Both codecs take it explicitly so
// independent files can be decoded in parallel.
type Dialect struct {
	Name string `yaml:"name"`
	// Section alignment, 16 or 32 bytes.
	Stride int `yaml:"stride"`
	// Fill byte of the padding gaps.
	PadByte byte `yaml:"pad_byte"`
	// Treat PadByte as a string terminator when reading name tables.
	SentinelTerminatesStrings bool `yaml:"sentinel_terminates_strings"`
	// Animation frame data starts with one identity root record.
	RootSentinelFrame bool `yaml:"root_sentinel_frame"`
}

const PAD_BYTE = 0xc5

// DialectDefault matches the files shipped with the retail game: 32 byte
// alignment, 0xC5 fill and the leading root record in animations.
var DialectDefault = Dialect{
	Name:                      "default",
	Stride:                    32,
	PadByte:                   PAD_BYTE,
	SentinelTerminatesStrings: true,
	RootSentinelFrame:         true,
}

// DialectStride16 is the older 16 byte aligned revision. Its animations
// have no root record, frame data starts right at the frames offset.
var DialectStride16 = Dialect{
	Name:                      "stride16",
	Stride:                    16,
	PadByte:                   PAD_BYTE,
	SentinelTerminatesStrings: true,
	RootSentinelFrame:         false,
}

var dialects = []Dialect{DialectDefault, DialectStride16}

func (d Dialect) Validate() error {
	if d.Stride != 16 && d.Stride != 32 {
		return errors.Errorf("Dialect %q: unsupported stride %d", d.Name, d.Stride)
	}
	return nil
}

func DialectByName(name string) (Dialect, error) {
	for _, d := range dialects {
		if strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return Dialect{}, errors.Errorf("Failed to find dialect %q", name)
}

func ListDialects() []string {
	list := make([]string, 0, len(dialects))
	for _, d := range dialects {
		list = append(list, d.Name)
	}
	return list
}

var currentDialect = DialectDefault

func GetDialect() Dialect {
	return currentDialect
}

func SetDialect(d Dialect) error {
	if err := d.Validate(); err != nil {
		return err
	}
	currentDialect = d
	return nil
}
