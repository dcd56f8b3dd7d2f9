package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type BlueprintSettings struct {
	// Resolve comments in the tokenizer instead of the per line strip, so
	// '#' and '--' inside quoted strings survive.
	QuoteAwareComments bool `yaml:"quote_aware_comments"`
}

type Settings struct {
	Addr      string            `yaml:"addr"`
	Dir       string            `yaml:"dir"`
	Dialect   string            `yaml:"dialect"`
	Encoding  string            `yaml:"encoding"`
	Blueprint BlueprintSettings `yaml:"blueprint"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Addr:     ":8000",
		Dialect:  DialectDefault.Name,
		Encoding: GetEncoding().String(),
	}
}

func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read settings file %q", path)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrapf(err, "Unmarshaling settings %q", path)
	}
	return s, nil
}

var blueprintSettings BlueprintSettings

func GetBlueprintSettings() BlueprintSettings {
	return blueprintSettings
}

func SetBlueprintSettings(bs BlueprintSettings) {
	blueprintSettings = bs
}

// Apply pushes dialect, encoding and blueprint choices into the package globals.
func (s *Settings) Apply() error {
	SetBlueprintSettings(s.Blueprint)
	if s.Dialect != "" {
		d, err := DialectByName(s.Dialect)
		if err != nil {
			return err
		}
		if err := SetDialect(d); err != nil {
			return err
		}
	}
	if s.Encoding != "" {
		if err := SetEncoding(s.Encoding); err != nil {
			return err
		}
	}
	return nil
}
