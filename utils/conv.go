package utils

import (
	"bytes"

	"github.com/pkg/errors"
	"golang.org/x/text/transform"

	"github.com/mogaika/scstudio/config"
)

// BytesToString decodes bs up to the first nul byte using the configured
// code page.
func BytesToString(bs []byte) (string, error) {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		return "", errors.Wrapf(err, "Failed to decode %q", bs[0:n])
	}
	return string(s), nil
}

// StringToBytes encodes s with the configured code page, optionally
// appending a nul terminator.
func StringToBytes(s string, nilTerminate bool) ([]byte, error) {
	if i := bytes.IndexByte([]byte(s), 0); i >= 0 {
		return nil, errors.Errorf("String %q contains nul byte at %d", s, i)
	}

	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to encode %q", s)
	}

	if nilTerminate {
		bs = append(bs, 0)
	}
	return bs, nil
}
